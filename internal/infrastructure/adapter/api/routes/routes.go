package routes

import (
	"net/http"

	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	ledgerHandler *handler.LedgerHandler,
	rollbackHandler *handler.RollbackHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Every ledger endpoint requires the caller identity headers
	authed := router.Group("/", middleware.Actor())
	{
		userRoutes := authed.Group("/users")
		{
			// POST /users/:userId/transactions
			userRoutes.POST("/:userId/transactions", ledgerHandler.AppendTransaction)

			// GET /users/:userId/balance
			userRoutes.GET("/:userId/balance", ledgerHandler.GetBalance)

			// GET /users/:userId/reconcile
			userRoutes.GET("/:userId/reconcile", ledgerHandler.Reconcile)
		}

		// GET /transactions
		authed.GET("/transactions", ledgerHandler.ListTransactions)

		rollbackRoutes := authed.Group("/rollbacks")
		{
			// POST /rollbacks
			rollbackRoutes.POST("", rollbackHandler.Rollback)

			// GET /rollbacks
			rollbackRoutes.GET("", rollbackHandler.ListRollbacks)
		}
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
