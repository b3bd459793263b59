package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	ledgerUseCase "github.com/mentorhub/points-ledger/internal/domain/usecase/ledger"
	rollbackUseCase "github.com/mentorhub/points-ledger/internal/domain/usecase/rollback"

	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/database"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/logger"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/mentorhub/points-ledger/internal/infrastructure/adapter/time"
	"github.com/mentorhub/points-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	migrationMgr := migration.NewManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if cfg.Ledger.SeedUsers {
		userRepo := repository.NewUserRepository(dbManager.DB(), tp, appLogger)
		if err := migration.SeedUsers(context.Background(), userRepo, tp); err != nil {
			appLogger.Error("Failed to seed users", map[string]any{
				"error": err.Error(),
			})
		}
	}

	uow := database.NewUnitOfWork(dbManager.DB(), appLogger, tp)
	gate := auth.NewGate()

	ledgerService := ledgerUseCase.NewService(uow, gate, tp, appLogger)
	rollbackService := rollbackUseCase.NewService(uow, gate, tp, appLogger)

	ledgerHandler := handler.NewLedgerHandler(ledgerService, appLogger)
	rollbackHandler := handler.NewRollbackHandler(rollbackService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, ledgerHandler, rollbackHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missing = append(missing, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missing = append(missing, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missing = append(missing, "database.host (or PL_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missing = append(missing, "database.username (or PL_DB_USERNAME environment variable)")
	}
	if cfg.Database.Database == "" {
		missing = append(missing, "database.database (or PL_DB_NAME environment variable)")
	}
	if cfg.Database.QueryTimeout == 0 {
		missing = append(missing, "database.queryTimeout")
	}

	if cfg.Logger.Level == "" {
		missing = append(missing, "logger.level")
	}

	if cfg.Environment == "" {
		missing = append(missing, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}
	return nil
}
