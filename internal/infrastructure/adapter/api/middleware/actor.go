package middleware

import (
	"net/http"
	"strconv"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	domainerr "github.com/mentorhub/points-ledger/internal/domain/error"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const (
	// ActorIDHeader carries the authenticated caller's user ID
	ActorIDHeader = "X-Actor-ID"
	// ActorRoleHeader carries the authenticated caller's role
	ActorRoleHeader = "X-Actor-Role"

	actorKey = "actor"
)

// Actor extracts the caller identity set by the upstream auth layer. Every
// ledger endpoint requires it; requests without a valid identity never
// reach a handler.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.GetHeader(ActorIDHeader)
		roleParam := c.GetHeader(ActorRoleHeader)
		if idParam == "" || roleParam == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
				Message: "Missing required headers: X-Actor-ID, X-Actor-Role",
			})
			return
		}

		actorID, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil || actorID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidActorID),
				Message: "Invalid actor ID format",
			})
			return
		}

		if !entity.IsValidRole(roleParam) {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRole),
				Message: "Invalid actor role. Must be one of: admin, system, member",
			})
			return
		}

		c.Set(actorKey, entity.Actor{ID: actorID, Role: entity.Role(roleParam)})
		c.Next()
	}
}

// ActorFromContext returns the actor stored by the Actor middleware.
func ActorFromContext(c *gin.Context) entity.Actor {
	actor, _ := c.Get(actorKey)
	if a, ok := actor.(entity.Actor); ok {
		return a
	}
	return entity.Actor{}
}
