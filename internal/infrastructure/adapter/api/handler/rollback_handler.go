package handler

import (
	"net/http"
	"strconv"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	domainerr "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	rollbackUseCase "github.com/mentorhub/points-ledger/internal/domain/usecase/rollback"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// RollbackHandler handles rollback HTTP requests
type RollbackHandler struct {
	rollbackService *rollbackUseCase.Service
	logger          coreport.Logger
}

// NewRollbackHandler creates a new rollback handler instance
func NewRollbackHandler(rollbackService *rollbackUseCase.Service, logger coreport.Logger) *RollbackHandler {
	return &RollbackHandler{
		rollbackService: rollbackService,
		logger:          logger,
	}
}

// Rollback handles the POST /rollbacks endpoint
func (h *RollbackHandler) Rollback(c *gin.Context) {
	var req dto.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid rollback request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	actor := middleware.ActorFromContext(c)
	record, err := h.rollbackService.Rollback(c.Request.Context(), actor, rollbackUseCase.Request{
		TransactionID: req.TransactionID,
		Kind:          entity.Kind(req.Kind),
		Reason:        req.Reason,
	})
	if err != nil {
		h.logger.Error("Error rolling back transaction", map[string]any{
			"transaction_id": req.TransactionID,
			"kind":           req.Kind,
			"admin_id":       actor.ID,
			"error":          err.Error(),
		})
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromRollbackRecord(record))
}

// ListRollbacks handles the GET /rollbacks endpoint
func (h *RollbackHandler) ListRollbacks(c *gin.Context) {
	filter, ok := parseRollbackFilter(c)
	if !ok {
		return
	}
	page := parsePage(c)

	actor := middleware.ActorFromContext(c)
	records, total, err := h.rollbackService.ListRollbacks(c.Request.Context(), actor, filter, page)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	page = page.Normalize()
	c.JSON(http.StatusOK, dto.RollbackListResponse{
		Rollbacks: dto.FromRollbackRecords(records),
		Total:     total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
}

// parseRollbackFilter extracts filter query parameters, writing the error
// response itself on failure
func parseRollbackFilter(c *gin.Context) (persistence.RollbackFilter, bool) {
	var filter persistence.RollbackFilter

	if userIDParam := c.Query("userId"); userIDParam != "" {
		userID, err := strconv.ParseUint(userIDParam, 10, 64)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
				Message: "Invalid user ID format",
			})
			return filter, false
		}
		filter.SubjectUserID = &userID
	}

	if adminIDParam := c.Query("adminId"); adminIDParam != "" {
		adminID, err := strconv.ParseUint(adminIDParam, 10, 64)
		if err != nil || adminID == 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidActorID),
				Message: "Invalid admin ID format",
			})
			return filter, false
		}
		filter.AdminID = &adminID
	}

	if kindParam := c.Query("kind"); kindParam != "" {
		if !entity.IsValidKind(kindParam) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidKind),
				Message: "Invalid kind. Must be one of: points, experience",
			})
			return filter, false
		}
		kind := entity.Kind(kindParam)
		filter.Kind = &kind
	}

	return filter, true
}
