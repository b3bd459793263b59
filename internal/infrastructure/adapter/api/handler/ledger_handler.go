package handler

import (
	"net/http"
	"strconv"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	domainerr "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	ledgerUseCase "github.com/mentorhub/points-ledger/internal/domain/usecase/ledger"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles transaction ledger HTTP requests
type LedgerHandler struct {
	ledgerService *ledgerUseCase.Service
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerService *ledgerUseCase.Service, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// AppendTransaction handles the POST /users/{userId}/transactions endpoint
func (h *LedgerHandler) AppendTransaction(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.AppendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid transaction request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	actor := middleware.ActorFromContext(c)
	txn, err := h.ledgerService.Append(c.Request.Context(), actor, ledgerUseCase.AppendRequest{
		UserID: userID,
		Kind:   entity.Kind(req.Kind),
		Amount: req.Amount,
		Reason: req.Reason,
		Source: entity.Source(req.Source),
	})
	if err != nil {
		h.logger.Error("Error appending transaction", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromTransaction(txn))
}

// GetBalance handles the GET /users/{userId}/balance endpoint
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), actor, userID)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:     balance.UserID,
		Points:     balance.Points,
		Experience: balance.Experience,
	})
}

// ListTransactions handles the GET /transactions endpoint
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	filter, ok := parseTransactionFilter(c)
	if !ok {
		return
	}
	page := parsePage(c)

	actor := middleware.ActorFromContext(c)
	txns, total, err := h.ledgerService.ListTransactions(c.Request.Context(), actor, filter, page)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	page = page.Normalize()
	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: dto.FromTransactions(txns),
		Total:        total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
}

// Reconcile handles the GET /users/{userId}/reconcile endpoint
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	report, err := h.ledgerService.Reconcile(c.Request.Context(), actor, userID)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{
		UserID:     report.UserID,
		Points:     dto.BalanceCheckResponse{Stored: report.Points.Stored, Replayed: report.Points.Replayed},
		Experience: dto.BalanceCheckResponse{Stored: report.Experience.Stored, Replayed: report.Experience.Replayed},
		Consistent: report.Consistent,
	})
}

// parseUserID extracts and validates the userId path parameter, writing
// the error response itself on failure
func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

// parsePage extracts limit/offset query parameters
func parsePage(c *gin.Context) persistence.Page {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return persistence.Page{Limit: limit, Offset: offset}
}

// parseTransactionFilter extracts filter query parameters, writing the
// error response itself on failure
func parseTransactionFilter(c *gin.Context) (persistence.TransactionFilter, bool) {
	var filter persistence.TransactionFilter

	if userIDParam := c.Query("userId"); userIDParam != "" {
		userID, err := strconv.ParseUint(userIDParam, 10, 64)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
				Message: "Invalid user ID format",
			})
			return filter, false
		}
		filter.UserID = &userID
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

	if sourceParam := c.Query("source"); sourceParam != "" {
		if !entity.IsValidSource(sourceParam) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidSource),
				Message: "Invalid source",
			})
			return filter, false
		}
		source := entity.Source(sourceParam)
		filter.Source = &source
	}

	return filter, true
}
