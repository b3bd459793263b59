package handler

import (
	"net/http"

	domainerr "github.com/mentorhub/points-ledger/internal/domain/error"
)

// httpStatus maps domain errors onto HTTP status codes
func httpStatus(err error) int {
	switch {
	case domainerr.IsValidationError(err), domainerr.IsInsufficientBalanceError(err):
		return http.StatusBadRequest
	case domainerr.IsUnauthorizedError(err):
		return http.StatusForbidden
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsAlreadyRolledBackError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
