package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount       = 4001
	CodeEmptyReason         = 4002
	CodeInvalidUserID       = 4003
	CodeInvalidKind         = 4004
	CodeInvalidSource       = 4005
	CodeInsufficientBalance = 4006
	CodeInvalidActorID      = 4007
	CodeUnauthorized        = 4030
	CodeUserNotFound        = 4040
	CodeTransactionNotFound = 4041
	CodeAlreadyRolledBack   = 4090

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidAmount is returned when a transaction amount is zero
	ErrInvalidAmount = errors.New("amount must be non-zero")

	// ErrEmptyReason is returned when a reason is empty or whitespace
	ErrEmptyReason = errors.New("reason must not be empty")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidActorID is returned when the acting identity is missing
	ErrInvalidActorID = errors.New("actor ID must be positive")

	// ErrInvalidKind is returned when the transaction kind is not points or experience
	ErrInvalidKind = errors.New("invalid transaction kind")

	// ErrInvalidSource is returned when the transaction source is unknown
	ErrInvalidSource = errors.New("invalid transaction source")

	// ErrInvalidRole is returned when the supplied actor role is unknown
	ErrInvalidRole = errors.New("invalid actor role")

	// ErrNegativeBalance is returned when an operation would persist a negative balance
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrInsufficientBalance is returned when a deduction exceeds the current balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnauthorized is returned when the actor lacks the required capability
	ErrUnauthorized = errors.New("permission denied")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlreadyRolledBack is returned when a transaction has already been reversed
	ErrAlreadyRolledBack = errors.New("transaction already rolled back")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem reaching the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrEmptyReason):
		return CodeEmptyReason
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidActorID):
		return CodeInvalidActorID
	case errors.Is(err, ErrInvalidKind), errors.Is(err, ErrInvalidRole):
		return CodeInvalidKind
	case errors.Is(err, ErrInvalidSource):
		return CodeInvalidSource
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrNegativeBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrAlreadyRolledBack):
		return CodeAlreadyRolledBack
	default:
		return CodeInternalServer
	}
}

// AlreadyRolledBackError reports a second rollback attempt on a
// transaction that already has a rollback record.
type AlreadyRolledBackError struct {
	TransactionID   uint64
	TransactionKind string
}

// Error implements the error interface
func (e *AlreadyRolledBackError) Error() string {
	return fmt.Sprintf("transaction %d (%s) has already been rolled back",
		e.TransactionID, e.TransactionKind)
}

// Is checks if the target error is ErrAlreadyRolledBack
func (e *AlreadyRolledBackError) Is(target error) bool {
	return target == ErrAlreadyRolledBack
}

// LogFields returns a map of fields for structured logging
func (e *AlreadyRolledBackError) LogFields() map[string]any {
	return map[string]any{
		"error_type":       "already_rolled_back",
		"transaction_id":   e.TransactionID,
		"transaction_kind": e.TransactionKind,
		"error_code":       CodeAlreadyRolledBack,
	}
}

// NewAlreadyRolledBackError creates a detailed duplicate-rollback error
func NewAlreadyRolledBackError(transactionID uint64, kind string) error {
	return &AlreadyRolledBackError{
		TransactionID:   transactionID,
		TransactionKind: kind,
	}
}

// InsufficientBalanceError provides detailed error information when a
// change would drive a balance below zero
type InsufficientBalanceError struct {
	UserID      uint64
	Kind        string
	Amount      int64
	CurrBalance int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance for user %d: change %d, available %d",
		e.Kind, e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"kind":            e.Kind,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, kind string, amount, currentBalance int64) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// LedgerError represents an error while appending a transaction
type LedgerError struct {
	UserID uint64
	Kind   string
	Amount int64
	Source string
	Err    error
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger append failed for user %d (%s %+d from %s): %v",
		e.UserID, e.Kind, e.Amount, e.Source, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"user_id":    e.UserID,
		"kind":       e.Kind,
		"amount":     e.Amount,
		"source":     e.Source,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewLedgerError creates a detailed ledger append error
func NewLedgerError(userID uint64, kind string, amount int64, source string, err error) error {
	return &LedgerError{UserID: userID, Kind: kind, Amount: amount, Source: source, Err: err}
}

// IsValidationError checks if the error rejects malformed input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyReason) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidActorID) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsUnauthorizedError checks if the error is a permission failure
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsAlreadyRolledBackError checks if the error is a duplicate rollback attempt
func IsAlreadyRolledBackError(err error) bool {
	return errors.Is(err, ErrAlreadyRolledBack)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}
