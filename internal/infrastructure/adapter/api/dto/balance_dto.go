package dto

// BalanceResponse represents the API response for a user's balances
type BalanceResponse struct {
	UserID     uint64 `json:"userId"`
	Points     int64  `json:"points"`
	Experience int64  `json:"experience"`
}

// BalanceCheckResponse compares a stored balance against the ledger sum
type BalanceCheckResponse struct {
	Stored   int64 `json:"stored"`
	Replayed int64 `json:"replayed"`
}

// ReconcileResponse represents the outcome of replaying a user's ledger
type ReconcileResponse struct {
	UserID     uint64               `json:"userId"`
	Points     BalanceCheckResponse `json:"points"`
	Experience BalanceCheckResponse `json:"experience"`
	Consistent bool                 `json:"consistent"`
}
