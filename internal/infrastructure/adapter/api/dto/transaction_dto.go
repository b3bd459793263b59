package dto

import (
	"time"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
)

// AppendTransactionRequest represents the API request for recording a
// point or experience change
type AppendTransactionRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=points experience"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason" binding:"required"`
	Source string `json:"source" binding:"required,oneof=event report manual orientation"`
}

// TransactionResponse represents a single ledger entry
type TransactionResponse struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	Source    string    `json:"source"`
	ActorID   uint64    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionListResponse represents a page of ledger entries
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// FromTransaction maps a domain transaction to its API representation
func FromTransaction(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Kind:      string(t.Kind),
		Amount:    t.Amount,
		Reason:    t.Reason,
		Source:    string(t.Source),
		ActorID:   t.ActorID,
		CreatedAt: t.CreatedAt,
	}
}

// FromTransactions maps a slice of domain transactions
func FromTransactions(txns []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, FromTransaction(t))
	}
	return out
}
