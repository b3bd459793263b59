package dto

import (
	"time"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
)

// RollbackRequest represents the API request for reversing a transaction
type RollbackRequest struct {
	TransactionID uint64 `json:"transactionId" binding:"required"`
	Kind          string `json:"kind" binding:"required,oneof=points experience"`
	Reason        string `json:"reason" binding:"required"`
}

// RollbackResponse represents a rollback audit record
type RollbackResponse struct {
	ID              uint64    `json:"id"`
	TransactionID   uint64    `json:"transactionId"`
	TransactionKind string    `json:"transactionKind"`
	SubjectUserID   uint64    `json:"subjectUserId"`
	AdminID         uint64    `json:"adminId"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RollbackListResponse represents a page of rollback history
type RollbackListResponse struct {
	Rollbacks []RollbackResponse `json:"rollbacks"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// FromRollbackRecord maps a domain rollback record to its API representation
func FromRollbackRecord(r *entity.RollbackRecord) RollbackResponse {
	return RollbackResponse{
		ID:              r.ID,
		TransactionID:   r.TransactionID,
		TransactionKind: string(r.TransactionKind),
		SubjectUserID:   r.SubjectUserID,
		AdminID:         r.AdminID,
		Reason:          r.Reason,
		CreatedAt:       r.CreatedAt,
	}
}

// FromRollbackRecords maps a slice of domain rollback records
func FromRollbackRecords(records []*entity.RollbackRecord) []RollbackResponse {
	out := make([]RollbackResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromRollbackRecord(r))
	}
	return out
}
