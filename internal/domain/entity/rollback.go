package entity

import (
	"strings"
	"time"

	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
)

// RollbackRecord is the permanent audit link between an original
// transaction, its compensating entry, and the admin who authorized the
// reversal. At most one record may exist per (TransactionID,
// TransactionKind) pair; storage enforces this with a unique constraint.
// Records are never updated or deleted.
type RollbackRecord struct {
	ID              uint64
	TransactionID   uint64 // The original transaction being reversed
	TransactionKind Kind
	SubjectUserID   uint64 // User whose balance the reversal affects
	AdminID         uint64 // Admin who performed the rollback
	Reason          string // Free text, required
	CreatedAt       time.Time
}

// NewRollbackRecord builds the audit record for reversing the given
// transaction.
func NewRollbackRecord(original *Transaction, adminID uint64, reason string, timeProvider coreport.TimeProvider) (*RollbackRecord, error) {
	if original == nil || original.ID == 0 {
		return nil, errs.ErrTransactionNotFound
	}
	if adminID == 0 {
		return nil, errs.ErrInvalidActorID
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errs.ErrEmptyReason
	}

	return &RollbackRecord{
		TransactionID:   original.ID,
		TransactionKind: original.Kind,
		SubjectUserID:   original.UserID,
		AdminID:         adminID,
		Reason:          reason,
		CreatedAt:       timeProvider.Now(),
	}, nil
}
