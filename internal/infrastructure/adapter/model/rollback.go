package model

import (
	"time"
)

// Rollback represents the database row for a rollback audit record. The
// composite unique index over (transaction_id, transaction_kind) is the
// storage-level guard that makes rollback at-most-once even under
// concurrent attempts; application checks are only a fast path.
type Rollback struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID   uint64    `gorm:"not null;uniqueIndex:ux_rollbacks_txn_kind"`
	TransactionKind string    `gorm:"not null;size:20;uniqueIndex:ux_rollbacks_txn_kind"`
	SubjectUserID   uint64    `gorm:"not null;index"`
	AdminID         uint64    `gorm:"not null;index"`
	Reason          string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for Rollback
func (Rollback) TableName() string {
	return "rollbacks"
}
