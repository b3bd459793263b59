package model

import (
	"time"
)

// Transaction represents the database row for a ledger entry. Rows are
// insert-only; nothing in the application updates or deletes them.
type Transaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	Kind      string    `gorm:"not null;size:20;index"`
	Amount    int64     `gorm:"not null"`
	Reason    string    `gorm:"type:text;not null"`
	Source    string    `gorm:"not null;size:30;index"`
	ActorID   uint64    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
