package model

import (
	"time"
)

// User represents the database row backing the balance store
type User struct {
	ID               uint64    `gorm:"primaryKey"`
	Points           int64     `gorm:"not null"`
	Experience       int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	TransactionCount uint64    `gorm:"default:0"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
