package model

import (
	"time"
)

// SchemaVersion records applied schema migrations
type SchemaVersion struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Version     string    `gorm:"not null;size:20"`
	Description string    `gorm:"size:255"`
	AppliedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for SchemaVersion
func (SchemaVersion) TableName() string {
	return "schema_versions"
}
