package migration

import (
	"context"
	"errors"

	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Manager applies schema migrations on startup
type Manager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewManager creates a new migration manager
func NewManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll brings the schema up to the current version. AutoMigrate
// also creates the unique index on rollbacks(transaction_id,
// transaction_kind) declared on the model; the rollback engine depends
// on that index existing.
func (m *Manager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.AutoMigrate(&model.SchemaVersion{}); err != nil {
		return err
	}

	currentVersion, err := m.currentVersion(context.Background())
	if err != nil {
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	if err := m.db.AutoMigrate(
		&model.User{},
		&model.Transaction{},
		&model.Rollback{},
	); err != nil {
		m.logger.Error("Failed to migrate models", map[string]any{"error": err.Error()})
		return err
	}

	if err := m.stampVersion(CurrentSchemaVersion, "ledger schema"); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// currentVersion returns the most recently applied schema version
func (m *Manager) currentVersion(ctx context.Context) (string, error) {
	var version model.SchemaVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

// stampVersion records an applied migration
func (m *Manager) stampVersion(version, description string) error {
	return m.db.Create(&model.SchemaVersion{
		Version:     version,
		Description: description,
		AppliedAt:   m.timeProvider.Now(),
	}).Error
}
