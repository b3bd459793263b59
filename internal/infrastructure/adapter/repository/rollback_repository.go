package repository

import (
	"context"
	"fmt"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// RollbackRepository implements persistence.RollbackRepository using GORM
type RollbackRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewRollbackRepository creates a new RollbackRepository instance
func NewRollbackRepository(db *gorm.DB, logger coreport.Logger) *RollbackRepository {
	return &RollbackRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a rollback row to a domain entity
func (r *RollbackRepository) modelToEntity(rollbackModel *model.Rollback) *entity.RollbackRecord {
	return &entity.RollbackRecord{
		ID:              rollbackModel.ID,
		TransactionID:   rollbackModel.TransactionID,
		TransactionKind: entity.Kind(rollbackModel.TransactionKind),
		SubjectUserID:   rollbackModel.SubjectUserID,
		AdminID:         rollbackModel.AdminID,
		Reason:          rollbackModel.Reason,
		CreatedAt:       rollbackModel.CreatedAt,
	}
}

// Create writes a new rollback record. A unique-constraint violation on
// (transaction_id, transaction_kind) means another rollback won the race
// for the same transaction; it surfaces as ErrAlreadyRolledBack, never
// as a generic storage fault.
func (r *RollbackRepository) Create(ctx context.Context, record *entity.RollbackRecord) error {
	rollbackModel := model.Rollback{
		TransactionID:   record.TransactionID,
		TransactionKind: string(record.TransactionKind),
		SubjectUserID:   record.SubjectUserID,
		AdminID:         record.AdminID,
		Reason:          record.Reason,
		CreatedAt:       record.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&rollbackModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate rollback attempt rejected by constraint", map[string]any{
				"transaction_id":   record.TransactionID,
				"transaction_kind": record.TransactionKind,
				"admin_id":         record.AdminID,
			})
			return errs.NewAlreadyRolledBackError(record.TransactionID, string(record.TransactionKind))
		}
		r.logger.Error("Failed to create rollback record", map[string]any{
			"transaction_id": record.TransactionID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	record.ID = rollbackModel.ID
	return nil
}

// ExistsForTransaction checks whether a rollback record already references
// the transaction
func (r *RollbackRepository) ExistsForTransaction(ctx context.Context, transactionID uint64, kind entity.Kind) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Rollback{}).
		Where("transaction_id = ? AND transaction_kind = ?", transactionID, string(kind)).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count > 0, nil
}

// List returns a page of rollback records matching the filter, newest first
func (r *RollbackRepository) List(ctx context.Context, filter persistence.RollbackFilter, page persistence.Page) ([]*entity.RollbackRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Rollback{})
	if filter.SubjectUserID != nil {
		query = query.Where("subject_user_id = ?", *filter.SubjectUserID)
	}
	if filter.AdminID != nil {
		query = query.Where("admin_id = ?", *filter.AdminID)
	}
	if filter.Kind != nil {
		query = query.Where("transaction_kind = ?", string(*filter.Kind))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	var rows []model.Rollback
	err := query.
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	records := make([]*entity.RollbackRecord, 0, len(rows))
	for i := range rows {
		records = append(records, r.modelToEntity(&rows[i]))
	}
	return records, total, nil
}
