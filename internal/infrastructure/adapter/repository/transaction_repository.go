package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a ledger entity to a database row
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:        transaction.ID,
		UserID:    transaction.UserID,
		Kind:      string(transaction.Kind),
		Amount:    transaction.Amount,
		Reason:    transaction.Reason,
		Source:    string(transaction.Source),
		ActorID:   transaction.ActorID,
		CreatedAt: transaction.CreatedAt,
	}
}

// modelToEntity converts a database row to a ledger entity
func (r *TransactionRepository) modelToEntity(transactionModel *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:        transactionModel.ID,
		UserID:    transactionModel.UserID,
		Kind:      entity.Kind(transactionModel.Kind),
		Amount:    transactionModel.Amount,
		Reason:    transactionModel.Reason,
		Source:    entity.Source(transactionModel.Source),
		ActorID:   transactionModel.ActorID,
		CreatedAt: transactionModel.CreatedAt,
	}
}

// Create appends a new ledger row and writes the storage ID back onto
// the entity. Ledger rows are never updated afterwards.
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsForeignKeyError(result.Error) {
			r.logger.Warn("Transaction references unknown user", map[string]any{
				"user_id": transaction.UserID,
			})
			return errs.ErrUserNotFound
		}
		r.logger.Error("Failed to append transaction", map[string]any{
			"user_id": transaction.UserID,
			"kind":    transaction.Kind,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transaction.ID = transactionModel.ID
	return nil
}

// GetByID retrieves a transaction by its ID and kind
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64, kind entity.Kind) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, string(kind)).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": id,
			"kind":           kind,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// List returns a page of transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter, page persistence.Page) ([]*entity.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.Source != nil {
		query = query.Where("source = ?", string(*filter.Source))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	var rows []model.Transaction
	err := query.
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, r.modelToEntity(&rows[i]))
	}
	return transactions, total, nil
}

// SumByUser replays the ledger for one user and kind
func (r *TransactionRepository) SumByUser(ctx context.Context, userID uint64, kind entity.Kind) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return sum, nil
}
