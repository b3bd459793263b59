package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user row to a domain entity
func (r *UserRepository) modelToEntity(userModel *model.User) (*entity.User, error) {
	user, err := entity.NewUser(userModel.ID, userModel.Points, userModel.Experience, r.timeProvider)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to rebuild user entity: %s", errs.ErrInternalServer, err.Error())
	}
	user.CreatedAt = userModel.CreatedAt
	user.UpdatedAt = userModel.UpdatedAt
	user.TransactionCount = userModel.TransactionCount
	return user, nil
}

// handleDatabaseError translates driver faults into domain errors
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{"user_id": userID})
		return errs.ErrUserNotFound
	}
	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate user operation", map[string]any{"user_id": userID})
		return errs.ErrDuplicateUser
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}
	return r.modelToEntity(&userModel)
}

// Create creates a new user row
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		ID:               user.ID,
		Points:           user.Points(),
		Experience:       user.Experience(),
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
		TransactionCount: user.TransactionCount,
	}

	result := r.db.WithContext(ctx).Create(&userModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error, user.ID)
	}

	r.logger.Info("User created", map[string]any{
		"user_id":    user.ID,
		"points":     user.Points(),
		"experience": user.Experience(),
	})
	return nil
}

// ApplyDelta adds a signed amount to one of the user's balances under an
// exclusive row lock. The SELECT ... FOR UPDATE serializes concurrent
// changes to the same user so no update is ever lost; changes to
// different users proceed fully in parallel.
func (r *UserRepository) ApplyDelta(ctx context.Context, userID uint64, kind entity.Kind, amount int64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&userModel, userID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking user", result.Error, userID)
	}

	current := userModel.Points
	if kind == entity.KindExperience {
		current = userModel.Experience
	}
	next := current + amount
	if next < 0 {
		r.logger.Warn("Change would leave balance negative", map[string]any{
			"user_id": userID,
			"kind":    kind,
			"amount":  amount,
			"current": current,
		})
		return nil, errs.NewInsufficientBalanceError(userID, string(kind), amount, current)
	}

	updates := map[string]any{
		"updated_at":        r.timeProvider.Now(),
		"transaction_count": userModel.TransactionCount + 1,
	}
	if kind == entity.KindExperience {
		userModel.Experience = next
		updates["experience"] = next
	} else {
		userModel.Points = next
		updates["points"] = next
	}
	userModel.TransactionCount++

	result = r.db.WithContext(ctx).Model(&userModel).Updates(updates)
	if result.Error != nil {
		return nil, r.handleDatabaseError("updating balance", result.Error, userID)
	}

	return r.modelToEntity(&userModel)
}
