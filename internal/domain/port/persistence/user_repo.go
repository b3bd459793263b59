package persistence

import (
	"context"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
)

// UserRepository defines access to the balance store. Balances are only
// ever mutated through ApplyDelta, and only from inside a unit of work
// that also appends the matching ledger transaction.
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// Create creates a new user row
	//
	// Possible errors:
	// - ErrDuplicateUser: If user with same ID already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// ApplyDelta adds a signed amount to one of the user's balances under
	// an exclusive row lock, serializing concurrent changes to the same
	// user. Returns the updated user.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrInsufficientBalance: If the change would leave the balance negative
	// - ErrDatabaseConnection: If database connection fails
	ApplyDelta(ctx context.Context, userID uint64, kind entity.Kind, amount int64) (*entity.User, error)
}
