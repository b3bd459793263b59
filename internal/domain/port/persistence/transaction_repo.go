package persistence

import (
	"context"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
)

// TransactionRepository defines access to the append-only ledger.
// There is deliberately no update or delete: transactions are immutable
// historical fact and corrections happen via compensating entries.
type TransactionRepository interface {
	// Create appends a new transaction and fills in its storage ID.
	//
	// Possible errors:
	// - ErrUserNotFound: If the referenced user does not exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction by its ID and kind.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction matches the pair
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64, kind entity.Kind) (*entity.Transaction, error)

	// List returns a page of transactions matching the filter, newest
	// first, along with the total match count.
	List(ctx context.Context, filter TransactionFilter, page Page) ([]*entity.Transaction, int64, error)

	// SumByUser returns the sum of all transaction amounts of the given
	// kind for a user. Replaying the ledger this way must always equal
	// the stored balance.
	SumByUser(ctx context.Context, userID uint64, kind entity.Kind) (int64, error)
}
