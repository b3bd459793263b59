package persistence

import (
	"context"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
)

// RollbackRepository defines access to rollback audit records. The
// storage layer must carry a unique constraint on (transaction ID,
// transaction kind); that constraint, not application logic, is what
// keeps rollback at-most-once under concurrency.
type RollbackRepository interface {
	// Create writes a new rollback record and fills in its storage ID.
	//
	// Possible errors:
	// - ErrAlreadyRolledBack: If a record for the same transaction exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, record *entity.RollbackRecord) error

	// ExistsForTransaction checks whether the transaction already has a
	// rollback record. Advisory fast-path only; Create remains the guard.
	ExistsForTransaction(ctx context.Context, transactionID uint64, kind entity.Kind) (bool, error)

	// List returns a page of rollback records matching the filter, newest
	// first, along with the total match count.
	List(ctx context.Context, filter RollbackFilter, page Page) ([]*entity.RollbackRecord, int64, error)
}
