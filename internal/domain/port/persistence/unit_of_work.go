package persistence

import (
	"context"
)

// UnitOfWork coordinates writes across the balance store, the ledger and
// the rollback records so they commit or fail as one atomic unit.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a ledger repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetRollbackRepository returns a rollback repository bound to the current transaction
	GetRollbackRepository(ctx context.Context) RollbackRepository
}
