// Package memory provides an in-memory implementation of the persistence
// ports, used by tests and local development. It honors the same
// contracts as the database-backed store: snapshot-based atomic units of
// work, the unique rollback constraint, and serialized balance changes.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
)

type userRow struct {
	id               uint64
	points           int64
	experience       int64
	createdAt        time.Time
	updatedAt        time.Time
	transactionCount uint64
}

type rollbackKey struct {
	transactionID uint64
	kind          entity.Kind
}

// state is everything a unit of work can touch. Begin snapshots it;
// Rollback restores the snapshot wholesale.
type state struct {
	users             map[uint64]userRow
	transactions      []entity.Transaction
	rollbacks         []entity.RollbackRecord
	rollbackKeys      map[rollbackKey]bool
	nextTransactionID uint64
	nextRollbackID    uint64
}

func newState() *state {
	return &state{
		users:             make(map[uint64]userRow),
		rollbackKeys:      make(map[rollbackKey]bool),
		nextTransactionID: 1,
		nextRollbackID:    1,
	}
}

func (s *state) clone() *state {
	c := &state{
		users:             make(map[uint64]userRow, len(s.users)),
		transactions:      make([]entity.Transaction, len(s.transactions)),
		rollbacks:         make([]entity.RollbackRecord, len(s.rollbacks)),
		rollbackKeys:      make(map[rollbackKey]bool, len(s.rollbackKeys)),
		nextTransactionID: s.nextTransactionID,
		nextRollbackID:    s.nextRollbackID,
	}
	for id, row := range s.users {
		c.users[id] = row
	}
	copy(c.transactions, s.transactions)
	copy(c.rollbacks, s.rollbacks)
	for k := range s.rollbackKeys {
		c.rollbackKeys[k] = true
	}
	return c
}

// Store is the in-memory unit-of-work provider. A single mutex serializes
// units of work, which trivially gives them the same all-or-nothing
// visibility a database transaction provides.
type Store struct {
	mu           sync.Mutex
	state        *state
	timeProvider coreport.TimeProvider
}

// NewStore creates an empty in-memory store.
func NewStore(timeProvider coreport.TimeProvider) *Store {
	return &Store{
		state:        newState(),
		timeProvider: timeProvider,
	}
}

type txnKey struct{}

type txn struct {
	store    *Store
	snapshot *state
	done     bool
}

func txnFrom(ctx context.Context) *txn {
	t, _ := ctx.Value(txnKey{}).(*txn)
	return t
}

// Begin starts a unit of work, blocking until any in-flight unit finishes.
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return ctx, err
	}
	s.mu.Lock()
	t := &txn{store: s, snapshot: s.state.clone()}
	return context.WithValue(ctx, txnKey{}, t), nil
}

// Commit makes the unit of work's changes visible.
func (s *Store) Commit(ctx context.Context) error {
	t := txnFrom(ctx)
	if t == nil || t.done {
		return errors.New("no active unit of work in context")
	}
	t.done = true
	s.mu.Unlock()
	return nil
}

// Rollback discards the unit of work's changes. Calling it after Commit
// is a no-op so deferred cleanup is always safe.
func (s *Store) Rollback(ctx context.Context) error {
	t := txnFrom(ctx)
	if t == nil {
		return errors.New("no active unit of work in context")
	}
	if t.done {
		return nil
	}
	s.state = t.snapshot
	t.done = true
	s.mu.Unlock()
	return nil
}

// GetUserRepository returns a user repository bound to the current unit
// of work, or to the live store when none is active.
func (s *Store) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return &userRepo{store: s, tx: txnFrom(ctx)}
}

// GetTransactionRepository returns a ledger repository bound to the
// current unit of work, or to the live store when none is active.
func (s *Store) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return &transactionRepo{store: s, tx: txnFrom(ctx)}
}

// GetRollbackRepository returns a rollback repository bound to the
// current unit of work, or to the live store when none is active.
func (s *Store) GetRollbackRepository(ctx context.Context) persistence.RollbackRepository {
	return &rollbackRepo{store: s, tx: txnFrom(ctx)}
}

// with runs fn against the current state, locking only when the caller
// is outside a unit of work (inside one, the store mutex is already held).
func (s *Store) with(tx *txn, fn func(st *state) error) error {
	if tx != nil && !tx.done {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) userEntity(row userRow) (*entity.User, error) {
	user, err := entity.NewUser(row.id, row.points, row.experience, s.timeProvider)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = row.createdAt
	user.UpdatedAt = row.updatedAt
	user.TransactionCount = row.transactionCount
	return user, nil
}

type userRepo struct {
	store *Store
	tx    *txn
}

func (r *userRepo) GetByID(_ context.Context, id uint64) (*entity.User, error) {
	var user *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		row, ok := st.users[id]
		if !ok {
			return errs.ErrUserNotFound
		}
		var convErr error
		user, convErr = r.store.userEntity(row)
		return convErr
	})
	return user, err
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	return r.store.with(r.tx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return errs.ErrDuplicateUser
		}
		st.users[user.ID] = userRow{
			id:               user.ID,
			points:           user.Points(),
			experience:       user.Experience(),
			createdAt:        user.CreatedAt,
			updatedAt:        user.UpdatedAt,
			transactionCount: user.TransactionCount,
		}
		return nil
	})
}

func (r *userRepo) ApplyDelta(_ context.Context, userID uint64, kind entity.Kind, amount int64) (*entity.User, error) {
	var user *entity.User
	err := r.store.with(r.tx, func(st *state) error {
		row, ok := st.users[userID]
		if !ok {
			return errs.ErrUserNotFound
		}
		current := row.points
		if kind == entity.KindExperience {
			current = row.experience
		}
		next := current + amount
		if next < 0 {
			return errs.NewInsufficientBalanceError(userID, string(kind), amount, current)
		}
		if kind == entity.KindExperience {
			row.experience = next
		} else {
			row.points = next
		}
		row.transactionCount++
		row.updatedAt = r.store.timeProvider.Now()
		st.users[userID] = row

		var convErr error
		user, convErr = r.store.userEntity(row)
		return convErr
	})
	return user, err
}

type transactionRepo struct {
	store *Store
	tx    *txn
}

func (r *transactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	return r.store.with(r.tx, func(st *state) error {
		if _, ok := st.users[transaction.UserID]; !ok {
			return errs.ErrUserNotFound
		}
		transaction.ID = st.nextTransactionID
		st.nextTransactionID++
		st.transactions = append(st.transactions, *transaction)
		return nil
	})
}

func (r *transactionRepo) GetByID(_ context.Context, id uint64, kind entity.Kind) (*entity.Transaction, error) {
	var found *entity.Transaction
	err := r.store.with(r.tx, func(st *state) error {
		for i := range st.transactions {
			if st.transactions[i].ID == id && st.transactions[i].Kind == kind {
				copied := st.transactions[i]
				found = &copied
				return nil
			}
		}
		return errs.ErrTransactionNotFound
	})
	return found, err
}

func (r *transactionRepo) List(_ context.Context, filter persistence.TransactionFilter, page persistence.Page) ([]*entity.Transaction, int64, error) {
	var result []*entity.Transaction
	var total int64
	err := r.store.with(r.tx, func(st *state) error {
		var matched []entity.Transaction
		for _, t := range st.transactions {
			if filter.UserID != nil && t.UserID != *filter.UserID {
				continue
			}
			if filter.Kind != nil && t.Kind != *filter.Kind {
				continue
			}
			if filter.Source != nil && t.Source != *filter.Source {
				continue
			}
			matched = append(matched, t)
		}
		total = int64(len(matched))
		// Newest first: the backing slice is append-ordered.
		for i := len(matched) - 1 - page.Offset; i >= 0 && len(result) < page.Limit; i-- {
			copied := matched[i]
			result = append(result, &copied)
		}
		return nil
	})
	return result, total, err
}

func (r *transactionRepo) SumByUser(_ context.Context, userID uint64, kind entity.Kind) (int64, error) {
	var sum int64
	err := r.store.with(r.tx, func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID && t.Kind == kind {
				sum += t.Amount
			}
		}
		return nil
	})
	return sum, err
}

type rollbackRepo struct {
	store *Store
	tx    *txn
}

func (r *rollbackRepo) Create(_ context.Context, record *entity.RollbackRecord) error {
	return r.store.with(r.tx, func(st *state) error {
		key := rollbackKey{transactionID: record.TransactionID, kind: record.TransactionKind}
		if st.rollbackKeys[key] {
			return errs.NewAlreadyRolledBackError(record.TransactionID, string(record.TransactionKind))
		}
		record.ID = st.nextRollbackID
		st.nextRollbackID++
		st.rollbackKeys[key] = true
		st.rollbacks = append(st.rollbacks, *record)
		return nil
	})
}

func (r *rollbackRepo) ExistsForTransaction(_ context.Context, transactionID uint64, kind entity.Kind) (bool, error) {
	var exists bool
	err := r.store.with(r.tx, func(st *state) error {
		exists = st.rollbackKeys[rollbackKey{transactionID: transactionID, kind: kind}]
		return nil
	})
	return exists, err
}

func (r *rollbackRepo) List(_ context.Context, filter persistence.RollbackFilter, page persistence.Page) ([]*entity.RollbackRecord, int64, error) {
	var result []*entity.RollbackRecord
	var total int64
	err := r.store.with(r.tx, func(st *state) error {
		var matched []entity.RollbackRecord
		for _, rec := range st.rollbacks {
			if filter.SubjectUserID != nil && rec.SubjectUserID != *filter.SubjectUserID {
				continue
			}
			if filter.AdminID != nil && rec.AdminID != *filter.AdminID {
				continue
			}
			if filter.Kind != nil && rec.TransactionKind != *filter.Kind {
				continue
			}
			matched = append(matched, rec)
		}
		total = int64(len(matched))
		for i := len(matched) - 1 - page.Offset; i >= 0 && len(result) < page.Limit; i-- {
			copied := matched[i]
			result = append(result, &copied)
		}
		return nil
	})
	return result, total, err
}

var _ persistence.UnitOfWork = (*Store)(nil)
