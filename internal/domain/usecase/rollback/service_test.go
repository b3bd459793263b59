package rollback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	ledgerUseCase "github.com/mentorhub/points-ledger/internal/domain/usecase/ledger"
	"github.com/mentorhub/points-ledger/internal/infrastructure/adapter/repository/memory"
	coremocks "github.com/mentorhub/points-ledger/mocks/port/core"
	persistencemocks "github.com/mentorhub/points-ledger/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin  = entity.Actor{ID: 3, Role: entity.RoleAdmin}
	system = entity.Actor{ID: 4, Role: entity.RoleSystem}
	member = entity.Actor{ID: 7, Role: entity.RoleMember}
)

type fixture struct {
	ledger   *ledgerUseCase.Service
	rollback *Service
	store    *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	mockLogger := new(coremocks.MockLogger)
	mockLogger.On("Debug", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Info", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Warn", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Error", mock.Anything, mock.Anything).Maybe()

	store := memory.NewStore(mockTime)
	gate := auth.NewGate()

	user, err := entity.NewUser(7, 0, 0, mockTime)
	require.NoError(t, err)
	require.NoError(t, store.GetUserRepository(context.Background()).Create(context.Background(), user))

	return &fixture{
		ledger:   ledgerUseCase.NewService(store, gate, mockTime, mockLogger),
		rollback: NewService(store, gate, mockTime, mockLogger),
		store:    store,
	}
}

func (f *fixture) award(t *testing.T, amount int64) *entity.Transaction {
	t.Helper()
	txn, err := f.ledger.Append(context.Background(), system, ledgerUseCase.AppendRequest{
		UserID: 7,
		Kind:   entity.KindPoints,
		Amount: amount,
		Reason: "event check-in",
		Source: entity.SourceEvent,
	})
	require.NoError(t, err)
	return txn
}

func TestService_Rollback(t *testing.T) {
	ctx := context.Background()

	t.Run("Reversal restores the balance and keeps the original entry", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		record, err := f.rollback.Rollback(ctx, admin, Request{
			TransactionID: txn.ID,
			Kind:          entity.KindPoints,
			Reason:        "checked in by mistake",
		})

		require.NoError(t, err)
		assert.Equal(t, txn.ID, record.TransactionID)
		assert.Equal(t, uint64(7), record.SubjectUserID)
		assert.Equal(t, admin.ID, record.AdminID)

		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)

		// The original is untouched and a compensating entry exists.
		userID := uint64(7)
		txns, total, err := f.ledger.ListTransactions(ctx, admin, persistence.TransactionFilter{UserID: &userID}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, entity.SourceRollback, txns[0].Source)
		assert.Equal(t, int64(-10), txns[0].Amount)
		assert.Equal(t, txn.ID, txns[1].ID)
		assert.Equal(t, int64(10), txns[1].Amount)
	})

	t.Run("Second rollback of the same transaction is rejected", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindPoints, Reason: "first"})
		require.NoError(t, err)

		_, err = f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindPoints, Reason: "second"})

		assert.ErrorIs(t, err, errs.ErrAlreadyRolledBack)

		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)
	})

	t.Run("Concurrent rollbacks succeed exactly once", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		const attempts = 10
		results := make(chan error, attempts)
		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				_, err := f.rollback.Rollback(ctx, admin, Request{
					TransactionID: txn.ID,
					Kind:          entity.KindPoints,
					Reason:        "duplicate attempt",
				})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, rejected int
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, errs.ErrAlreadyRolledBack)
				rejected++
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, attempts-1, rejected)

		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)

		report, err := f.ledger.Reconcile(ctx, admin, 7)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
	})

	t.Run("Unknown transaction is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: 999, Kind: entity.KindPoints, Reason: "r"})

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("Kind mismatch is treated as not found", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindExperience, Reason: "r"})

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("Blank reason is rejected after the transaction is located", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindPoints, Reason: "   "})

		assert.ErrorIs(t, err, errs.ErrEmptyReason)

		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance.Points)
	})

	t.Run("Reversing an award the user already spent fails cleanly", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		// Spend the awarded points before the rollback arrives.
		_, err := f.ledger.Append(ctx, system, ledgerUseCase.AppendRequest{
			UserID: 7,
			Kind:   entity.KindPoints,
			Amount: -8,
			Reason: "shop purchase",
			Source: entity.SourceManual,
		})
		require.NoError(t, err)

		_, err = f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindPoints, Reason: "undo"})

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

		// The failed reversal left nothing behind, so a later attempt works.
		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2), balance.Points)

		records, total, err := f.rollback.ListRollbacks(ctx, admin, persistence.RollbackFilter{}, persistence.Page{})
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, int64(0), total)
	})

	t.Run("Rollback of a deduction restores the points", func(t *testing.T) {
		f := newFixture(t)
		f.award(t, 10)

		deduction, err := f.ledger.Append(ctx, system, ledgerUseCase.AppendRequest{
			UserID: 7,
			Kind:   entity.KindPoints,
			Amount: -6,
			Reason: "shop purchase",
			Source: entity.SourceManual,
		})
		require.NoError(t, err)

		_, err = f.rollback.Rollback(ctx, admin, Request{TransactionID: deduction.ID, Kind: entity.KindPoints, Reason: "refund"})
		require.NoError(t, err)

		balance, err := f.ledger.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance.Points)
	})

	t.Run("Unauthorized actors are denied before any lookup", func(t *testing.T) {
		mockUow := new(persistencemocks.MockUnitOfWork)
		mockTime := new(coremocks.MockTimeProvider)
		mockLogger := new(coremocks.MockLogger)

		svc := NewService(mockUow, auth.NewGate(), mockTime, mockLogger)

		for _, actor := range []entity.Actor{member, system} {
			_, err := svc.Rollback(context.Background(), actor, Request{TransactionID: 1, Kind: entity.KindPoints, Reason: "r"})
			assert.ErrorIs(t, err, errs.ErrUnauthorized)
		}

		mockUow.AssertNotCalled(t, "Begin")
		mockUow.AssertNotCalled(t, "GetTransactionRepository")
	})

	t.Run("Invalid kind is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: 1, Kind: "karma", Reason: "r"})

		assert.ErrorIs(t, err, errs.ErrInvalidKind)
	})
}

func TestService_ListRollbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns rollback history for admins", func(t *testing.T) {
		f := newFixture(t)
		first := f.award(t, 10)
		second := f.award(t, 5)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: first.ID, Kind: entity.KindPoints, Reason: "undo first"})
		require.NoError(t, err)
		_, err = f.rollback.Rollback(ctx, admin, Request{TransactionID: second.ID, Kind: entity.KindPoints, Reason: "undo second"})
		require.NoError(t, err)

		records, total, err := f.rollback.ListRollbacks(ctx, admin, persistence.RollbackFilter{}, persistence.Page{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, records, 2)
		assert.Equal(t, second.ID, records[0].TransactionID)
		assert.Equal(t, first.ID, records[1].TransactionID)
	})

	t.Run("Members are denied", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.rollback.ListRollbacks(ctx, member, persistence.RollbackFilter{}, persistence.Page{})

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("Admin filter narrows the history", func(t *testing.T) {
		f := newFixture(t)
		txn := f.award(t, 10)

		_, err := f.rollback.Rollback(ctx, admin, Request{TransactionID: txn.ID, Kind: entity.KindPoints, Reason: "undo"})
		require.NoError(t, err)

		adminID := admin.ID
		_, total, err := f.rollback.ListRollbacks(ctx, admin, persistence.RollbackFilter{AdminID: &adminID}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		other := uint64(99)
		_, total, err = f.rollback.ListRollbacks(ctx, admin, persistence.RollbackFilter{AdminID: &other}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
