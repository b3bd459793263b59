package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
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

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	mockLogger := new(coremocks.MockLogger)
	mockLogger.On("Debug", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Info", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Warn", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Error", mock.Anything, mock.Anything).Maybe()

	store := memory.NewStore(mockTime)
	svc := NewService(store, auth.NewGate(), mockTime, mockLogger)

	user, err := entity.NewUser(7, 0, 0, mockTime)
	require.NoError(t, err)
	require.NoError(t, store.GetUserRepository(context.Background()).Create(context.Background(), user))

	return svc, store
}

func TestService_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("Award writes the transaction and moves the balance together", func(t *testing.T) {
		svc, _ := newTestService(t)

		txn, err := svc.Append(ctx, system, AppendRequest{
			UserID: 7,
			Kind:   entity.KindPoints,
			Amount: 10,
			Reason: "event check-in",
			Source: entity.SourceEvent,
		})

		require.NoError(t, err)
		assert.NotZero(t, txn.ID)

		balance, err := svc.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance.Points)
		assert.Equal(t, int64(0), balance.Experience)
	})

	t.Run("Deduction below zero fails and leaves no trace", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Append(ctx, system, AppendRequest{
			UserID: 7,
			Kind:   entity.KindPoints,
			Amount: -5,
			Reason: "shop purchase",
			Source: entity.SourceManual,
		})
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

		balance, err := svc.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance.Points)

		userID := uint64(7)
		txns, total, err := svc.ListTransactions(ctx, admin, persistence.TransactionFilter{UserID: &userID}, persistence.Page{})
		require.NoError(t, err)
		assert.Empty(t, txns)
		assert.Equal(t, int64(0), total)
	})

	t.Run("Unknown user is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Append(ctx, system, AppendRequest{
			UserID: 999,
			Kind:   entity.KindPoints,
			Amount: 10,
			Reason: "event check-in",
			Source: entity.SourceEvent,
		})

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("Validation failures are rejected before any write", func(t *testing.T) {
		svc, _ := newTestService(t)

		testCases := []struct {
			name     string
			req      AppendRequest
			expected error
		}{
			{"Zero amount", AppendRequest{UserID: 7, Kind: entity.KindPoints, Amount: 0, Reason: "r", Source: entity.SourceEvent}, errs.ErrInvalidAmount},
			{"Blank reason", AppendRequest{UserID: 7, Kind: entity.KindPoints, Amount: 1, Reason: "  ", Source: entity.SourceEvent}, errs.ErrEmptyReason},
			{"Unknown kind", AppendRequest{UserID: 7, Kind: "karma", Amount: 1, Reason: "r", Source: entity.SourceEvent}, errs.ErrInvalidKind},
			{"Unknown source", AppendRequest{UserID: 7, Kind: entity.KindPoints, Amount: 1, Reason: "r", Source: "lottery"}, errs.ErrInvalidSource},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Append(ctx, system, tc.req)
				assert.ErrorIs(t, err, tc.expected)
			})
		}
	})

	t.Run("Member cannot append and nothing is written", func(t *testing.T) {
		mockUow := new(persistencemocks.MockUnitOfWork)
		mockTime := new(coremocks.MockTimeProvider)
		mockLogger := new(coremocks.MockLogger)

		svc := NewService(mockUow, auth.NewGate(), mockTime, mockLogger)

		_, err := svc.Append(ctx, member, AppendRequest{
			UserID: 7,
			Kind:   entity.KindPoints,
			Amount: 10,
			Reason: "event check-in",
			Source: entity.SourceEvent,
		})

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		mockUow.AssertNotCalled(t, "Begin")
	})

	t.Run("Concurrent appends all land and sum correctly", func(t *testing.T) {
		svc, _ := newTestService(t)
		const workers = 25

		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, err := svc.Append(ctx, system, AppendRequest{
					UserID: 7,
					Kind:   entity.KindPoints,
					Amount: 2,
					Reason: "event check-in",
					Source: entity.SourceEvent,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		balance, err := svc.GetBalance(ctx, admin, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(workers*2), balance.Points)

		report, err := svc.Reconcile(ctx, admin, 7)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
	})
}

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("Members may read their own balance", func(t *testing.T) {
		svc, _ := newTestService(t)

		balance, err := svc.GetBalance(ctx, member, 7)

		require.NoError(t, err)
		assert.Equal(t, uint64(7), balance.UserID)
	})

	t.Run("Members may not read someone else's balance", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetBalance(ctx, entity.Actor{ID: 8, Role: entity.RoleMember}, 7)

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("Admins may read anyone's balance", func(t *testing.T) {
		svc, _ := newTestService(t)

		balance, err := svc.GetBalance(ctx, admin, 7)

		require.NoError(t, err)
		assert.Equal(t, uint64(7), balance.UserID)
	})

	t.Run("Zero user ID is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetBalance(ctx, admin, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_ListTransactions(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *Service) {
		t.Helper()
		for _, req := range []AppendRequest{
			{UserID: 7, Kind: entity.KindPoints, Amount: 10, Reason: "event check-in", Source: entity.SourceEvent},
			{UserID: 7, Kind: entity.KindExperience, Amount: 50, Reason: "report approved", Source: entity.SourceReport},
			{UserID: 7, Kind: entity.KindPoints, Amount: 5, Reason: "orientation complete", Source: entity.SourceOrientation},
		} {
			_, err := svc.Append(ctx, system, req)
			require.NoError(t, err)
		}
	}

	t.Run("Admin sees everything newest first", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		txns, total, err := svc.ListTransactions(ctx, admin, persistence.TransactionFilter{}, persistence.Page{})

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, txns, 3)
		assert.Equal(t, entity.SourceOrientation, txns[0].Source)
	})

	t.Run("Kind filter narrows the listing", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		kind := entity.KindPoints
		txns, total, err := svc.ListTransactions(ctx, admin, persistence.TransactionFilter{Kind: &kind}, persistence.Page{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, txn := range txns {
			assert.Equal(t, entity.KindPoints, txn.Kind)
		}
	})

	t.Run("Members may list their own transactions only", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		userID := uint64(7)
		_, total, err := svc.ListTransactions(ctx, member, persistence.TransactionFilter{UserID: &userID}, persistence.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		_, _, err = svc.ListTransactions(ctx, member, persistence.TransactionFilter{}, persistence.Page{})
		assert.ErrorIs(t, err, errs.ErrUnauthorized)

		other := uint64(8)
		_, _, err = svc.ListTransactions(ctx, member, persistence.TransactionFilter{UserID: &other}, persistence.Page{})
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("Pagination clamps and offsets", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		txns, total, err := svc.ListTransactions(ctx, admin, persistence.TransactionFilter{}, persistence.Page{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, txns, 2)

		txns, _, err = svc.ListTransactions(ctx, admin, persistence.TransactionFilter{}, persistence.Page{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh ledger is consistent", func(t *testing.T) {
		svc, _ := newTestService(t)

		report, err := svc.Reconcile(ctx, admin, 7)

		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, int64(0), report.Points.Stored)
		assert.Equal(t, int64(0), report.Points.Replayed)
	})

	t.Run("Appends keep stored and replayed in sync", func(t *testing.T) {
		svc, _ := newTestService(t)

		for _, amount := range []int64{10, 5, -3} {
			_, err := svc.Append(ctx, system, AppendRequest{
				UserID: 7,
				Kind:   entity.KindPoints,
				Amount: amount,
				Reason: "movement",
				Source: entity.SourceManual,
			})
			require.NoError(t, err)
		}

		report, err := svc.Reconcile(ctx, admin, 7)

		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, int64(12), report.Points.Stored)
		assert.Equal(t, int64(12), report.Points.Replayed)
	})

	t.Run("Requires view-all", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Reconcile(ctx, member, 7)

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}
