package entity

import (
	"testing"
	"time"

	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coremocks "github.com/mentorhub/points-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(fixedTime)

	t.Run("Valid award", func(t *testing.T) {
		txn, err := NewTransaction(1, KindPoints, 10, "event check-in", SourceEvent, 42, mockTime)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), txn.UserID)
		assert.Equal(t, KindPoints, txn.Kind)
		assert.Equal(t, int64(10), txn.Amount)
		assert.Equal(t, "event check-in", txn.Reason)
		assert.Equal(t, SourceEvent, txn.Source)
		assert.Equal(t, uint64(42), txn.ActorID)
		assert.Equal(t, fixedTime, txn.CreatedAt)
		assert.True(t, txn.IsAward())
		assert.False(t, txn.IsDeduction())
	})

	t.Run("Valid deduction", func(t *testing.T) {
		txn, err := NewTransaction(1, KindExperience, -5, "penalty", SourceManual, 42, mockTime)

		require.NoError(t, err)
		assert.True(t, txn.IsDeduction())
		assert.False(t, txn.IsAward())
	})

	t.Run("Zero user ID should return error", func(t *testing.T) {
		txn, err := NewTransaction(0, KindPoints, 10, "reason", SourceEvent, 42, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		assert.Nil(t, txn)
	})

	t.Run("Zero actor ID should return error", func(t *testing.T) {
		txn, err := NewTransaction(1, KindPoints, 10, "reason", SourceEvent, 0, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidActorID)
		assert.Nil(t, txn)
	})

	t.Run("Zero amount should return error", func(t *testing.T) {
		txn, err := NewTransaction(1, KindPoints, 0, "reason", SourceEvent, 42, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, txn)
	})

	t.Run("Blank reason should return error", func(t *testing.T) {
		for _, reason := range []string{"", "   ", "\t\n"} {
			txn, err := NewTransaction(1, KindPoints, 10, reason, SourceEvent, 42, mockTime)

			assert.ErrorIs(t, err, errs.ErrEmptyReason)
			assert.Nil(t, txn)
		}
	})

	t.Run("Unknown kind should return error", func(t *testing.T) {
		txn, err := NewTransaction(1, Kind("karma"), 10, "reason", SourceEvent, 42, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidKind)
		assert.Nil(t, txn)
	})

	t.Run("Unknown source should return error", func(t *testing.T) {
		txn, err := NewTransaction(1, KindPoints, 10, "reason", Source("lottery"), 42, mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidSource)
		assert.Nil(t, txn)
	})
}

func TestTransactionCompensation(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(fixedTime)

	t.Run("Negates the amount and tags the rollback source", func(t *testing.T) {
		original, err := NewTransaction(7, KindPoints, 10, "event check-in", SourceEvent, 42, mockTime)
		require.NoError(t, err)
		original.ID = 99

		comp, err := original.Compensation(3, "checked in by mistake", mockTime)

		require.NoError(t, err)
		assert.Equal(t, original.UserID, comp.UserID)
		assert.Equal(t, original.Kind, comp.Kind)
		assert.Equal(t, int64(-10), comp.Amount)
		assert.Equal(t, SourceRollback, comp.Source)
		assert.Equal(t, uint64(3), comp.ActorID)
		assert.Equal(t, "reversal of transaction 99: checked in by mistake", comp.Reason)
	})

	t.Run("Deduction compensates into an award", func(t *testing.T) {
		original, err := NewTransaction(7, KindExperience, -20, "penalty", SourceManual, 42, mockTime)
		require.NoError(t, err)
		original.ID = 100

		comp, err := original.Compensation(3, "penalty was wrong", mockTime)

		require.NoError(t, err)
		assert.Equal(t, int64(20), comp.Amount)
		assert.True(t, comp.IsAward())
	})
}

func TestIsValidKind(t *testing.T) {
	assert.True(t, IsValidKind("points"))
	assert.True(t, IsValidKind("experience"))
	assert.False(t, IsValidKind("karma"))
	assert.False(t, IsValidKind(""))
}

func TestIsValidSource(t *testing.T) {
	for _, source := range []string{"event", "report", "manual", "orientation", "rollback"} {
		assert.True(t, IsValidSource(source), source)
	}
	assert.False(t, IsValidSource("lottery"))
	assert.False(t, IsValidSource(""))
}
