package entity

import (
	"testing"
	"time"

	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coremocks "github.com/mentorhub/points-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRollbackRecord(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := new(coremocks.MockTimeProvider)
	mockTime.On("Now").Return(fixedTime)

	original, err := NewTransaction(7, KindPoints, 10, "event check-in", SourceEvent, 42, mockTime)
	require.NoError(t, err)
	original.ID = 99

	t.Run("Valid record", func(t *testing.T) {
		record, err := NewRollbackRecord(original, 3, "checked in by mistake", mockTime)

		require.NoError(t, err)
		assert.Equal(t, uint64(99), record.TransactionID)
		assert.Equal(t, KindPoints, record.TransactionKind)
		assert.Equal(t, uint64(7), record.SubjectUserID)
		assert.Equal(t, uint64(3), record.AdminID)
		assert.Equal(t, "checked in by mistake", record.Reason)
		assert.Equal(t, fixedTime, record.CreatedAt)
	})

	t.Run("Nil original should return error", func(t *testing.T) {
		record, err := NewRollbackRecord(nil, 3, "reason", mockTime)

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
		assert.Nil(t, record)
	})

	t.Run("Unsaved original should return error", func(t *testing.T) {
		unsaved, err := NewTransaction(7, KindPoints, 10, "reason", SourceEvent, 42, mockTime)
		require.NoError(t, err)

		record, err := NewRollbackRecord(unsaved, 3, "reason", mockTime)

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
		assert.Nil(t, record)
	})

	t.Run("Zero admin ID should return error", func(t *testing.T) {
		record, err := NewRollbackRecord(original, 0, "reason", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidActorID)
		assert.Nil(t, record)
	})

	t.Run("Blank reason should return error", func(t *testing.T) {
		record, err := NewRollbackRecord(original, 3, "   ", mockTime)

		assert.ErrorIs(t, err, errs.ErrEmptyReason)
		assert.Nil(t, record)
	})
}
