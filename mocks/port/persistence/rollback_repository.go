package persistence

import (
	"context"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockRollbackRepository is a mock implementation of the RollbackRepository interface
type MockRollbackRepository struct {
	mock.Mock
}

func (m *MockRollbackRepository) Create(ctx context.Context, record *entity.RollbackRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRollbackRepository) ExistsForTransaction(ctx context.Context, transactionID uint64, kind entity.Kind) (bool, error) {
	args := m.Called(ctx, transactionID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockRollbackRepository) List(ctx context.Context, filter persistence.RollbackFilter, page persistence.Page) ([]*entity.RollbackRecord, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.RollbackRecord), args.Get(1).(int64), args.Error(2)
}
