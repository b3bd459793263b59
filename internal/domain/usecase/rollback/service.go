package rollback

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
)

// Request identifies the transaction to reverse and why.
type Request struct {
	TransactionID uint64
	Kind          entity.Kind
	Reason        string
}

// Service is the rollback engine: it reverses exactly one transaction's
// effect, exactly once, with a permanent audit trail. Reversal never
// mutates or deletes the original entry; it appends a compensating
// transaction and links both through a rollback record.
type Service struct {
	uow          persistence.UnitOfWork
	gate         *auth.Gate
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the rollback engine.
func NewService(
	uow persistence.UnitOfWork,
	gate *auth.Gate,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		gate:         gate,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Rollback reverses the given transaction. The checks run strictly in
// this order: authorization (so unauthorized callers learn nothing about
// the target), existence, prior-rollback, reason. Only then does the
// atomic unit write the compensating transaction, the balance adjustment
// and the rollback record together.
func (s *Service) Rollback(ctx context.Context, admin entity.Actor, req Request) (*entity.RollbackRecord, error) {
	if err := s.gate.Require(admin, auth.CapRollback); err != nil {
		return nil, err
	}

	if !entity.IsValidKind(string(req.Kind)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidKind, req.Kind)
	}

	original, err := s.uow.GetTransactionRepository(ctx).GetByID(ctx, req.TransactionID, req.Kind)
	if err != nil {
		return nil, err
	}

	// Advisory fast path. The unique constraint on the rollback record is
	// what actually enforces at-most-once under concurrent attempts.
	exists, err := s.uow.GetRollbackRepository(ctx).ExistsForTransaction(ctx, req.TransactionID, req.Kind)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewAlreadyRolledBackError(req.TransactionID, string(req.Kind))
	}

	if strings.TrimSpace(req.Reason) == "" {
		return nil, errs.ErrEmptyReason
	}

	compensation, err := original.Compensation(admin.ID, req.Reason, s.timeProvider)
	if err != nil {
		return nil, err
	}
	record, err := entity.NewRollbackRecord(original, admin.ID, req.Reason, s.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.uow.Rollback(txCtx)
		}
	}()

	// Writing the record first lets the unique constraint reject a
	// concurrent duplicate before any balance movement.
	if err := s.uow.GetRollbackRepository(txCtx).Create(txCtx, record); err != nil {
		return nil, err
	}

	if _, err := s.uow.GetUserRepository(txCtx).ApplyDelta(txCtx, original.UserID, original.Kind, compensation.Amount); err != nil {
		return nil, err
	}

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, compensation); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}
	committed = true

	s.logger.Info("Transaction rolled back", map[string]any{
		"rollback_id":      record.ID,
		"transaction_id":   original.ID,
		"transaction_kind": original.Kind,
		"compensation_id":  compensation.ID,
		"subject_user_id":  original.UserID,
		"admin_id":         admin.ID,
	})

	return record, nil
}

// ListRollbacks returns a page of rollback history for administrative review.
func (s *Service) ListRollbacks(ctx context.Context, actor entity.Actor, filter persistence.RollbackFilter, page persistence.Page) ([]*entity.RollbackRecord, int64, error) {
	if err := s.gate.Require(actor, auth.CapViewAll); err != nil {
		return nil, 0, err
	}
	return s.uow.GetRollbackRepository(ctx).List(ctx, filter, page.Normalize())
}
