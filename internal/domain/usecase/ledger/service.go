package ledger

import (
	"context"
	"fmt"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
)

// AppendRequest describes a balance-affecting event to record.
type AppendRequest struct {
	UserID uint64
	Kind   entity.Kind
	Amount int64
	Reason string
	Source entity.Source
}

// Balance is the materialized point/experience totals for one user.
type Balance struct {
	UserID     uint64
	Points     int64
	Experience int64
}

// Service is the transaction ledger: it durably records every
// balance-affecting event and keeps the balance store consistent with
// the sum of all transactions.
type Service struct {
	uow          persistence.UnitOfWork
	gate         *auth.Gate
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the ledger service.
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

// Append records a transaction and applies its amount to the user's
// balance as a single atomic unit. Either both the ledger row and the
// balance change are persisted, or neither is.
func (s *Service) Append(ctx context.Context, actor entity.Actor, req AppendRequest) (*entity.Transaction, error) {
	capability := auth.CapAward
	if req.Amount < 0 {
		capability = auth.CapDeduct
	}
	if err := s.gate.Require(actor, capability); err != nil {
		return nil, err
	}

	txn, err := entity.NewTransaction(req.UserID, req.Kind, req.Amount, req.Reason, req.Source, actor.ID, s.timeProvider)
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

	// The row lock taken here serializes concurrent appends per user.
	user, err := s.uow.GetUserRepository(txCtx).ApplyDelta(txCtx, req.UserID, req.Kind, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, txn); err != nil {
		return nil, errs.NewLedgerError(req.UserID, string(req.Kind), req.Amount, string(req.Source), err)
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit unit of work: %w", err)
	}
	committed = true

	s.logger.Info("Transaction appended", map[string]any{
		"transaction_id": txn.ID,
		"user_id":        req.UserID,
		"kind":           req.Kind,
		"amount":         req.Amount,
		"source":         req.Source,
		"actor_id":       actor.ID,
		"new_balance":    user.BalanceFor(req.Kind),
	})

	return txn, nil
}

// GetBalance returns the user's current balances. Actors may always read
// their own balance; reading anyone else's requires view-all.
func (s *Service) GetBalance(ctx context.Context, actor entity.Actor, userID uint64) (*Balance, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if actor.ID != userID {
		if err := s.gate.Require(actor, auth.CapViewAll); err != nil {
			return nil, err
		}
	}

	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Balance{
		UserID:     user.ID,
		Points:     user.Points(),
		Experience: user.Experience(),
	}, nil
}

// ListTransactions returns a page of ledger entries for administrative
// review. Actors without view-all may only list their own transactions.
func (s *Service) ListTransactions(ctx context.Context, actor entity.Actor, filter persistence.TransactionFilter, page persistence.Page) ([]*entity.Transaction, int64, error) {
	if filter.UserID == nil || *filter.UserID != actor.ID {
		if err := s.gate.Require(actor, auth.CapViewAll); err != nil {
			return nil, 0, err
		}
	}
	return s.uow.GetTransactionRepository(ctx).List(ctx, filter, page.Normalize())
}
