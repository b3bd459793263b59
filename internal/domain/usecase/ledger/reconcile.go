package ledger

import (
	"context"

	"github.com/mentorhub/points-ledger/internal/domain/auth"
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
)

// BalanceCheck compares a stored balance against the sum obtained by
// replaying the user's ledger.
type BalanceCheck struct {
	Stored   int64 `json:"stored"`
	Replayed int64 `json:"replayed"`
}

// Drift reports whether the stored balance disagrees with the ledger.
func (c BalanceCheck) Drift() bool {
	return c.Stored != c.Replayed
}

// ReconcileReport is the outcome of replaying one user's ledger.
type ReconcileReport struct {
	UserID     uint64
	Points     BalanceCheck
	Experience BalanceCheck
	Consistent bool
}

// Reconcile replays the user's ledger and compares the sums against the
// stored balances. The balances are a cache of the ledger, so any drift
// indicates a write that escaped the atomic append path.
func (s *Service) Reconcile(ctx context.Context, actor entity.Actor, userID uint64) (*ReconcileReport, error) {
	if err := s.gate.Require(actor, auth.CapViewAll); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	txnRepo := s.uow.GetTransactionRepository(ctx)
	pointsSum, err := txnRepo.SumByUser(ctx, userID, entity.KindPoints)
	if err != nil {
		return nil, err
	}
	experienceSum, err := txnRepo.SumByUser(ctx, userID, entity.KindExperience)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		UserID:     userID,
		Points:     BalanceCheck{Stored: user.Points(), Replayed: pointsSum},
		Experience: BalanceCheck{Stored: user.Experience(), Replayed: experienceSum},
	}
	report.Consistent = !report.Points.Drift() && !report.Experience.Drift()

	if !report.Consistent {
		s.logger.Warn("Balance drift detected during reconciliation", map[string]any{
			"user_id":             userID,
			"points_stored":       report.Points.Stored,
			"points_replayed":     report.Points.Replayed,
			"experience_stored":   report.Experience.Stored,
			"experience_replayed": report.Experience.Replayed,
		})
	}

	return report, nil
}
