package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
)

// Kind is the balance a transaction applies to.
type Kind string

const (
	KindPoints     Kind = "points"
	KindExperience Kind = "experience"
)

// Source identifies the feature that caused a transaction.
type Source string

const (
	SourceEvent       Source = "event"
	SourceReport      Source = "report"
	SourceManual      Source = "manual"
	SourceOrientation Source = "orientation"
	// SourceRollback marks compensating entries written by the rollback engine.
	SourceRollback Source = "rollback"
)

// Transaction is a single immutable point/experience change for a user.
// Once written it is never mutated or deleted; corrections happen only
// through a new compensating transaction.
type Transaction struct {
	ID        uint64    // Assigned by storage on create
	UserID    uint64    // Subject user whose balance the transaction affects
	Kind      Kind      // Which balance is affected
	Amount    int64     // Positive = award, negative = deduction, never zero
	Reason    string    // Human-readable cause, required
	Source    Source    // Feature that produced the transaction
	ActorID   uint64    // Who caused it (admin or system process)
	CreatedAt time.Time // When the transaction was created
}

// NewTransaction builds a transaction and validates every field.
func NewTransaction(
	userID uint64,
	kind Kind,
	amount int64,
	reason string,
	source Source,
	actorID uint64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if actorID == 0 {
		return nil, errs.ErrInvalidActorID
	}
	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errs.ErrEmptyReason
	}
	if !IsValidKind(string(kind)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidKind, kind)
	}
	if !IsValidSource(string(source)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidSource, source)
	}

	return &Transaction{
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Reason:    reason,
		Source:    source,
		ActorID:   actorID,
		CreatedAt: timeProvider.Now(),
	}, nil
}

// Compensation builds the reversing entry for this transaction: same user,
// same kind, negated amount, tagged with the rollback source. The result
// must be appended in the same atomic unit as the rollback record.
func (t *Transaction) Compensation(adminID uint64, reason string, timeProvider coreport.TimeProvider) (*Transaction, error) {
	derived := fmt.Sprintf("reversal of transaction %d: %s", t.ID, reason)
	return NewTransaction(t.UserID, t.Kind, -t.Amount, derived, SourceRollback, adminID, timeProvider)
}

// IsAward reports whether the transaction increases the balance.
func (t *Transaction) IsAward() bool {
	return t.Amount > 0
}

// IsDeduction reports whether the transaction decreases the balance.
func (t *Transaction) IsDeduction() bool {
	return t.Amount < 0
}

// IsValidKind validates if the kind is allowed.
func IsValidKind(kind string) bool {
	return kind == string(KindPoints) || kind == string(KindExperience)
}

// IsValidSource validates if the source is allowed.
func IsValidSource(source string) bool {
	switch Source(source) {
	case SourceEvent, SourceReport, SourceManual, SourceOrientation, SourceRollback:
		return true
	}
	return false
}
