package entity

import (
	"time"

	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
)

// User holds the materialized point and experience balances for one user.
// Both balances are derivable by replaying the user's transactions; they
// are kept here as a cache and mutated only by the ledger inside the same
// atomic unit that appends a transaction.
type User struct {
	ID               uint64
	points           int64 // At-rest invariant: never negative (private)
	experience       int64 // At-rest invariant: never negative (private)
	CreatedAt        time.Time
	UpdatedAt        time.Time
	TransactionCount uint64 // Count of transactions applied to this user
}

// NewUser creates a new user with the given initial balances.
func NewUser(id uint64, points, experience int64, timeProvider coreport.TimeProvider) (*User, error) {
	if id == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if points < 0 || experience < 0 {
		return nil, errs.ErrNegativeBalance
	}

	now := timeProvider.Now()
	return &User{
		ID:         id,
		points:     points,
		experience: experience,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Points returns the current points balance.
func (u *User) Points() int64 {
	return u.points
}

// Experience returns the current experience balance.
func (u *User) Experience() int64 {
	return u.experience
}

// BalanceFor returns the balance for the given transaction kind.
func (u *User) BalanceFor(kind Kind) int64 {
	if kind == KindExperience {
		return u.experience
	}
	return u.points
}

// SetBalances overwrites both balances directly (for repositories
// rehydrating a user from storage).
func (u *User) SetBalances(points, experience int64, timeProvider coreport.TimeProvider) {
	u.points = points
	u.experience = experience
	u.UpdatedAt = timeProvider.Now()
}

// Apply adds a signed amount to the balance of the given kind. It rejects
// any change that would leave the at-rest balance negative.
func (u *User) Apply(kind Kind, amount int64, timeProvider coreport.TimeProvider) error {
	current := u.BalanceFor(kind)
	next := current + amount
	if next < 0 {
		return errs.NewInsufficientBalanceError(u.ID, string(kind), amount, current)
	}

	if kind == KindExperience {
		u.experience = next
	} else {
		u.points = next
	}
	u.UpdatedAt = timeProvider.Now()
	u.TransactionCount++
	return nil
}
