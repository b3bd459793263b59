package persistence

import "github.com/mentorhub/points-ledger/internal/domain/entity"

// Page bounds a list query. Zero values fall back to defaults via Normalize.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// TransactionFilter narrows a ledger listing. Nil fields match everything.
type TransactionFilter struct {
	UserID *uint64
	Kind   *entity.Kind
	Source *entity.Source
}

// RollbackFilter narrows a rollback-history listing. Nil fields match everything.
type RollbackFilter struct {
	SubjectUserID *uint64
	AdminID       *uint64
	Kind          *entity.Kind
}
