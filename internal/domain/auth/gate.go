package auth

import (
	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
)

// Capability is one of the privileged operations the gate guards.
type Capability string

const (
	CapAward    Capability = "award"
	CapDeduct   Capability = "deduct"
	CapRollback Capability = "rollback"
	CapViewAll  Capability = "view-all"
)

// rolePermissions is the full capability matrix. Admins hold everything;
// system processes may move balances but never reverse them; members
// hold no mutation capability at all.
var rolePermissions = map[entity.Role]map[Capability]bool{
	entity.RoleAdmin: {
		CapAward:    true,
		CapDeduct:   true,
		CapRollback: true,
		CapViewAll:  true,
	},
	entity.RoleSystem: {
		CapAward:  true,
		CapDeduct: true,
	},
	entity.RoleMember: {},
}

// Gate is the single choke point answering "may this actor perform this
// mutation?". It holds no state and performs no writes, so it is safe to
// call repeatedly and from any goroutine.
type Gate struct{}

// NewGate creates the authorization gate.
func NewGate() *Gate {
	return &Gate{}
}

// Allows reports whether the actor's role grants the capability.
func (g *Gate) Allows(actor entity.Actor, capability Capability) bool {
	caps, ok := rolePermissions[actor.Role]
	if !ok {
		return false
	}
	return caps[capability]
}

// Require returns ErrUnauthorized when the actor lacks the capability.
// The error is deliberately generic so callers cannot probe for the
// existence of targets they may not see.
func (g *Gate) Require(actor entity.Actor, capability Capability) error {
	if !g.Allows(actor, capability) {
		return errs.ErrUnauthorized
	}
	return nil
}
