package auth

import (
	"testing"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestGateAllows(t *testing.T) {
	gate := NewGate()

	testCases := []struct {
		name       string
		role       entity.Role
		capability Capability
		allowed    bool
	}{
		{"Admin can award", entity.RoleAdmin, CapAward, true},
		{"Admin can deduct", entity.RoleAdmin, CapDeduct, true},
		{"Admin can rollback", entity.RoleAdmin, CapRollback, true},
		{"Admin can view all", entity.RoleAdmin, CapViewAll, true},

		{"System can award", entity.RoleSystem, CapAward, true},
		{"System can deduct", entity.RoleSystem, CapDeduct, true},
		{"System cannot rollback", entity.RoleSystem, CapRollback, false},
		{"System cannot view all", entity.RoleSystem, CapViewAll, false},

		{"Member cannot award", entity.RoleMember, CapAward, false},
		{"Member cannot deduct", entity.RoleMember, CapDeduct, false},
		{"Member cannot rollback", entity.RoleMember, CapRollback, false},
		{"Member cannot view all", entity.RoleMember, CapViewAll, false},

		{"Unknown role holds nothing", entity.Role("visitor"), CapAward, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actor := entity.Actor{ID: 1, Role: tc.role}
			assert.Equal(t, tc.allowed, gate.Allows(actor, tc.capability))
		})
	}
}

func TestGateRequire(t *testing.T) {
	gate := NewGate()

	t.Run("Granted capability returns nil", func(t *testing.T) {
		err := gate.Require(entity.Actor{ID: 1, Role: entity.RoleAdmin}, CapRollback)
		assert.NoError(t, err)
	})

	t.Run("Denied capability returns the generic permission error", func(t *testing.T) {
		err := gate.Require(entity.Actor{ID: 1, Role: entity.RoleMember}, CapRollback)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}
