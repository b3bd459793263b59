package migration

import (
	"context"
	"errors"

	"github.com/mentorhub/points-ledger/internal/domain/entity"
	errs "github.com/mentorhub/points-ledger/internal/domain/error"
	coreport "github.com/mentorhub/points-ledger/internal/domain/port/core"
	"github.com/mentorhub/points-ledger/internal/domain/port/persistence"
)

// seedUsers maps user ID to initial (points, experience) balances.
// These exist so a fresh deployment is exercisable immediately.
var seedUsers = map[uint64][2]int64{
	1: {100, 250},
	2: {0, 0},
	3: {40, 120},
}

// SeedUsers creates the seed users, skipping any that already exist.
func SeedUsers(ctx context.Context, userRepo persistence.UserRepository, timeProvider coreport.TimeProvider) error {
	for userID, balances := range seedUsers {
		_, err := userRepo.GetByID(ctx, userID)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrUserNotFound) {
			return err
		}

		user, err := entity.NewUser(userID, balances[0], balances[1], timeProvider)
		if err != nil {
			return err
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
	}
	return nil
}
