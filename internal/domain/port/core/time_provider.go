package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations so tests can pin the clock.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
