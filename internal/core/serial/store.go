package serial

import (
	"context"
	"time"
)

// Store is the durable per-period counter.
//
// AcquireAndIncrement must run inside a transaction opened by the caller
// (see tx.Manager). It takes an exclusive lock on the period's counter row,
// creating the row at 1 when missing or incrementing it otherwise, and
// returns the new value. The number is only valid if that transaction commits;
// a rollback undoes the increment.
type Store interface {
	AcquireAndIncrement(ctx context.Context, p Period) (uint64, error)

	// Current reads the last issued number without locking.
	// found is false when the period has no live counter yet.
	Current(ctx context.Context, p Period) (last uint64, found bool, err error)
}

// Clock supplies the default point in time for an allocation.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// PrefixResolver maps the record being created to an optional prefix.
// An empty string means no prefix.
type PrefixResolver func(ctx context.Context, record any) (string, error)

// StaticPrefix returns a resolver that always yields prefix.
func StaticPrefix(prefix string) PrefixResolver {
	return func(context.Context, any) (string, error) {
		return prefix, nil
	}
}
