// Package tx provides transaction management abstractions.
// Domain code depends on Manager only; implementations live in
// infrastructure/storage (postgres and pebble).
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context: the
	// outermost caller owns commit and rollback.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
