// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the memory and postgres
// storage adapters provide the implementations.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn as one atomic unit of work.
	// If fn returns an error, every change made through ctx is rolled back.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn against a consistent read view.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
