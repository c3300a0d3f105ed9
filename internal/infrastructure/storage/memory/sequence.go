package memory

import (
	"context"

	"stockview/pkg/numerator"
)

// Sequence keeps numbering counters in the store, so an advance made
// inside a failed transaction is rolled back with it.
type Sequence struct {
	store *Store
}

var _ numerator.Sequence = (*Sequence)(nil)

// NewSequence creates a counter set backed by s.
func NewSequence(s *Store) *Sequence {
	return &Sequence{store: s}
}

// Advance implements numerator.Sequence.
func (q *Sequence) Advance(ctx context.Context, key string, increment int64) (int64, error) {
	var value int64
	err := q.store.write(ctx, func(d *dataset) error {
		d.sequences[key] += increment
		value = d.sequences[key]
		return nil
	})
	return value, err
}

// Set implements numerator.Sequence.
func (q *Sequence) Set(ctx context.Context, key string, value int64) error {
	return q.store.write(ctx, func(d *dataset) error {
		d.sequences[key] = value
		return nil
	})
}
