// Package numerator provides the PostgreSQL counter behind document numbering.
package numerator

import (
	"context"
	"fmt"

	"stockview/internal/infrastructure/storage/postgres"
	"stockview/pkg/numerator"
)

// Sequence stores named counters in sys_sequences.
//
// Counters advance with a single UPSERT ... RETURNING, so concurrent
// writers never receive the same value. Inside a business transaction the
// advance is rolled back together with the document that used it.
type Sequence struct {
	txm *postgres.TxManager
}

var _ numerator.Sequence = (*Sequence)(nil)

// NewSequence creates a sys_sequences backed counter.
func NewSequence(txm *postgres.TxManager) *Sequence {
	return &Sequence{txm: txm}
}

// Advance implements numerator.Sequence.
func (s *Sequence) Advance(ctx context.Context, key string, increment int64) (int64, error) {
	var value int64
	err := s.txm.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
		RETURNING current_val
	`, key, increment).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", key, err)
	}
	return value, nil
}

// Set implements numerator.Sequence.
func (s *Sequence) Set(ctx context.Context, key string, value int64) error {
	_, err := s.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
	`, key, value)
	if err != nil {
		return fmt.Errorf("set sequence %s: %w", key, err)
	}
	return nil
}
