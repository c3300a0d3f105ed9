// Package reconcile derives stock positions and sales figures for inventory
// items from delivery notes, sales documents and supplier rates.
//
// A run is a pure computation over a store.Snapshot: nothing is persisted
// and nothing outside the snapshot is read.
package reconcile

import (
	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
)

// MatchStrategy decides how returns and deliveries are paired.
type MatchStrategy string

const (
	// ProjectLevelMatch closes every outbound note of a project as soon as
	// any inbound note of that project is confirmed, and fulfils every
	// accepted quote of a project as soon as any outbound note is confirmed.
	ProjectLevelMatch MatchStrategy = "project"

	// NoteLevelMatch pairs documents by explicit link: an inbound note closes
	// the outbound note named by its ReturnOfID, an outbound note fulfils the
	// quote named by its SalesDocumentID.
	NoteLevelMatch MatchStrategy = "note"
)

// ParseMatchStrategy validates a raw strategy value. Empty means project level.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(s) {
	case "", ProjectLevelMatch:
		return ProjectLevelMatch, nil
	case NoteLevelMatch:
		return NoteLevelMatch, nil
	}
	return "", apperror.NewValidation("unknown match strategy").
		WithDetail("value", s)
}

// IDSet is a set of record ids.
type IDSet map[id.ID]struct{}

// Has reports whether v is in the set.
func (s IDSet) Has(v id.ID) bool {
	_, ok := s[v]
	return ok
}

func (s IDSet) add(v id.ID) {
	s[v] = struct{}{}
}

// stateSet is a set of string-backed enum values.
type stateSet[T ~string] map[T]struct{}

func newStateSet[T ~string](values []T) stateSet[T] {
	s := make(stateSet[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s stateSet[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}
