package delivery_note

import "stockview/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for delivery notes.
	NumeratorStrategy = numerator.StrategyStrict

	// NumberPrefix starts every delivery note number (DN-2026-00001).
	NumberPrefix = "DN"
)
