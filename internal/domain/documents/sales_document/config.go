package sales_document

import "stockview/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for sales documents.
	// Invoices are accounting documents, so gaps are not allowed.
	NumeratorStrategy = numerator.StrategyStrict
)

// numberPrefix maps a document type to its number prefix.
func numberPrefix(t DocType) string {
	switch t {
	case TypeQuote:
		return "QT"
	case TypeProforma:
		return "PF"
	default:
		return "INV"
	}
}
