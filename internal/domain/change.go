package domain

import (
	"context"

	"stockview/internal/core/id"
)

// ChangeKind names the collection a write touched.
type ChangeKind string

const (
	ChangeItem          ChangeKind = "item"
	ChangeCategory      ChangeKind = "category"
	ChangeSupplierRate  ChangeKind = "supplier_rate"
	ChangeDeliveryNote  ChangeKind = "delivery_note"
	ChangeSalesDocument ChangeKind = "sales_document"
)

// ChangeScope describes what a committed write may have affected.
//
// Because stock matching is project-level, a write to any note or quote of a
// project can move the figures of every item that appears in that project, so
// ProjectIDs must be filled whenever a delivery note or sales document changes.
type ChangeScope struct {
	Kind       ChangeKind `json:"kind"`
	Action     string     `json:"action"`
	RecordID   id.ID      `json:"recordId"`
	ItemIDs    []id.ID    `json:"itemIds,omitempty"`
	ProjectIDs []id.ID    `json:"projectIds,omitempty"`
}

// ChangeNotifier is told about every committed write.
// Implementations must not fail the write: errors are theirs to log.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, scope ChangeScope)
}

// NotifierFunc adapts a function to ChangeNotifier.
type NotifierFunc func(ctx context.Context, scope ChangeScope)

// NotifyChange implements ChangeNotifier.
func (f NotifierFunc) NotifyChange(ctx context.Context, scope ChangeScope) {
	f(ctx, scope)
}

// Notifiers fans a change out to several notifiers in order.
type Notifiers []ChangeNotifier

// NotifyChange implements ChangeNotifier.
func (n Notifiers) NotifyChange(ctx context.Context, scope ChangeScope) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.NotifyChange(ctx, scope)
		}
	}
}

// NopNotifier discards changes.
var NopNotifier ChangeNotifier = NotifierFunc(func(context.Context, ChangeScope) {})

// MergeIDs returns the distinct ids of a followed by b, keeping first occurrence order.
func MergeIDs(a, b []id.ID) []id.ID {
	seen := make(map[id.ID]struct{}, len(a)+len(b))
	out := make([]id.ID, 0, len(a)+len(b))
	for _, list := range [][]id.ID{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
