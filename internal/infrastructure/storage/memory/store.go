// Package memory provides an in-process record store.
//
// All collections live behind one RWMutex. A transaction holds the write
// lock for its whole unit of work and restores the pre-image on error, so
// writes are atomic. Readers only ever get copies.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"stockview/internal/core/id"
	"stockview/internal/core/tx"
	"stockview/internal/domain/catalogs/category"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/catalogs/supplier_rate"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
)

var errReadOnly = errors.New("memory: write in read-only transaction")

// table keeps rows in insertion order.
type table[T any] struct {
	order []id.ID
	rows  map[id.ID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[id.ID]T)}
}

func (t *table[T]) get(key id.ID) (T, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *table[T]) insert(key id.ID, v T) {
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = v
}

func (t *table[T]) put(key id.ID, v T) {
	t.rows[key] = v
}

func (t *table[T]) each(fn func(T)) {
	for _, key := range t.order {
		fn(t.rows[key])
	}
}

func (t *table[T]) clone(cp func(T) T) *table[T] {
	c := &table[T]{
		order: append([]id.ID(nil), t.order...),
		rows:  make(map[id.ID]T, len(t.rows)),
	}
	for k, v := range t.rows {
		c.rows[k] = cp(v)
	}
	return c
}

// dataset is the full state of the store.
type dataset struct {
	items      *table[*item.InventoryItem]
	categories *table[*category.Category]
	rates      *table[*supplier_rate.SupplierRate]
	notes      *table[*delivery_note.DeliveryNote]
	noteLines  map[id.ID][]delivery_note.Line
	documents  *table[*sales_document.SalesDocument]
	docLines   map[id.ID][]sales_document.Line
	sequences  map[string]int64
}

func newDataset() *dataset {
	return &dataset{
		items:      newTable[*item.InventoryItem](),
		categories: newTable[*category.Category](),
		rates:      newTable[*supplier_rate.SupplierRate](),
		notes:      newTable[*delivery_note.DeliveryNote](),
		noteLines:  make(map[id.ID][]delivery_note.Line),
		documents:  newTable[*sales_document.SalesDocument](),
		docLines:   make(map[id.ID][]sales_document.Line),
		sequences:  make(map[string]int64),
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		items:      d.items.clone((*item.InventoryItem).Clone),
		categories: d.categories.clone((*category.Category).Clone),
		rates:      d.rates.clone((*supplier_rate.SupplierRate).Clone),
		notes:      d.notes.clone((*delivery_note.DeliveryNote).Clone),
		noteLines:  make(map[id.ID][]delivery_note.Line, len(d.noteLines)),
		documents:  d.documents.clone((*sales_document.SalesDocument).Clone),
		docLines:   make(map[id.ID][]sales_document.Line, len(d.docLines)),
		sequences:  make(map[string]int64, len(d.sequences)),
	}
	for k, lines := range d.noteLines {
		c.noteLines[k] = cloneNoteLines(lines)
	}
	for k, lines := range d.docLines {
		c.docLines[k] = append([]sales_document.Line(nil), lines...)
	}
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	return c
}

func cloneNoteLines(lines []delivery_note.Line) []delivery_note.Line {
	out := make([]delivery_note.Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// Store is the in-memory record store.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// txKey marks a context running inside a transaction of a given store.
type txKey struct{}

type txState struct {
	store    *Store
	readOnly bool
}

func (s *Store) txState(ctx context.Context) (txState, bool) {
	st, ok := ctx.Value(txKey{}).(txState)
	if !ok || st.store != s {
		return txState{}, false
	}
	return st, true
}

func (s *Store) read(ctx context.Context, fn func(d *dataset) error) error {
	if _, ok := s.txState(ctx); ok {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs a single mutation. fn must check everything before it changes
// anything; multi-step writes belong in a transaction.
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if st, ok := s.txState(ctx); ok {
		if st.readOnly {
			return errReadOnly
		}
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Snapshot implements store.Source. The copy is taken under the read lock
// and shares no memory with the store.
func (s *Store) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	snap := &store.Snapshot{}
	err := s.read(ctx, func(d *dataset) error {
		d.items.each(func(v *item.InventoryItem) { snap.Items = append(snap.Items, *v.Clone()) })
		d.categories.each(func(v *category.Category) { snap.Categories = append(snap.Categories, *v.Clone()) })
		d.rates.each(func(v *supplier_rate.SupplierRate) { snap.SupplierRates = append(snap.SupplierRates, *v.Clone()) })
		d.notes.each(func(v *delivery_note.DeliveryNote) {
			header := *v.Clone()
			header.Lines = nil
			snap.DeliveryNotes = append(snap.DeliveryNotes, header)
			snap.DeliveryNoteLines = append(snap.DeliveryNoteLines, cloneNoteLines(d.noteLines[v.ID])...)
		})
		d.documents.each(func(v *sales_document.SalesDocument) {
			header := *v.Clone()
			header.Lines = nil
			snap.SalesDocuments = append(snap.SalesDocuments, header)
			snap.SalesDocumentLines = append(snap.SalesDocumentLines, d.docLines[v.ID]...)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// TxManager runs units of work against a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for s.
func NewTxManager(s *Store) *TxManager {
	return &TxManager{store: s}
}

// RunInTransaction executes fn holding the write lock.
// If a transaction already exists in ctx, it is reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if st, ok := s.txState(ctx); ok {
		if st.readOnly {
			return errReadOnly
		}
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pre := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, txState{store: s})); err != nil {
		s.data = pre
		return err
	}
	return nil
}

// ReadOnly executes fn under the read lock. Writes through ctx fail.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if _, ok := s.txState(ctx); ok {
		return fn(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, txState{store: s, readOnly: true}))
}

var (
	_ tx.Manager         = (*TxManager)(nil)
	_ tx.ReadOnlyManager = (*TxManager)(nil)
	_ store.Source       = (*Store)(nil)
)

// matchesSearch reports whether code or name contains the search text.
func matchesSearch(search, code, name string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(code), q) || strings.Contains(strings.ToLower(name), q)
}

func idFilter(ids []id.ID) func(id.ID) bool {
	if len(ids) == 0 {
		return func(id.ID) bool { return true }
	}
	set := make(map[id.ID]struct{}, len(ids))
	for _, v := range ids {
		set[v] = struct{}{}
	}
	return func(v id.ID) bool {
		_, ok := set[v]
		return ok
	}
}

// sortBy applies an "field" or "-field" order using the given accessors.
// Unknown fields keep insertion order.
func sortBy[T any](rows []T, orderBy string, fields map[string]func(T) string) {
	if orderBy == "" {
		return
	}
	desc := strings.HasPrefix(orderBy, "-")
	key, ok := fields[strings.TrimPrefix(orderBy, "-")]
	if !ok {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		if desc {
			return a > b
		}
		return a < b
	})
}
