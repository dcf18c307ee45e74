// Package memtable is an in-memory table of nullable bit string rows that
// answers predicate queries with roaring bitmaps of row ids.
//
// It follows the truth semantics of the compiled SQL exactly and serves as a
// reference for what a database will return for a given predicate.
package memtable

import (
	"errors"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tinywasm/bitorm/bitstring"
	"github.com/tinywasm/bitorm/predicate"
)

// ErrNotFound is returned by Get for an unknown row id.
var ErrNotFound = errors.New("row not found")

// Row is a labelled, nullable bit string value.
type Row struct {
	ID    uint32
	Label string
	Value bitstring.NullBits
}

// Table holds rows keyed by a monotonically assigned id.
// It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	rows   map[uint32]Row
	nulls  *roaring.Bitmap
	nextID uint32
}

// New creates an empty table.
func New() *Table {
	return &Table{
		rows:  make(map[uint32]Row),
		nulls: roaring.New(),
	}
}

// Insert stores v under label and returns the new row id.
func (t *Table) Insert(label string, v bitstring.NullBits) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.rows[id] = Row{ID: id, Label: label, Value: v}
	if !v.Valid {
		t.nulls.Add(id)
	}
	return id
}

// Get returns the row with the given id.
func (t *Table) Get(id uint32) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[id]
	if !ok {
		return Row{}, ErrNotFound
	}
	return r, nil
}

// Delete removes a row. Unknown ids are ignored.
func (t *Table) Delete(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rows, id)
	t.nulls.Remove(id)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Filter returns the ids of rows satisfying every predicate. With no
// predicates all rows match. NULL rows never match a predicate.
func (t *Table) Filter(preds ...predicate.Predicate) (*roaring.Bitmap, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := roaring.New()
	for id := range t.rows {
		result.Add(id)
	}
	if len(preds) == 0 {
		return result, nil
	}
	result.AndNot(t.nulls)

	for _, p := range preds {
		matched := roaring.New()
		it := result.Iterator()
		for it.HasNext() {
			id := it.Next()
			ok, err := predicate.Evaluate(t.rows[id].Value, p)
			if err != nil {
				return nil, err
			}
			if ok {
				matched.Add(id)
			}
		}
		result.And(matched)
		if result.IsEmpty() {
			break
		}
	}
	return result, nil
}

// Labels returns the sorted labels of the rows in ids. A nil bitmap has no
// labels.
func (t *Table) Labels(ids *roaring.Bitmap) []string {
	if ids == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	labels := make([]string, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		if r, ok := t.rows[it.Next()]; ok {
			labels = append(labels, r.Label)
		}
	}
	sort.Strings(labels)
	return labels
}
