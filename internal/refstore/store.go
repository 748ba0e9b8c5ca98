// Package refstore indexes the reference tables parsed out of a mamegen
// document so the row generator can pick a random row, or look one up by
// label or value, without rescanning the table on every access.
package refstore

import (
	"fmt"
	"math/rand"

	"github.com/mitumame/mamegen/internal/dsl"
)

// Store holds one indexed table per reference name. It is built once from
// an analysed Program and is read-only for the lifetime of a generation run.
type Store struct {
	tables map[string]*table
}

type table struct {
	rows      [][]dsl.Value
	byLabel   map[string]int // first column treated as the label
	byValue   map[string]int // second column treated as the value, when present
}

// New indexes every reference table in refs. It returns an error only if a
// table is malformed (should not happen once the analyser has validated it).
func New(refs map[string][][]dsl.Value) (*Store, error) {
	s := &Store{tables: make(map[string]*table, len(refs))}
	for name, rows := range refs {
		if len(rows) == 0 {
			return nil, fmt.Errorf("refstore: table %q has no rows", name)
		}
		t := &table{rows: rows, byLabel: make(map[string]int, len(rows))}
		if len(rows[0]) >= 2 {
			t.byValue = make(map[string]int, len(rows))
		}
		for i, row := range rows {
			if len(row) == 0 {
				continue
			}
			label := row[0].String()
			if _, exists := t.byLabel[label]; !exists {
				t.byLabel[label] = i
			}
			if t.byValue != nil {
				value := row[1].String()
				if _, exists := t.byValue[value]; !exists {
					t.byValue[value] = i
				}
			}
		}
		s.tables[name] = t
	}
	return s, nil
}

// PickIndex returns a uniformly random row index into the named table, for
// callers that need to remember which row was chosen (the per-record
// implicit reference lock).
func (s *Store) PickIndex(name string, rng *rand.Rand) (int, bool) {
	t, ok := s.tables[name]
	if !ok {
		return 0, false
	}
	return rng.Intn(len(t.rows)), true
}

// RowAt returns the row at idx in the named table.
func (s *Store) RowAt(name string, idx int) ([]dsl.Value, bool) {
	t, ok := s.tables[name]
	if !ok || idx < 0 || idx >= len(t.rows) {
		return nil, false
	}
	return t.rows[idx], true
}

// RowByLabel returns the first row whose label column (column 0) equals
// label.
func (s *Store) RowByLabel(name, label string) ([]dsl.Value, bool) {
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	i, ok := t.byLabel[label]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}

// RowByValue returns the first row whose value column (column 1) equals
// value. Tables with only one column have no value index and always miss.
func (s *Store) RowByValue(name string, value dsl.Value) ([]dsl.Value, bool) {
	t, ok := s.tables[name]
	if !ok || t.byValue == nil {
		return nil, false
	}
	i, ok := t.byValue[value.String()]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}

