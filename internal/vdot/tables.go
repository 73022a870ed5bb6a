// Package vdot resolves fitness indexes from race results and looks up training paces.
package vdot

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/tables.yaml
var defaultTablesYAML []byte

// NamedPace is one named training pace of a row.
type NamedPace struct {
	Name  string
	Value string
}

// PaceRow holds the training paces for one fitness index.
type PaceRow struct {
	Index int
	Paces []NamedPace
}

// Empty reports whether the row carries no paces.
func (r PaceRow) Empty() bool {
	return len(r.Paces) == 0
}

// Lookup returns the pace stored under name.
func (r PaceRow) Lookup(name string) (string, bool) {
	for _, p := range r.Paces {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

type row struct {
	Index int               `yaml:"index"`
	Race  map[string]string `yaml:"race"`
	Pace  map[string]string `yaml:"pace"`
}

type yamlTables struct {
	Distances []string `yaml:"distances"`
	Paces     []string `yaml:"paces"`
	Rows      []row    `yaml:"rows"`
}

// Tables holds the immutable race-time and pace reference data.
type Tables struct {
	distances []string
	paceNames []string
	rows      []row
	byIndex   map[int]int
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the embedded reference tables.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load(bytes.NewReader(defaultTablesYAML))
	})
	return defaultTables, defaultErr
}

// Load decodes reference tables from YAML.
func Load(r io.Reader) (*Tables, error) {
	var raw yamlTables
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}
	t := &Tables{
		distances: append([]string(nil), raw.Distances...),
		paceNames: append([]string(nil), raw.Paces...),
		rows:      append([]row(nil), raw.Rows...),
		byIndex:   make(map[int]int, len(raw.Rows)),
	}
	sort.SliceStable(t.rows, func(i, j int) bool {
		return t.rows[i].Index < t.rows[j].Index
	})
	for i, r := range t.rows {
		if _, ok := t.byIndex[r.Index]; ok {
			return nil, fmt.Errorf("duplicate fitness index %d", r.Index)
		}
		t.byIndex[r.Index] = i
	}
	return t, nil
}

// Distances returns the tabulated race distance keys in table order.
func (t *Tables) Distances() []string {
	return append([]string(nil), t.distances...)
}

// PaceNames returns the pace names in display order.
func (t *Tables) PaceNames() []string {
	return append([]string(nil), t.paceNames...)
}

// Indexes returns every tabulated fitness index in ascending order.
func (t *Tables) Indexes() []int {
	out := make([]int, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Index
	}
	return out
}

// Range returns the lowest and highest tabulated index.
func (t *Tables) Range() (lo, hi int, ok bool) {
	if len(t.rows) == 0 {
		return 0, 0, false
	}
	return t.rows[0].Index, t.rows[len(t.rows)-1].Index, true
}

// PaceTableFor returns the pace row for an exact index.
// A miss yields an empty row and false.
func (t *Tables) PaceTableFor(index int) (PaceRow, bool) {
	i, ok := t.byIndex[index]
	if !ok {
		return PaceRow{Index: index}, false
	}
	r := t.rows[i]
	out := PaceRow{Index: r.Index, Paces: make([]NamedPace, 0, len(t.paceNames))}
	for _, name := range t.paceNames {
		if v, ok := r.Pace[name]; ok {
			out.Paces = append(out.Paces, NamedPace{Name: name, Value: v})
		}
	}
	return out, true
}

// RaceTime returns the tabulated HH:MM:SS time for an index and distance key.
func (t *Tables) RaceTime(index int, distanceKey string) (string, bool) {
	i, ok := t.byIndex[index]
	if !ok {
		return "", false
	}
	v, ok := t.rows[i].Race[NormalizeDistance(distanceKey)]
	return v, ok
}
