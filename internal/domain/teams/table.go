// Package teams maps free-form team names to canonical team identifiers.
package teams

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// CSV column names.
const (
	columnName = "team_name"
	columnID   = "team_id"
)

const utf8BOM = "\ufeff"

// Mapping is one variant spelling and the identifier it resolves to.
type Mapping struct {
	Name string
	ID   int
}

// Table is the immutable variant -> ID table plus the ID -> canonical name index.
// Entries keep their source order so that scans are deterministic.
type Table struct {
	entries   []Mapping
	byName    map[string]int
	canonical map[int]string
}

// NewTable builds a table from mappings in priority order. The first variant
// seen for an ID becomes its canonical name; a repeated variant keeps its last ID.
func NewTable(mappings []Mapping) *Table {
	t := &Table{
		entries:   make([]Mapping, 0, len(mappings)),
		byName:    make(map[string]int, len(mappings)),
		canonical: make(map[int]string),
	}
	for _, m := range mappings {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		if _, dup := t.byName[name]; !dup {
			t.entries = append(t.entries, Mapping{Name: name, ID: m.ID})
		} else {
			for i := range t.entries {
				if t.entries[i].Name == name {
					t.entries[i].ID = m.ID
				}
			}
		}
		t.byName[name] = m.ID
		if _, ok := t.canonical[m.ID]; !ok {
			t.canonical[m.ID] = name
		}
	}
	return t
}

// LoadCSV reads a team_name,team_id CSV file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open team mappings: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses team mappings from r. A leading UTF-8 byte order mark is ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedCSV)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}
	nameCol, idCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))) {
		case columnName:
			nameCol = i
		case columnID:
			idCol = i
		}
	}
	if nameCol < 0 || idCol < 0 {
		return nil, fmt.Errorf("%w: header must contain %s and %s", ErrMalformedCSV, columnName, columnID)
	}

	var mappings []Mapping
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedCSV, line, err)
		}
		if nameCol >= len(rec) || idCol >= len(rec) {
			return nil, fmt.Errorf("%w: line %d: missing columns", ErrMalformedCSV, line)
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: team_id %q", ErrMalformedCSV, line, rec[idCol])
		}
		mappings = append(mappings, Mapping{Name: rec[nameCol], ID: id})
	}
	return NewTable(mappings), nil
}

// Lookup returns the ID of an exact variant.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// CanonicalName returns the preferred display name of id.
func (t *Table) CanonicalName(id int) (string, bool) {
	name, ok := t.canonical[id]
	return name, ok
}

// Entries returns the variants in source order.
func (t *Table) Entries() []Mapping {
	out := make([]Mapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns variant -> ID.
func (t *Table) Names() map[string]int {
	out := make(map[string]int, len(t.byName))
	for k, v := range t.byName {
		out[k] = v
	}
	return out
}

// Canonical returns ID -> canonical name.
func (t *Table) Canonical() map[int]string {
	out := make(map[int]string, len(t.canonical))
	for k, v := range t.canonical {
		out[k] = v
	}
	return out
}

// IDs returns every known identifier in ascending order.
func (t *Table) IDs() []int {
	ids := make([]int, 0, len(t.canonical))
	for id := range t.canonical {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of distinct variants.
func (t *Table) Len() int {
	return len(t.entries)
}
