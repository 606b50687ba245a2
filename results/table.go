// Package results loads benchmark result tables written in pandas "split"
// orientation: {"columns": [...], "index": [...], "data": [[...], ...]}.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Column names every result table must carry.
const (
	ColumnEntries                = "columns"
	ColumnStandardVector         = "StandardVector"
	ColumnTypelessVector         = "TypelessVector"
	ColumnTypesafeTypelessVector = "TypesafeTypelessVector"
)

var (
	// ErrNotFound is returned when the result file does not exist.
	ErrNotFound = errors.New("result file not found")
	// ErrMalformed is returned when the file cannot be parsed as a
	// split-oriented table.
	ErrMalformed = errors.New("malformed result file")
	// ErrSchema is returned when a required column is missing or the
	// columns differ in length.
	ErrSchema = errors.New("schema violation")
)

// RequiredColumns returns the columns Load insists on, independent
// variable first.
func RequiredColumns() []string {
	return []string{
		ColumnEntries,
		ColumnStandardVector,
		ColumnTypelessVector,
		ColumnTypesafeTypelessVector,
	}
}

// Table is an immutable set of named, index-aligned numeric columns.
// Row i of every column describes the same benchmark run.
type Table struct {
	Path string

	names []string
	cols  map[string][]Value
}

// NewTable builds a table from in-memory columns. Every name must have a
// column and all columns must have equal length. The input is copied.
func NewTable(path string, names []string, cols map[string][]Value) (*Table, error) {
	t := &Table{
		Path:  path,
		names: make([]string, 0, len(names)),
		cols:  make(map[string][]Value, len(names)),
	}

	for _, name := range names {
		if _, dup := t.cols[name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate column %q",
				ErrMalformed, path, name)
		}

		values, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q",
				ErrSchema, path, name)
		}

		t.names = append(t.names, name)
		t.cols[name] = append([]Value(nil), values...)
	}

	if err := t.checkLengths(); err != nil {
		return nil, err
	}

	return t, nil
}

// Load reads the split-oriented table at path and checks that it carries
// RequiredColumns.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f, path)
	if err != nil {
		return nil, err
	}

	if err := t.Validate(RequiredColumns()...); err != nil {
		return nil, err
	}

	return t, nil
}

type splitDocument struct {
	Columns []string            `json:"columns"`
	Index   []json.RawMessage   `json:"index"`
	Data    [][]json.RawMessage `json:"data"`
}

// Decode parses a split-oriented table from r. The path is only used in
// error messages and recorded on the table. Decode does not check for
// required columns; see Validate.
func Decode(r io.Reader, path string) (*Table, error) {
	dec := json.NewDecoder(r)

	var doc splitDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: decode JSON: %v", ErrMalformed, path, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: trailing data after document", ErrMalformed, path)
	}

	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s: no columns", ErrMalformed, path)
	}

	if doc.Data == nil {
		return nil, fmt.Errorf("%w: %s: no data", ErrMalformed, path)
	}

	if doc.Index != nil && len(doc.Index) != len(doc.Data) {
		return nil, fmt.Errorf("%w: %s: index has %d entries, data has %d rows",
			ErrMalformed, path, len(doc.Index), len(doc.Data))
	}

	cols := make(map[string][]Value, len(doc.Columns))
	for _, name := range doc.Columns {
		cols[name] = make([]Value, 0, len(doc.Data))
	}

	for i, row := range doc.Data {
		if len(row) > len(doc.Columns) {
			return nil, fmt.Errorf("%w: %s: row %d has %d cells, want %d",
				ErrMalformed, path, i, len(row), len(doc.Columns))
		}

		// A short row leaves its trailing columns shorter than the
		// rest, which NewTable reports as a length mismatch.
		for j, cell := range row {
			var v Value
			if err := json.Unmarshal(cell, &v); err != nil {
				return nil, fmt.Errorf("%w: %s: row %d column %q: %v",
					ErrMalformed, path, i, doc.Columns[j], err)
			}

			cols[doc.Columns[j]] = append(cols[doc.Columns[j]], v)
		}
	}

	return NewTable(path, doc.Columns, cols)
}

// Validate checks that every named column is present.
func (t *Table) Validate(required ...string) error {
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", ErrSchema, t.Path, name)
		}
	}

	return t.checkLengths()
}

func (t *Table) checkLengths() error {
	if len(t.names) == 0 {
		return nil
	}

	want := len(t.cols[t.names[0]])
	for _, name := range t.names[1:] {
		if got := len(t.cols[name]); got != want {
			return fmt.Errorf("%w: %s: column %q has %d values, column %q has %d",
				ErrSchema, t.Path, name, got, t.names[0], want)
		}
	}

	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}

	return len(t.cols[t.names[0]])
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]Value, bool) {
	values, ok := t.cols[name]
	if !ok {
		return nil, false
	}

	return append([]Value(nil), values...), true
}

// Floats returns the named column converted to float64.
func (t *Table) Floats(name string) ([]float64, error) {
	values, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing column %q", ErrSchema, t.Path, name)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Float64()
	}

	return out, nil
}
