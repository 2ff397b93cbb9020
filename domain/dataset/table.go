package dataset

import (
	"strconv"
	"strings"

	"ethica/domain/core"
)

// Row represents one sample as raw string cells keyed by column name
type Row map[string]string

// Table is a column-addressable view over an ordered set of samples.
// All analyzers consume it; readers (excel, csv) produce it.
type Table struct {
	Headers []string
	Rows    []Row
}

// New creates a table from headers and rows
func New(headers []string, rows []Row) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// Len returns the number of samples
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether a column exists
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the raw values of a column, aligned by sample index
func (t *Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, core.NewColumnNotFoundError(name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// NumericColumn returns a column coerced to float64. Blank or non-numeric
// cells fail coercion, which callers treat as invalid input for label columns.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	raw, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(raw))
	for i, cell := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, core.NewNonNumericError(name, cell)
		}
		values[i] = v
	}
	return values, nil
}

// UniqueCount returns the number of distinct values in a column
func (t *Table) UniqueCount(name string) int {
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		seen[row[name]] = true
	}
	return len(seen)
}

// MissingRate returns the fraction of blank cells in a column
func (t *Table) MissingRate(name string) float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	missing := 0
	for _, row := range t.Rows {
		if strings.TrimSpace(row[name]) == "" {
			missing++
		}
	}
	return float64(missing) / float64(len(t.Rows))
}
