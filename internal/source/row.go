// Package source reads legacy tabular exports (XLSX, CSV) into rows the
// migration pipeline consumes. Readers only decode; classification and
// transformation happen downstream.
package source

import "strings"

// Row is one data row keyed by the source file's header labels.
// A cell is absent when its column is missing from the row or its value is
// empty after trimming; the pipeline treats both the same way.
type Row struct {
	Header []string          // column order as it appeared in the file
	Cells  map[string]string // header label -> raw cell value
	Line   int               // 1-based position in the source file, header is line 1
}

// NewRow pairs a header with one record. Records shorter than the header
// leave the trailing columns absent; extra cells are dropped.
func NewRow(header, record []string) Row {
	cells := make(map[string]string, len(header))
	for i, h := range header {
		if i >= len(record) {
			break
		}
		cells[h] = record[i]
	}
	return Row{Header: header, Cells: cells}
}

// Get returns the trimmed cell value for a column.
// The second return is false when the cell is absent.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.Cells[col]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether the column holds a non-empty value.
func (r Row) Has(col string) bool {
	_, ok := r.Get(col)
	return ok
}

// IsEmpty reports whether every cell in the row is empty.
func (r Row) IsEmpty() bool {
	for _, v := range r.Cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
