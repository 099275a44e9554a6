package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of an XLSX workbook into rows.
// The first row is the header; cell values are the formatted strings
// excelize produces, so dates arrive as display text and are parsed
// downstream. Fully empty rows are skipped.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty sheet %q", path, sheets[0])
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := NewRow(header, rec)
		row.Line = i + 2
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
