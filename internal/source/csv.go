package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSV reads a CSV export into rows. The first record is the header.
// Legacy exports arrive in mixed encodings, so the payload is decoded to
// UTF-8 before parsing. Fully empty records are skipped.
func ReadCSV(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data = sanitizeUTF8(decodeToUTF8(data))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
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
