package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"veloverify-engine/internal/domain"
)

// ReadCSV loads a CSV export from disk. Values are carried verbatim;
// cleanup is the pipeline's job, not the reader's.
func ReadCSV(path string) (domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	ds, err := ParseCSV(strings.NewReader(text))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// ParseCSV reads header plus data rows from r. Every data row must have the
// header's field count; a ragged row aborts the load.
func ParseCSV(r io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows reported with row context below

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.Dataset{}, err
	}
	if len(rows) == 0 {
		return domain.Dataset{}, fmt.Errorf("no header row")
	}

	header := rows[0]
	ds := domain.Dataset{Header: header}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return domain.Dataset{}, fmt.Errorf("row %d: %d fields, header has %d", i+2, len(row), len(header))
		}
		values := make(map[string]string, len(header))
		for c, col := range header {
			values[col] = row[c]
		}
		ds.Records = append(ds.Records, domain.RawRecord{Index: i, Values: values})
	}
	return ds, nil
}
