package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"veloverify-engine/internal/domain"
)

// ReadHTMLTable loads the first <table> of an HTML export. Some portals hand
// out ".xls" files that are really HTML tables; this reader covers those.
func ReadHTMLTable(path string) (domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	ds, err := ParseHTMLTable(strings.NewReader(text))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// ParseHTMLTable extracts header and rows from the first table in the
// document. The first non-empty row is the header, th-tagged or not. Ragged
// rows abort the load, same as CSV.
func ParseHTMLTable(r io.Reader) (domain.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Dataset{}, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return domain.Dataset{}, fmt.Errorf("no table element")
	}

	var header []string
	var ds domain.Dataset
	var rowErr error

	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return true
		}
		if header == nil {
			// First non-empty row is the header, th-tagged or not.
			header = cells
			ds.Header = header
			return true
		}
		if len(cells) != len(header) {
			rowErr = fmt.Errorf("row %d: %d cells, header has %d", len(ds.Records)+2, len(cells), len(header))
			return false
		}
		values := make(map[string]string, len(header))
		for c, col := range header {
			values[col] = cells[c]
		}
		ds.Records = append(ds.Records, domain.RawRecord{Index: len(ds.Records), Values: values})
		return true
	})

	if rowErr != nil {
		return domain.Dataset{}, rowErr
	}
	if header == nil {
		return domain.Dataset{}, fmt.Errorf("table has no rows")
	}
	return ds, nil
}
