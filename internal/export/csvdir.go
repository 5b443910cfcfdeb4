package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"veloverify-engine/internal/domain"
)

// WriteCSVDir renders every sheet of the run as <sheet>.csv under dir,
// creating the directory if needed. A lock file serializes concurrent
// exporters targeting the same directory.
func WriteCSVDir(dir string, res domain.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".veloverify.lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock export dir: %w", err)
	}
	defer lock.Unlock()

	for _, sheet := range res.Sheets {
		path := filepath.Join(dir, sheet.Name+".csv")
		if err := writeSheetCSV(path, sheet); err != nil {
			return err
		}
		log.Printf("[export] wrote %s (%d rows)", path, len(sheet.Rows))
	}
	return nil
}

func writeSheetCSV(path string, sheet domain.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sheet.Columns); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range sheet.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
