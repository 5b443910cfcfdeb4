package export

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"veloverify-engine/internal/domain"
)

// WriteSQLite renders the run as a fresh SQLite workbook: one table per
// sheet, all columns TEXT. Any existing file at path is replaced so a
// re-export never mixes runs.
func WriteSQLite(ctx context.Context, path string, res domain.RunResult) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, sheet := range res.Sheets {
		if err := writeSheetTable(ctx, tx, sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		log.Printf("[export] table %s (%d rows)", sheet.Name, len(sheet.Rows))
	}

	return tx.Commit()
}

func writeSheetTable(ctx context.Context, tx *sql.Tx, sheet domain.Sheet) error {
	cols := make([]string, len(sheet.Columns))
	marks := make([]string, len(sheet.Columns))
	for i, c := range sheet.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s);", quoteIdent(sheet.Name), strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return err
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s);", quoteIdent(sheet.Name), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range sheet.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// quoteIdent wraps a sheet or column name so spaces and ampersands in source
// headers survive as identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
