package domain

import "time"

// QCFinding routes one record to a named report sheet with a human-readable
// reason. Findings are independent classifications: the same record may carry
// several, and a finding does not imply the record left the main output.
type QCFinding struct {
	Sheet  string
	Record NormalizedRecord
	Reason string
}

// TimeBucket is one date-bounded partition of the final record set. End is
// inclusive except for monthly buckets, where it is the first instant of the
// following month. Records are ordered newest-first.
type TimeBucket struct {
	Label   string
	Start   time.Time
	End     time.Time
	Records []NormalizedRecord
}

// DateErrorBucketLabel holds survivors whose modification date never parsed.
// They are never merged into a date bucket.
const DateErrorBucketLabel = "Date_Parse_Errors"

type BucketCount struct {
	Label string
	Count int
}

// Stats are the aggregate counts of one run. The conservation invariant
// TotalInput == Kept + MissingIdentifier + DuplicatesRemoved + StatusRejected
// is checked by the report assembler before a RunResult is returned.
type Stats struct {
	TotalInput        int
	StatusRejected    int
	MissingIdentifier int
	DuplicatesRemoved int
	Kept              int
	UniqueIdentifiers int
	QCFlagged         int // non-exclusive; one record may count several times
	PerBucket         []BucketCount
	PerAgent          map[string]int // populated when the email check is on
}

// Sheet is one renderable page of the report: a name, its column header, and
// raw string rows. This is the unit the external renderers (CSV directory,
// SQLite workbook) consume.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// RunResult is the complete output of one pipeline run. Built fresh per
// invocation and immutable once returned.
type RunResult struct {
	RunID       string
	GeneratedAt time.Time

	Header  []string
	Buckets []TimeBucket // newest first

	QCSheets map[string][]QCFinding
	QCOrder  []string // deterministic sheet order for QCSheets

	Stats Stats

	// Sheets is the render-ready sheet-name -> row-set view of everything
	// above, in final report order.
	Sheets []Sheet
}
