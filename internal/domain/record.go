package domain

import "time"

// Dataset is one parsed export file: the declared header in original column
// order plus every row, verbatim. Produced by internal/ingest, never mutated
// after that.
type Dataset struct {
	Header  []string
	Records []RawRecord
}

// RawRecord is a single input row. Values maps a declared column name to the
// raw cell string; a column absent from the map was missing in the source row,
// as opposed to present but empty.
type RawRecord struct {
	Index  int // zero-based position in the input file
	Values map[string]string
}

func (r RawRecord) Get(col string) string { return r.Values[col] }

// Identifier kinds a record can be deduplicated on.
const (
	UIDPole   = "pole"
	UIDDrop   = "drop"
	UIDCustom = "custom"
)

// NormalizedRecord is the typed view of one RawRecord. It always keeps the
// originating row so reports can render the record losslessly.
type NormalizedRecord struct {
	Raw RawRecord

	// Identifiers holds every identifier candidate (pole and drop are both
	// captured regardless of the active preset) keyed by kind, trimmed.
	Identifiers map[string]string

	Status        string
	ModifiedAt    *time.Time // nil when the source value did not parse
	ModifiedAtRaw string     // source cell, kept for QC reason texts
	ModifiedBy    string
	AgentName     string

	Latitude  *float64
	Longitude *float64

	// Validation flags. Both are reporting-only; a false value never removes
	// the record from the main pipeline.
	CoordinateValid bool
	EmailValid      bool
}

// UID returns the record's identifier value for the given kind ("" when the
// source cell was empty or missing).
func (n NormalizedRecord) UID(kind string) string { return n.Identifiers[kind] }
