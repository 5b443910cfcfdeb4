package domain

import "time"

// FilterPreset is a locked bundle of status-filter settings, resolved from a
// named preset (or assembled from custom values) before the pipeline runs.
// Pipeline stages only ever see the resolved value, never the preset name.
type FilterPreset struct {
	Name             string
	IncludeSubstring string
	ExcludeSubstring string
	UIDField         string // UIDPole | UIDDrop | UIDCustom
	UIDColumn        string // column the uid value is read from
	CaseSensitive    bool
	ComplexFlow      bool // include term overrides a co-occurring exclude term
}

// ColumnMap names the source columns the normalizer reads typed fields from.
type ColumnMap struct {
	Status     string
	PoleNumber string
	DropNumber string
	AgentName  string
	ModifiedBy string
	ModifiedAt string
	Latitude   string
	Longitude  string
}

// Grouping modes for the time bucketer.
const (
	GroupNone    = "none"
	GroupWeekly  = "weekly"
	GroupMonthly = "monthly"
	GroupCustom  = "custom"
)

type Grouping struct {
	Mode string
	// Custom range bounds, inclusive. Only set for GroupCustom.
	RangeStart time.Time
	RangeEnd   time.Time
}

// DuplicatePolicyEarliest is the only supported duplicate policy: the record
// with the earliest valid modification date wins its group.
const DuplicatePolicyEarliest = "earliest"

// RunConfig is the immutable per-run configuration the pipeline consumes.
// Built once by config.Resolve; passed by value through every stage.
type RunConfig struct {
	RequiredColumns []string
	Columns         ColumnMap
	Preset          FilterPreset

	EmailCheck      bool
	CoordinateCheck bool

	DuplicatePolicy string
	Grouping        Grouping

	IncludeSummarySheet bool
	IncludeQCSheets     bool
}
