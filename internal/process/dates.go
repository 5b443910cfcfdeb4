package process

import (
	"strings"
	"time"
)

// dateFormat is one parser strategy. Strategies are tried in order; the first
// successful parse wins. Adding a new source format means appending here, not
// growing a conditional tree.
type dateFormat struct {
	name   string
	layout string
}

var dateFormats = []dateFormat{
	// ISO-8601 family, as emitted by the workflow database
	// (e.g. "2025-07-10 16:16:48.371919+02"). Fractional seconds and the
	// offset colon are optional in these layouts.
	{"rfc3339", time.RFC3339Nano},
	{"iso-space-offset-colon", "2006-01-02 15:04:05.999999-07:00"},
	{"iso-space-offset", "2006-01-02 15:04:05.999999-07"},
	{"iso-space", "2006-01-02 15:04:05.999999"},
	{"date-only", "2006-01-02"},
	// Verbose browser-style form, e.g. "Fri Jul 11 2025 12:50:02 GMT+0200".
	// A trailing "(South Africa Standard Time)" style zone name is stripped
	// before this layout is tried.
	{"verbose-gmt", "Mon Jan 02 2006 15:04:05 GMT-0700"},
}

// ParseModifiedAt parses a raw modification timestamp. A nil result means no
// strategy matched; the record stays in the pipeline and is routed to the
// date-parse-error QC sheet later.
func ParseModifiedAt(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Drop a parenthesized zone name ("... GMT+0200 (SAST)").
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}

	for _, f := range dateFormats {
		if t, err := time.Parse(f.layout, s); err == nil {
			return &t
		}
	}
	return nil
}
