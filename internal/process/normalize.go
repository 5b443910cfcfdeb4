package process

import (
	"regexp"
	"strconv"
	"strings"

	"veloverify-engine/internal/domain"
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// cleanText collapses whitespace (including non-breaking spaces) and trims.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NormalizeAll derives exactly one NormalizedRecord per input row, in input
// order. Parse failures never drop a record here; they only clear the typed
// field or flip a validity flag for QC reporting.
func NormalizeAll(cfg domain.RunConfig, ds domain.Dataset) []domain.NormalizedRecord {
	out := make([]domain.NormalizedRecord, 0, len(ds.Records))
	for _, raw := range ds.Records {
		out = append(out, normalizeOne(cfg, raw))
	}
	return out
}

func normalizeOne(cfg domain.RunConfig, raw domain.RawRecord) domain.NormalizedRecord {
	cols := cfg.Columns

	n := domain.NormalizedRecord{
		Raw: raw,
		// Both identifier kinds are captured regardless of the active preset
		// so dedup can be reconfigured without re-normalizing.
		Identifiers: map[string]string{
			domain.UIDPole: cleanText(raw.Get(cols.PoleNumber)),
			domain.UIDDrop: cleanText(raw.Get(cols.DropNumber)),
		},
		Status:        cleanText(raw.Get(cols.Status)),
		ModifiedBy:    cleanText(raw.Get(cols.ModifiedBy)),
		AgentName:     cleanText(raw.Get(cols.AgentName)),
		ModifiedAt:    ParseModifiedAt(raw.Get(cols.ModifiedAt)),
		ModifiedAtRaw: cleanText(raw.Get(cols.ModifiedAt)),
	}

	// The custom key is populated whenever the active preset dedupes on it,
	// even when its column aliases the pole or drop column: the lookup key is
	// the uid kind, not the column name.
	if cfg.Preset.UIDField == domain.UIDCustom {
		n.Identifiers[domain.UIDCustom] = cleanText(raw.Get(cfg.Preset.UIDColumn))
	}

	n.Latitude = parseCoord(raw.Get(cols.Latitude), 90)
	n.Longitude = parseCoord(raw.Get(cols.Longitude), 180)
	n.CoordinateValid = n.Latitude != nil && n.Longitude != nil

	// Email shape check is advisory: a mismatch flags the record, nothing more.
	n.EmailValid = emailRx.MatchString(n.ModifiedBy)

	return n
}

// parseCoord returns the value only when it is numeric and within ±limit.
func parseCoord(raw string, limit float64) *float64 {
	s := cleanText(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -limit || v > limit {
		return nil
	}
	return &v
}
