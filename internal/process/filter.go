package process

import (
	"strings"

	"veloverify-engine/internal/domain"
)

// ApplyStatusFilter splits records into kept and rejected per the preset's
// include/exclude substrings. Rejected records are out of scope for the run;
// they are not QC errors.
func ApplyStatusFilter(preset domain.FilterPreset, recs []domain.NormalizedRecord) (kept, rejected []domain.NormalizedRecord) {
	for _, r := range recs {
		if ShouldKeepRecord(preset, r.Status) {
			kept = append(kept, r)
		} else {
			rejected = append(rejected, r)
		}
	}
	return kept, rejected
}

// ShouldKeepRecord evaluates one status value against the preset.
//
// The status field may carry several comma/semicolon-joined lifecycle tags at
// once. Containment over the joined string already handles that, but the
// exclude rule is asymmetric under complex-flow handling: a record carrying
// both the include and the exclude term is kept. The positive signal wins;
// never the reverse.
func ShouldKeepRecord(preset domain.FilterPreset, status string) bool {
	value := status
	include := preset.IncludeSubstring
	exclude := preset.ExcludeSubstring
	if !preset.CaseSensitive {
		value = strings.ToLower(value)
		include = strings.ToLower(include)
		exclude = strings.ToLower(exclude)
	}

	included := include != "" && strings.Contains(value, include)

	excluded := exclude != "" && strings.Contains(value, exclude)
	if preset.ComplexFlow && included {
		excluded = false
	}

	return included && !excluded
}
