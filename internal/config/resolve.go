package config

import (
	"fmt"
	"strings"
	"time"

	"veloverify-engine/internal/domain"
)

// ConfigError is fatal: the run never starts. It carries every problem found
// so the caller can fix all of them at once.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration:\n- " + strings.Join(e.Problems, "\n- ")
}

// Named filter presets. A preset is resolved to one concrete FilterPreset
// value here; nothing downstream ever branches on the preset name.
const (
	PresetPolePermissions = "pole_permissions"
	PresetHomeSignups     = "home_signups"
	PresetCustom          = "custom"
)

// Resolve turns the loaded file config into the immutable RunConfig the
// pipeline consumes, or a ConfigError listing every invalid field.
func Resolve(cfg Config) (domain.RunConfig, error) {
	var problems []string
	addProblem := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	rc := domain.RunConfig{
		RequiredColumns: append([]string(nil), cfg.Processing.RequiredColumns...),
		Columns: domain.ColumnMap{
			Status:     cfg.Columns.Status,
			PoleNumber: cfg.Columns.PoleNumber,
			DropNumber: cfg.Columns.DropNumber,
			AgentName:  cfg.Columns.AgentName,
			ModifiedBy: cfg.Columns.ModifiedBy,
			ModifiedAt: cfg.Columns.ModifiedAt,
			Latitude:   cfg.Columns.Latitude,
			Longitude:  cfg.Columns.Longitude,
		},
		EmailCheck:          cfg.Validation.EmailCheck,
		CoordinateCheck:     cfg.Validation.CoordinateCheck,
		DuplicatePolicy:     cfg.Dedupe.Policy,
		IncludeSummarySheet: cfg.Export.IncludeSummarySheet,
		IncludeQCSheets:     cfg.Export.IncludeQCSheets,
	}

	if len(rc.RequiredColumns) == 0 {
		rc.RequiredColumns = append([]string(nil), DefaultRequiredColumns...)
	}

	// Filter preset
	complexFlow := true
	if cfg.Filter.ComplexFlowHandling != nil {
		complexFlow = *cfg.Filter.ComplexFlowHandling
	}
	preset := domain.FilterPreset{
		Name:          cfg.Filter.Preset,
		CaseSensitive: cfg.Filter.CaseSensitive,
		ComplexFlow:   complexFlow,
	}
	switch cfg.Filter.Preset {
	case PresetPolePermissions, "":
		preset.Name = PresetPolePermissions
		preset.IncludeSubstring = "Pole Permission: Approved"
		preset.ExcludeSubstring = "Home Sign Ups"
		preset.UIDField = domain.UIDPole
	case PresetHomeSignups:
		preset.IncludeSubstring = "Home Sign Ups: Approved"
		preset.ExcludeSubstring = "Pole Permission"
		preset.UIDField = domain.UIDDrop
	case PresetCustom:
		preset.IncludeSubstring = cfg.Filter.Include
		preset.ExcludeSubstring = cfg.Filter.Exclude
		preset.UIDField = cfg.Filter.UIDField
		if preset.IncludeSubstring == "" {
			addProblem("filter.include is required for the custom preset")
		}
	default:
		addProblem("filter.preset %q is unknown (want %s, %s or %s)",
			cfg.Filter.Preset, PresetPolePermissions, PresetHomeSignups, PresetCustom)
	}

	switch preset.UIDField {
	case domain.UIDPole:
		preset.UIDColumn = rc.Columns.PoleNumber
	case domain.UIDDrop:
		preset.UIDColumn = rc.Columns.DropNumber
	case domain.UIDCustom:
		preset.UIDColumn = cfg.Filter.UIDColumn
		if preset.UIDColumn == "" {
			addProblem("filter.uid_column is required when filter.uid_field is custom")
		}
	case "":
		// only reachable for the custom preset
		addProblem("filter.uid_field is required for the custom preset")
	default:
		addProblem("filter.uid_field %q is unknown (want pole, drop or custom)", preset.UIDField)
	}
	rc.Preset = preset

	// Duplicate policy: earliest is the only documented behavior.
	if rc.DuplicatePolicy == "" {
		rc.DuplicatePolicy = domain.DuplicatePolicyEarliest
	}
	if rc.DuplicatePolicy != domain.DuplicatePolicyEarliest {
		addProblem("dedupe.policy %q is unsupported (only %q)", rc.DuplicatePolicy, domain.DuplicatePolicyEarliest)
	}

	// Grouping
	grouping := domain.Grouping{Mode: cfg.Grouping.Mode}
	switch cfg.Grouping.Mode {
	case domain.GroupNone, domain.GroupWeekly, domain.GroupMonthly:
	case "":
		grouping.Mode = domain.GroupWeekly
	case domain.GroupCustom:
		start, serr := parseRangeBound(cfg.Grouping.RangeStart)
		if serr != nil {
			addProblem("grouping.range_start: %v", serr)
		}
		end, eerr := parseRangeBound(cfg.Grouping.RangeEnd)
		if eerr != nil {
			addProblem("grouping.range_end: %v", eerr)
		}
		if serr == nil && eerr == nil && start.After(end) {
			addProblem("grouping range is contradictory: start %s is after end %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		grouping.RangeStart = start
		grouping.RangeEnd = end
	default:
		addProblem("grouping.mode %q is unknown (want none, weekly, monthly or custom)", cfg.Grouping.Mode)
	}
	rc.Grouping = grouping

	switch cfg.Export.Format {
	case "csv", "sqlite", "":
	default:
		addProblem("export.format %q is unknown (want csv or sqlite)", cfg.Export.Format)
	}

	if len(problems) > 0 {
		return domain.RunConfig{}, &ConfigError{Problems: problems}
	}
	return rc, nil
}

func parseRangeBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date (want YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
