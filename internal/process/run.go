package process

import (
	"log"

	"veloverify-engine/internal/domain"
)

// Run executes the full pipeline over an in-memory dataset: schema check,
// normalization, status filter, advisory validation, dedup, time bucketing
// and report assembly. The input dataset is never mutated; running twice on
// the same input yields the same report (run id and timestamp aside).
func Run(cfg domain.RunConfig, ds domain.Dataset) (domain.RunResult, error) {
	if err := ValidateSchema(cfg.RequiredColumns, ds.Header); err != nil {
		return domain.RunResult{}, err
	}
	log.Printf("[pipeline] schema ok: %d columns, %d records", len(ds.Header), len(ds.Records))

	normalized := NormalizeAll(cfg, ds)

	kept, rejected := ApplyStatusFilter(cfg.Preset, normalized)
	log.Printf("[pipeline] status filter %q: kept %d, rejected %d", cfg.Preset.Name, len(kept), len(rejected))

	validation := CollectValidationFindings(cfg, kept)

	dd := Dedupe(cfg.Preset, kept)
	log.Printf("[pipeline] dedupe by %s: kept %d, duplicates %d, missing identifier %d",
		cfg.Preset.UIDField, len(dd.Kept), len(dd.Duplicates), len(dd.MissingUID))

	buckets := BucketRecords(cfg.Grouping, dd.Kept)
	log.Printf("[pipeline] grouping %s: %d buckets", cfg.Grouping.Mode, len(buckets))

	res, err := Assemble(cfg, ds, buckets, dd, validation, len(rejected))
	if err != nil {
		return domain.RunResult{}, err
	}
	log.Printf("[pipeline] run %s assembled: %d sheets, %d qc findings", res.RunID, len(res.Sheets), res.Stats.QCFlagged)
	return res, nil
}
