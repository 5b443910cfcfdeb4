package process

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"veloverify-engine/internal/domain"
)

const SheetSummary = "Processing_Summary"

// Assemble merges buckets, QC findings and aggregate statistics into the
// final RunResult. Pure aggregation: no input is mutated. The conservation
// invariant is verified here so a broken partition can never leave this
// package unnoticed.
func Assemble(
	cfg domain.RunConfig,
	ds domain.Dataset,
	buckets []domain.TimeBucket,
	dd DedupeResult,
	validation []domain.QCFinding,
	statusRejected int,
) (domain.RunResult, error) {
	stats := domain.Stats{
		TotalInput:        len(ds.Records),
		StatusRejected:    statusRejected,
		MissingIdentifier: len(dd.MissingUID),
		DuplicatesRemoved: len(dd.Duplicates),
		Kept:              len(dd.Kept),
	}

	keptInBuckets := 0
	for _, b := range buckets {
		keptInBuckets += len(b.Records)
		stats.PerBucket = append(stats.PerBucket, domain.BucketCount{Label: b.Label, Count: len(b.Records)})
	}
	if keptInBuckets != stats.Kept {
		return domain.RunResult{}, fmt.Errorf("bucket partition broken: %d records in buckets, %d kept", keptInBuckets, stats.Kept)
	}
	if got := stats.Kept + stats.MissingIdentifier + stats.DuplicatesRemoved + stats.StatusRejected; got != stats.TotalInput {
		return domain.RunResult{}, fmt.Errorf("conservation broken: %d accounted for, %d input", got, stats.TotalInput)
	}

	uids := make(map[string]bool, len(dd.Kept))
	for _, r := range dd.Kept {
		uids[r.UID(cfg.Preset.UIDField)] = true
	}
	stats.UniqueIdentifiers = len(uids)

	if cfg.EmailCheck {
		stats.PerAgent = make(map[string]int)
		for _, r := range dd.Kept {
			if r.AgentName != "" {
				stats.PerAgent[r.AgentName]++
			}
		}
	}

	// QC sheets in deterministic order. Findings are non-exclusive; a record
	// may appear on several sheets.
	missingSheet, dupSheet := QCSheetNames(cfg.Preset.UIDField)
	qcSheets := make(map[string][]domain.QCFinding)
	qcOrder := []string{missingSheet, dupSheet, SheetAgentMismatch, SheetBadCoords, SheetDateErrors}
	for _, f := range concatFindings(dd.MissingUID, dd.Duplicates, validation, dd.DateErrors) {
		qcSheets[f.Sheet] = append(qcSheets[f.Sheet], f)
		stats.QCFlagged++
	}

	res := domain.RunResult{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Header:      append([]string(nil), ds.Header...),
		Buckets:     buckets,
		QCSheets:    qcSheets,
		QCOrder:     qcOrder,
		Stats:       stats,
	}
	res.Sheets = renderSheets(cfg, res)
	return res, nil
}

// renderSheets produces the sheet-name -> row-set view: buckets newest-first,
// then QC sheets, then the summary.
func renderSheets(cfg domain.RunConfig, res domain.RunResult) []domain.Sheet {
	var sheets []domain.Sheet

	for _, b := range res.Buckets {
		sheet := domain.Sheet{Name: b.Label, Columns: res.Header}
		for _, r := range b.Records {
			sheet.Rows = append(sheet.Rows, renderRow(res.Header, r.Raw))
		}
		sheets = append(sheets, sheet)
	}

	if cfg.IncludeQCSheets {
		qcColumns := append(append([]string(nil), res.Header...), "QC Reason")
		for _, name := range res.QCOrder {
			findings := res.QCSheets[name]
			if len(findings) == 0 {
				continue
			}
			sheet := domain.Sheet{Name: name, Columns: qcColumns}
			for _, f := range findings {
				sheet.Rows = append(sheet.Rows, append(renderRow(res.Header, f.Record.Raw), f.Reason))
			}
			sheets = append(sheets, sheet)
		}
	}

	if cfg.IncludeSummarySheet {
		sheets = append(sheets, summarySheet(res))
	}

	return sheets
}

func renderRow(header []string, raw domain.RawRecord) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = raw.Values[col]
	}
	return row
}

func summarySheet(res domain.RunResult) domain.Sheet {
	s := res.Stats
	sheet := domain.Sheet{Name: SheetSummary, Columns: []string{"Metric", "Value"}}
	add := func(metric, value string) {
		sheet.Rows = append(sheet.Rows, []string{metric, value})
	}
	addInt := func(metric string, value int) { add(metric, strconv.Itoa(value)) }

	add("Run ID", res.RunID)
	add("Processing Timestamp", res.GeneratedAt.Format("2006-01-02 15:04:05"))
	addInt("Total Input Records", s.TotalInput)
	addInt("Status Filter Rejected", s.StatusRejected)
	addInt("Missing Identifier", s.MissingIdentifier)
	addInt("Duplicates Removed", s.DuplicatesRemoved)
	addInt("Records Kept", s.Kept)
	addInt("Unique Identifiers", s.UniqueIdentifiers)
	addInt("QC Findings", s.QCFlagged)
	for _, bc := range s.PerBucket {
		addInt("Records in "+bc.Label, bc.Count)
	}
	for _, a := range sortedAgents(s.PerAgent) {
		addInt("Agent "+a.name, a.count)
	}
	return sheet
}

type agentCount struct {
	name  string
	count int
}

func sortedAgents(perAgent map[string]int) []agentCount {
	out := make([]agentCount, 0, len(perAgent))
	for name, count := range perAgent {
		out = append(out, agentCount{name, count})
	}
	// deterministic summary output
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func concatFindings(groups ...[]domain.QCFinding) []domain.QCFinding {
	var all []domain.QCFinding
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
