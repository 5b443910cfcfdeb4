package process

import (
	"fmt"

	"veloverify-engine/internal/domain"
)

// DedupeResult partitions the deduplicator's input exactly: every record ends
// up in Kept, MissingUID or Duplicates, and the three counts sum to the input
// count. DateErrors is a non-exclusive overlay flagging kept records whose
// date never parsed.
type DedupeResult struct {
	Kept       []domain.NormalizedRecord
	MissingUID []domain.QCFinding
	Duplicates []domain.QCFinding
	DateErrors []domain.QCFinding
}

// Dedupe groups records by the preset's identifier and keeps the earliest
// dated record per group. Ties on identical dates keep the lower original row
// index; a group with no parseable date at all keeps its first-seen record
// and flags it as a date parse error.
func Dedupe(preset domain.FilterPreset, recs []domain.NormalizedRecord) DedupeResult {
	var res DedupeResult

	missingSheet, dupSheet := QCSheetNames(preset.UIDField)

	type group struct {
		uid     string
		members []domain.NormalizedRecord
	}
	byUID := make(map[string]int)
	var groups []group

	for _, r := range recs {
		uid := r.UID(preset.UIDField)
		if uid == "" {
			res.MissingUID = append(res.MissingUID, domain.QCFinding{
				Sheet:  missingSheet,
				Record: r,
				Reason: fmt.Sprintf("no %s identifier allocated", preset.UIDField),
			})
			continue
		}
		gi, ok := byUID[uid]
		if !ok {
			gi = len(groups)
			byUID[uid] = gi
			groups = append(groups, group{uid: uid})
		}
		groups[gi].members = append(groups[gi].members, r)
	}

	for _, g := range groups {
		winner := selectEarliest(g.members)
		res.Kept = append(res.Kept, winner)

		if winner.ModifiedAt == nil {
			res.DateErrors = append(res.DateErrors, domain.QCFinding{
				Sheet:  SheetDateErrors,
				Record: winner,
				Reason: fmt.Sprintf("unparseable modification date %q", winner.ModifiedAtRaw),
			})
		}

		for _, m := range g.members {
			if m.Raw.Index == winner.Raw.Index {
				continue
			}
			reason := fmt.Sprintf("duplicate of %s; first-seen record retained (no parseable date)", g.uid)
			if winner.ModifiedAt != nil {
				reason = fmt.Sprintf("duplicate of %s; earlier record dated %s retained",
					g.uid, winner.ModifiedAt.Format("2006-01-02 15:04:05"))
			}
			res.Duplicates = append(res.Duplicates, domain.QCFinding{
				Sheet:  dupSheet,
				Record: m,
				Reason: reason,
			})
		}
	}

	return res
}

// selectEarliest picks the member with the minimum valid ModifiedAt. Records
// without a date are never chosen over a dated one; within equal dates (or an
// entirely dateless group) the lowest row index wins.
func selectEarliest(members []domain.NormalizedRecord) domain.NormalizedRecord {
	winner := members[0]
	for _, m := range members[1:] {
		if better(m, winner) {
			winner = m
		}
	}
	return winner
}

func better(a, b domain.NormalizedRecord) bool {
	switch {
	case a.ModifiedAt == nil && b.ModifiedAt == nil:
		return a.Raw.Index < b.Raw.Index
	case a.ModifiedAt == nil:
		return false
	case b.ModifiedAt == nil:
		return true
	case a.ModifiedAt.Equal(*b.ModifiedAt):
		return a.Raw.Index < b.Raw.Index
	default:
		return a.ModifiedAt.Before(*b.ModifiedAt)
	}
}

// QCSheetNames returns the missing-identifier and duplicate sheet names for
// the active identifier kind, keeping the historical pole sheet names for the
// default preset.
func QCSheetNames(uidField string) (missing, duplicates string) {
	switch uidField {
	case domain.UIDPole:
		return "No_Pole_Allocated", "Duplicate_Poles_Removed"
	case domain.UIDDrop:
		return "No_Drop_Allocated", "Duplicate_Drops_Removed"
	default:
		return "No_Identifier_Allocated", "Duplicate_Records_Removed"
	}
}
