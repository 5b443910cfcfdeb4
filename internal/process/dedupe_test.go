package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veloverify-engine/internal/domain"
)

func rec(index int, pole string, modified string) domain.NormalizedRecord {
	n := domain.NormalizedRecord{
		Raw:           domain.RawRecord{Index: index, Values: map[string]string{"Pole Number": pole}},
		Identifiers:   map[string]string{domain.UIDPole: pole},
		ModifiedAtRaw: modified,
	}
	if t := ParseModifiedAt(modified); t != nil {
		n.ModifiedAt = t
	}
	return n
}

func TestDedupeKeepsEarliest(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(0, "LAW.P.B167", "2025-07-12"),
		rec(1, "LAW.P.B167", "2025-07-10"),
		rec(2, "LAW.P.B167", "2025-07-11"),
	})

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 1, res.Kept[0].Raw.Index)
	assert.Len(t, res.Duplicates, 2)
	assert.Empty(t, res.MissingUID)
	assert.Empty(t, res.DateErrors)
	for _, d := range res.Duplicates {
		assert.Equal(t, "Duplicate_Poles_Removed", d.Sheet)
		assert.Contains(t, d.Reason, "LAW.P.B167")
	}
}

func TestDedupeMixedFormatDates(t *testing.T) {
	// The winner is decided on the parsed timeline, not the raw strings.
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(0, "LAW.P.A100", "Fri Jul 11 2025 12:50:02 GMT+0200"),
		rec(1, "LAW.P.A100", "2025-07-10 16:16:48.371919+02"),
	})

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 1, res.Kept[0].Raw.Index)
}

func TestDedupeEqualDatesKeepLowerIndex(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(3, "LAW.P.A100", "2025-07-10"),
		rec(7, "LAW.P.A100", "2025-07-10"),
	})

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 3, res.Kept[0].Raw.Index)
}

func TestDedupeDatelessNeverBeatsDated(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(0, "LAW.P.A100", "not a date"),
		rec(1, "LAW.P.A100", "2025-07-12"),
	})

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 1, res.Kept[0].Raw.Index)
	assert.Empty(t, res.DateErrors)
}

func TestDedupeAllDatelessKeepsFirstSeenAndFlags(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(4, "LAW.P.A100", "garbage"),
		rec(9, "LAW.P.A100", "also garbage"),
	})

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 4, res.Kept[0].Raw.Index)

	require.Len(t, res.DateErrors, 1)
	assert.Equal(t, SheetDateErrors, res.DateErrors[0].Sheet)
	assert.Contains(t, res.DateErrors[0].Reason, `"garbage"`)

	require.Len(t, res.Duplicates, 1)
	assert.Contains(t, res.Duplicates[0].Reason, "no parseable date")
}

func TestDedupeMissingIdentifier(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(0, "", "2025-07-10"),
		rec(1, "LAW.P.A100", "2025-07-10"),
	})

	require.Len(t, res.MissingUID, 1)
	assert.Equal(t, "No_Pole_Allocated", res.MissingUID[0].Sheet)
	assert.Len(t, res.Kept, 1)
}

func TestDedupePreservesInputPartition(t *testing.T) {
	in := []domain.NormalizedRecord{
		rec(0, "A", "2025-07-10"),
		rec(1, "A", "2025-07-11"),
		rec(2, "B", "2025-07-10"),
		rec(3, "", "2025-07-10"),
		rec(4, "C", "bad"),
	}
	res := Dedupe(polePreset(), in)

	assert.Equal(t, len(in), len(res.Kept)+len(res.Duplicates)+len(res.MissingUID))
}

func TestDedupeKeptOrderFollowsFirstSeen(t *testing.T) {
	res := Dedupe(polePreset(), []domain.NormalizedRecord{
		rec(0, "B", "2025-07-10"),
		rec(1, "A", "2025-07-10"),
		rec(2, "B", "2025-07-09"),
	})

	require.Len(t, res.Kept, 2)
	assert.Equal(t, "B", res.Kept[0].UID(domain.UIDPole))
	assert.Equal(t, "A", res.Kept[1].UID(domain.UIDPole))
}

func TestDedupeCustomIdentifierAliasingPoleColumn(t *testing.T) {
	// A custom preset may point its uid column at the pole column; the
	// records still dedupe under the custom key.
	cfg := normConfig(t)
	cfg.Preset.Name = "custom"
	cfg.Preset.UIDField = domain.UIDCustom
	cfg.Preset.UIDColumn = "Pole Number"

	ds := domain.Dataset{
		Header: []string{"Pole Number", "lst_mod_dt"},
		Records: []domain.RawRecord{
			{Index: 0, Values: map[string]string{"Pole Number": "P1", "lst_mod_dt": "2025-06-01"}},
			{Index: 1, Values: map[string]string{"Pole Number": "P1", "lst_mod_dt": "2025-05-20"}},
		},
	}

	res := Dedupe(cfg.Preset, NormalizeAll(cfg, ds))

	require.Len(t, res.Kept, 1)
	assert.Equal(t, 1, res.Kept[0].Raw.Index)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "Duplicate_Records_Removed", res.Duplicates[0].Sheet)
	assert.Empty(t, res.MissingUID)
}

func TestQCSheetNames(t *testing.T) {
	tests := []struct {
		uidField string
		missing  string
		dup      string
	}{
		{domain.UIDPole, "No_Pole_Allocated", "Duplicate_Poles_Removed"},
		{domain.UIDDrop, "No_Drop_Allocated", "Duplicate_Drops_Removed"},
		{domain.UIDCustom, "No_Identifier_Allocated", "Duplicate_Records_Removed"},
	}
	for _, tc := range tests {
		missing, dup := QCSheetNames(tc.uidField)
		assert.Equal(t, tc.missing, missing)
		assert.Equal(t, tc.dup, dup)
	}
}
