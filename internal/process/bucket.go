package process

import (
	"fmt"
	"sort"
	"time"

	"veloverify-engine/internal/domain"
)

// BucketRecords partitions the deduplicated record set into time buckets:
// exhaustive, disjoint, buckets newest-first, records within a bucket
// newest-first with row-index tie-breaks. Records without a parsed date go to
// the dedicated date-error bucket, never into a date bucket.
func BucketRecords(g domain.Grouping, recs []domain.NormalizedRecord) []domain.TimeBucket {
	var dated, dateless []domain.NormalizedRecord
	for _, r := range recs {
		if r.ModifiedAt == nil {
			dateless = append(dateless, r)
		} else {
			dated = append(dated, r)
		}
	}

	var buckets []domain.TimeBucket
	switch g.Mode {
	case domain.GroupWeekly:
		buckets = bucketBy(dated, weeklyBucket)
	case domain.GroupMonthly:
		buckets = bucketBy(dated, monthlyBucket)
	case domain.GroupCustom:
		buckets = bucketBy(dated, func(t time.Time) domain.TimeBucket {
			return customBucket(g, t)
		})
	default: // domain.GroupNone
		if len(dated) > 0 {
			buckets = []domain.TimeBucket{{Label: "All_Records", Records: dated}}
		}
	}

	// Buckets newest-first by representative date.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].End.After(buckets[j].End)
	})
	for i := range buckets {
		sortNewestFirst(buckets[i].Records)
	}

	if len(dateless) > 0 {
		sortNewestFirst(dateless)
		buckets = append(buckets, domain.TimeBucket{
			Label:   domain.DateErrorBucketLabel,
			Records: dateless,
		})
	}

	return buckets
}

func bucketBy(recs []domain.NormalizedRecord, key func(time.Time) domain.TimeBucket) []domain.TimeBucket {
	index := make(map[string]int)
	var buckets []domain.TimeBucket
	for _, r := range recs {
		proto := key(*r.ModifiedAt)
		bi, ok := index[proto.Label]
		if !ok {
			bi = len(buckets)
			index[proto.Label] = bi
			buckets = append(buckets, proto)
		}
		buckets[bi].Records = append(buckets[bi].Records, r)
	}
	return buckets
}

// weeklyBucket assigns t to the week ending on the Sunday on or after its
// calendar day. Time of day never moves a record across weeks.
func weeklyBucket(t time.Time) domain.TimeBucket {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (7 - int(day.Weekday())) % 7 // Sunday stays put
	end := day.AddDate(0, 0, offset)
	return domain.TimeBucket{
		Label: "Week_Ending_" + end.Format("2006-01-02"),
		Start: end.AddDate(0, 0, -6),
		End:   end,
	}
}

// monthlyBucket assigns t to its calendar year-month. The upper bound is the
// first instant of the following month (exclusive).
func monthlyBucket(t time.Time) domain.TimeBucket {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return domain.TimeBucket{
		Label: "Month_" + start.Format("2006-01"),
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// customBucket splits records around an inclusive [start, end] day range.
func customBucket(g domain.Grouping, t time.Time) domain.TimeBucket {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	startLabel := g.RangeStart.Format("2006-01-02")
	endLabel := g.RangeEnd.Format("2006-01-02")
	switch {
	case day.Before(g.RangeStart):
		return domain.TimeBucket{
			Label: "Before_" + startLabel,
			End:   g.RangeStart.AddDate(0, 0, -1),
		}
	case day.After(g.RangeEnd):
		return domain.TimeBucket{
			Label: "After_" + endLabel,
			Start: g.RangeEnd.AddDate(0, 0, 1),
			End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		return domain.TimeBucket{
			Label: fmt.Sprintf("Range_%s_to_%s", startLabel, endLabel),
			Start: g.RangeStart,
			End:   g.RangeEnd,
		}
	}
}

func sortNewestFirst(recs []domain.NormalizedRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
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
			return a.ModifiedAt.After(*b.ModifiedAt)
		}
	})
}
