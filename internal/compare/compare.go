package compare

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"veloverify-engine/internal/domain"
	"veloverify-engine/internal/ingest"
)

// Result is the outcome of diffing two exports on a composite key. Records
// keep their source-file order.
type Result struct {
	Keys    []string
	OnlyInA []domain.RawRecord
	OnlyInB []domain.RawRecord
	InBoth  int
	TotalA  int
	TotalB  int
}

// Files loads both exports concurrently and diffs them. When keys is empty
// the comparison keys on the columns the two headers share, in file A's
// header order.
func Files(pathA, pathB string, keys []string) (Result, error) {
	var a, b domain.Dataset

	var g errgroup.Group
	g.Go(func() error {
		var err error
		a, err = ingest.ReadCSV(pathA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = ingest.ReadCSV(pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Datasets(a, b, keys)
}

// Datasets diffs two already-loaded datasets on the given key columns.
func Datasets(a, b domain.Dataset, keys []string) (Result, error) {
	if len(keys) == 0 {
		keys = sharedColumns(a.Header, b.Header)
		if len(keys) == 0 {
			return Result{}, fmt.Errorf("no shared columns to compare on")
		}
	}
	for _, k := range keys {
		if !hasColumn(a.Header, k) || !hasColumn(b.Header, k) {
			return Result{}, fmt.Errorf("key column %q missing from one side", k)
		}
	}

	res := Result{Keys: keys, TotalA: len(a.Records), TotalB: len(b.Records)}

	inB := make(map[string]bool, len(b.Records))
	for _, r := range b.Records {
		inB[mergeKey(r, keys)] = true
	}
	inA := make(map[string]bool, len(a.Records))
	for _, r := range a.Records {
		inA[mergeKey(r, keys)] = true
	}

	for _, r := range a.Records {
		if inB[mergeKey(r, keys)] {
			res.InBoth++
		} else {
			res.OnlyInA = append(res.OnlyInA, r)
		}
	}
	for _, r := range b.Records {
		if !inA[mergeKey(r, keys)] {
			res.OnlyInB = append(res.OnlyInB, r)
		}
	}

	return res, nil
}

// mergeKey joins the key column values with an unlikely separator so composite
// keys never collide on concatenation.
func mergeKey(r domain.RawRecord, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strings.TrimSpace(r.Get(k))
	}
	return strings.Join(parts, "\x1f")
}

func sharedColumns(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, c := range b {
		inB[c] = true
	}
	var shared []string
	for _, c := range a {
		if inB[c] {
			shared = append(shared, c)
		}
	}
	return shared
}

func hasColumn(header []string, name string) bool {
	for _, c := range header {
		if c == name {
			return true
		}
	}
	return false
}
