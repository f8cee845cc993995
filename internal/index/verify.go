package index

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
)

// Range is a closed query range.
type Range struct {
	Low  float64 `json:"low"  yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Mismatch is a query where the tree and a linear scan disagree.
type Mismatch struct {
	Query Range            `json:"query"  yaml:"query"`
	Tree  []dataset.Record `json:"tree"   yaml:"tree"`
	Scan  []dataset.Record `json:"scan"   yaml:"scan"`
}

// RandomRanges returns count ranges spread across the indexed span, widened
// by a quarter on each side so that empty results are exercised too.
// Roughly one in four ranges is a point. A negative count yields no ranges.
func (ix *Index) RandomRanges(count int, seed uint64) []Range {
	rng := rand.New(rand.NewPCG(seed, ^seed)) //nolint:gosec // reproducible verification queries.

	lo, hi := ix.span()
	width := hi - lo
	lo -= width / 4
	width *= 1.5

	ranges := make([]Range, max(count, 0))
	for i := range ranges {
		a := lo + rng.Float64()*width
		if rng.IntN(4) == 0 {
			ranges[i] = Range{Low: a, High: a}

			continue
		}

		b := a + rng.Float64()*width/8
		ranges[i] = Range{Low: a, High: b}
	}

	return ranges
}

// Verify runs each range through the tree and through a linear scan of the
// dataset and returns the ranges whose result multisets differ.
func (ix *Index) Verify(ctx context.Context, ranges []Range) ([]Mismatch, error) {
	ctx, span := ix.tracer.Start(ctx, "index.verify")
	defer span.End()

	var mismatches []Mismatch

	for _, q := range ranges {
		err := ctx.Err()
		if err != nil {
			return mismatches, fmt.Errorf("verify: %w", err)
		}

		got := sortRecords(toRecords(ix.tree.QueryOverlap(q.Low, q.High)))
		want := sortRecords(ix.scan(q))

		if !slices.Equal(got, want) {
			mismatches = append(mismatches, Mismatch{Query: q, Tree: got, Scan: want})
		}
	}

	ix.logger.InfoContext(ctx, "verification finished",
		"queries", len(ranges),
		"mismatches", len(mismatches),
	)

	return mismatches, nil
}

func (ix *Index) scan(q Range) []dataset.Record {
	var out []dataset.Record

	for _, iv := range ix.intervals {
		if q.Low <= iv.High && iv.Low <= q.High {
			out = append(out, dataset.RecordOf(iv))
		}
	}

	return out
}

func (ix *Index) span() (lo, hi float64) {
	lo, hi = ix.intervals[0].Low, ix.intervals[0].High
	for _, iv := range ix.intervals[1:] {
		lo = min(lo, iv.Low)
		hi = max(hi, iv.High)
	}

	return lo, hi
}

func sortRecords(records []dataset.Record) []dataset.Record {
	slices.SortFunc(records, func(a, b dataset.Record) int {
		return cmp.Or(
			cmp.Compare(a.Low, b.Low),
			cmp.Compare(a.High, b.High),
			cmp.Compare(a.Name, b.Name),
		)
	})

	return records
}
