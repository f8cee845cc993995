package interval

import (
	"cmp"
	"slices"
)

// Endpoints returns the strictly ascending set of distinct endpoint values of
// the given intervals. The result has between 1 and 2*len(intervals) elements
// for non-empty input.
func Endpoints[T Number, V any](intervals []Interval[T, V]) []float64 {
	refs := references(intervals)

	return mergeEndpoints(sortByLow(refs), sortByHigh(refs))
}

// references returns a pointer to every element of intervals, in input order.
func references[T Number, V any](intervals []Interval[T, V]) []*Interval[T, V] {
	refs := make([]*Interval[T, V], len(intervals))

	for i := range intervals {
		refs[i] = &intervals[i]
	}

	return refs
}

// sortByLow returns a copy of refs stably sorted by ascending low endpoint.
func sortByLow[T Number, V any](refs []*Interval[T, V]) []*Interval[T, V] {
	sorted := slices.Clone(refs)

	slices.SortStableFunc(sorted, func(a, b *Interval[T, V]) int {
		return cmp.Compare(a.Low, b.Low)
	})

	return sorted
}

// sortByHigh returns a copy of refs stably sorted by ascending high endpoint.
func sortByHigh[T Number, V any](refs []*Interval[T, V]) []*Interval[T, V] {
	sorted := slices.Clone(refs)

	slices.SortStableFunc(sorted, func(a, b *Interval[T, V]) int {
		return cmp.Compare(a.High, b.High)
	})

	return sorted
}

// mergeEndpoints merge-scans the low endpoints of byLow and the high endpoints
// of byHigh into one ascending sequence without duplicates.
func mergeEndpoints[T Number, V any](byLow, byHigh []*Interval[T, V]) []float64 {
	endpoints := make([]float64, 0, len(byLow)+len(byHigh))

	var lowIdx, highIdx int

	for lowIdx < len(byLow) || highIdx < len(byHigh) {
		var next float64

		if highIdx == len(byHigh) || (lowIdx < len(byLow) && byLow[lowIdx].Low <= byHigh[highIdx].High) {
			next = float64(byLow[lowIdx].Low)
			lowIdx++
		} else {
			next = float64(byHigh[highIdx].High)
			highIdx++
		}

		if len(endpoints) == 0 || endpoints[len(endpoints)-1] != next {
			endpoints = append(endpoints, next)
		}
	}

	return endpoints
}
