// Package interval provides a static interval tree for efficient range-overlap
// queries over a fixed set of closed intervals. The tree is built once from
// the sorted endpoints of all intervals and is read-only afterwards, so a
// single tree may be queried from many goroutines without locking.
//
// Every node holds a split value. An interval is attached to the first node on
// its search path whose split value it contains, and each node keeps its
// intervals twice: ordered by low endpoint and ordered by high endpoint. The
// two orderings let a query stop scanning a node's list at the first
// non-overlapping interval, giving O(log k + m) queries for k endpoints and m
// results.
package interval

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Sentinel errors returned by Build.
var (
	// ErrEmptyInput indicates Build was called with no intervals.
	ErrEmptyInput = errors.New("no intervals to build from")
	// ErrInvalidInterval indicates an interval whose low endpoint exceeds its
	// high endpoint, or whose endpoints are not finite float64 values.
	ErrInvalidInterval = errors.New("invalid interval")
)

// maxExactInt bounds the integer endpoints accepted by Validate. Integers with
// a smaller magnitude convert to float64 and back without loss.
const maxExactInt = 1 << 53

// Number is the set of endpoint types accepted by the tree. Split values are
// always float64, so integer endpoints must lie strictly within ±2^53.
type Number interface {
	constraints.Integer | constraints.Float
}

// Interval represents a closed range [Low, High] with an associated Value.
type Interval[T Number, V any] struct {
	Low   T
	High  T
	Value V
}

// Contains reports whether point lies within [Low, High].
func (iv Interval[T, V]) Contains(point float64) bool {
	return float64(iv.Low) <= point && point <= float64(iv.High)
}

// Intersects reports whether the two closed ranges share at least one point.
// Ranges that only touch at an endpoint intersect.
func (iv Interval[T, V]) Intersects(other Interval[T, V]) bool {
	return !(iv.High < other.Low || iv.Low > other.High)
}

// Validate returns ErrInvalidInterval unless Low <= High and both endpoints
// are finite. Integer endpoints must also lie strictly within ±2^53.
func (iv Interval[T, V]) Validate() error {
	// Negated so NaN endpoints are rejected too.
	if !(iv.Low <= iv.High) {
		return fmt.Errorf("%s: %w", iv, ErrInvalidInterval)
	}

	if !exact(iv.Low) || !exact(iv.High) {
		return fmt.Errorf("%s: endpoint not representable as a finite float64: %w", iv, ErrInvalidInterval)
	}

	return nil
}

// exact reports whether v survives the float64 split-value arithmetic.
func exact[T Number](v T) bool {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}

	one, two := T(1), T(2)
	if one/two != 0 {
		return true
	}

	return math.Abs(f) < maxExactInt
}

// String formats the interval as "[low, high]".
func (iv Interval[T, V]) String() string {
	return fmt.Sprintf("[%v, %v]", iv.Low, iv.High)
}
