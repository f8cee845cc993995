package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// generatedPrecision rounds generated bounds to two decimals.
const generatedPrecision = 100

// Generate returns count random intervals with lows in [0, span) and widths
// in [0, maxWidth). The same seed always yields the same set. A negative
// count yields an empty set and a negative maxWidth is treated as zero.
func Generate(count int, span, maxWidth float64, seed uint64) *Set {
	rng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // reproducible test data.

	maxWidth = max(maxWidth, 0)
	set := &Set{Records: make([]Record, max(count, 0))}

	for i := range set.Records {
		low := round(rng.Float64() * span)
		set.Records[i] = Record{
			Name: fmt.Sprintf("iv-%d", i),
			Low:  low,
			High: round(low + rng.Float64()*maxWidth),
		}
	}

	return set
}

func round(v float64) float64 {
	return math.Round(v*generatedPrecision) / generatedPrecision
}
