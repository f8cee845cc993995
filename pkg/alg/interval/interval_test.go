package interval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants.
const (
	testLow1     = 1
	testHigh5    = 5
	testLow3     = 3
	testHigh8    = 8
	testLow10    = 10
	testHigh15   = 15
	testPoint2   = 2
	testPoint3   = 3
	testPoint4   = 4
	testPoint6   = 6
	testPoint9   = 9
	testHigh20   = 20
	testValueA   = "a"
	testValueB   = "b"
	testValueC   = "c"
	testSplit4p5 = 4.5
)

// scenarioIntervals returns [(1,5), (3,8), (10,15)] labelled a, b, c.
func scenarioIntervals() []Interval[int, string] {
	return []Interval[int, string]{
		{Low: testLow1, High: testHigh5, Value: testValueA},
		{Low: testLow3, High: testHigh8, Value: testValueB},
		{Low: testLow10, High: testHigh15, Value: testValueC},
	}
}

// values extracts the payloads of intervals for order-insensitive comparison.
func values[T Number, V any](intervals []Interval[T, V]) []V {
	out := make([]V, 0, len(intervals))

	for _, iv := range intervals {
		out = append(out, iv.Value)
	}

	return out
}

// TestInterval_Contains verifies closed-range point containment.
func TestInterval_Contains(t *testing.T) {
	t.Parallel()

	iv := Interval[int, string]{Low: testLow1, High: testHigh5}

	assert.True(t, iv.Contains(testLow1))
	assert.True(t, iv.Contains(testHigh5))
	assert.True(t, iv.Contains(testSplit4p5))
	assert.False(t, iv.Contains(0.999))
	assert.False(t, iv.Contains(5.001))
}

// TestInterval_Intersects verifies overlap including touching endpoints.
func TestInterval_Intersects(t *testing.T) {
	t.Parallel()

	base := Interval[int, string]{Low: testLow3, High: testHigh8}

	tests := []struct {
		name  string
		other Interval[int, string]
		want  bool
	}{
		{name: "inside", other: Interval[int, string]{Low: testPoint4, High: testPoint6}, want: true},
		{name: "covers", other: Interval[int, string]{Low: testLow1, High: testHigh20}, want: true},
		{name: "overlaps low", other: Interval[int, string]{Low: testLow1, High: testPoint4}, want: true},
		{name: "touches high", other: Interval[int, string]{Low: testHigh8, High: testLow10}, want: true},
		{name: "touches low", other: Interval[int, string]{Low: testLow1, High: testLow3}, want: true},
		{name: "before", other: Interval[int, string]{Low: testLow1, High: testPoint2}, want: false},
		{name: "after", other: Interval[int, string]{Low: testPoint9, High: testHigh20}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base), "intersection must be symmetric")
		})
	}
}

// TestInterval_Validate verifies that inverted and NaN intervals are rejected.
func TestInterval_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Interval[int, string]{Low: testPoint2, High: testPoint2}.Validate())

	err := Interval[int, string]{Low: testHigh5, High: testLow1}.Validate()
	require.ErrorIs(t, err, ErrInvalidInterval)
	assert.Contains(t, err.Error(), "[5, 1]")

	err = Interval[float64, string]{Low: math.NaN(), High: testHigh5}.Validate()
	require.ErrorIs(t, err, ErrInvalidInterval)
}

// TestInterval_Validate_NonFinite verifies that infinite endpoints are rejected.
func TestInterval_Validate_NonFinite(t *testing.T) {
	t.Parallel()

	cases := []Interval[float64, string]{
		{Low: math.Inf(-1), High: testHigh5},
		{Low: testLow1, High: math.Inf(1)},
		{Low: math.Inf(-1), High: math.Inf(-1)},
		{Low: math.Inf(1), High: math.Inf(1)},
	}

	for _, iv := range cases {
		require.ErrorIs(t, iv.Validate(), ErrInvalidInterval, iv.String())
	}

	require.NoError(t, Interval[float32, string]{Low: -math.MaxFloat32, High: math.MaxFloat32}.Validate())
}

// TestInterval_Validate_IntegerPrecision verifies that integer endpoints must
// convert to float64 without loss.
func TestInterval_Validate_IntegerPrecision(t *testing.T) {
	t.Parallel()

	const limit = int64(1) << 53

	require.NoError(t, Interval[int64, string]{Low: -(limit - 1), High: limit - 1}.Validate())
	require.ErrorIs(t, Interval[int64, string]{Low: limit, High: limit}.Validate(), ErrInvalidInterval)
	require.ErrorIs(t, Interval[int64, string]{Low: 0, High: limit + 1}.Validate(), ErrInvalidInterval)
	require.ErrorIs(t, Interval[int64, string]{Low: -limit, High: 0}.Validate(), ErrInvalidInterval)
	require.ErrorIs(t, Interval[uint64, string]{Low: 0, High: math.MaxUint64}.Validate(), ErrInvalidInterval)
	require.NoError(t, Interval[uint8, string]{Low: 0, High: math.MaxUint8}.Validate())
}

// TestBuild_InfiniteEndpoints verifies that Build reports infinite endpoints
// as invalid input instead of building a tree around NaN split values.
func TestBuild_InfiniteEndpoints(t *testing.T) {
	t.Parallel()

	tree, err := Build([]Interval[float64, string]{
		{Low: math.Inf(-1), High: math.Inf(-1), Value: testValueA},
		{Low: math.Inf(1), High: math.Inf(1), Value: testValueB},
	})
	require.ErrorIs(t, err, ErrInvalidInterval)
	assert.Contains(t, err.Error(), "interval 0")
	assert.Nil(t, tree)
}

// TestBuild_LargeIntegerEndpoints verifies that Build rejects integers whose
// float64 split values would round onto neighbouring endpoints.
func TestBuild_LargeIntegerEndpoints(t *testing.T) {
	t.Parallel()

	const limit = int64(1) << 53

	_, err := Build([]Interval[int64, string]{{Low: limit, High: limit, Value: testValueA}})
	require.ErrorIs(t, err, ErrInvalidInterval)

	tree, err := Build([]Interval[int64, string]{{Low: limit - 1, High: limit - 1, Value: testValueA}})
	require.NoError(t, err)
	assert.Empty(t, tree.QueryPoint(limit+1))
	assert.Equal(t, []string{testValueA}, values(tree.QueryPoint(limit-1)))
}

// TestInterval_String verifies diagnostic formatting.
func TestInterval_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[1, 5]", Interval[int, string]{Low: testLow1, High: testHigh5}.String())
	assert.Equal(t, "[0.5, 1.25]", Interval[float64, int]{Low: 0.5, High: 1.25}.String())
}

// TestBuild_EmptyInput verifies that building from no intervals fails.
func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	tree, err := Build[int, string](nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, tree)
}

// TestBuild_InvalidInterval verifies that the offending index is reported.
func TestBuild_InvalidInterval(t *testing.T) {
	t.Parallel()

	intervals := scenarioIntervals()
	intervals[1].Low, intervals[1].High = intervals[1].High, intervals[1].Low

	tree, err := Build(intervals)
	require.ErrorIs(t, err, ErrInvalidInterval)
	assert.Contains(t, err.Error(), "interval 1")
	assert.Nil(t, tree)
}

// TestBuild_DoesNotReorderInput verifies the caller's slice keeps its order.
func TestBuild_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	intervals := []Interval[int, string]{
		{Low: testLow10, High: testHigh15, Value: testValueC},
		{Low: testLow1, High: testHigh5, Value: testValueA},
		{Low: testLow3, High: testHigh8, Value: testValueB},
	}

	_, err := Build(intervals)
	require.NoError(t, err)

	assert.Equal(t, []string{testValueC, testValueA, testValueB}, values(intervals))
}

// TestScenario_ThreeIntervals verifies queries over [(1,5), (3,8), (10,15)].
func TestScenario_ThreeIntervals(t *testing.T) {
	t.Parallel()

	tree, err := Build(scenarioIntervals())
	require.NoError(t, err)

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, 6, tree.EndpointCount())

	assert.ElementsMatch(t, []string{testValueA, testValueB}, values(tree.QueryOverlap(testPoint4, testPoint4)))
	assert.ElementsMatch(t, []string{testValueC}, values(tree.QueryOverlap(testPoint9, testHigh20)))

	// 6 lies inside (3,8) under closed-interval semantics.
	assert.ElementsMatch(t, []string{testValueB}, values(tree.QueryOverlap(testPoint6, testPoint6)))

	// 9 lies in the gap between (3,8) and (10,15).
	assert.Empty(t, tree.QueryPoint(testPoint9))
}

// TestScenario_SinglePointInterval verifies the degenerate [(2,2)] tree.
func TestScenario_SinglePointInterval(t *testing.T) {
	t.Parallel()

	tree, err := Build([]Interval[int, string]{{Low: testPoint2, High: testPoint2, Value: testValueA}})
	require.NoError(t, err)

	root := tree.Root()
	require.NotNil(t, root)
	assert.True(t, root.IsLeaf())
	assert.InDelta(t, testPoint2, root.SplitValue(), 0)
	assert.Equal(t, 0, tree.Height())

	assert.Equal(t, []string{testValueA}, values(tree.QueryPoint(testPoint2)))
	assert.Empty(t, tree.QueryPoint(testPoint3))
}

// TestQuery_TouchingEndpoint verifies Q.Low == interval.High counts as intersecting.
func TestQuery_TouchingEndpoint(t *testing.T) {
	t.Parallel()

	tree, err := Build(scenarioIntervals())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{testValueB}, values(tree.QueryOverlap(testHigh8, testPoint9)))
	assert.ElementsMatch(t, []string{testValueB, testValueC}, values(tree.QueryOverlap(testHigh8, testLow10)))
	assert.ElementsMatch(t, []string{testValueC}, values(tree.QueryOverlap(testHigh15, testHigh20)))
}

// TestQuery_InvertedQuery verifies that Low > High matches nothing.
func TestQuery_InvertedQuery(t *testing.T) {
	t.Parallel()

	tree, err := Build(scenarioIntervals())
	require.NoError(t, err)

	assert.Empty(t, tree.QueryOverlap(testHigh8, testLow3))
}

// TestQuery_NilTree verifies that a nil tree answers every query with nothing.
func TestQuery_NilTree(t *testing.T) {
	t.Parallel()

	var tree *Tree[int, string]

	assert.Nil(t, tree.Root())
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 0, tree.EndpointCount())
	assert.Equal(t, -1, tree.Height())
	assert.Empty(t, tree.QueryOverlap(testLow1, testHigh20))
	assert.Empty(t, tree.FindIntersecting(Interval[int, string]{Low: testLow1, High: testHigh5}))
	assert.Empty(t, tree.Levels())
}

// TestQuery_Duplicates verifies identical intervals are all reported.
func TestQuery_Duplicates(t *testing.T) {
	t.Parallel()

	tree, err := Build([]Interval[int, string]{
		{Low: testLow1, High: testHigh5, Value: testValueA},
		{Low: testLow1, High: testHigh5, Value: testValueB},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tree.EndpointCount())
	assert.ElementsMatch(t, []string{testValueA, testValueB}, values(tree.QueryPoint(testPoint3)))
}

// TestQuery_FloatEndpoints verifies fractional endpoints and queries.
func TestQuery_FloatEndpoints(t *testing.T) {
	t.Parallel()

	tree, err := Build([]Interval[float64, int]{
		{Low: 0.25, High: 0.5, Value: 1},
		{Low: 0.5, High: 0.75, Value: 2},
		{Low: 1.5, High: 2.5, Value: 3},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2}, values(tree.QueryPoint(0.5)))
	assert.ElementsMatch(t, []int{2}, values(tree.QueryOverlap(0.6, 1.4)))
	assert.Empty(t, tree.QueryOverlap(0.8, 1.4))
}

// TestStats verifies the shape summary of the scenario tree.
func TestStats(t *testing.T) {
	t.Parallel()

	tree, err := Build(scenarioIntervals())
	require.NoError(t, err)

	stats := tree.Stats()
	assert.Equal(t, 3, stats.Intervals)
	assert.Equal(t, 6, stats.Endpoints)
	assert.Equal(t, 11, stats.Nodes)
	assert.Equal(t, 3, stats.Height)
	assert.Equal(t, 2, stats.OccupiedNodes)
	assert.Equal(t, 2, stats.MaxNodeIntervals)

	levels := tree.Levels()
	require.Len(t, levels, 4)
	assert.Equal(t, Level{Depth: 0, Nodes: 1, Intervals: 0}, levels[0])
	assert.Equal(t, Level{Depth: 1, Nodes: 2, Intervals: 3}, levels[1])

	total := 0
	for _, level := range levels {
		total += level.Intervals
	}

	assert.Equal(t, stats.Intervals, total)
}
