package interval

import "fmt"

// Tree is a static interval tree. Build it with Build; all methods are safe on
// a nil *Tree and return empty results.
type Tree[T Number, V any] struct {
	root      *Node[T, V]
	size      int
	endpoints int
}

// Build constructs a tree over intervals. The tree keeps pointers into the
// intervals slice, which must not be modified afterwards. The slice itself is
// not reordered.
//
// Build returns ErrEmptyInput for an empty slice and a wrapped
// ErrInvalidInterval when any interval fails Validate: Low > High, a NaN or
// infinite endpoint, or an integer endpoint outside ±2^53.
func Build[T Number, V any](intervals []Interval[T, V]) (*Tree[T, V], error) {
	if len(intervals) == 0 {
		return nil, ErrEmptyInput
	}

	for i := range intervals {
		err := intervals[i].Validate()
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
	}

	refs := references(intervals)
	byLow := sortByLow(refs)
	byHigh := sortByHigh(refs)

	endpoints := mergeEndpoints(byLow, byHigh)

	root := buildNodes[T, V](endpoints)
	mapIntervals(root, byLow, byHigh)

	return &Tree[T, V]{
		root:      root,
		size:      len(intervals),
		endpoints: len(endpoints),
	}, nil
}

// Root returns the top node of the tree, or nil for a nil tree.
func (t *Tree[T, V]) Root() *Node[T, V] {
	if t == nil {
		return nil
	}

	return t.root
}

// Len returns the number of intervals in the tree.
func (t *Tree[T, V]) Len() int {
	if t == nil {
		return 0
	}

	return t.size
}

// EndpointCount returns the number of distinct endpoints, which equals the
// number of leaves.
func (t *Tree[T, V]) EndpointCount() int {
	if t == nil {
		return 0
	}

	return t.endpoints
}

// FindIntersecting returns all intervals that intersect q, in no particular
// order. q.Value is ignored. An inverted query (q.Low > q.High) matches nothing.
func (t *Tree[T, V]) FindIntersecting(q Interval[T, V]) []Interval[T, V] {
	if t == nil || t.root == nil || q.Validate() != nil {
		return nil
	}

	var results []Interval[T, V]

	collect(t.root, q, &results)

	return results
}

// QueryOverlap returns all intervals that overlap the query range [low, high].
// An interval [a, b] overlaps [low, high] when a <= high AND b >= low.
func (t *Tree[T, V]) QueryOverlap(low, high T) []Interval[T, V] {
	return t.FindIntersecting(Interval[T, V]{Low: low, High: high})
}

// QueryPoint returns all intervals containing the given point.
// Equivalent to QueryOverlap(point, point).
func (t *Tree[T, V]) QueryPoint(point T) []Interval[T, V] {
	return t.QueryOverlap(point, point)
}

// Walk visits every node in pre-order, left subtree first, passing the node's
// depth (the root has depth 0). Walk stops early when fn returns false.
func (t *Tree[T, V]) Walk(fn func(n *Node[T, V], depth int) bool) {
	if t == nil || t.root == nil {
		return
	}

	type frame struct {
		node  *Node[T, V]
		depth int
	}

	stack := []frame{{node: t.root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.depth) {
			return
		}

		// Right is pushed first so the left subtree is visited first.
		if top.node.right != nil {
			stack = append(stack, frame{node: top.node.right, depth: top.depth + 1})
		}

		if top.node.left != nil {
			stack = append(stack, frame{node: top.node.left, depth: top.depth + 1})
		}
	}
}

// Height returns the number of edges on the longest root-to-leaf path.
// A single-node tree has height 0; a nil tree returns -1.
func (t *Tree[T, V]) Height() int {
	height := -1

	t.Walk(func(_ *Node[T, V], depth int) bool {
		height = max(height, depth)

		return true
	})

	return height
}
