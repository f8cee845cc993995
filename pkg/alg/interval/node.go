package interval

// Node is a tree node. A leaf covers a single endpoint and its split value
// equals that endpoint; an internal node covers a contiguous run of endpoints
// and splits them halfway between its children's ranges.
//
// Nodes are read-only once Build returns. The exported accessors never expose
// the node's internal lists.
type Node[T Number, V any] struct {
	split    float64
	minSplit float64
	maxSplit float64

	left, right *Node[T, V]

	// byLow and byHigh hold the same intervals (those containing split),
	// ordered by ascending Low and ascending High respectively.
	byLow  []*Interval[T, V]
	byHigh []*Interval[T, V]
}

// SplitValue returns the value that partitions the node's intervals.
func (n *Node[T, V]) SplitValue() float64 {
	return n.split
}

// MinSplitValue returns the smallest endpoint covered by the node's subtree.
func (n *Node[T, V]) MinSplitValue() float64 {
	return n.minSplit
}

// MaxSplitValue returns the largest endpoint covered by the node's subtree.
func (n *Node[T, V]) MaxSplitValue() float64 {
	return n.maxSplit
}

// Left returns the left child, or nil for a leaf.
func (n *Node[T, V]) Left() *Node[T, V] {
	return n.left
}

// Right returns the right child, or nil for a leaf.
func (n *Node[T, V]) Right() *Node[T, V] {
	return n.right
}

// IsLeaf reports whether the node has no children.
func (n *Node[T, V]) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// Len returns the number of intervals attached to the node.
func (n *Node[T, V]) Len() int {
	return len(n.byLow)
}

// LeftIntervals returns a copy of the node's intervals ordered by ascending low endpoint.
func (n *Node[T, V]) LeftIntervals() []Interval[T, V] {
	return deref(n.byLow)
}

// RightIntervals returns a copy of the node's intervals ordered by ascending high endpoint.
func (n *Node[T, V]) RightIntervals() []Interval[T, V] {
	return deref(n.byHigh)
}

func deref[T Number, V any](refs []*Interval[T, V]) []Interval[T, V] {
	if len(refs) == 0 {
		return nil
	}

	out := make([]Interval[T, V], 0, len(refs))

	for _, iv := range refs {
		out = append(out, *iv)
	}

	return out
}
