package interval

// collect appends to results every interval in the subtree rooted at n that
// intersects q.
//
// When q contains the split value every interval at n overlaps q. Otherwise q
// lies entirely on one side of the split value, and only one list needs
// scanning: intervals at n all contain the split value, so overlap is decided
// by a single endpoint and the overlapping ones form a contiguous run at one
// end of the list sorted by that endpoint.
func collect[T Number, V any](n *Node[T, V], q Interval[T, V], results *[]Interval[T, V]) {
	if n == nil {
		return
	}

	switch {
	case q.Contains(n.split):
		for _, iv := range n.byLow {
			*results = append(*results, *iv)
		}

		collect(n.left, q, results)
		collect(n.right, q, results)
	case n.split < float64(q.Low):
		// Everything in the left subtree ends before the split value.
		for i := len(n.byHigh) - 1; i >= 0 && n.byHigh[i].Intersects(q); i-- {
			*results = append(*results, *n.byHigh[i])
		}

		collect(n.right, q, results)
	default:
		for i := 0; i < len(n.byLow) && n.byLow[i].Intersects(q); i++ {
			*results = append(*results, *n.byLow[i])
		}

		collect(n.left, q, results)
	}
}
