package interval

// buildNodes builds the tree skeleton over an ascending endpoint sequence.
// Leaves are created in endpoint order, then each level pairs consecutive
// nodes under a new parent until one node remains. An unpaired trailing node
// is carried to the next level unchanged, so the height is ceil(log2 k).
func buildNodes[T Number, V any](endpoints []float64) *Node[T, V] {
	if len(endpoints) == 0 {
		return nil
	}

	level := make([]*Node[T, V], len(endpoints))

	for i, endpoint := range endpoints {
		level[i] = &Node[T, V]{
			split:    endpoint,
			minSplit: endpoint,
			maxSplit: endpoint,
		}
	}

	for len(level) > 1 {
		next := make([]*Node[T, V], 0, (len(level)+1)/2)

		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, joinNodes(level[i], level[i+1]))
		}

		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}

		level = next
	}

	return level[0]
}

// joinNodes creates the parent of two adjacent subtrees. Its split value lies
// halfway between the ranges the children cover.
func joinNodes[T Number, V any](left, right *Node[T, V]) *Node[T, V] {
	return &Node[T, V]{
		split:    (left.maxSplit + right.minSplit) / 2,
		minSplit: left.minSplit,
		maxSplit: right.maxSplit,
		left:     left,
		right:    right,
	}
}
