package interval

// Stats summarizes the shape of a tree.
type Stats struct {
	// Intervals is the number of intervals in the tree.
	Intervals int `json:"intervals" yaml:"intervals"`
	// Endpoints is the number of distinct endpoints (leaves).
	Endpoints int `json:"endpoints" yaml:"endpoints"`
	// Nodes is the total number of nodes.
	Nodes int `json:"nodes" yaml:"nodes"`
	// OccupiedNodes is the number of nodes holding at least one interval.
	OccupiedNodes int `json:"occupied_nodes" yaml:"occupied_nodes"`
	// MaxNodeIntervals is the largest number of intervals on a single node.
	MaxNodeIntervals int `json:"max_node_intervals" yaml:"max_node_intervals"`
	// Height is the number of edges on the longest root-to-leaf path.
	Height int `json:"height" yaml:"height"`
}

// Level aggregates the nodes found at one depth.
type Level struct {
	Depth     int `json:"depth"     yaml:"depth"`
	Nodes     int `json:"nodes"     yaml:"nodes"`
	Intervals int `json:"intervals" yaml:"intervals"`
}

// Stats walks the tree once and returns its shape summary.
func (t *Tree[T, V]) Stats() Stats {
	stats := Stats{
		Intervals: t.Len(),
		Endpoints: t.EndpointCount(),
		Height:    -1,
	}

	t.Walk(func(n *Node[T, V], depth int) bool {
		stats.Nodes++
		stats.Height = max(stats.Height, depth)

		if n.Len() > 0 {
			stats.OccupiedNodes++
			stats.MaxNodeIntervals = max(stats.MaxNodeIntervals, n.Len())
		}

		return true
	})

	return stats
}

// Levels returns per-depth node and interval counts, root level first.
func (t *Tree[T, V]) Levels() []Level {
	var levels []Level

	t.Walk(func(n *Node[T, V], depth int) bool {
		for len(levels) <= depth {
			levels = append(levels, Level{Depth: len(levels)})
		}

		levels[depth].Nodes++
		levels[depth].Intervals += n.Len()

		return true
	})

	return levels
}
