package interval

import "fmt"

// mapIntervals attaches every interval to the node whose split value it
// contains. byLow fills the nodes' low-ordered lists and byHigh the
// high-ordered ones; appending in sorted order keeps each list sorted.
func mapIntervals[T Number, V any](root *Node[T, V], byLow, byHigh []*Interval[T, V]) {
	for _, iv := range byLow {
		n := locate(root, iv)
		n.byLow = append(n.byLow, iv)
	}

	for _, iv := range byHigh {
		n := locate(root, iv)
		n.byHigh = append(n.byHigh, iv)
	}
}

// locate descends from n to the first node whose split value lies in iv.
// The descent is a search for iv.Low, and the leaf for iv.Low always
// contains it, so running off the tree means the endpoint set was wrong.
func locate[T Number, V any](n *Node[T, V], iv *Interval[T, V]) *Node[T, V] {
	for n != nil {
		switch {
		case iv.Contains(n.split):
			return n
		case n.split < float64(iv.Low):
			n = n.right
		default:
			n = n.left
		}
	}

	panic(fmt.Sprintf("interval: no node contains a split value of %s", iv))
}
