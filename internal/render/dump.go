package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

const dumpIndent = "  "

// Dump writes the tree in pre-order, one node per line, indented by depth.
// Nodes holding intervals list them in ascending-low order.
func (r *Renderer) Dump(tree *interval.Tree[float64, string]) {
	split := r.paint(color.FgCyan)
	leaf := r.paint(color.FgHiBlack)
	held := r.paint(color.FgYellow)

	tree.Walk(func(n *interval.Node[float64, string], depth int) bool {
		prefix := strings.Repeat(dumpIndent, depth)

		label := leaf
		if !n.IsLeaf() {
			label = split
		}

		label.Fprintf(r.out, "%ssplit=%s", prefix, formatFloat(n.SplitValue()))

		if n.Len() == 0 {
			fmt.Fprintln(r.out)

			return true
		}

		ivs := n.LeftIntervals()
		parts := make([]string, len(ivs))

		for i, iv := range ivs {
			parts[i] = fmt.Sprintf("%s%s", iv.Value, iv)
		}

		held.Fprintf(r.out, " {%s}\n", strings.Join(parts, ", "))

		return true
	})
}
