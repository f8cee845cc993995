package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

const plotChartHeight = "500px"

// Plot writes a standalone HTML page with a bar chart of node and interval
// counts per tree depth.
func Plot(w io.Writer, title string, levels []interval.Level) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: plotChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "nodes and intervals per depth"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Depth"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	depths := make([]string, len(levels))
	nodes := make([]opts.BarData, len(levels))
	held := make([]opts.BarData, len(levels))

	for i, lvl := range levels {
		depths[i] = strconv.Itoa(lvl.Depth)
		nodes[i] = opts.BarData{Value: lvl.Nodes}
		held[i] = opts.BarData{Value: lvl.Intervals}
	}

	bar.SetXAxis(depths).
		AddSeries("Nodes", nodes).
		AddSeries("Intervals", held)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
