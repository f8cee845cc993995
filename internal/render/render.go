// Package render writes query results, tree statistics and diagnostics as
// tables, JSON or YAML, and draws the tree as text or an HTML chart.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ivtree/internal/config"
	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

const jsonIndent = "  "

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes to one output stream in one format.
type Renderer struct {
	out    io.Writer
	format string
	color  string
}

// New creates a Renderer. colorMode is one of auto, always or never; auto
// follows the terminal detection of fatih/color.
func New(out io.Writer, format, colorMode string) *Renderer {
	return &Renderer{out: out, format: format, color: colorMode}
}

// StatsReport is the machine-readable form of tree statistics.
type StatsReport struct {
	Fingerprint string           `json:"fingerprint"      yaml:"fingerprint"`
	Stats       interval.Stats   `json:"stats"            yaml:"stats"`
	Levels      []interval.Level `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// VerifyReport is the machine-readable verification outcome.
type VerifyReport struct {
	Queries    int              `json:"queries"    yaml:"queries"`
	Mismatches []index.Mismatch `json:"mismatches" yaml:"mismatches"`
}

// Records writes query results.
func (r *Renderer) Records(records []dataset.Record) error {
	if r.format != config.FormatTable {
		return r.structured(records)
	}

	tbl := r.newTable()
	tbl.AppendHeader(table.Row{"Name", "Low", "High"})

	for _, rec := range records {
		tbl.AppendRow(table.Row{rec.Name, formatFloat(rec.Low), formatFloat(rec.High)})
	}

	tbl.AppendFooter(table.Row{"", "", humanize.Comma(int64(len(records))) + " match(es)"})
	tbl.Render()

	return nil
}

// Stats writes tree statistics and the per-depth breakdown.
func (r *Renderer) Stats(report StatsReport) error {
	if r.format != config.FormatTable {
		return r.structured(report)
	}

	summary := r.newTable()
	summary.SetTitle("Interval tree")
	summary.AppendRows([]table.Row{
		{"Intervals", humanize.Comma(int64(report.Stats.Intervals))},
		{"Endpoints", humanize.Comma(int64(report.Stats.Endpoints))},
		{"Nodes", humanize.Comma(int64(report.Stats.Nodes))},
		{"Occupied nodes", humanize.Comma(int64(report.Stats.OccupiedNodes))},
		{"Max per node", humanize.Comma(int64(report.Stats.MaxNodeIntervals))},
		{"Height", report.Stats.Height},
		{"Fingerprint", report.Fingerprint},
	})
	summary.Render()

	if len(report.Levels) == 0 {
		return nil
	}

	fmt.Fprintln(r.out)

	levels := r.newTable()
	levels.AppendHeader(table.Row{"Depth", "Nodes", "Intervals"})

	for _, lvl := range report.Levels {
		levels.AppendRow(table.Row{lvl.Depth, humanize.Comma(int64(lvl.Nodes)), humanize.Comma(int64(lvl.Intervals))})
	}

	levels.Render()

	return nil
}

// Verify writes the verification verdict followed by each mismatch.
func (r *Renderer) Verify(report VerifyReport) error {
	if r.format != config.FormatTable {
		return r.structured(report)
	}

	if len(report.Mismatches) == 0 {
		r.paint(color.FgGreen).Fprintf(r.out, "OK: %s queries matched a linear scan\n",
			humanize.Comma(int64(report.Queries)))

		return nil
	}

	r.paint(color.FgRed).Fprintf(r.out, "FAIL: %d of %s queries disagree with a linear scan\n",
		len(report.Mismatches), humanize.Comma(int64(report.Queries)))

	tbl := r.newTable()
	tbl.AppendHeader(table.Row{"Low", "High", "Tree", "Scan"})

	for _, m := range report.Mismatches {
		tbl.AppendRow(table.Row{formatFloat(m.Query.Low), formatFloat(m.Query.High), len(m.Tree), len(m.Scan)})
	}

	tbl.Render()

	return nil
}

func (r *Renderer) structured(v any) error {
	switch r.format {
	case config.FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", jsonIndent)

		err := encoder.Encode(v)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}

		return nil
	case config.FormatYAML:
		encoder := yaml.NewEncoder(r.out)

		err := encoder.Encode(v)
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}

		err = encoder.Close()
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

func (r *Renderer) newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(r.out)
	tbl.SetStyle(table.StyleLight)

	return tbl
}

// paint returns a color honoring the renderer's color mode.
func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)

	switch r.color {
	case config.ColorAlways:
		c.EnableColor()
	case config.ColorNever:
		c.DisableColor()
	}

	return c
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
