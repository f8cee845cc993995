package render

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/ivtree/internal/config"
)

// ValidationReport is the outcome of checking one dataset file.
type ValidationReport struct {
	Path        string   `json:"path"                  yaml:"path"`
	Valid       bool     `json:"valid"                 yaml:"valid"`
	Intervals   int      `json:"intervals"             yaml:"intervals"`
	Fingerprint string   `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Problems    []string `json:"problems,omitempty"    yaml:"problems,omitempty"`
}

// Validation writes a dataset validation verdict and its problems.
func (r *Renderer) Validation(report ValidationReport) error {
	if r.format != config.FormatTable {
		return r.structured(report)
	}

	if report.Valid {
		r.paint(color.FgGreen).Fprintf(r.out, "%s is valid: %d intervals (fingerprint %s)\n",
			report.Path, report.Intervals, report.Fingerprint)

		return nil
	}

	r.paint(color.FgRed).Fprintf(r.out, "%s is invalid: %d problem(s)\n", report.Path, len(report.Problems))

	tbl := r.newTable()
	tbl.AppendHeader(table.Row{"#", "Problem"})

	for i, problem := range report.Problems {
		tbl.AppendRow(table.Row{i + 1, problem})
	}

	tbl.Render()

	return nil
}
