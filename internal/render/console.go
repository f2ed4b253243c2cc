// Package render formats a finished ResultBundle for people: colored
// console tables for terminal runs and a markdown report for the HTTP
// surface.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"renastat/domain/analysis"
	"renastat/internal/plot"
)

// ConsoleRenderer writes the full report as colored tables
type ConsoleRenderer struct{}

// NewConsoleRenderer creates a console renderer
func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{}
}

// Render writes every report section to w in a fixed order
func (r *ConsoleRenderer) Render(w io.Writer, bundle *analysis.ResultBundle, plots *plot.Set) error {
	heading := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgYellow)

	heading.Fprintf(w, "=== Chronic Kidney Disease Analysis (run %s) ===\n", bundle.RunID)
	fmt.Fprintf(w, "Dataset: %s (%d records)\n\n", bundle.Dataset, bundle.Records)

	section.Fprintln(w, "Class balance")
	r.renderBalance(w, bundle.Balance)

	section.Fprintln(w, "\nDescriptive summary")
	r.renderSummary(w, bundle.Summary)

	section.Fprintln(w, "\nStrong correlations (|r| > 0.5)")
	r.renderStrongCorrelations(w, bundle.StrongCorrelations)

	section.Fprintln(w, "\nGroup comparison (Diagnosis 0 vs 1)")
	r.renderComparisons(w, bundle.Comparisons)

	section.Fprintln(w, "\nOutlier census (IQR fences)")
	r.renderOutliers(w, bundle.Outliers)

	section.Fprintln(w, "\nCategorical profiles")
	r.renderCategorical(w, bundle.Categorical)

	section.Fprintln(w, "\nBinary risk factor prevalence")
	r.renderPrevalence(w, bundle.Prevalence)

	if plots != nil && len(plots.EffectBars) > 0 {
		section.Fprintln(w, "\nEffect sizes")
		r.renderEffectBars(w, plots.EffectBars)
	}
	return nil
}

func (r *ConsoleRenderer) renderBalance(w io.Writer, balance analysis.ClassBalance) {
	if !balance.Defined {
		color.New(color.FgRed).Fprintf(w, "undefined: class counts %d/%d\n", balance.Count0, balance.Count1)
		return
	}
	fmt.Fprintf(w, "No disease: %d  Disease: %d  Ratio: %.2f  (%s)\n",
		balance.Count0, balance.Count1, float64(balance.Ratio), balance.Label)
}

func (r *ConsoleRenderer) renderSummary(w io.Writer, rows []analysis.SummaryRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "N", "Missing", "Mean", "SD", "Min", "Median", "Max"})
	for _, row := range rows {
		table.Append([]string{
			row.Variable.String(),
			strconv.Itoa(row.Count),
			strconv.Itoa(row.Missing),
			formatFloat(row.Mean, 2),
			formatFloat(row.StdDev, 2),
			formatFloat(row.Min, 2),
			formatFloat(row.Median, 2),
			formatFloat(row.Max, 2),
		})
	}
	table.Render()
}

func (r *ConsoleRenderer) renderStrongCorrelations(w io.Writer, entries []analysis.StrongCorrelation) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "none")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable A", "Variable B", "r"})
	for _, e := range entries {
		table.Append([]string{e.VariableA.String(), e.VariableB.String(), formatFloat(e.Coefficient, 3)})
	}
	table.Render()
}

func (r *ConsoleRenderer) renderComparisons(w io.Writer, rows []analysis.ComparisonRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "Mean 0", "Mean 1", "Diff", "p-value", "Cohen's d", "Effect", "Note"})
	for _, row := range rows {
		table.Append([]string{
			row.Variable.String(),
			formatFloat(row.Mean0, 2),
			formatFloat(row.Mean1, 2),
			formatFloat(row.MeanDiff, 2),
			formatFloat(row.PValue, 4),
			formatFloat(row.CohensD, 3),
			string(row.Effect),
			row.Note,
		})
	}
	table.Render()
}

func (r *ConsoleRenderer) renderOutliers(w io.Writer, rows []analysis.OutlierRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "N", "Outliers", "%", "Lower fence", "Upper fence"})
	for _, row := range rows {
		table.Append([]string{
			row.Variable.String(),
			strconv.Itoa(row.N),
			strconv.Itoa(row.Count),
			formatFloat(row.Percent, 2),
			formatFloat(row.LowerFence, 2),
			formatFloat(row.UpperFence, 2),
		})
	}
	table.Render()
}

func (r *ConsoleRenderer) renderCategorical(w io.Writer, tables []analysis.CategoricalTable) {
	for _, cat := range tables {
		fmt.Fprintf(w, "%s (n=%d)\n", cat.Variable, cat.N)
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Label", "Count", "%"})
		for _, c := range cat.Counts {
			table.Append([]string{c.Label, strconv.Itoa(c.Count), formatFloat(c.Percent, 2)})
		}
		table.Render()
	}
}

func (r *ConsoleRenderer) renderPrevalence(w io.Writer, rows []analysis.PrevalenceRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Risk factor", "N", "Count", "%"})
	for _, row := range rows {
		table.Append([]string{
			row.Variable.String(),
			strconv.Itoa(row.N),
			strconv.Itoa(row.Count),
			formatFloat(row.Percent, 2),
		})
	}
	table.Render()
}

func (r *ConsoleRenderer) renderEffectBars(w io.Writer, bars []plot.EffectBar) {
	for _, bar := range bars {
		width := int(bar.Magnitude * 20)
		if width > 40 {
			width = 40
		}
		fmt.Fprintf(w, "%-28s %-10s |", bar.Variable, bar.Effect)
		for i := 0; i < width; i++ {
			fmt.Fprint(w, "█")
		}
		fmt.Fprintf(w, " %.3f\n", bar.Magnitude)
	}
}

// formatFloat renders a Float for tables, "NA" when undefined
func formatFloat(f analysis.Float, prec int) string {
	if !f.IsDefined() {
		return "NA"
	}
	return strconv.FormatFloat(float64(f), 'f', prec, 64)
}
