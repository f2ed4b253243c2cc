package render

import (
	"fmt"
	"strings"

	"renastat/domain/analysis"
)

// Markdown renders the bundle as a markdown report. The HTTP surface
// converts this to HTML; it is also usable as-is for docs or gists.
func Markdown(bundle *analysis.ResultBundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Chronic Kidney Disease Analysis\n\n")
	fmt.Fprintf(&b, "Run `%s` over dataset **%s** (%d records), %s.\n\n",
		bundle.RunID, bundle.Dataset, bundle.Records, bundle.CreatedAt.Time().Format("2006-01-02 15:04:05"))

	b.WriteString("## Class balance\n\n")
	if bundle.Balance.Defined {
		fmt.Fprintf(&b, "No disease: %d, disease: %d, ratio %.2f (**%s**)\n\n",
			bundle.Balance.Count0, bundle.Balance.Count1, float64(bundle.Balance.Ratio), bundle.Balance.Label)
	} else {
		fmt.Fprintf(&b, "Undefined: class counts %d/%d\n\n", bundle.Balance.Count0, bundle.Balance.Count1)
	}

	b.WriteString("## Descriptive summary\n\n")
	b.WriteString("| Variable | N | Missing | Mean | SD | Min | Median | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, row := range bundle.Summary {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s | %s | %s |\n",
			row.Variable, row.Count, row.Missing,
			formatFloat(row.Mean, 2), formatFloat(row.StdDev, 2),
			formatFloat(row.Min, 2), formatFloat(row.Median, 2), formatFloat(row.Max, 2))
	}
	b.WriteString("\n")

	b.WriteString("## Strong correlations (|r| > 0.5)\n\n")
	if len(bundle.StrongCorrelations) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Variable A | Variable B | r |\n|---|---|---|\n")
		for _, e := range bundle.StrongCorrelations {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", e.VariableA, e.VariableB, formatFloat(e.Coefficient, 3))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Group comparison\n\n")
	b.WriteString("| Variable | Mean 0 | Mean 1 | Diff | p | d | Effect | Note |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, row := range bundle.Comparisons {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Variable,
			formatFloat(row.Mean0, 2), formatFloat(row.Mean1, 2), formatFloat(row.MeanDiff, 2),
			formatFloat(row.PValue, 4), formatFloat(row.CohensD, 3), row.Effect, row.Note)
	}
	b.WriteString("\n")

	b.WriteString("## Outlier census\n\n")
	b.WriteString("| Variable | N | Outliers | % | Lower fence | Upper fence |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range bundle.Outliers {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s |\n",
			row.Variable, row.N, row.Count,
			formatFloat(row.Percent, 2), formatFloat(row.LowerFence, 2), formatFloat(row.UpperFence, 2))
	}
	b.WriteString("\n")

	b.WriteString("## Categorical profiles\n\n")
	for _, cat := range bundle.Categorical {
		fmt.Fprintf(&b, "### %s (n=%d)\n\n", cat.Variable, cat.N)
		b.WriteString("| Label | Count | % |\n|---|---|---|\n")
		for _, c := range cat.Counts {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", c.Label, c.Count, formatFloat(c.Percent, 2))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Binary risk factor prevalence\n\n")
	b.WriteString("| Risk factor | N | Count | % |\n|---|---|---|---|\n")
	for _, row := range bundle.Prevalence {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n",
			row.Variable, row.N, row.Count, formatFloat(row.Percent, 2))
	}
	b.WriteString("\n")

	return b.String()
}
