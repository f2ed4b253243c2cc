package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
)

// Degenerate-row notes for the comparison table
const (
	NoteEmptyGroup   = "empty diagnosis group"
	NoteZeroVariance = "zero variance in both groups"
	NoteSmallGroup   = "fewer than two observations in a group"
)

// Compare runs a per-variable Welch comparison between the Diagnosis=0
// and Diagnosis=1 groups over the ordered key variable list. Missing
// values are dropped independently per group. Variables absent from the
// dataset are silently skipped so the comparator degrades gracefully on
// partial schemas. Rows come back sorted descending by |Cohen's d|, with
// degenerate rows (empty group, undefined effect) last in list order.
func Compare(ds *dataset.Dataset, outcome core.VariableKey, vars []core.VariableKey) []analysis.ComparisonRow {
	type ranked struct {
		row  analysis.ComparisonRow
		absD float64
	}
	var rankedRows []ranked

	for _, key := range vars {
		if !ds.Has(key) {
			continue
		}
		group0, group1, ok := ds.SplitBy(outcome, key)
		if !ok {
			continue
		}
		row, absD := compareGroups(key, group0, group1)
		rankedRows = append(rankedRows, ranked{row: row, absD: absD})
	}

	sort.SliceStable(rankedRows, func(a, b int) bool {
		da, db := rankedRows[a].absD, rankedRows[b].absD
		if math.IsNaN(db) {
			return !math.IsNaN(da)
		}
		if math.IsNaN(da) {
			return false
		}
		return da > db
	})

	rows := make([]analysis.ComparisonRow, len(rankedRows))
	for i, r := range rankedRows {
		rows[i] = r.row
	}
	return rows
}

func compareGroups(key core.VariableKey, group0, group1 []float64) (analysis.ComparisonRow, float64) {
	row := analysis.ComparisonRow{
		Variable: key,
		N0:       len(group0),
		N1:       len(group1),
	}
	nan := analysis.Float(math.NaN())

	if len(group0) == 0 || len(group1) == 0 {
		row.Mean0, row.Mean1, row.MeanDiff, row.PValue, row.CohensD = nan, nan, nan, nan, nan
		row.Effect = analysis.EffectUndefined
		row.Note = NoteEmptyGroup
		return row, math.NaN()
	}

	mean0 := sampleMean(group0)
	mean1 := sampleMean(group1)
	diff := mean1 - mean0
	row.Mean0 = analysis.Float(roundTo(mean0, 2))
	row.Mean1 = analysis.Float(roundTo(mean1, 2))
	row.MeanDiff = analysis.Float(roundTo(diff, 2))

	var0 := sampleVariance(group0)
	var1 := sampleVariance(group1)
	if math.IsNaN(var0) || math.IsNaN(var1) {
		row.PValue, row.CohensD = nan, nan
		row.Effect = analysis.EffectUndefined
		row.Note = NoteSmallGroup
		return row, math.NaN()
	}

	d := cohensD(mean0, mean1, var0, var1)
	p := welchPValue(mean0, mean1, var0, var1, len(group0), len(group1))

	row.PValue = analysis.Float(roundTo(p, 4))
	row.CohensD = analysis.Float(roundTo(d, 3))
	row.Effect = analysis.ClassifyEffect(d)
	if math.IsNaN(d) {
		row.Note = NoteZeroVariance
	}
	return row, math.Abs(d)
}

// cohensD is the standardized mean difference (mean1 - mean0) over the
// pooled standard deviation sqrt((s0^2 + s1^2) / 2). A zero pooled SD
// leaves the effect size undefined (NaN), never coerced to 0.
func cohensD(mean0, mean1, var0, var1 float64) float64 {
	pooled := math.Sqrt((var0 + var1) / 2)
	if pooled == 0 {
		return math.NaN()
	}
	return (mean1 - mean0) / pooled
}

// welchPValue runs the unequal-variance two-sample test for difference in
// means and returns the two-sided p-value from the Student's t
// distribution with Welch-Satterthwaite degrees of freedom.
func welchPValue(mean0, mean1 float64, var0, var1 float64, n0, n1 int) float64 {
	fn0, fn1 := float64(n0), float64(n1)
	se := math.Sqrt(var0/fn0 + var1/fn1)
	if se == 0 {
		// both groups constant: no mean test is possible
		return math.NaN()
	}
	t := (mean1 - mean0) / se
	df := math.Pow(var0/fn0+var1/fn1, 2) /
		(math.Pow(var0/fn0, 2)/(fn0-1) + math.Pow(var1/fn1, 2)/(fn1-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}
