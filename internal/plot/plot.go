// Package plot prepares the plotting collaborator's inputs from a
// finished ResultBundle and its source dataset: per-class histogram and
// boxplot data for the key distribution variables, the creatinine/GFR
// scatter with its clinical reference line, and the effect-size bar
// chart. It computes plot-ready structures only; rendering is left to
// the consumers.
package plot

import (
	"math"
	"sort"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	statcore "renastat/internal/analysis"
)

// GFRReferenceLine is the clinical threshold drawn on the scatter plot:
// a glomerular filtration rate below 60 indicates impaired kidney
// function.
const GFRReferenceLine = 60.0

// HistogramBins is the fixed bin count for distribution plots
const HistogramBins = 20

// Bin is one histogram bucket with per-class counts. Upper is exclusive
// except for the last bin of a variable.
type Bin struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Count0 int     `json:"count_group0"`
	Count1 int     `json:"count_group1"`
}

// Distribution is a faceted histogram split by outcome class
type Distribution struct {
	Variable core.VariableKey `json:"variable"`
	Bins     []Bin            `json:"bins"`
}

// FiveNumber is the boxplot summary for one group. Fields are NaN (and
// serialize as null) when the group is empty.
type FiveNumber struct {
	Min    analysis.Float `json:"min"`
	Q1     analysis.Float `json:"q1"`
	Median analysis.Float `json:"median"`
	Q3     analysis.Float `json:"q3"`
	Max    analysis.Float `json:"max"`
	N      int            `json:"n"`
}

// BoxPlot holds per-class five-number summaries for one variable
type BoxPlot struct {
	Variable core.VariableKey `json:"variable"`
	Group0   FiveNumber       `json:"group0"`
	Group1   FiveNumber       `json:"group1"`
}

// Point is one scatter observation colored by outcome class
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Class int     `json:"class"`
}

// TrendPoint is one vertex of the smoothed trend line
type TrendPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scatter is the two-lab-variable plot with a fixed reference threshold
// on the Y axis and a moving-average trend fitted over X order.
type Scatter struct {
	XVariable  core.VariableKey `json:"x_variable"`
	YVariable  core.VariableKey `json:"y_variable"`
	Points     []Point          `json:"points"`
	ReferenceY float64          `json:"reference_y"`
	Trend      []TrendPoint     `json:"trend"`
}

// EffectBar is one horizontal bar of the effect-size chart
type EffectBar struct {
	Variable  core.VariableKey    `json:"variable"`
	Magnitude float64             `json:"magnitude"`
	Effect    analysis.EffectSize `json:"effect"`
}

// Set bundles every prepared plot for one analysis run
type Set struct {
	Distributions []Distribution `json:"distributions"`
	Boxes         []BoxPlot      `json:"boxes"`
	Scatter       Scatter        `json:"scatter"`
	EffectBars    []EffectBar    `json:"effect_bars"`
}

// Build prepares all plots from the dataset and the finished bundle
func Build(ds *dataset.Dataset, schema dataset.Schema, bundle *analysis.ResultBundle) *Set {
	set := &Set{
		Scatter: buildScatter(ds, schema.Outcome),
	}
	for _, key := range schema.PlotVars {
		group0, group1, ok := ds.SplitBy(schema.Outcome, key)
		if !ok {
			continue
		}
		if dist, ok := buildDistribution(key, group0, group1); ok {
			set.Distributions = append(set.Distributions, dist)
		}
		if box, ok := buildBoxPlot(key, group0, group1); ok {
			set.Boxes = append(set.Boxes, box)
		}
	}
	set.EffectBars = buildEffectBars(bundle.Comparisons)
	return set
}

func buildDistribution(key core.VariableKey, group0, group1 []float64) (Distribution, bool) {
	all := append(append([]float64(nil), group0...), group1...)
	if len(all) == 0 {
		return Distribution{}, false
	}
	lo, hi := all[0], all[0]
	for _, v := range all {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / HistogramBins
	if width == 0 {
		// constant column: a single degenerate bin
		return Distribution{
			Variable: key,
			Bins:     []Bin{{Lower: lo, Upper: hi, Count0: len(group0), Count1: len(group1)}},
		}, true
	}

	bins := make([]Bin, HistogramBins)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	binIndex := func(v float64) int {
		idx := int((v - lo) / width)
		if idx >= HistogramBins {
			idx = HistogramBins - 1
		}
		return idx
	}
	for _, v := range group0 {
		bins[binIndex(v)].Count0++
	}
	for _, v := range group1 {
		bins[binIndex(v)].Count1++
	}
	return Distribution{Variable: key, Bins: bins}, true
}

func buildBoxPlot(key core.VariableKey, group0, group1 []float64) (BoxPlot, bool) {
	if len(group0) == 0 && len(group1) == 0 {
		return BoxPlot{}, false
	}
	return BoxPlot{
		Variable: key,
		Group0:   fiveNumber(group0),
		Group1:   fiveNumber(group1),
	}, true
}

func fiveNumber(values []float64) FiveNumber {
	if len(values) == 0 {
		nan := analysis.Float(math.NaN())
		return FiveNumber{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return FiveNumber{
		Min:    analysis.Float(lo),
		Q1:     analysis.Float(statcore.Quantile(values, 0.25)),
		Median: analysis.Float(statcore.Quantile(values, 0.5)),
		Q3:     analysis.Float(statcore.Quantile(values, 0.75)),
		Max:    analysis.Float(hi),
		N:      len(values),
	}
}

func buildScatter(ds *dataset.Dataset, outcome core.VariableKey) Scatter {
	scatter := Scatter{
		XVariable:  dataset.VarSerumCreatinine,
		YVariable:  dataset.VarGFR,
		ReferenceY: GFRReferenceLine,
	}
	xs, okX := ds.Column(dataset.VarSerumCreatinine)
	ys, okY := ds.Column(dataset.VarGFR)
	classes, okC := ds.Column(outcome)
	if !okX || !okY || !okC {
		return scatter
	}
	for i := range xs {
		if dataset.IsMissing(xs[i]) || dataset.IsMissing(ys[i]) || dataset.IsMissing(classes[i]) {
			continue
		}
		scatter.Points = append(scatter.Points, Point{X: xs[i], Y: ys[i], Class: int(classes[i])})
	}
	scatter.Trend = movingAverageTrend(scatter.Points)
	return scatter
}

// movingAverageTrend fits a centered moving average over the points in X
// order. Window size scales with the point count, floor of 5.
func movingAverageTrend(points []Point) []TrendPoint {
	if len(points) < 3 {
		return nil
	}
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	window := len(sorted) / 10
	if window < 5 {
		window = 5
	}
	if window > len(sorted) {
		window = len(sorted)
	}
	half := window / 2

	trend := make([]TrendPoint, 0, len(sorted))
	for i := range sorted {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(sorted) {
			hi = len(sorted)
		}
		sum := 0.0
		for _, p := range sorted[lo:hi] {
			sum += p.Y
		}
		trend = append(trend, TrendPoint{X: sorted[i].X, Y: sum / float64(hi-lo)})
	}
	return trend
}

func buildEffectBars(rows []analysis.ComparisonRow) []EffectBar {
	bars := make([]EffectBar, 0, len(rows))
	// comparison rows are already ordered by |d| descending
	for _, row := range rows {
		if !row.CohensD.IsDefined() {
			continue
		}
		bars = append(bars, EffectBar{
			Variable:  row.Variable,
			Magnitude: math.Abs(float64(row.CohensD)),
			Effect:    row.Effect,
		})
	}
	return bars
}
