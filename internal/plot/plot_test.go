package plot

import (
	"math"
	"testing"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
)

func scatterFixture(creatinine, gfr, diag []float64) *dataset.Dataset {
	order := []core.VariableKey{dataset.VarSerumCreatinine, dataset.VarGFR, dataset.VarDiagnosis}
	return dataset.FromColumns("t", order, map[core.VariableKey][]float64{
		dataset.VarSerumCreatinine: creatinine,
		dataset.VarGFR:             gfr,
		dataset.VarDiagnosis:       diag,
	})
}

func TestBuildDistribution_BinCountsCoverAllValues(t *testing.T) {
	group0 := []float64{1, 2, 3, 4, 5}
	group1 := []float64{6, 7, 8, 9, 10}

	dist, ok := buildDistribution("v", group0, group1)
	if !ok {
		t.Fatal("distribution should build")
	}
	if len(dist.Bins) != HistogramBins {
		t.Fatalf("bin count = %d, want %d", len(dist.Bins), HistogramBins)
	}

	total0, total1 := 0, 0
	for _, bin := range dist.Bins {
		total0 += bin.Count0
		total1 += bin.Count1
	}
	if total0 != len(group0) || total1 != len(group1) {
		t.Errorf("bin totals = %d/%d, want %d/%d", total0, total1, len(group0), len(group1))
	}

	// the maximum lands in the last bin, not past it
	last := dist.Bins[len(dist.Bins)-1]
	if last.Count1 == 0 {
		t.Error("the range maximum must fall inside the final bin")
	}
}

func TestBuildDistribution_ConstantColumn(t *testing.T) {
	dist, ok := buildDistribution("v", []float64{5, 5}, []float64{5})
	if !ok {
		t.Fatal("a constant column still gets a distribution")
	}
	if len(dist.Bins) != 1 {
		t.Fatalf("constant column bins = %d, want 1", len(dist.Bins))
	}
	if dist.Bins[0].Count0 != 2 || dist.Bins[0].Count1 != 1 {
		t.Errorf("degenerate bin counts = %d/%d, want 2/1", dist.Bins[0].Count0, dist.Bins[0].Count1)
	}
}

func TestBuildBoxPlot_EmptyGroupStaysUndefined(t *testing.T) {
	box, ok := buildBoxPlot("v", []float64{1, 2, 3, 4}, nil)
	if !ok {
		t.Fatal("boxplot should build with one populated group")
	}
	if box.Group0.N != 4 || !box.Group0.Median.IsDefined() {
		t.Errorf("group0 summary incomplete: %+v", box.Group0)
	}
	if box.Group1.N != 0 || box.Group1.Median.IsDefined() {
		t.Errorf("empty group must have undefined quartiles: %+v", box.Group1)
	}
}

func TestFiveNumber_Quartiles(t *testing.T) {
	fn := fiveNumber([]float64{1, 2, 3, 4, 5})
	if float64(fn.Min) != 1 || float64(fn.Max) != 5 {
		t.Errorf("min/max = %v/%v, want 1/5", fn.Min, fn.Max)
	}
	if float64(fn.Median) != 3 {
		t.Errorf("median = %v, want 3", fn.Median)
	}
	if float64(fn.Q1) != 2 || float64(fn.Q3) != 4 {
		t.Errorf("q1/q3 = %v/%v, want 2/4", fn.Q1, fn.Q3)
	}
}

func TestBuildScatter_SkipsIncompleteRows(t *testing.T) {
	ds := scatterFixture(
		[]float64{1.0, 2.5, math.NaN(), 4.0},
		[]float64{90, 45, 70, math.NaN()},
		[]float64{0, 1, 0, 1},
	)

	scatter := buildScatter(ds, dataset.VarDiagnosis)
	if len(scatter.Points) != 2 {
		t.Fatalf("points = %d, want 2 complete rows", len(scatter.Points))
	}
	if scatter.ReferenceY != GFRReferenceLine {
		t.Errorf("reference line = %v, want %v", scatter.ReferenceY, GFRReferenceLine)
	}
	if scatter.Points[1].Class != 1 {
		t.Errorf("second point class = %d, want 1", scatter.Points[1].Class)
	}
}

func TestMovingAverageTrend_SortedAndSmoothed(t *testing.T) {
	points := make([]Point, 0, 30)
	for i := 29; i >= 0; i-- {
		points = append(points, Point{X: float64(i), Y: float64(i) * 2})
	}

	trend := movingAverageTrend(points)
	if len(trend) != 30 {
		t.Fatalf("trend length = %d, want 30", len(trend))
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].X < trend[i-1].X {
			t.Fatal("trend must be ordered by X")
		}
	}
	// on a perfect line the interior of the trend follows the line
	mid := trend[15]
	if math.Abs(mid.Y-mid.X*2) > 1e-9 {
		t.Errorf("trend at x=%v gives y=%v, want %v", mid.X, mid.Y, mid.X*2)
	}
}

func TestBuildEffectBars_KeepsOrderSkipsUndefined(t *testing.T) {
	rows := []analysis.ComparisonRow{
		{Variable: "GFR", CohensD: analysis.Float(-1.4), Effect: analysis.EffectLarge},
		{Variable: "Age", CohensD: analysis.Float(0.6), Effect: analysis.EffectMedium},
		{Variable: "BMI", CohensD: analysis.Float(math.NaN()), Effect: analysis.EffectUndefined},
	}

	bars := buildEffectBars(rows)
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2 (undefined d excluded)", len(bars))
	}
	if bars[0].Variable != "GFR" || bars[0].Magnitude != 1.4 {
		t.Errorf("first bar = %s/%v, want GFR/1.4 (magnitude, not sign)", bars[0].Variable, bars[0].Magnitude)
	}
}

func TestBuild_FullSet(t *testing.T) {
	schema := dataset.DefaultSchema()
	n := 40
	order := []core.VariableKey{schema.Outcome}
	order = append(order, schema.PlotVars...)
	columns := map[core.VariableKey][]float64{}
	diag := make([]float64, n)
	for i := range diag {
		if i%3 == 0 {
			diag[i] = 1
		}
	}
	columns[schema.Outcome] = diag
	for vi, key := range schema.PlotVars {
		col := make([]float64, n)
		for i := range col {
			col[i] = float64(vi*10+i) + 0.5
		}
		columns[key] = col
	}
	ds := dataset.FromColumns("t", order, columns)

	bundle := &analysis.ResultBundle{
		Comparisons: []analysis.ComparisonRow{
			{Variable: dataset.VarGFR, CohensD: analysis.Float(0.9), Effect: analysis.EffectLarge},
		},
	}

	set := Build(ds, schema, bundle)
	if len(set.Distributions) != len(schema.PlotVars) {
		t.Errorf("distributions = %d, want %d", len(set.Distributions), len(schema.PlotVars))
	}
	if len(set.Boxes) != len(schema.PlotVars) {
		t.Errorf("boxes = %d, want %d", len(set.Boxes), len(schema.PlotVars))
	}
	if len(set.EffectBars) != 1 {
		t.Errorf("effect bars = %d, want 1", len(set.EffectBars))
	}
	// scatter needs creatinine and GFR columns; GFR is a plot variable
	// but creatinine-by-name is too, so points must exist
	if len(set.Scatter.Points) == 0 {
		t.Error("scatter should have points when both lab columns exist")
	}
}
