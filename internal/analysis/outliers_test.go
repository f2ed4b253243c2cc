package analysis

import (
	"math"
	"testing"

	"renastat/domain/core"
)

func TestDetectOutliers_TukeyFences(t *testing.T) {
	// Q1=2.25, Q3=4.75, IQR=2.5 -> fences [-1.5, 8.5]; only 100 is outside
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {1, 2, 3, 4, 5, 100},
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	if float64(row.LowerFence) != -1.5 {
		t.Errorf("lower fence = %v, want -1.5", row.LowerFence)
	}
	if float64(row.UpperFence) != 8.5 {
		t.Errorf("upper fence = %v, want 8.5", row.UpperFence)
	}
	if row.Count != 1 {
		t.Errorf("outlier count = %d, want 1", row.Count)
	}
	if row.N != 6 {
		t.Errorf("n = %d, want 6", row.N)
	}
	if float64(row.Percent) != 16.67 {
		t.Errorf("outlier pct = %v, want 16.67", row.Percent)
	}
}

func TestDetectOutliers_FenceValueIsInlier(t *testing.T) {
	// quartiles of [1,2,3,4,5,8.5] put the upper fence at exactly 8.5;
	// a value sitting on the fence is not an outlier (strict exceedance)
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {1, 2, 3, 4, 5, 8.5},
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX})
	if float64(rows[0].UpperFence) != 8.5 {
		t.Fatalf("upper fence = %v, want 8.5", rows[0].UpperFence)
	}
	if rows[0].Count != 0 {
		t.Errorf("count = %d, want 0: fence values are inliers", rows[0].Count)
	}
}

func TestDetectOutliers_NoOutliers(t *testing.T) {
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {10, 11, 12, 13, 14},
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX})
	if rows[0].Count != 0 {
		t.Errorf("count = %d, want 0 for a tight cluster", rows[0].Count)
	}
	if float64(rows[0].Percent) != 0 {
		t.Errorf("pct = %v, want 0", rows[0].Percent)
	}
}

func TestDetectOutliers_MissingValuesExcluded(t *testing.T) {
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {1, 2, 3, 4, 5, 100, math.NaN(), math.NaN()},
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX})
	if rows[0].N != 6 {
		t.Errorf("n = %d, want 6 (missing cells excluded)", rows[0].N)
	}
	if rows[0].Count != 1 {
		t.Errorf("count = %d, want 1", rows[0].Count)
	}
}

func TestDetectOutliers_SortedByPercentage(t *testing.T) {
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {1, 2, 3, 4, 5},           // no outliers
		varY: {1, 2, 3, 4, 5, 100, 200}, // two outliers
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX, varY})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Variable != varY {
		t.Errorf("first row = %s, want y (highest outlier pct)", rows[0].Variable)
	}
}

func TestDetectOutliers_AbsentAndEmptyVariablesSkipped(t *testing.T) {
	ds := makeDataset(map[core.VariableKey][]float64{
		varX: {1, 2, 3},
		varZ: {math.NaN(), math.NaN()},
	})

	rows := DetectOutliers(ds, []core.VariableKey{varX, varY, varZ})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Variable != varX {
		t.Errorf("row = %s, want x", rows[0].Variable)
	}
}
