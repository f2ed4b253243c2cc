package dataset

import (
	"math"
	"testing"

	"renastat/domain/core"
)

var (
	keyA = core.VariableKey("a")
	keyB = core.VariableKey("b")
)

func TestNew_AbsentCellsDefaultToMissing(t *testing.T) {
	ds := New("t", []core.VariableKey{keyA, keyB}, []map[core.VariableKey]float64{
		{keyA: 1, keyB: 2},
		{keyA: 3},
	})

	col, ok := ds.Column(keyB)
	if !ok {
		t.Fatal("column b should exist")
	}
	if !IsMissing(col[1]) {
		t.Errorf("absent cell = %v, want missing", col[1])
	}
}

func TestObserved_SplitsMissing(t *testing.T) {
	ds := FromColumns("t", []core.VariableKey{keyA}, map[core.VariableKey][]float64{
		keyA: {1, Missing, 3},
	})

	values, missing, ok := ds.Observed(keyA)
	if !ok {
		t.Fatal("column a should exist")
	}
	if len(values) != 2 || missing != 1 {
		t.Errorf("observed %d values / %d missing, want 2/1", len(values), missing)
	}
	if values[0] != 1 || values[1] != 3 {
		t.Errorf("observed values = %v, want [1 3] in row order", values)
	}
}

func TestSplitBy_DropsRowsMissingEitherCell(t *testing.T) {
	diag := core.VariableKey("Diagnosis")
	ds := FromColumns("t", []core.VariableKey{diag, keyA}, map[core.VariableKey][]float64{
		diag: {0, 1, Missing, 0, 1},
		keyA: {10, 20, 30, Missing, 21},
	})

	group0, group1, ok := ds.SplitBy(diag, keyA)
	if !ok {
		t.Fatal("both columns exist")
	}
	if len(group0) != 1 || group0[0] != 10 {
		t.Errorf("group0 = %v, want [10]", group0)
	}
	if len(group1) != 2 || group1[0] != 20 || group1[1] != 21 {
		t.Errorf("group1 = %v, want [20 21]", group1)
	}
}

func TestCompleteCases_DropsRowsMissingAnyVariable(t *testing.T) {
	ds := FromColumns("t", []core.VariableKey{keyA, keyB}, map[core.VariableKey][]float64{
		keyA: {1, Missing, 3, 4},
		keyB: {5, 6, Missing, 8},
	})

	matrix, kept, ok := ds.CompleteCases([]core.VariableKey{keyA, keyB})
	if !ok {
		t.Fatal("both columns exist")
	}
	if kept != 2 {
		t.Errorf("kept = %d, want 2", kept)
	}
	if matrix[0][0] != 1 || matrix[0][1] != 4 {
		t.Errorf("column a = %v, want [1 4]", matrix[0])
	}
	if matrix[1][0] != 5 || matrix[1][1] != 8 {
		t.Errorf("column b = %v, want [5 8]", matrix[1])
	}
}

func TestColumn_ReturnsACopy(t *testing.T) {
	ds := FromColumns("t", []core.VariableKey{keyA}, map[core.VariableKey][]float64{
		keyA: {1, 2},
	})

	col, _ := ds.Column(keyA)
	col[0] = 99
	again, _ := ds.Column(keyA)
	if again[0] != 1 {
		t.Error("mutating a returned column must not change the dataset")
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(math.NaN()) {
		t.Error("NaN is the missing sentinel")
	}
	if IsMissing(0) {
		t.Error("zero is an observation, not missing")
	}
}

func TestDefaultSchema_Shape(t *testing.T) {
	s := DefaultSchema()
	if len(s.CorrelationVars) != 13 {
		t.Errorf("correlation set has %d variables, want 13", len(s.CorrelationVars))
	}
	if len(s.KeyVars) != 9 {
		t.Errorf("key variable set has %d variables, want 9", len(s.KeyVars))
	}
	if len(s.BinaryRiskFactors) != 7 {
		t.Errorf("binary risk factor set has %d variables, want 7", len(s.BinaryRiskFactors))
	}
	if s.Outcome != VarDiagnosis {
		t.Errorf("outcome = %s, want Diagnosis", s.Outcome)
	}

	// every key variable also participates in the correlation set
	inCorr := make(map[core.VariableKey]bool)
	for _, k := range s.CorrelationVars {
		inCorr[k] = true
	}
	for _, k := range s.KeyVars {
		if !inCorr[k] {
			t.Errorf("key variable %s missing from the correlation set", k)
		}
	}
}
