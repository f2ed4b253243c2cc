package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/errors"
	"renastat/internal/testkit"
)

func newService(t *testing.T) *ReportService {
	t.Helper()
	return NewReportService(dataset.DefaultSchema(), nil)
}

func syntheticDataset(t *testing.T, seed int64) *dataset.Dataset {
	t.Helper()
	cfg := testkit.DefaultConfig()
	cfg.Patients = 200
	cfg.Seed = seed
	ds, err := testkit.NewGenerator(cfg).Generate()
	require.NoError(t, err)
	return ds
}

// clinicalDataset hand-builds a table carrying the full continuous
// variable set with a chosen outcome column.
func clinicalDataset(diagnosis []float64) *dataset.Dataset {
	schema := dataset.DefaultSchema()
	order := append([]core.VariableKey{schema.Outcome}, schema.CorrelationVars...)
	columns := map[core.VariableKey][]float64{schema.Outcome: diagnosis}
	for vi, key := range schema.CorrelationVars {
		col := make([]float64, len(diagnosis))
		for i := range col {
			col[i] = float64(vi+1) * (float64(i) + 1.5)
		}
		columns[key] = col
	}
	return dataset.FromColumns("clinical", order, columns)
}

func TestReportService_ProducesEverySection(t *testing.T) {
	ds := syntheticDataset(t, 7)
	bundle, err := newService(t).Run(context.Background(), ds)
	require.NoError(t, err)

	assert.NotEmpty(t, bundle.RunID)
	assert.Equal(t, ds.Name(), bundle.Dataset)
	assert.Equal(t, ds.Rows(), bundle.Records)

	assert.Len(t, bundle.Summary, 13)
	require.NotNil(t, bundle.Correlation)
	assert.Len(t, bundle.Correlation.Variables, 13)
	assert.Len(t, bundle.Comparisons, 9)
	assert.NotEmpty(t, bundle.Outliers)
	assert.Len(t, bundle.Categorical, 2)
	assert.Len(t, bundle.Prevalence, 7)
	assert.True(t, bundle.Balance.Defined)
}

func TestReportService_DetectsPlantedStructure(t *testing.T) {
	ds := syntheticDataset(t, 7)
	bundle, err := newService(t).Run(context.Background(), ds)
	require.NoError(t, err)

	// the generator plants a strong negative creatinine/GFR coupling
	found := false
	for _, pair := range bundle.StrongCorrelations {
		a, b := pair.VariableA, pair.VariableB
		if (a == dataset.VarSerumCreatinine && b == dataset.VarGFR) ||
			(a == dataset.VarGFR && b == dataset.VarSerumCreatinine) {
			found = true
			assert.Negative(t, float64(pair.Coefficient))
		}
	}
	assert.True(t, found, "creatinine/GFR should surface as a strong pair")
}

func TestReportService_DeterministicAcrossRuns(t *testing.T) {
	service := newService(t)

	first, err := service.Run(context.Background(), syntheticDataset(t, 42))
	require.NoError(t, err)
	second, err := service.Run(context.Background(), syntheticDataset(t, 42))
	require.NoError(t, err)

	// identity fields differ per run; every analytical section must not
	second.RunID = first.RunID
	second.CreatedAt = first.CreatedAt

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestReportService_ClassBalanceRatio(t *testing.T) {
	// 6 controls vs 4 cases: ratio exactly 1.5
	bundle, err := newService(t).Run(context.Background(),
		clinicalDataset([]float64{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}))
	require.NoError(t, err)

	require.True(t, bundle.Balance.Defined)
	assert.InDelta(t, 1.5, float64(bundle.Balance.Ratio), 1e-9)
	assert.Equal(t, analysis.BalanceSlight, bundle.Balance.Label)
}

func TestReportService_SingleClassFlagged(t *testing.T) {
	bundle, err := newService(t).Run(context.Background(),
		clinicalDataset([]float64{0, 0, 0, 0}))
	require.NoError(t, err)

	assert.False(t, bundle.Balance.Defined)
	assert.False(t, bundle.Balance.Ratio.IsDefined())

	// the comparison rows are marked, not dropped
	for _, row := range bundle.Comparisons {
		assert.Equal(t, analysis.EffectUndefined, row.Effect)
	}
}

func TestReportService_EmptyDatasetRejected(t *testing.T) {
	service := newService(t)

	_, err := service.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyDataset))

	empty := dataset.FromColumns("empty", nil, nil)
	_, err = service.Run(context.Background(), empty)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyDataset))
}

func TestReportService_MissingOutcomeRejected(t *testing.T) {
	ds := dataset.FromColumns("no-outcome", []core.VariableKey{dataset.VarAge},
		map[core.VariableKey][]float64{dataset.VarAge: {30, 40}})

	_, err := newService(t).Run(context.Background(), ds)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaViolation, errors.GetCode(err))
}

func TestReportService_MissingContinuousVariableFatal(t *testing.T) {
	// the summarizer and correlator treat the continuous set as a hard
	// schema dependency
	schema := dataset.DefaultSchema()
	order := []core.VariableKey{schema.Outcome, dataset.VarAge}
	ds := dataset.FromColumns("partial", order, map[core.VariableKey][]float64{
		schema.Outcome: {0, 1, 0, 1},
		dataset.VarAge: {30, 40, 50, 60},
	})

	_, err := newService(t).Run(context.Background(), ds)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaViolation, errors.GetCode(err))
}

func TestReportService_AbsentCategoricalTolerated(t *testing.T) {
	// the clinical fixture has no Gender/Ethnicity columns; profiling
	// skips them instead of failing the run
	bundle, err := newService(t).Run(context.Background(),
		clinicalDataset([]float64{0, 0, 1, 1}))
	require.NoError(t, err)
	assert.Empty(t, bundle.Categorical)
	assert.Empty(t, bundle.Prevalence)
}
