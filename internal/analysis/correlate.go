package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/errors"
)

// StrongCorrelationThreshold is the strict absolute-coefficient cutoff
// for reporting a pair as strongly correlated.
const StrongCorrelationThreshold = 0.5

// Correlate computes the Pearson correlation matrix over the fixed
// continuous variable set. Rows with a missing value in any of the
// variables are dropped first (complete-case over the whole set, not
// per pair). The matrix is symmetric with a unit diagonal and is
// retained even when no strong pair exists.
func Correlate(ds *dataset.Dataset, vars []core.VariableKey) (*analysis.CorrelationMatrix, error) {
	for _, key := range vars {
		if !ds.Has(key) {
			return nil, errors.SchemaViolation(key.String())
		}
	}

	columns, kept, _ := ds.CompleteCases(vars)

	matrix := &analysis.CorrelationMatrix{
		Variables:     append([]core.VariableKey(nil), vars...),
		Coefficients:  make([][]analysis.Float, len(vars)),
		CompleteCases: kept,
		DroppedRows:   ds.Rows() - kept,
	}
	for i := range vars {
		matrix.Coefficients[i] = make([]analysis.Float, len(vars))
		matrix.Coefficients[i][i] = 1
	}
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			r := math.NaN()
			if kept >= 2 {
				r = stat.Correlation(columns[i], columns[j], nil)
			}
			matrix.Coefficients[i][j] = analysis.Float(r)
			matrix.Coefficients[j][i] = analysis.Float(r)
		}
	}
	return matrix, nil
}

// StrongPairs extracts the unordered pairs whose absolute coefficient
// strictly exceeds the threshold, sorted descending by |r| with matrix
// iteration order (variable index pair) as the stable tie-break.
// Coefficients are rounded to three decimals for reporting; an empty
// result is valid, not an error.
func StrongPairs(matrix *analysis.CorrelationMatrix) []analysis.StrongCorrelation {
	type candidate struct {
		entry analysis.StrongCorrelation
		abs   float64
	}
	var candidates []candidate
	for i := 0; i < len(matrix.Variables); i++ {
		for j := i + 1; j < len(matrix.Variables); j++ {
			r := matrix.At(i, j)
			if math.IsNaN(r) || math.Abs(r) <= StrongCorrelationThreshold {
				continue
			}
			candidates = append(candidates, candidate{
				entry: analysis.StrongCorrelation{
					VariableA:   matrix.Variables[i],
					VariableB:   matrix.Variables[j],
					Coefficient: analysis.Float(roundTo(r, 3)),
				},
				abs: math.Abs(r),
			})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].abs > candidates[b].abs
	})
	entries := make([]analysis.StrongCorrelation, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}
	return entries
}
