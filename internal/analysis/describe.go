package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/errors"
)

// Describe produces one summary row per continuous variable: non-missing
// and missing counts, mean, sample standard deviation, min, median and
// max, everything computed over non-missing values and rounded to two
// decimals. A declared variable absent from the dataset is a hard schema
// violation: the whole run depends on this schema being present.
func Describe(ds *dataset.Dataset, vars []core.VariableKey) ([]analysis.SummaryRow, error) {
	rows := make([]analysis.SummaryRow, 0, len(vars))
	for _, key := range vars {
		values, missing, ok := ds.Observed(key)
		if !ok {
			return nil, errors.SchemaViolation(key.String())
		}

		row := analysis.SummaryRow{
			Variable: key,
			Count:    len(values),
			Missing:  missing,
		}
		if len(values) == 0 {
			nan := analysis.Float(math.NaN())
			row.Mean, row.StdDev, row.Min, row.Median, row.Max = nan, nan, nan, nan, nan
			rows = append(rows, row)
			continue
		}

		mean, _ := stats.Mean(values)
		sd, err := stats.StandardDeviationSample(values)
		if err != nil {
			// single observation: sample SD is undefined
			sd = math.NaN()
		}
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		median, _ := stats.Median(values)

		row.Mean = analysis.Float(roundTo(mean, 2))
		row.StdDev = analysis.Float(roundTo(sd, 2))
		row.Min = analysis.Float(roundTo(min, 2))
		row.Median = analysis.Float(roundTo(median, 2))
		row.Max = analysis.Float(roundTo(max, 2))
		rows = append(rows, row)
	}
	return rows, nil
}
