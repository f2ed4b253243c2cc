package analysis

import (
	"sort"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
)

// IQRFenceMultiplier is the classic Tukey fence factor
const IQRFenceMultiplier = 1.5

// DetectOutliers runs an IQR fence census per key variable. Quartiles are
// estimated by linear interpolation over the sorted non-missing values;
// an observation is an outlier iff strictly outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. Rows are sorted descending by outlier
// percentage. Variables absent from the dataset, or with no observations
// at all, are skipped.
func DetectOutliers(ds *dataset.Dataset, vars []core.VariableKey) []analysis.OutlierRow {
	type ranked struct {
		row analysis.OutlierRow
		pct float64
	}
	var rankedRows []ranked

	for _, key := range vars {
		values, _, ok := ds.Observed(key)
		if !ok || len(values) == 0 {
			continue
		}

		q1 := Quantile(values, 0.25)
		q3 := Quantile(values, 0.75)
		iqr := q3 - q1
		lower := q1 - IQRFenceMultiplier*iqr
		upper := q3 + IQRFenceMultiplier*iqr

		count := 0
		for _, v := range values {
			if v < lower || v > upper {
				count++
			}
		}
		pct := float64(count) / float64(len(values)) * 100

		rankedRows = append(rankedRows, ranked{
			row: analysis.OutlierRow{
				Variable:   key,
				N:          len(values),
				Count:      count,
				Percent:    analysis.Float(roundTo(pct, 2)),
				LowerFence: analysis.Float(roundTo(lower, 2)),
				UpperFence: analysis.Float(roundTo(upper, 2)),
			},
			pct: pct,
		})
	}

	sort.SliceStable(rankedRows, func(a, b int) bool {
		return rankedRows[a].pct > rankedRows[b].pct
	})

	rows := make([]analysis.OutlierRow, len(rankedRows))
	for i, r := range rankedRows {
		rows[i] = r.row
	}
	return rows
}
