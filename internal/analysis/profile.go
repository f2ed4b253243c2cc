package analysis

import (
	"math"
	"sort"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/errors"
)

// ProfileCategorical builds a frequency table per declared categorical
// variable, in declared label order. Codes are expected to be contiguous
// integers starting at 0 that match the label set positionally; an
// observed code set that disagrees with the declared labels is a data
// contract violation and is surfaced, not silently remapped. Variables
// absent from the dataset are skipped.
func ProfileCategorical(ds *dataset.Dataset, specs []dataset.CategoricalSpec) ([]analysis.CategoricalTable, error) {
	tables := make([]analysis.CategoricalTable, 0, len(specs))
	for _, spec := range specs {
		values, _, ok := ds.Observed(spec.Key)
		if !ok {
			continue
		}

		distinct := make(map[float64]struct{})
		for _, v := range values {
			distinct[v] = struct{}{}
		}
		if len(values) > 0 && len(distinct) != len(spec.Labels) {
			return nil, errors.CardinalityMismatch(spec.Key.String(), len(spec.Labels), len(distinct))
		}

		counts := make([]int, len(spec.Labels))
		for _, v := range values {
			code := int(v)
			if float64(code) != v || code < 0 || code >= len(spec.Labels) {
				return nil, errors.CardinalityMismatch(spec.Key.String(), len(spec.Labels), len(distinct))
			}
			counts[code]++
		}

		table := analysis.CategoricalTable{
			Variable: spec.Key,
			N:        len(values),
			Counts:   make([]analysis.CategoryCount, len(spec.Labels)),
		}
		for code, label := range spec.Labels {
			pct := math.NaN()
			if len(values) > 0 {
				pct = float64(counts[code]) / float64(len(values)) * 100
			}
			table.Counts[code] = analysis.CategoryCount{
				Code:    code,
				Label:   label,
				Count:   counts[code],
				Percent: analysis.Float(roundTo(pct, 2)),
			}
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// ProfileBinary reports, per binary risk factor, how many non-missing
// observations equal 1 and the corresponding percentage, sorted
// descending by percentage. Absent variables are skipped.
func ProfileBinary(ds *dataset.Dataset, vars []core.VariableKey) []analysis.PrevalenceRow {
	type ranked struct {
		row analysis.PrevalenceRow
		pct float64
	}
	var rankedRows []ranked

	for _, key := range vars {
		values, _, ok := ds.Observed(key)
		if !ok || len(values) == 0 {
			continue
		}
		count := 0
		for _, v := range values {
			if v == 1 {
				count++
			}
		}
		pct := float64(count) / float64(len(values)) * 100
		rankedRows = append(rankedRows, ranked{
			row: analysis.PrevalenceRow{
				Variable: key,
				N:        len(values),
				Count:    count,
				Percent:  analysis.Float(roundTo(pct, 2)),
			},
			pct: pct,
		})
	}

	sort.SliceStable(rankedRows, func(a, b int) bool {
		return rankedRows[a].pct > rankedRows[b].pct
	})

	rows := make([]analysis.PrevalenceRow, len(rankedRows))
	for i, r := range rankedRows {
		rows[i] = r.row
	}
	return rows
}
