package dataset

import (
	"math"

	"renastat/domain/core"
)

// StatisticalType defines variable types for analysis
type StatisticalType string

const (
	TypeNumeric     StatisticalType = "numeric"
	TypeCategorical StatisticalType = "categorical"
	TypeBinary      StatisticalType = "binary"
)

// Missing is the sentinel for absent observations. All readers and
// generators store missing cells as NaN; analyzers drop them.
var Missing = math.NaN()

// IsMissing reports whether an observation is absent
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Dataset is an immutable in-memory patient table. Columns are stored
// densely, one slice per variable, all of equal length; rows align across
// columns (row i is one patient record).
type Dataset struct {
	name    string
	order   []core.VariableKey
	columns map[core.VariableKey][]float64
	rows    int
}

// New builds a dataset from ordered column names and row-major records.
// Record cells absent from a row default to Missing.
func New(name string, order []core.VariableKey, rows []map[core.VariableKey]float64) *Dataset {
	columns := make(map[core.VariableKey][]float64, len(order))
	for _, key := range order {
		col := make([]float64, len(rows))
		for i, row := range rows {
			v, ok := row[key]
			if !ok {
				v = Missing
			}
			col[i] = v
		}
		columns[key] = col
	}
	return &Dataset{
		name:    name,
		order:   append([]core.VariableKey(nil), order...),
		columns: columns,
		rows:    len(rows),
	}
}

// FromColumns builds a dataset directly from column slices. All columns
// must have equal length; the order slice fixes iteration order.
func FromColumns(name string, order []core.VariableKey, columns map[core.VariableKey][]float64) *Dataset {
	rows := 0
	copied := make(map[core.VariableKey][]float64, len(columns))
	for _, key := range order {
		col := columns[key]
		copied[key] = append([]float64(nil), col...)
		rows = len(col)
	}
	return &Dataset{
		name:    name,
		order:   append([]core.VariableKey(nil), order...),
		columns: copied,
		rows:    rows,
	}
}

// Name returns the dataset label (usually the source file name)
func (d *Dataset) Name() string {
	return d.name
}

// Rows returns the record count
func (d *Dataset) Rows() int {
	return d.rows
}

// Variables returns the column keys in load order
func (d *Dataset) Variables() []core.VariableKey {
	return append([]core.VariableKey(nil), d.order...)
}

// Has reports whether a variable exists in the dataset
func (d *Dataset) Has(key core.VariableKey) bool {
	_, ok := d.columns[key]
	return ok
}

// Column returns a copy of the raw column including missing cells
func (d *Dataset) Column(key core.VariableKey) ([]float64, bool) {
	col, ok := d.columns[key]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), col...), true
}

// Observed returns the non-missing values of a column in row order,
// plus the number of missing cells.
func (d *Dataset) Observed(key core.VariableKey) (values []float64, missing int, ok bool) {
	col, exists := d.columns[key]
	if !exists {
		return nil, 0, false
	}
	values = make([]float64, 0, len(col))
	for _, v := range col {
		if IsMissing(v) {
			missing++
			continue
		}
		values = append(values, v)
	}
	return values, missing, true
}

// SplitBy partitions a numeric column into two groups keyed by a binary
// grouping column (0 and 1), dropping rows where either cell is missing.
func (d *Dataset) SplitBy(group, value core.VariableKey) (group0, group1 []float64, ok bool) {
	g, okG := d.columns[group]
	v, okV := d.columns[value]
	if !okG || !okV {
		return nil, nil, false
	}
	for i := range g {
		if IsMissing(g[i]) || IsMissing(v[i]) {
			continue
		}
		if g[i] == 0 {
			group0 = append(group0, v[i])
		} else {
			group1 = append(group1, v[i])
		}
	}
	return group0, group1, true
}

// CompleteCases returns the columns for the given variables restricted to
// rows where none of them is missing. The returned matrix is column-major
// and aligned with keys.
func (d *Dataset) CompleteCases(keys []core.VariableKey) (matrix [][]float64, kept int, ok bool) {
	cols := make([][]float64, len(keys))
	for i, key := range keys {
		col, exists := d.columns[key]
		if !exists {
			return nil, 0, false
		}
		cols[i] = col
	}
	matrix = make([][]float64, len(keys))
	for row := 0; row < d.rows; row++ {
		complete := true
		for _, col := range cols {
			if IsMissing(col[row]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for i, col := range cols {
			matrix[i] = append(matrix[i], col[row])
		}
		kept++
	}
	return matrix, kept, true
}
