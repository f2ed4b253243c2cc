package analysis

import (
	"bytes"
	"math"
	"strconv"

	"renastat/domain/core"
)

// Float is a JSON-safe float64. Undefined statistics are held as NaN in
// memory (never coerced to 0) and serialized as null.
type Float float64

// MarshalJSON writes NaN and infinities as null
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON reads null back as NaN
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(data)), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// IsDefined reports whether the value is a usable number
func (f Float) IsDefined() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SummaryRow describes one continuous variable, missing values ignored
type SummaryRow struct {
	Variable core.VariableKey `json:"variable"`
	Count    int              `json:"count"`
	Missing  int              `json:"missing"`
	Mean     Float            `json:"mean"`
	StdDev   Float            `json:"std_dev"`
	Min      Float            `json:"min"`
	Median   Float            `json:"median"`
	Max      Float            `json:"max"`
}

// CorrelationMatrix holds the symmetric Pearson matrix over the fixed
// continuous variable set, computed on complete cases only.
type CorrelationMatrix struct {
	Variables     []core.VariableKey `json:"variables"`
	Coefficients  [][]Float          `json:"coefficients"`
	CompleteCases int                `json:"complete_cases"`
	DroppedRows   int                `json:"dropped_rows"`
}

// At returns the coefficient for a variable index pair
func (m *CorrelationMatrix) At(i, j int) float64 {
	return float64(m.Coefficients[i][j])
}

// StrongCorrelation is an unordered variable pair with |r| > 0.5
type StrongCorrelation struct {
	VariableA   core.VariableKey `json:"variable_a"`
	VariableB   core.VariableKey `json:"variable_b"`
	Coefficient Float            `json:"coefficient"`
}

// EffectSize is the qualitative Cohen's d bucket
type EffectSize string

const (
	EffectNegligible EffectSize = "Negligible"
	EffectSmall      EffectSize = "Small"
	EffectMedium     EffectSize = "Medium"
	EffectLarge      EffectSize = "Large"
	EffectUndefined  EffectSize = "Undefined"
)

// ClassifyEffect buckets an absolute Cohen's d. Bucket lower bounds are
// exclusive of the tier below: exactly 0.2 is Small, exactly 0.8 is Large.
func ClassifyEffect(d float64) EffectSize {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return EffectUndefined
	}
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// ComparisonRow is a per-variable Welch comparison between the two
// diagnosis groups. Note carries the reason when the row is degenerate
// (empty group, zero pooled variance) instead of masquerading as valid.
type ComparisonRow struct {
	Variable core.VariableKey `json:"variable"`
	N0       int              `json:"n_group0"`
	N1       int              `json:"n_group1"`
	Mean0    Float            `json:"mean_group0"`
	Mean1    Float            `json:"mean_group1"`
	MeanDiff Float            `json:"mean_diff"`
	PValue   Float            `json:"p_value"`
	CohensD  Float            `json:"cohens_d"`
	Effect   EffectSize       `json:"effect"`
	Note     string           `json:"note,omitempty"`
}

// OutlierRow is a per-variable IQR fence census
type OutlierRow struct {
	Variable   core.VariableKey `json:"variable"`
	N          int              `json:"n"`
	Count      int              `json:"outlier_count"`
	Percent    Float            `json:"outlier_pct"`
	LowerFence Float            `json:"lower_fence"`
	UpperFence Float            `json:"upper_fence"`
}

// CategoryCount is one label's frequency within a categorical variable
type CategoryCount struct {
	Code    int    `json:"code"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent Float  `json:"percent"`
}

// CategoricalTable is the full frequency table in declared label order
type CategoricalTable struct {
	Variable core.VariableKey `json:"variable"`
	Counts   []CategoryCount  `json:"counts"`
	N        int              `json:"n"`
}

// PrevalenceRow reports how often a binary risk factor equals 1
type PrevalenceRow struct {
	Variable core.VariableKey `json:"variable"`
	N        int              `json:"n"`
	Count    int              `json:"count"`
	Percent  Float            `json:"percent"`
}

// ClassBalance summarizes the outcome split. Defined is false when either
// class is empty, in which case Ratio is NaN and Label is empty.
type ClassBalance struct {
	Count0  int    `json:"count_group0"`
	Count1  int    `json:"count_group1"`
	Ratio   Float  `json:"ratio"`
	Label   string `json:"label"`
	Defined bool   `json:"defined"`
}

// Balance class labels
const (
	BalanceBalanced   = "Balanced"
	BalanceSlight     = "Slightly imbalanced"
	BalanceImbalanced = "Imbalanced"
)

// NewClassBalance computes ratio = max/min over the two class counts.
// Bucket lower bounds belong to the next tier up: exactly 1.5 is
// Slightly imbalanced, exactly 3 is Imbalanced.
func NewClassBalance(count0, count1 int) ClassBalance {
	cb := ClassBalance{Count0: count0, Count1: count1}
	if count0 == 0 || count1 == 0 {
		cb.Ratio = Float(math.NaN())
		return cb
	}
	hi, lo := float64(count0), float64(count1)
	if hi < lo {
		hi, lo = lo, hi
	}
	ratio := hi / lo
	cb.Ratio = Float(ratio)
	cb.Defined = true
	switch {
	case ratio < 1.5:
		cb.Label = BalanceBalanced
	case ratio < 3:
		cb.Label = BalanceSlight
	default:
		cb.Label = BalanceImbalanced
	}
	return cb
}

// ResultBundle is the immutable aggregate produced once per run and
// handed unmodified to the renderers and persistence collaborators.
type ResultBundle struct {
	RunID     core.RunID     `json:"run_id"`
	Dataset   string         `json:"dataset"`
	Records   int            `json:"records"`
	CreatedAt core.Timestamp `json:"created_at"`

	Summary            []SummaryRow        `json:"summary"`
	Correlation        *CorrelationMatrix  `json:"correlation"`
	StrongCorrelations []StrongCorrelation `json:"strong_correlations"`
	Comparisons        []ComparisonRow     `json:"comparisons"`
	Outliers           []OutlierRow        `json:"outliers"`
	Categorical        []CategoricalTable  `json:"categorical"`
	Prevalence         []PrevalenceRow     `json:"prevalence"`
	Balance            ClassBalance        `json:"class_balance"`
}
