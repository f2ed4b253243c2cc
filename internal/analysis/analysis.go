// Package analysis implements the statistical core of the CKD report:
// descriptive summaries, the Pearson correlation matrix with strong-pair
// extraction, Welch group comparisons with Cohen's d, IQR outlier
// censuses, and categorical/binary frequency profiles. All functions are
// read-only over the dataset and deterministic.
package analysis

import (
	"math"
	"sort"
)

// roundTo rounds to the given number of decimal places for reporting.
// NaN and infinities pass through untouched so undefined statistics stay
// visibly undefined.
func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Quantile estimates the p-quantile of values by linear interpolation at
// rank p*(n-1) over the sorted sample. values must be non-empty; the
// input slice is not modified.
func Quantile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// sampleMean returns the arithmetic mean, NaN for empty input
func sampleMean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance returns the n-1 variance estimate, NaN below 2 samples
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := sampleMean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(values)-1)
}
