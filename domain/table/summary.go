package table

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// NumericSummary holds the moments of a numeric column's non-null values
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`     // sample standard deviation
	PopStd float64 `json:"pop_std"` // population standard deviation
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// IQR returns Q3 - Q1
func (s NumericSummary) IQR() float64 { return s.Q3 - s.Q1 }

// Summarize computes a NumericSummary. The boolean is false for empty input.
func Summarize(values []float64) (NumericSummary, bool) {
	if len(values) == 0 {
		return NumericSummary{}, false
	}
	data := stats.Float64Data(values)

	mean, _ := stats.Mean(data)
	popStd, _ := stats.StandardDeviationPopulation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)

	var sampleStd float64
	if len(values) > 1 {
		sampleStd, _ = stats.StandardDeviationSample(data)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return NumericSummary{
		Count:  len(values),
		Mean:   mean,
		Std:    sampleStd,
		PopStd: popStd,
		Min:    min,
		Max:    max,
		Median: median,
		Q1:     Quantile(sorted, 0.25),
		Q3:     Quantile(sorted, 0.75),
	}, true
}

// Quantile returns the q-th quantile of sorted data using linear
// interpolation between closest ranks (h = (n-1)q).
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
