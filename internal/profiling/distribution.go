package profiling

import "goclean/domain/table"

// ColumnStats is the per-column entry of a data summary. Numeric columns
// carry moments, other columns carry cardinality and the modal value.
type ColumnStats struct {
	Type         table.SemanticType `json:"type"`
	Mean         *float64           `json:"mean,omitempty"`
	Median       *float64           `json:"median,omitempty"`
	Std          *float64           `json:"std,omitempty"`
	Min          *float64           `json:"min,omitempty"`
	Max          *float64           `json:"max,omitempty"`
	Skewness     *float64           `json:"skewness,omitempty"`
	Kurtosis     *float64           `json:"kurtosis,omitempty"`
	UniqueCount  *int               `json:"unique_count,omitempty"`
	MostFrequent interface{}        `json:"most_frequent,omitempty"`
	MissingCount int                `json:"missing_count"`
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeColumn summarises a single column
func (da *DistributionAnalyzer) AnalyzeColumn(col *table.Column) ColumnStats {
	out := ColumnStats{Type: col.Type(), MissingCount: col.MissingCount()}

	if col.IsNumeric() {
		summary, ok := col.NumericSummary()
		if !ok {
			return out
		}
		out.Mean = ptr(summary.Mean)
		out.Median = ptr(summary.Median)
		out.Std = ptr(summary.Std)
		out.Min = ptr(summary.Min)
		out.Max = ptr(summary.Max)

		data := col.Floats()
		if skew, ok := calculateSkewness(data, summary.Mean, summary.Std); ok {
			out.Skewness = ptr(skew)
		}
		if kurt, ok := calculateKurtosis(data, summary.Mean, summary.Std); ok {
			out.Kurtosis = ptr(kurt)
		}
		return out
	}

	unique := col.UniqueCount()
	out.UniqueCount = &unique
	if mode, ok := col.Mode(); ok {
		out.MostFrequent = mode.Interface()
	}
	return out
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) (float64, bool) {
	if len(data) < 3 || stdDev == 0 {
		return 0, false
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	// G1 = n / ((n-1)(n-2)) * sum(((x-mean)/s)^3)
	return n / ((n - 1) * (n - 2)) * sumCubedDeviations, true
}

// calculateKurtosis computes sample excess kurtosis (G2)
func calculateKurtosis(data []float64, mean, stdDev float64) (float64, bool) {
	if len(data) < 4 || stdDev == 0 {
		return 0, false
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	a := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	b := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return a*sumFourthDeviations - b, true
}

func ptr(v float64) *float64 { return &v }
