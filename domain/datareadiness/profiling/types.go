package profiling

import (
	"goclean/domain/table"
)

// ColumnProfile is the statistical profile of one column
type ColumnProfile struct {
	Name         string                `json:"name"`
	Type         table.SemanticType    `json:"type"`
	SampleSize   int                   `json:"sample_size"`
	MissingCount int                   `json:"missing_count"`
	UniqueCount  int                   `json:"unique_count"`
	SampleValues []table.Cell          `json:"sample_values"`
	Ratios       TypeRatios            `json:"ratios"`
	NumericStats *table.NumericSummary `json:"numeric_stats,omitempty"`
	QualityScore float64               `json:"quality_score"` // 0-1, higher is better
}

// TypeRatios are the shares of non-null values per value class
type TypeRatios struct {
	NumericRatio float64 `json:"numeric_ratio"`
	TextRatio    float64 `json:"text_ratio"`
	DateRatio    float64 `json:"date_ratio"`
	MixedRatio   float64 `json:"mixed_ratio"`
}

// MissingRate is the share of sampled cells that are null
func (p ColumnProfile) MissingRate() float64 {
	if p.SampleSize == 0 {
		return 0
	}
	return float64(p.MissingCount) / float64(p.SampleSize)
}

// ProfilingConfig defines the profiling parameters
type ProfilingConfig struct {
	SampleSize        int     `json:"sample_size"`        // rows profiled from the head of the dataset
	MajorityThreshold float64 `json:"majority_threshold"` // share a type needs to win outright
	CategoricalRatio  float64 `json:"categorical_ratio"`  // unique/non-null at or below this is categorical
	MixedFraction     float64 `json:"mixed_fraction"`     // share that makes a competing type meaningful
	SampleValues      int     `json:"sample_values"`
	Workers           int     `json:"workers"`
}

// DefaultProfilingConfig returns sensible defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		SampleSize:        10000,
		MajorityThreshold: 0.9,
		CategoricalRatio:  0.5,
		MixedFraction:     0.1,
		SampleValues:      5,
		Workers:           0, // one per CPU
	}
}

// ProfilingResult contains the outcome of profiling a dataset
type ProfilingResult struct {
	Profiles    []ColumnProfile `json:"profiles"`
	TotalRows   int             `json:"total_rows"`
	SampledRows int             `json:"sampled_rows"`
	DurationMs  int64           `json:"duration_ms"`
}

// Profile looks up a column profile by name
func (r *ProfilingResult) Profile(name string) (ColumnProfile, bool) {
	for _, p := range r.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return ColumnProfile{}, false
}

// MixedColumns returns the names of columns classified mixed
func (r *ProfilingResult) MixedColumns() []string {
	var out []string
	for _, p := range r.Profiles {
		if p.Type == table.TypeMixed {
			out = append(out, p.Name)
		}
	}
	return out
}

// ComputeQualityScore calculates an overall quality score for a column
func (p *ColumnProfile) ComputeQualityScore() float64 {
	score := 1.0

	// Penalize high missing rates
	score *= 1.0 - p.MissingRate()

	// A categorical column where nearly every value differs carries little signal
	nonNull := p.SampleSize - p.MissingCount
	if p.Type == table.TypeCategorical && nonNull > 0 {
		if float64(p.UniqueCount)/float64(nonNull) > 0.9 && nonNull > 10 {
			score *= 0.5
		}
	}

	// Ambiguous typing costs confidence
	if p.Type == table.TypeMixed {
		score *= 0.7
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	p.QualityScore = score
	return score
}
