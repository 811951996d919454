package resolution

import (
	"fmt"
	"math"

	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"
)

// ReadinessGate scores a profiled dataset and produces recommendations
type ReadinessGate struct {
	config GateConfig
}

// GateConfig defines the readiness thresholds
type GateConfig struct {
	DropMissingRate   float64 `json:"drop_missing_rate"`   // above this, suggest dropping the column
	MaxCardinality    int     `json:"max_cardinality"`     // categorical columns above this are flagged
	DuplicatePenalty  float64 `json:"duplicate_penalty"`   // score share lost when every row is a duplicate
	MinSampleSize     int     `json:"min_sample_size"`     // below this, statistics are unreliable
	MaxRecommendation int     `json:"max_recommendations"` // cap on returned recommendations
}

// DefaultGateConfig returns sensible defaults for readiness gates
func DefaultGateConfig() GateConfig {
	return GateConfig{
		DropMissingRate:   0.5,
		MaxCardinality:    1000,
		DuplicatePenalty:  0.5,
		MinSampleSize:     30,
		MaxRecommendation: 20,
	}
}

// NewReadinessGate creates a gate with config
func NewReadinessGate(config GateConfig) *ReadinessGate {
	return &ReadinessGate{config: config}
}

// ReadinessResult contains the outcome of readiness evaluation
type ReadinessResult struct {
	DataQualityScore float64            `json:"data_quality_score"` // 0-100
	Columns          []ColumnEvaluation `json:"columns"`
	Recommendations  []string           `json:"recommendations"`
}

// ColumnEvaluation contains the evaluation of a single column
type ColumnEvaluation struct {
	Column  string            `json:"column"`
	Score   float64           `json:"score"`
	Ready   bool              `json:"ready"`
	Reasons []RejectionReason `json:"reasons,omitempty"`
}

// RejectionReason explains why a column needs attention
type RejectionReason struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning"
}

// EvaluateReadiness scores the profiles. duplicateRows is counted over
// totalRows of the full dataset.
func (g *ReadinessGate) EvaluateReadiness(result *profiling.ProfilingResult, duplicateRows int) ReadinessResult {
	out := ReadinessResult{Recommendations: []string{}}

	var total float64
	for _, p := range result.Profiles {
		eval := g.evaluateProfile(p)
		total += eval.Score
		out.Columns = append(out.Columns, eval)
		for _, reason := range eval.Reasons {
			out.Recommendations = append(out.Recommendations, reason.Message)
		}
	}

	score := 0.0
	if len(result.Profiles) > 0 {
		score = total / float64(len(result.Profiles))
	}
	if duplicateRows > 0 && result.TotalRows > 0 {
		dupRatio := float64(duplicateRows) / float64(result.TotalRows)
		score *= 1 - g.config.DuplicatePenalty*dupRatio
		out.Recommendations = append(out.Recommendations,
			fmt.Sprintf("Dataset contains %d duplicate rows (%.1f%%); consider removing them", duplicateRows, dupRatio*100))
	}
	if result.TotalRows > 0 && result.TotalRows < g.config.MinSampleSize {
		out.Recommendations = append(out.Recommendations,
			fmt.Sprintf("Only %d rows; statistics such as outlier bounds may be unreliable", result.TotalRows))
	}

	if len(out.Recommendations) == 0 {
		out.Recommendations = append(out.Recommendations, "No data quality issues detected")
	}
	if g.config.MaxRecommendation > 0 && len(out.Recommendations) > g.config.MaxRecommendation {
		out.Recommendations = out.Recommendations[:g.config.MaxRecommendation]
	}

	out.DataQualityScore = math.Round(clamp(score, 0, 1)*1000) / 10
	return out
}

// evaluateProfile evaluates a single profile against readiness criteria
func (g *ReadinessGate) evaluateProfile(p profiling.ColumnProfile) ColumnEvaluation {
	eval := ColumnEvaluation{
		Column: p.Name,
		Score:  p.QualityScore,
		Ready:  true,
	}
	missingRate := p.MissingRate()

	switch {
	case p.SampleSize > 0 && p.MissingCount == p.SampleSize:
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "all_missing",
			Message:  fmt.Sprintf("Column '%s' is entirely empty; consider dropping it", p.Name),
			Severity: "error",
		})
		eval.Ready = false
	case missingRate > g.config.DropMissingRate:
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "excessive_missing_rate",
			Message:  fmt.Sprintf("Column '%s' is %.1f%% missing; consider dropping it", p.Name, missingRate*100),
			Severity: "error",
		})
		eval.Ready = false
	case missingRate > 0:
		method := "mode"
		if p.Type == table.TypeNumeric {
			method = "median"
		}
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "missing_values",
			Message:  fmt.Sprintf("Column '%s' has %d missing values (%.1f%%); consider %s imputation", p.Name, p.MissingCount, missingRate*100, method),
			Severity: "warning",
		})
	}

	if p.Type == table.TypeMixed {
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "mixed_types",
			Message:  fmt.Sprintf("Column '%s' mixes value types; choose a resolution before processing", p.Name),
			Severity: "warning",
		})
		eval.Ready = false
	}

	if p.UniqueCount == 1 && p.SampleSize-p.MissingCount > 1 {
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "constant",
			Message:  fmt.Sprintf("Column '%s' has a single distinct value and carries no information", p.Name),
			Severity: "warning",
		})
	}

	if p.Type == table.TypeCategorical && p.UniqueCount > g.config.MaxCardinality {
		eval.Reasons = append(eval.Reasons, RejectionReason{
			Rule:     "excessive_cardinality",
			Message:  fmt.Sprintf("Column '%s' has %d categories; consider grouping rare values", p.Name, p.UniqueCount),
			Severity: "warning",
		})
	}

	return eval
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
