package datareadiness

import (
	"context"
	"log"
	"time"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"
	"goclean/internal/parallel"
)

// ProfilerAdapter implements ProfilerPort by classifying raw cell values
type ProfilerAdapter struct {
	coercer *coercer.TypeCoercer
}

// NewProfilerAdapter creates a new profiler adapter
func NewProfilerAdapter(c *coercer.TypeCoercer) *ProfilerAdapter {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &ProfilerAdapter{coercer: c}
}

// ProfileDataset profiles every column of the first SampleSize rows. It
// never fails on content; the only error is cancellation.
func (p *ProfilerAdapter) ProfileDataset(ctx context.Context, ds *table.Dataset, config profiling.ProfilingConfig) (*profiling.ProfilingResult, error) {
	start := time.Now()
	config = withDefaults(config)

	sample := ds
	if config.SampleSize > 0 {
		sample = ds.Head(config.SampleSize)
	}
	columns := sample.Columns()

	profiles, err := parallel.Map(ctx, len(columns), config.Workers, func(ctx context.Context, i int) (profiling.ColumnProfile, error) {
		return p.profileColumn(columns[i], config), nil
	})
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	log.Printf("[ProfilerAdapter] Profiled %d columns over %d/%d rows in %.2fms",
		len(columns), sample.NumRows(), ds.NumRows(), float64(duration.Nanoseconds())/1e6)

	return &profiling.ProfilingResult{
		Profiles:    profiles,
		TotalRows:   ds.NumRows(),
		SampledRows: sample.NumRows(),
		DurationMs:  duration.Milliseconds(),
	}, nil
}

func withDefaults(config profiling.ProfilingConfig) profiling.ProfilingConfig {
	def := profiling.DefaultProfilingConfig()
	if config.MajorityThreshold <= 0 || config.MajorityThreshold > 1 {
		config.MajorityThreshold = def.MajorityThreshold
	}
	if config.CategoricalRatio <= 0 || config.CategoricalRatio > 1 {
		config.CategoricalRatio = def.CategoricalRatio
	}
	if config.MixedFraction <= 0 || config.MixedFraction >= 1 {
		config.MixedFraction = def.MixedFraction
	}
	if config.SampleValues <= 0 {
		config.SampleValues = def.SampleValues
	}
	return config
}

// profileColumn analyzes a single column
func (p *ProfilerAdapter) profileColumn(col *table.Column, config profiling.ProfilingConfig) profiling.ColumnProfile {
	cells := col.Cells()
	analysis := p.coercer.AnalyzeTypeDistribution(cells)

	profile := profiling.ColumnProfile{
		Name:         col.Name(),
		SampleSize:   col.Len(),
		MissingCount: col.MissingCount(),
		UniqueCount:  col.UniqueCount(),
		SampleValues: col.SampleValues(config.SampleValues),
		Ratios: profiling.TypeRatios{
			NumericRatio: analysis.NumericRatio,
			TextRatio:    analysis.TextRatio,
			DateRatio:    analysis.DateRatio,
			MixedRatio:   analysis.MixedRatio,
		},
	}
	profile.Type = InferType(analysis, profile.UniqueCount, config)

	if profile.Type == table.TypeNumeric {
		values := make([]float64, 0, len(cells))
		for _, cell := range cells {
			if v, ok := p.coercer.ToNumber(cell).Float(); ok {
				values = append(values, v)
			}
		}
		if summary, ok := table.Summarize(values); ok {
			profile.NumericStats = &summary
		}
	}

	profile.ComputeQualityScore()
	return profile
}

// InferType classifies a column from its value distribution. All-null and
// single-valued columns are categorical and never mixed.
func InferType(analysis coercer.TypeAnalysis, uniqueCount int, config profiling.ProfilingConfig) table.SemanticType {
	if analysis.ValidCount == 0 || uniqueCount <= 1 {
		return table.TypeCategorical
	}
	if analysis.NumericRatio >= config.MajorityThreshold {
		return table.TypeNumeric
	}
	if analysis.DateRatio >= config.MajorityThreshold {
		return table.TypeDatetime
	}

	meaningful := 0
	for _, ratio := range []float64{analysis.NumericRatio, analysis.DateRatio, analysis.TextualRatio()} {
		if ratio > config.MixedFraction {
			meaningful++
		}
	}
	if meaningful >= 2 {
		return table.TypeMixed
	}

	if float64(uniqueCount)/float64(analysis.ValidCount) <= config.CategoricalRatio {
		return table.TypeCategorical
	}
	return table.TypeText
}
