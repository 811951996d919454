package app

import (
	"context"

	"goclean/domain/core"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/datareadiness/resolution"
	"goclean/domain/table"
	"goclean/ports"
)

// PreviewSampleRows is the number of rows returned with a preview
const PreviewSampleRows = 10

// ColumnPreview describes one column of a previewed upload
type ColumnPreview struct {
	Name         string             `json:"name"`
	Type         table.SemanticType `json:"type"`
	MissingCount int                `json:"missing_count"`
	UniqueCount  int                `json:"unique_count"`
	SampleValues []table.Cell       `json:"sample_values"`
}

// Preview is the profile of an upload before any cleaning
type Preview struct {
	Columns           []ColumnPreview                  `json:"columns"`
	SampleRows        []map[string]interface{}         `json:"sample_rows"`
	TotalRows         int                              `json:"total_rows"`
	DuplicateRows     int                              `json:"duplicate_rows"`
	MixedColumns      []profiling.MixedColumnCandidate `json:"mixed_columns"`
	RequiresDecisions bool                             `json:"requires_decisions"`
	DataQualityScore  float64                          `json:"data_quality_score"`
	Recommendations   []string                         `json:"recommendations"`
	FileRef           core.UploadID                    `json:"file_ref,omitempty"`
}

// PreviewService profiles uploads and proposes resolutions
type PreviewService struct {
	profiler  ports.ProfilerPort
	resolver  *resolution.Resolver
	gate      *resolution.ReadinessGate
	profiling profiling.ProfilingConfig
}

// NewPreviewService creates a preview service
func NewPreviewService(profiler ports.ProfilerPort, resolver *resolution.Resolver, gate *resolution.ReadinessGate, config profiling.ProfilingConfig) *PreviewService {
	return &PreviewService{profiler: profiler, resolver: resolver, gate: gate, profiling: config}
}

// Preview profiles ds. Counts cover the whole dataset; types and sample
// values come from the profiled head.
func (s *PreviewService) Preview(ctx context.Context, ds *table.Dataset) (*Preview, error) {
	if ds == nil || ds.NumColumns() == 0 {
		return nil, core.ErrNoColumns
	}
	if ds.NumRows() == 0 {
		return nil, core.ErrEmptyDataset
	}

	result, err := s.profiler.ProfileDataset(ctx, ds, s.profiling)
	if err != nil {
		return nil, err
	}
	sample := ds
	if s.profiling.SampleSize > 0 {
		sample = ds.Head(s.profiling.SampleSize)
	}

	duplicates := ds.DuplicateRows()
	readiness := s.gate.EvaluateReadiness(result, duplicates)
	candidates := s.resolver.BuildCandidates(sample, result)
	if candidates == nil {
		candidates = []profiling.MixedColumnCandidate{}
	}

	out := &Preview{
		TotalRows:         ds.NumRows(),
		DuplicateRows:     duplicates,
		MixedColumns:      candidates,
		RequiresDecisions: len(candidates) > 0,
		DataQualityScore:  readiness.DataQualityScore,
		Recommendations:   readiness.Recommendations,
	}
	for _, p := range result.Profiles {
		col, _ := ds.Column(p.Name)
		out.Columns = append(out.Columns, ColumnPreview{
			Name:         p.Name,
			Type:         p.Type,
			MissingCount: col.MissingCount(),
			UniqueCount:  col.UniqueCount(),
			SampleValues: p.SampleValues,
		})
	}

	head := ds.Head(PreviewSampleRows)
	out.SampleRows = make([]map[string]interface{}, head.NumRows())
	for i := range out.SampleRows {
		out.SampleRows[i] = head.RowMap(i)
	}
	return out, nil
}
