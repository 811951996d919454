package app

import (
	"context"

	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/internal/profiling"
	"goclean/ports"
)

// VersionService reads stored versions: lookups, data summaries and queries
type VersionService struct {
	store    ports.VersionStore
	query    ports.QueryEngine
	analyzer *profiling.DistributionAnalyzer
}

// NewVersionService creates a version service
func NewVersionService(store ports.VersionStore, query ports.QueryEngine) *VersionService {
	return &VersionService{store: store, query: query, analyzer: profiling.NewDistributionAnalyzer()}
}

// List returns versions in creation order
func (s *VersionService) List(ctx context.Context) ([]*cleaning.Version, error) {
	return s.store.List(ctx)
}

// Get returns one version
func (s *VersionService) Get(ctx context.Context, id core.VersionID) (*cleaning.Version, error) {
	return s.store.Get(ctx, id)
}

// Summary describes the cleaned dataset of a version
func (s *VersionService) Summary(ctx context.Context, id core.VersionID) (*profiling.DataSummary, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := s.analyzer.Summarize(v.Dataset)
	return &summary, nil
}

// Query runs a read-only query against a version
func (s *VersionService) Query(ctx context.Context, id core.VersionID, query string) (*ports.QueryResult, error) {
	return s.query.Execute(ctx, id, query)
}
