package ports

import (
	"context"

	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"
)

// ProfilerPort infers a semantic type and statistics for every column
type ProfilerPort interface {
	ProfileDataset(ctx context.Context, ds *table.Dataset, config profiling.ProfilingConfig) (*profiling.ProfilingResult, error)
}
