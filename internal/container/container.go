package container

import (
	"fmt"

	"goclean/adapters/cleaning/imputer"
	"goclean/adapters/cleaning/outlier"
	"goclean/adapters/cleaning/rules"
	"goclean/adapters/datareadiness"
	"goclean/adapters/datareadiness/coercer"
	"goclean/adapters/excel"
	"goclean/adapters/memory"
	"goclean/adapters/report"
	"goclean/adapters/sqlite"
	"goclean/app"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/datareadiness/resolution"
	"goclean/internal/config"
	"goclean/internal/dataset"
	"goclean/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	Uploads  ports.FileStorage
	Reader   ports.DatasetReader
	Versions ports.VersionStore
	Query    ports.QueryEngine

	// Services
	Preview  *app.PreviewService
	Pipeline *app.PipelineService
	Version  *app.VersionService
	Export   *app.ExportService
	Links    app.Links
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	tc := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	profiler := datareadiness.NewProfilerAdapter(tc)
	resolver := resolution.NewResolver(tc, cfg.Profiling.CategoricalRatio)
	store := memory.NewVersionStore()
	query := sqlite.NewQueryEngine(store)
	links := app.Links{Base: cfg.Server.PublicBaseURL}

	c := &Container{
		Config: cfg,
		Uploads: dataset.NewLocalFileStorage(&dataset.StorageConfig{
			BasePath:    cfg.Storage.UploadDir,
			MaxFileSize: cfg.Storage.MaxUploadBytes(),
		}),
		Reader:   excel.NewDataReader(excel.DefaultReaderConfig()),
		Versions: store,
		Query:    query,
		Links:    links,
	}

	profilingConfig := ProfilingConfig(cfg)
	c.Preview = app.NewPreviewService(profiler, resolver, resolution.NewReadinessGate(resolution.DefaultGateConfig()), profilingConfig)
	c.Pipeline = app.NewPipelineService(
		profiler,
		resolver,
		imputer.NewImputer(cfg.Pipeline.Workers),
		outlier.NewDetector(cfg.Pipeline.Workers),
		rules.NewEngine(tc),
		store,
		profilingConfig,
	)
	c.Version = app.NewVersionService(store, query)
	c.Export = app.NewExportService(store, report.NewDashboard(), links)
	return c, nil
}

// ProfilingConfig converts the environment thresholds to profiler settings
func ProfilingConfig(cfg *config.Config) profiling.ProfilingConfig {
	pc := profiling.DefaultProfilingConfig()
	pc.SampleSize = cfg.Profiling.SampleSize
	pc.MajorityThreshold = cfg.Profiling.MajorityThreshold
	pc.CategoricalRatio = cfg.Profiling.CategoricalRatio
	pc.MixedFraction = cfg.Profiling.MixedFraction
	pc.Workers = cfg.Pipeline.Workers
	return pc
}
