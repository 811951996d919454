package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"goclean/adapters/excel"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/datareadiness/resolution"
	"goclean/domain/table"
	"goclean/internal"
	"goclean/ports"
)

// PipelineService runs datasets through profiling, resolution, imputation,
// outlier handling and rules, and stores completed runs as versions
type PipelineService struct {
	profiler  ports.ProfilerPort
	resolver  *resolution.Resolver
	imputer   ports.Imputer
	outliers  ports.OutlierDetector
	rules     ports.RuleEngine
	store     ports.VersionStore
	profiling profiling.ProfilingConfig
	logger    *internal.Logger
}

// NewPipelineService wires the pipeline stages
func NewPipelineService(
	profiler ports.ProfilerPort,
	resolver *resolution.Resolver,
	imputer ports.Imputer,
	outliers ports.OutlierDetector,
	rules ports.RuleEngine,
	store ports.VersionStore,
	profilingConfig profiling.ProfilingConfig,
) *PipelineService {
	return &PipelineService{
		profiler:  profiler,
		resolver:  resolver,
		imputer:   imputer,
		outliers:  outliers,
		rules:     rules,
		store:     store,
		profiling: profilingConfig,
		logger:    internal.NewComponentLogger("Pipeline"),
	}
}

// RunRequest is the input of one pipeline run. A nil Decisions map means
// none were supplied; an empty map accepts the safe defaults.
type RunRequest struct {
	Dataset   *table.Dataset
	Filename  string
	Config    *cleaning.ProcessingConfig
	Decisions cleaning.Decisions
}

// PipelineRun is a run's position in the state machine. Version is set once
// State is completed; Candidates are set when the run awaits decisions.
type PipelineRun struct {
	State      cleaning.State                   `json:"state"`
	Candidates []profiling.MixedColumnCandidate `json:"mixed_columns,omitempty"`
	Profiles   *profiling.ProfilingResult       `json:"-"`
	Version    *cleaning.Version                `json:"-"`

	input  *table.Dataset
	sample *table.Dataset
	req    RunRequest
	trail  *cleaning.AuditTrail
}

// RequiresDecisions reports whether the run stopped for column decisions
func (r *PipelineRun) RequiresDecisions() bool {
	return r.State == cleaning.StateAwaitingColumnDecisions
}

func (r *PipelineRun) advance(next cleaning.State) error {
	if !r.State.CanTransition(next) {
		return fmt.Errorf("pipeline cannot move from %s to %s", r.State, next)
	}
	r.State = next
	return nil
}

// Run validates the input, profiles it and, unless mixed columns are
// waiting on decisions, runs every stage to completion
func (s *PipelineService) Run(ctx context.Context, req RunRequest) (*PipelineRun, error) {
	if req.Dataset == nil || req.Dataset.NumColumns() == 0 {
		return nil, core.ErrNoColumns
	}
	if req.Dataset.NumRows() == 0 {
		return nil, core.ErrEmptyDataset
	}
	cfg, err := validated(req.Config)
	if err != nil {
		return nil, err
	}
	req.Config = cfg

	run := &PipelineRun{
		State: cleaning.StateReceived,
		input: req.Dataset,
		req:   req,
		trail: &cleaning.AuditTrail{},
	}
	run.trail.Add(cleaning.StageResolution, "File contains %d rows and %d columns", req.Dataset.NumRows(), req.Dataset.NumColumns())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := s.profiler.ProfileDataset(ctx, req.Dataset, s.profiling)
	if err != nil {
		return nil, err
	}
	run.Profiles = result
	run.sample = req.Dataset
	if s.profiling.SampleSize > 0 {
		run.sample = req.Dataset.Head(s.profiling.SampleSize)
	}
	if err := run.advance(cleaning.StateProfiled); err != nil {
		return nil, err
	}

	run.Candidates = s.resolver.BuildCandidates(run.sample, result)
	if len(run.Candidates) > 0 && req.Decisions == nil {
		if err := run.advance(cleaning.StateAwaitingColumnDecisions); err != nil {
			return nil, err
		}
		s.logger.Info("Run for %s awaits decisions on %d mixed columns", req.Filename, len(run.Candidates))
		return run, nil
	}
	return s.complete(ctx, run, req.Decisions)
}

// Resume continues a run waiting on column decisions. A nil map accepts the
// safe defaults.
func (s *PipelineService) Resume(ctx context.Context, run *PipelineRun, decisions cleaning.Decisions) (*PipelineRun, error) {
	if run == nil || !run.RequiresDecisions() {
		return nil, core.NewInputError("run is not awaiting column decisions")
	}
	if decisions == nil {
		decisions = cleaning.Decisions{}
	}
	next := *run
	next.trail = run.trail.Clone()
	next.req.Decisions = decisions
	return s.complete(ctx, &next, decisions)
}

func (s *PipelineService) complete(ctx context.Context, run *PipelineRun, decisions cleaning.Decisions) (*PipelineRun, error) {
	start := time.Now()
	cfg := run.req.Config
	flags := cleaning.NewFlags()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolved, err := s.resolver.Resolve(run.input, run.Profiles, decisions)
	if err != nil {
		return nil, err
	}
	run.trail.Append(resolved.Entries...)
	if err := run.advance(cleaning.StateResolved); err != nil {
		return nil, err
	}
	before := resolved.Dataset

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	imputed, err := s.imputer.Impute(ctx, before, cfg.Imputation)
	if err != nil {
		return nil, err
	}
	run.trail.Append(imputed.Entries...)
	if err := run.advance(cleaning.StateImputed); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handled, err := s.outliers.Detect(ctx, imputed.Dataset, cfg.Outliers, flags)
	if err != nil {
		return nil, err
	}
	run.trail.Append(handled.Entries...)
	if err := run.advance(cleaning.StateOutliersHandled); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ruled, err := s.rules.Apply(ctx, handled.Dataset, cfg.Rules, flags)
	if err != nil {
		return nil, err
	}
	run.trail.Append(ruled.Entries...)
	if err := run.advance(cleaning.StateRulesApplied); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned := ruled.Dataset
	final := s.applyMapping(cleaned, cfg.SchemaMapping, run.trail)
	retained := flags.Retain(cleaned)

	version := &cleaning.Version{
		ID:               core.NewVersionID(),
		OriginalFilename: run.req.Filename,
		CleanedFilename:  cleaning.CleanedFilename(run.req.Filename),
		CreatedAt:        core.Now(),
		Config:           cfg,
		Decisions:        run.req.Decisions,
		Dataset:          final,
		Summary: cleaning.Summary{
			RowsOriginal:          run.input.NumRows(),
			RowsCleaned:           final.NumRows(),
			Columns:               final.NumColumns(),
			MissingValuesBefore:   before.TotalMissing(),
			MissingValuesAfter:    final.TotalMissing(),
			MissingByColumnBefore: before.MissingByColumn(),
			MissingByColumnAfter:  cleaned.MissingByColumn(),
			OutliersDetected:      handled.Affected,
			RulesApplied:          ruled.Affected,
			RowsFlagged:           len(retained),
		},
		AuditTrail:  run.trail.Messages(),
		Flags:       retained,
		Fingerprint: core.NewFingerprint(excel.CanonicalCSV(final)),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to store version: %w", err)
	}
	if err := run.advance(cleaning.StateCompleted); err != nil {
		return nil, err
	}
	run.Version = version

	s.logger.Info("Completed run %s for %s: %d -> %d rows, %d audit entries in %.2fms",
		version.ID, run.req.Filename, version.Summary.RowsOriginal, version.Summary.RowsCleaned,
		len(version.AuditTrail), float64(time.Since(start).Nanoseconds())/1e6)
	return run, nil
}

// applyMapping renames columns as a final label overlay. Collisions leave
// the names unchanged.
func (s *PipelineService) applyMapping(ds *table.Dataset, mapping map[string]string, trail *cleaning.AuditTrail) *table.Dataset {
	if len(mapping) == 0 {
		return ds
	}
	var unknown []string
	for from := range mapping {
		if _, ok := ds.Column(from); !ok {
			unknown = append(unknown, from)
		}
	}
	sort.Strings(unknown)

	renamed, err := ds.Rename(mapping)
	if err != nil {
		trail.Add(cleaning.StageSchemaMapping, "Schema mapping skipped: %v", err)
		return ds
	}
	for _, name := range ds.ColumnNames() {
		if to, ok := mapping[name]; ok && strings.TrimSpace(to) != name {
			trail.Add(cleaning.StageSchemaMapping, "Renamed column '%s' to '%s'", name, strings.TrimSpace(to))
		}
	}
	for _, name := range unknown {
		trail.Add(cleaning.StageSchemaMapping, "Schema mapping for unknown column '%s' ignored", name)
	}
	return renamed
}

func validated(cfg *cleaning.ProcessingConfig) (*cleaning.ProcessingConfig, error) {
	if cfg == nil {
		return cleaning.DefaultProcessingConfig(), nil
	}
	if cfg.Validated() {
		return cfg, nil
	}
	return cleaning.NewProcessingConfig(*cfg)
}
