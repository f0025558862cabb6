package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/artifact"
	"git.home.luguber.info/inful/sitemapper/internal/build/validation"
	"git.home.luguber.info/inful/sitemapper/internal/config"
	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/eventstore"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/manifest"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/notify"
	"git.home.luguber.info/inful/sitemapper/internal/observability"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
	"git.home.luguber.info/inful/sitemapper/internal/source"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
	"git.home.luguber.info/inful/sitemapper/internal/version"
)

// Trigger values recorded with every build.
const (
	TriggerCLI      = "cli"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	recorder  metrics.Recorder
	history   eventstore.Store
	publisher notify.Publisher
	snapshots storage.SnapshotStore
	keep      int
	skip      *validation.SkipEvaluator
	now       func() time.Time
}

// NewBuildService creates a DefaultBuildService without history, metrics or
// notifications.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		skip:      validation.NewSkipEvaluator(nil),
		now:       time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithHistory sets the store that receives build events.
func (s *DefaultBuildService) WithHistory(store eventstore.Store) *DefaultBuildService {
	s.history = store
	return s
}

// WithPublisher sets the notification publisher.
func (s *DefaultBuildService) WithPublisher(p notify.Publisher) *DefaultBuildService {
	if p == nil {
		p = notify.NoopPublisher{}
	}
	s.publisher = p
	return s
}

// WithSnapshots stores a copy of every written artifact and prunes the store
// to the keep most recent builds (0 keeps all).
func (s *DefaultBuildService) WithSnapshots(store storage.SnapshotStore, keep int) *DefaultBuildService {
	s.snapshots = store
	s.keep = keep
	return s
}

// WithClock replaces the time source (for testing).
func (s *DefaultBuildService) WithClock(now func() time.Time) *DefaultBuildService {
	s.now = now
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := s.now()
	m := manifest.New(startTime)
	result := &BuildResult{
		BuildID:   m.ID,
		StartTime: startTime,
		Manifest:  m,
	}

	if req.Config == nil {
		return s.fail(ctx, result, req, "request", serrors.InternalError("invalid build request", ErrConfigRequired))
	}
	cfg := req.Config
	ctx = observability.WithBuildID(ctx, m.ID)

	result.ArtifactPath = req.Options.OutputPath
	if result.ArtifactPath == "" {
		result.ArtifactPath = cfg.Resolve(cfg.Output.Sitemap)
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerCLI
	}

	if !req.Options.DryRun {
		s.recordEvent(ctx, result, func() (eventstore.Event, error) {
			return eventstore.NewBuildStarted(m.ID, cfg.Sources.Sitemap, trigger)
		})
	}

	// Stage 1: Load sources
	var src *source.Sources
	err := s.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		src, err = source.Load(cfg)
		if err != nil {
			return err
		}
		m.Inputs = manifest.Inputs{
			SitemapHash:        src.SitemapFile.Hash,
			PageTemplatesHash:  src.PageTemplatesFile.Hash,
			BlockTemplatesHash: src.BlockTemplatesFile.Hash,
			GitCommit:          manifest.GitCommit(src.SitemapFile.Path),
			GeneratorVersion:   version.Version,
		}
		observability.InfoContext(ctx, "Loaded sources",
			logfields.File(src.SitemapFile.Path),
			logfields.Roots(len(src.Pages)))
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, req, StageLoad, err)
	}

	// Stage 2: Skip evaluation (optional)
	if req.Options.SkipIfUnchanged && !req.Options.DryRun {
		if skipped := s.evaluateSkip(ctx, cfg, result); skipped {
			return result, nil
		}
	}

	// Stage 3: Compute the sitemap
	cache := req.Cache
	if cache == nil {
		cache = &sitemap.Cache{}
	}
	err = s.stage(ctx, StageCompute, func(ctx context.Context) error {
		gen := sitemap.NewGenerator(sitemap.NewBuilder(src.PageTemplates, src.BlockTemplates), cache)
		stack, err := gen.Compute(ctx, src.Pages)
		if err != nil {
			return err
		}
		result.Stack = stack
		s.recorder.SetPages(len(stack.Flat))
		s.recorder.SetBlocks(stack.BlockCount())
		observability.InfoContext(ctx, "Computed sitemap",
			logfields.Roots(len(stack.Hierarchy)),
			logfields.Pages(len(stack.Flat)),
			logfields.Blocks(stack.BlockCount()))
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, req, StageCompute, err)
	}

	// Stage 4: Render the artifact
	err = s.stage(ctx, StageRender, func(context.Context) error {
		body, err := artifact.Body(result.Stack.Hierarchy)
		if err != nil {
			return serrors.BuildFailed(StageRender, err)
		}
		banner := artifact.Banner(startTime, filepath.Base(cfg.Sources.Sitemap))
		result.Content = append([]byte(banner), body...)
		m.Outputs = manifest.Outputs{
			ArtifactPath: result.ArtifactPath,
			Fingerprint:  manifest.Fingerprint(body),
			Pages:        len(result.Stack.Flat),
			Blocks:       result.Stack.BlockCount(),
			Roots:        len(result.Stack.Hierarchy),
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, req, StageRender, err)
	}

	if req.Options.DryRun {
		observability.InfoContext(ctx, "Dry run, nothing written", logfields.Path(result.ArtifactPath))
		m.Status = manifest.StatusSuccess
		return s.finish(result, BuildStatusSuccess), nil
	}

	// Stage 5: Write the artifact
	err = s.stage(ctx, StageWrite, func(ctx context.Context) error {
		if err := artifact.Write(result.ArtifactPath, result.Content); err != nil {
			return err
		}
		observability.InfoContext(ctx, "Wrote sitemap", logfields.Path(result.ArtifactPath))
		return nil
	})
	if err != nil {
		return s.fail(ctx, result, req, StageWrite, err)
	}

	s.finish(result, BuildStatusSuccess)
	m.Status = manifest.StatusSuccess
	m.Duration = result.Duration.Milliseconds()

	// The artifact is valid from here on; later stages only warn.
	s.writeManifest(ctx, cfg, result)
	s.snapshot(ctx, result)
	s.recordEvent(ctx, result, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(m.ID, eventstore.BuildCompletedData{
			Artifact:    m.Outputs.ArtifactPath,
			Fingerprint: m.Outputs.Fingerprint,
			Pages:       m.Outputs.Pages,
			Blocks:      m.Outputs.Blocks,
			Roots:       m.Outputs.Roots,
			DurationMS:  m.Duration,
		})
	})
	s.publish(ctx, result)

	s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	s.recorder.ObserveBuildDuration(result.Duration)
	return result, nil
}

// stage runs fn with the stage name on the context and records its duration
// and result.
func (s *DefaultBuildService) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	stageStart := s.now()
	ctx = observability.WithStage(ctx, name)
	err := fn(ctx)
	s.recorder.ObserveStageDuration(name, s.now().Sub(stageStart))
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

func (s *DefaultBuildService) evaluateSkip(ctx context.Context, cfg *config.Config, result *BuildResult) bool {
	stageStart := s.now()
	ctx = observability.WithStage(ctx, StageSkip)
	defer func() { s.recorder.ObserveStageDuration(StageSkip, s.now().Sub(stageStart)) }()

	m := result.Manifest
	prev, err := manifest.Load(cfg.Resolve(cfg.Output.Manifest))
	if err != nil {
		observability.WarnContext(ctx, "Previous manifest unreadable, rebuilding", logfields.Error(err))
		return false
	}

	ok, reason := s.skip.Evaluate(ctx, prev, m.Inputs, result.ArtifactPath)
	if !ok {
		observability.InfoContext(ctx, "Rebuilding", slog.String("reason", reason))
		return false
	}

	observability.InfoContext(ctx, "Build skipped - inputs unchanged")
	m.Status = manifest.StatusSkipped
	m.Outputs = prev.Outputs
	result.Skipped = true
	result.SkipReason = "inputs unchanged"
	s.finish(result, BuildStatusSkipped)

	hash, _ := m.Hash()
	s.recordEvent(ctx, result, func() (eventstore.Event, error) {
		return eventstore.NewBuildSkipped(m.ID, result.SkipReason, hash)
	})
	s.recorder.IncStageResult(StageSkip, metrics.ResultSuccess)
	s.recorder.IncBuildOutcome(metrics.OutcomeSkipped)
	s.recorder.ObserveBuildDuration(result.Duration)
	return true
}

func (s *DefaultBuildService) writeManifest(ctx context.Context, cfg *config.Config, result *BuildResult) {
	path := cfg.Output.Manifest
	if path == "" {
		return
	}
	ctx = observability.WithStage(ctx, StageManifest)
	if err := manifest.Save(cfg.Resolve(path), result.Manifest); err != nil {
		w := serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityWarning, "manifest write failed").
			WithContext("path", path)
		observability.WarnContext(ctx, "Failed to write manifest", logfields.Error(err))
		result.Warnings = append(result.Warnings, w)
	}
}

func (s *DefaultBuildService) snapshot(ctx context.Context, result *BuildResult) {
	if s.snapshots == nil {
		return
	}
	ctx = observability.WithStage(ctx, StageSnapshot)
	hash, err := s.snapshots.Put(ctx, result.BuildID, result.Content)
	if err == nil {
		observability.DebugContext(ctx, "Stored artifact snapshot", slog.String("hash", hash))
		var removed int
		removed, err = s.snapshots.Prune(ctx, s.keep)
		if removed > 0 {
			observability.DebugContext(ctx, "Pruned artifact snapshots", slog.Int("removed", removed))
		}
	}
	if err != nil {
		w := serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityWarning, "artifact snapshot failed")
		observability.WarnContext(ctx, "Failed to store artifact snapshot", logfields.Error(err))
		result.Warnings = append(result.Warnings, w)
	}
}

func (s *DefaultBuildService) recordEvent(ctx context.Context, result *BuildResult, build func() (eventstore.Event, error)) {
	if s.history == nil {
		return
	}
	ctx = observability.WithStage(ctx, StageHistory)
	event, err := build()
	if err == nil {
		err = eventstore.Record(ctx, s.history, event)
	}
	if err != nil {
		w := serrors.HistoryError("append", err)
		observability.WarnContext(ctx, "Failed to record build event", logfields.Error(err))
		result.Warnings = append(result.Warnings, w)
	}
}

func (s *DefaultBuildService) publish(ctx context.Context, result *BuildResult) {
	ctx = observability.WithStage(ctx, StageNotify)
	m := result.Manifest
	err := s.publisher.Publish(ctx, notify.Generated{
		BuildID:     m.ID,
		Artifact:    m.Outputs.ArtifactPath,
		Fingerprint: m.Outputs.Fingerprint,
		Pages:       m.Outputs.Pages,
		Blocks:      m.Outputs.Blocks,
		GeneratedAt: result.StartTime.UTC(),
	})
	if err != nil {
		observability.WarnContext(ctx, "Failed to publish notification", logfields.Error(err))
		result.Warnings = append(result.Warnings, err)
	}
}

func (s *DefaultBuildService) finish(result *BuildResult, status BuildStatus) *BuildResult {
	result.Status = status
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

func (s *DefaultBuildService) fail(ctx context.Context, result *BuildResult, req BuildRequest, stage string, err error) (*BuildResult, error) {
	status := BuildStatusFailed
	outcome := metrics.OutcomeFailed
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = BuildStatusCancelled
		outcome = metrics.OutcomeCanceled
	}
	s.finish(result, status)
	result.Manifest.Status = manifest.StatusFailed
	result.Manifest.Duration = result.Duration.Milliseconds()

	observability.ErrorContext(observability.WithStage(ctx, stage), "Build failed", logfields.Error(err))
	if req.Config != nil && !req.Options.DryRun {
		s.recordEvent(ctx, result, func() (eventstore.Event, error) {
			return eventstore.NewBuildFailed(result.BuildID, stage, err.Error())
		})
	}
	s.recorder.IncBuildOutcome(outcome)
	s.recorder.ObserveBuildDuration(result.Duration)
	return result, err
}
