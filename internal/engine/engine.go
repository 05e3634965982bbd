package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/wpvol/internal/statefile"
	"github.com/roach88/wpvol/internal/store"
)

// Recorder stores one history row per applied request.
// Implemented by *store.Store.
type Recorder interface {
	RecordChange(ctx context.Context, c store.Change) (int64, error)
}

// Engine applies volume requests to one state file.
type Engine struct {
	path     string
	dryRun   bool
	recorder Recorder
	runIDs   RunIDGenerator
	clock    Clock
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDryRun enables check mode: requests are evaluated but nothing is saved.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithRecorder records every request in the given history store.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithRunIDGenerator overrides the default UUIDv7 run IDs.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) { e.runIDs = g }
}

// WithClock overrides the clock used for history timestamps.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine for the state file at path.
func New(path string, opts ...Option) *Engine {
	e := &Engine{
		path:   path,
		runIDs: UUIDv7Generator{},
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the state file the engine writes to.
func (e *Engine) Path() string {
	return e.path
}

// Apply runs a single request.
func (e *Engine) Apply(ctx context.Context, req Request) (Result, error) {
	results, err := e.ApplyAll(ctx, []Request{req})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// ApplyAll runs requests in order against one load of the state file.
//
// All requests are validated before the file is read, so an invalid request
// leaves the file untouched. The file is saved once, only when at least one
// request changed it and the engine is not in check mode. Later requests
// see the effects of earlier ones.
func (e *Engine) ApplyAll(ctx context.Context, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return []Result{}, nil
	}

	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("request %d (%q): %w", i, r.AppName, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := e.runIDs.Generate()
	log := e.logger.With("run_id", runID, "file", e.path)

	log.Debug("loading state file")
	s, err := statefile.Load(e.path)
	if err != nil {
		return nil, err
	}
	log.Debug("state file loaded", "entries", s.Len())

	results := make([]Result, len(reqs))
	anyChanged := false
	for i, r := range reqs {
		changed, err := s.SetVolumeForApp(r.AppName, r.Volume)
		if err != nil {
			return nil, fmt.Errorf("request %d (%q): %w", i, r.AppName, err)
		}
		anyChanged = anyChanged || changed

		results[i] = Result{
			AppName: r.AppName,
			Volume:  r.Volume,
			Changed: changed,
			Message: resultMessage(r.AppName, changed),
			RunID:   runID,
			DryRun:  e.dryRun,
		}
		log.Debug("request evaluated", "app", r.AppName, "volume", r.Volume, "changed", changed)
	}

	switch {
	case !anyChanged:
		log.Info("state file already up to date")
	case e.dryRun:
		log.Info("check mode, not saving", "requests", len(reqs))
	default:
		if err := statefile.Save(e.path, s); err != nil {
			return nil, err
		}
		log.Info("state file saved", "entries", s.Len())
	}

	e.record(ctx, log, reqs, results)

	return results, nil
}

// record writes history rows. Failures are logged, not returned: by the
// time history is written the state file is already in its final form.
func (e *Engine) record(ctx context.Context, log *slog.Logger, reqs []Request, results []Result) {
	if e.recorder == nil {
		return
	}

	now := e.clock.Now()
	for i, r := range reqs {
		_, err := e.recorder.RecordChange(ctx, store.Change{
			RunID:       results[i].RunID,
			AppName:     r.AppName,
			Volume:      r.Volume,
			Description: r.Description,
			Changed:     results[i].Changed,
			DryRun:      e.dryRun,
			StateFile:   e.path,
			RecordedAt:  now,
		})
		if err != nil {
			log.Warn("failed to record history", "app", r.AppName, "error", err)
		}
	}
}
