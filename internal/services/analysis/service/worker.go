package service

import (
	"context"
	"time"

	"lectern/internal/modkit/repokit"
	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	"lectern/internal/services/analysis/domain"
	"lectern/internal/services/analysis/repo"
)

// WorkerConfig tunes the background analysis sweep
type WorkerConfig struct {
	// SweepInterval is the idle pause between sweeps of the pending queue
	SweepInterval time.Duration
	// BatchSize caps how many rows one sweep picks up
	BatchSize int
	// ProviderRetries is the attempt count per provider
	ProviderRetries int
	// RetryBase is the first retry delay, doubled per attempt
	RetryBase time.Duration
}

func (c *WorkerConfig) defaults() {
	if c.SweepInterval <= 0 {
		c.SweepInterval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.ProviderRetries <= 0 {
		c.ProviderRetries = 3
	}
	if c.RetryBase <= 0 {
		c.RetryBase = time.Second
	}
}

// failBothMsg is the terminal message recorded when every provider
// exhausted its retries
const failBothMsg = "AI analysis failed with both primary and fallback providers"

// Worker drains pending content rows through the analyzer chain and
// writes the derived fields back
type Worker struct {
	db        repokit.TxRunner
	binder    repokit.Binder[repo.Storage]
	providers []domain.Analyzer
	cfg       WorkerConfig
	log       *logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker builds a Worker over the given provider chain.
// Providers are tried in order; the first success wins
func NewWorker(db repokit.TxRunner, binder repokit.Binder[repo.Storage], providers []domain.Analyzer, cfg WorkerConfig) *Worker {
	cfg.defaults()
	return &Worker{
		db:        db,
		binder:    binder,
		providers: providers,
		cfg:       cfg,
		log:       logger.Named("analysis.worker"),
		sleep:     sleepCtx,
	}
}

func (w *Worker) storage() repo.Storage { return w.binder.Bind(w.db) }

// Run sweeps the pending queue until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().
		Dur("sweep_interval", w.cfg.SweepInterval).
		Int("batch_size", w.cfg.BatchSize).
		Msg("analysis worker starting")

	for {
		n, err := w.Sweep(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error().Err(err).Msg("analysis sweep failed")
		}
		if n == 0 {
			if err := w.sleep(ctx, w.cfg.SweepInterval); err != nil {
				return ctx.Err()
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Sweep processes one batch of pending rows and reports how many it saw
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	jobs, err := w.storage().LeasePending(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	for _, j := range jobs {
		w.process(ctx, j)
		if ctx.Err() != nil {
			return len(jobs), ctx.Err()
		}
	}
	return len(jobs), nil
}

func (w *Worker) process(ctx context.Context, j repo.Job) {
	a, err := w.analyze(ctx, j)
	if err != nil {
		w.log.Warn().Str("content_id", j.ID).Err(err).Msg("analysis exhausted all providers")
		if ferr := w.storage().Fail(ctx, j.ID, failBothMsg); ferr != nil {
			w.log.Error().Str("content_id", j.ID).Err(ferr).Msg("record analysis failure")
		}
		return
	}
	if err := w.storage().Complete(ctx, j.ID, a); err != nil {
		w.log.Error().Str("content_id", j.ID).Err(err).Msg("record analysis result")
		return
	}
	w.log.Info().
		Str("content_id", j.ID).
		Int("themes", len(a.KeyThemes)).
		Int("questions", len(a.ThoughtQuestions)).
		Msg("analysis completed")
}

// analyze walks the provider chain with per-provider exponential retry
func (w *Worker) analyze(ctx context.Context, j repo.Job) (domain.Analysis, error) {
	var lastErr error
	for _, p := range w.providers {
		for attempt := 0; attempt < w.cfg.ProviderRetries; attempt++ {
			if attempt > 0 {
				if err := w.sleep(ctx, w.cfg.RetryBase<<(attempt-1)); err != nil {
					return domain.Analysis{}, ctx.Err()
				}
			}
			a, err := p.Analyze(ctx, j.Title, j.Category, j.Body)
			if err == nil {
				if len(a.KeyThemes) == 0 {
					err = perr.ServerErrf("provider %s returned no themes", p.Name())
				} else {
					return a, nil
				}
			}
			lastErr = err
			w.log.Warn().
				Str("content_id", j.ID).
				Str("provider", p.Name()).
				Int("attempt", attempt+1).
				Err(err).
				Msg("analysis attempt failed")
			if ctx.Err() != nil {
				return domain.Analysis{}, ctx.Err()
			}
		}
	}
	if lastErr == nil {
		lastErr = perr.Internalf("no analysis providers configured")
	}
	return domain.Analysis{}, lastErr
}
