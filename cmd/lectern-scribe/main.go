package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	"lectern/internal/platform/store"

	"lectern/internal/adapters/llm/anthropic"
	"lectern/internal/adapters/llm/gemini"
	andomain "lectern/internal/services/analysis/domain"
	anrepo "lectern/internal/services/analysis/repo"
	ansvc "lectern/internal/services/analysis/service"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")
	llmCfg := root.Prefix("LECTERN_LLM_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "lectern-scribe",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		fSweep   = flag.Duration("sweep", 5*time.Second, "idle pause between sweeps of the pending queue")
		fBatch   = flag.Int("batch", 10, "rows leased per sweep")
		fRetries = flag.Int("retries", 3, "attempts per provider before falling through")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var providers []andomain.Analyzer
	if key := llmCfg.MayString("ANTHROPIC_API_KEY", ""); key != "" {
		providers = append(providers, anthropic.NewClient(anthropic.Options{
			APIKey: key,
			Model:  llmCfg.MayString("ANTHROPIC_MODEL", ""),
		}))
	}
	if key := llmCfg.MayString("GEMINI_API_KEY", ""); key != "" {
		g, err := gemini.NewClient(ctx, gemini.Options{
			APIKey: key,
			Model:  llmCfg.MayString("GEMINI_MODEL", ""),
		})
		if err != nil {
			l.Error().Err(err).Msg("gemini client unavailable, continuing without it")
		} else {
			providers = append(providers, g)
		}
	}
	if len(providers) == 0 {
		l.Fatal().Msg("no analysis providers configured, set LECTERN_LLM_ANTHROPIC_API_KEY or LECTERN_LLM_GEMINI_API_KEY")
	}

	w := ansvc.NewWorker(st.PG, anrepo.NewPG(), providers, ansvc.WorkerConfig{
		SweepInterval:   *fSweep,
		BatchSize:       *fBatch,
		ProviderRetries: *fRetries,
	})

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("analysis worker failed")
	}
	l.Info().Msg("analysis worker stopped")
}
