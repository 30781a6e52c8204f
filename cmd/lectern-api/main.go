// @title         Lectern API
// @version       0.1.0
// @description   Content library, tag slots, search, and analysis endpoints

package main

import (
	"context"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	phttp "lectern/internal/platform/net/http"
	"lectern/internal/platform/store"

	"lectern/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (LECTERN_API_*)
	root := config.New()
	apiCfg := root.Prefix("LECTERN_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "lectern-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			RDS: store.RDSConfig{
				Enabled: rdsCfg.MayBool("ENABLED", false),
				URL:     rdsCfg.MayString("URL", ""),
				Addr:    rdsCfg.MayString("ADDR", "127.0.0.1:6379"),
				DB:      rdsCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads LECTERN_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        apiCfg,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
