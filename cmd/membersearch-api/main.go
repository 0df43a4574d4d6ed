// @title         Member Search API
// @version       0.1.0
// @description   Dynamic member and team search with paged results

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"membersearch/internal/platform/config"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/metrics"
	phttp "membersearch/internal/platform/net/http"
	"membersearch/internal/platform/store"
	"membersearch/internal/platform/store/migrate"

	"membersearch/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbURL := pgCfg.MustString("DBURL")
	if pgCfg.MayBool("MIGRATE", false) {
		if err := migrate.Up(dbURL, *logger.Named("migrate")); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
	}

	metricsOn := apiCfg.MayBool("METRICS", true)
	opts := []store.Option{store.WithLogger(*logger.Get())}
	if metricsOn {
		opts = append(opts, store.WithQueryTracer(metrics.QueryTracer()))
	}

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "membersearch-api",
			PG: store.PGConfig{
				Enabled:          true,
				URL:              dbURL,
				MaxConns:         int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs:      pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:           pgCfg.MayBool("LOG_SQL", true),
				StatementTimeout: pgCfg.MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
			},
		},
		opts...,
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        apiCfg,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
			EnableMetrics: metricsOn,
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
