package store

import (
	"context"
	"fmt"
	"time"

	"membersearch/internal/platform/store/pg"
)

const (
	defaultPingAttempts = 20
	defaultPingTimeout  = 3 * time.Second
	backoffStart        = 150 * time.Millisecond
	backoffCeiling      = 2 * time.Second
)

// openPG builds the pool and publishes a runner once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var logTracer pg.QueryTracer
	if cfg.PG.LogSQL {
		logTracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:              cfg.PG.URL,
		MaxConns:         cfg.PG.MaxConns,
		SlowMs:           cfg.PG.SlowQueryMs,
		AppName:          cfg.AppName,
		StatementTimeout: cfg.PG.StatementTimeout,
	}, pg.Tracers(append([]pg.QueryTracer{logTracer}, s.tracers...)...))
	if err != nil {
		return nil, err
	}

	attempts, timeout := cfg.PG.ConnectRetries, cfg.PG.PingTimeout
	if attempts <= 0 {
		attempts = defaultPingAttempts
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		// ping the pool directly so boot probes stay out of the sql trace
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGRunner(p), nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Int("of", attempts).Msg("postgres not ready")

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}
