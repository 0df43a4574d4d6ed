package store

import (
	"context"
	"errors"
	"time"

	"membersearch/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// conn is the statement surface shared by *pgxpool.Pool and pgx.Tx
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on c and reports each round trip to tracer
type traced struct {
	c      conn
	tracer pg.QueryTracer
	slow   time.Duration // negative disables slow marking
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.c.Exec(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.c.Query(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once Scan returns so row errors are attributed
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.c.QueryRow(ctx, sql, args...)
	return scanHook{r: r, done: func(err error) { t.report(ctx, sql, args, start, err) }}
}

func (t traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	took := time.Since(start)
	reqID, _ := RequestID(ctx)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		RequestID: reqID,
		SQL:       sql,
		Args:      args,
		ElapsedUS: took.Microseconds(),
		Err:       err,
		Slow:      t.slow >= 0 && took >= t.slow,
	})
}

type scanHook struct {
	r    pgx.Row
	done func(error)
}

func (s scanHook) Scan(dest ...any) error {
	err := s.r.Scan(dest...)
	s.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fd := r.FieldDescriptions()
	cols := make([]string, len(fd))
	for i, f := range fd {
		cols[i] = f.Name
	}
	return cols
}

// pgRunner is the TxRunner and SnapshotRunner over a pgx pool
type pgRunner struct {
	traced
	p *pg.PG
}

func newPGRunner(p *pg.PG) *pgRunner {
	slow := time.Duration(p.SlowMs) * time.Millisecond
	return &pgRunner{traced: traced{c: p.Pool, tracer: p.Tracer, slow: slow}, p: p}
}

// Ping round trips a trivial statement through the tracer
func (r *pgRunner) Ping(ctx context.Context) error {
	if r == nil {
		return errors.New("pg: nil runner")
	}
	var one int
	return r.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (r *pgRunner) Close() error { r.p.Close(); return nil }

func (r *pgRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return r.begin(ctx, pgx.TxOptions{}, fn)
}

// ReadTx runs fn in a read only repeatable read transaction so every
// statement inside it sees the same snapshot
func (r *pgRunner) ReadTx(ctx context.Context, fn func(q RowQuerier) error) error {
	return r.begin(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *pgRunner) begin(ctx context.Context, opts pgx.TxOptions, fn func(q RowQuerier) error) error {
	tx, err := r.p.Pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	return runIn(ctx, tx, traced{c: tx, tracer: r.tracer, slow: r.slow}, fn)
}

type committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// runIn commits when fn succeeds and rolls back on error or panic
func runIn(ctx context.Context, tx committer, q RowQuerier, fn func(q RowQuerier) error) error {
	done := false
	defer func() {
		if !done {
			// detached so a canceled ctx still releases the session
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()
	if err := fn(q); err != nil {
		return err
	}
	done = true
	return tx.Commit(ctx)
}
