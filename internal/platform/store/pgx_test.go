package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"membersearch/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	execErr  error
	queryErr error
	scanErr  error
	rows     pgx.Rows
}

func (s stubConn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("DELETE 3"), s.execErr
}

func (s stubConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return s.rows, s.queryErr
}

func (s stubConn) QueryRow(context.Context, string, ...any) pgx.Row {
	return stubRow{err: s.scanErr}
}

type stubRow struct{ err error }

func (r stubRow) Scan(...any) error { return r.err }

// stubRows only answers FieldDescriptions, the rest come from the nil embed
type stubRows struct {
	pgx.Rows
	fields []pgconn.FieldDescription
}

func (r stubRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }

type recordingTracer struct{ events []pg.QueryEvent }

func (r *recordingTracer) OnQuery(_ context.Context, ev pg.QueryEvent) {
	r.events = append(r.events, ev)
}

func TestTraced_ReportsEveryStatement(t *testing.T) {
	rec := &recordingTracer{}
	boom := errors.New("boom")
	q := traced{c: stubConn{scanErr: boom}, tracer: rec, slow: time.Hour}
	ctx := WithRequestID(context.Background(), "req-3")

	tag, err := q.Exec(ctx, "DELETE FROM members", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), tag.RowsAffected())

	_, err = q.Query(ctx, "SELECT 1")
	require.NoError(t, err)

	var n int
	assert.ErrorIs(t, q.QueryRow(ctx, "SELECT 2").Scan(&n), boom)

	require.Len(t, rec.events, 3)
	assert.Equal(t, "DELETE FROM members", rec.events[0].SQL)
	assert.Equal(t, []any{1}, rec.events[0].Args)
	assert.Equal(t, "SELECT 2", rec.events[2].SQL)
	assert.ErrorIs(t, rec.events[2].Err, boom)
	for _, ev := range rec.events {
		assert.False(t, ev.Slow)
		assert.Equal(t, "req-3", ev.RequestID)
	}
}

func TestTraced_SlowThreshold(t *testing.T) {
	rec := &recordingTracer{}
	q := traced{c: stubConn{}, tracer: rec, slow: 0}
	_, _ = q.Exec(context.Background(), "SELECT 1")

	q.slow = -1
	_, _ = q.Exec(context.Background(), "SELECT 1")

	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[0].Slow)
	assert.False(t, rec.events[1].Slow)
}

func TestTraced_QueryError_NoRows(t *testing.T) {
	q := traced{c: stubConn{queryErr: errors.New("syntax")}}
	rows, err := q.Query(context.Background(), "SELEC")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "syntax")
}

func TestPgxRows_Columns(t *testing.T) {
	r := pgxRows{stubRows{fields: []pgconn.FieldDescription{{Name: "id"}, {Name: "team_name"}}}}
	assert.Equal(t, []string{"id", "team_name"}, r.Columns())
}

type stubTx struct{ commits, rollbacks int }

func (s *stubTx) Commit(context.Context) error   { s.commits++; return nil }
func (s *stubTx) Rollback(context.Context) error { s.rollbacks++; return nil }

func TestRunIn_CommitOrRollback(t *testing.T) {
	tx := &stubTx{}
	require.NoError(t, runIn(context.Background(), tx, traced{c: stubConn{}}, func(RowQuerier) error { return nil }))
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tx = &stubTx{}
	err := runIn(ctx, tx, traced{c: stubConn{}}, func(RowQuerier) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)

	tx = &stubTx{}
	assert.PanicsWithValue(t, "boom", func() {
		_ = runIn(context.Background(), tx, traced{c: stubConn{}}, func(RowQuerier) error { panic("boom") })
	})
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestPGRunner_NilPing(t *testing.T) {
	var r *pgRunner
	assert.Error(t, r.Ping(context.Background()))
}
