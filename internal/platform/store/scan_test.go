package store

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "membersearch/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRowQuerier serves canned rows and records the last statement
type fakeRowQuerier struct {
	sql  string
	args []any

	cols    []string
	data    [][]any
	scalar  any
	err     error
	rowsErr error
}

func (f *fakeRowQuerier) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.sql, f.args = sql, args
	return nil, f.err
}

func (f *fakeRowQuerier) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.sql, f.args = sql, args
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{cols: f.cols, data: f.data, err: f.rowsErr}, nil
}

func (f *fakeRowQuerier) QueryRow(_ context.Context, sql string, args ...any) Row {
	f.sql, f.args = sql, args
	return fakeRow{v: f.scalar, err: f.err}
}

type fakeRow struct {
	v   any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch p := dest[0].(type) {
	case *int64:
		*p = r.v.(int64)
	case *string:
		*p = r.v.(string)
	}
	return nil
}

type fakeRows struct {
	cols   []string
	data   [][]any
	i      int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Columns() []string { return r.cols }

type scanTarget struct {
	ID       int64   `db:"id"`
	Username string  `db:"username"`
	Age      int     `db:"age"`
	TeamID   *int64  `db:"team_id"`
	TeamName *string `db:"team_name"`
	Skipped  string  `db:"-"`
	Joined   time.Time
}

func TestScalar(t *testing.T) {
	q := &fakeRowQuerier{scalar: int64(7)}
	n, err := Scalar[int64](context.Background(), q, "SELECT count(*) FROM members")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "SELECT count(*) FROM members", q.sql)

	q = &fakeRowQuerier{err: errors.New("down")}
	_, err = Scalar[int64](context.Background(), q, "SELECT 1")
	assert.EqualError(t, err, "down")
}

func TestNamed_MapsColumnsAndNulls(t *testing.T) {
	joined := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	q := &fakeRowQuerier{
		cols: []string{"id", "username", "age", "team_id", "team_name", "joined", "extra"},
		data: [][]any{
			{int64(1), "member1", int32(10), int64(5), "teamA", joined, "ignored"},
			{int64(5), "loner", int64(50), nil, nil, joined, nil},
		},
	}

	got, err := Named[scanTarget](context.Background(), q, "SELECT ...", 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "member1", got[0].Username)
	assert.Equal(t, 10, got[0].Age)
	require.NotNil(t, got[0].TeamID)
	assert.Equal(t, int64(5), *got[0].TeamID)
	assert.Equal(t, "teamA", *got[0].TeamName)
	assert.Equal(t, joined, got[0].Joined)

	assert.Nil(t, got[1].TeamID)
	assert.Nil(t, got[1].TeamName)
	assert.Equal(t, []any{1}, q.args)
}

func TestNamed_ConversionFailure(t *testing.T) {
	q := &fakeRowQuerier{cols: []string{"age"}, data: [][]any{{"not a number"}}}
	_, err := Named[scanTarget](context.Background(), q, "SELECT age")
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeDB, perr.CodeOf(err))
}

func TestNamed_PropagatesRowsErr(t *testing.T) {
	q := &fakeRowQuerier{cols: []string{"id"}, rowsErr: errors.New("conn reset")}
	_, err := Named[scanTarget](context.Background(), q, "SELECT id")
	assert.EqualError(t, err, "conn reset")
}

func TestNamedOne_NotFoundAndAmbiguous(t *testing.T) {
	ctx := context.Background()

	q := &fakeRowQuerier{cols: []string{"id"}}
	_, err := NamedOne[scanTarget](ctx, q, "SELECT id")
	assert.ErrorIs(t, err, perr.ErrNotFound)

	q = &fakeRowQuerier{cols: []string{"id"}, data: [][]any{{int64(1)}, {int64(2)}}}
	_, err = NamedOne[scanTarget](ctx, q, "SELECT id")
	assert.ErrorIs(t, err, perr.ErrAmbiguous)

	q = &fakeRowQuerier{cols: []string{"id"}, data: [][]any{{int64(3)}}}
	one, err := NamedOne[scanTarget](ctx, q, "SELECT id")
	require.NoError(t, err)
	assert.Equal(t, int64(3), one.ID)
}

func TestOne_CustomScanner(t *testing.T) {
	q := &fakeRowQuerier{cols: []string{"v"}, data: [][]any{{"x"}}}
	got, err := One(context.Background(), q, func(r Row) (string, error) {
		var v any
		if err := r.Scan(&v); err != nil {
			return "", err
		}
		return v.(string) + "!", nil
	}, "SELECT v")
	require.NoError(t, err)
	assert.Equal(t, "x!", got)

	q = &fakeRowQuerier{err: errors.New("boom")}
	_, err = One(context.Background(), q, func(Row) (string, error) { return "", nil }, "SELECT v")
	assert.EqualError(t, err, "boom")
}
