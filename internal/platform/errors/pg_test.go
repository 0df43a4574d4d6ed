package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"statement timeout", &pgconn.PgError{Code: SQLStateQueryCanceled}, ErrorCodeTimeout},
		{"schema missing", &pgconn.PgError{Code: SQLStateUndefinedTable}, ErrorCodeUnavailable},
		{"shutdown", &pgconn.PgError{Code: SQLStateAdminShutdown}, ErrorCodeUnavailable},
		{"too many connections", &pgconn.PgError{Code: SQLStateTooManyConnections}, ErrorCodeUnavailable},
		{"bad literal", &pgconn.PgError{Code: SQLStateInvalidText}, ErrorCodeValidation},
		{"unknown column", &pgconn.PgError{Code: SQLStateUndefinedColumn}, ErrorCodeDB},
		{"syntax", &pgconn.PgError{Code: "42601"}, ErrorCodeDB},
		{"wrapped pg", fmt.Errorf("count: %w", &pgconn.PgError{Code: SQLStateQueryCanceled}), ErrorCodeTimeout},
		{"canceled", context.Canceled, ErrorCodeCanceled},
		{"deadline", fmt.Errorf("content: %w", context.DeadlineExceeded), ErrorCodeTimeout},
		{"plain", stderrs.New("conn reset"), ErrorCodeDB},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PostgresCode(c.err))
		})
	}
}

func TestSQLState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42P01", SQLState(fmt.Errorf("x: %w", &pgconn.PgError{Code: "42P01"})))
	assert.Empty(t, SQLState(stderrs.New("x")))
	_, ok := PgError(nil)
	assert.False(t, ok)
}

func TestFromPostgres(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FromPostgres(nil, "unused"))

	err := FromPostgres(context.Canceled, "search members")
	assert.True(t, IsCode(err, ErrorCodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "search members", WireFrom(err).Message)

	pgErr := &pgconn.PgError{Code: SQLStateQueryCanceled, Message: "canceling statement due to statement timeout"}
	err = FromPostgres(pgErr, "count members")
	assert.True(t, IsCode(err, ErrorCodeTimeout))
	got, ok := PgError(err)
	assert.True(t, ok)
	assert.Same(t, pgErr, got)
}
