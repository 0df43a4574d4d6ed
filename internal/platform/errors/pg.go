package errors

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values the read path classifies
const (
	SQLStateUndefinedTable     = "42P01"
	SQLStateUndefinedColumn    = "42703"
	SQLStateQueryCanceled      = "57014" // statement_timeout or pg_cancel_backend
	SQLStateAdminShutdown      = "57P01"
	SQLStateCannotConnectNow   = "57P03"
	SQLStateTooManyConnections = "53300"
	SQLStateInvalidText        = "22P02"
	SQLStateNumericRange       = "22003"
	SQLStateSerialization      = "40001"
)

// PgError returns the driver error anywhere in the chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// SQLState returns the SQLSTATE of a driver error, "" for anything else
func SQLState(err error) string {
	if pgErr, ok := PgError(err); ok {
		return pgErr.Code
	}
	return ""
}

// PostgresCode classifies a driver or context failure
func PostgresCode(err error) ErrorCode {
	switch {
	case stderrs.Is(err, context.Canceled):
		return ErrorCodeCanceled
	case stderrs.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return ErrorCodeTimeout
	}

	switch SQLState(err) {
	case "":
		var connErr *pgconn.ConnectError
		if stderrs.As(err, &connErr) || pgconn.SafeToRetry(err) {
			return ErrorCodeUnavailable
		}
		return ErrorCodeDB
	case SQLStateQueryCanceled:
		return ErrorCodeTimeout
	case SQLStateUndefinedTable, SQLStateAdminShutdown, SQLStateCannotConnectNow,
		SQLStateTooManyConnections, SQLStateSerialization:
		return ErrorCodeUnavailable
	case SQLStateInvalidText, SQLStateNumericRange:
		return ErrorCodeValidation
	default:
		return ErrorCodeDB
	}
}

// FromPostgres wraps err under its PostgresCode with msg, nil stays nil
// the cause stays reachable so errors.Is(err, context.Canceled) still holds
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, PostgresCode(err), msg)
}
