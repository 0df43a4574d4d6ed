package migrate

import (
	"context"
	"errors"

	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/store"
)

// Status is the schema state recorded by the migrate driver
type Status struct {
	Version uint `json:"version" example:"2"`
	Dirty   bool `json:"dirty"`
	Applied bool `json:"applied" example:"true"`
}

// Current reads the schema state over an existing connection
// a database that was never migrated reports Applied false
func Current(ctx context.Context, q store.RowQuerier) (Status, error) {
	st, err := store.One(ctx, q, func(r store.Row) (Status, error) {
		var (
			v int64
			s Status
		)
		if err := r.Scan(&v, &s.Dirty); err != nil {
			return Status{}, err
		}
		s.Version, s.Applied = uint(v), true
		return s, nil
	}, `SELECT version, dirty FROM schema_migrations`)

	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, perr.ErrNotFound):
		return Status{}, nil
	case perr.SQLState(err) == perr.SQLStateUndefinedTable:
		return Status{}, nil
	default:
		return Status{}, perr.FromPostgres(err, "read schema version")
	}
}
