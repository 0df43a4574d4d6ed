// Package repo provides postgres access for member search
package repo

import (
	"context"
	"errors"

	"membersearch/internal/core/joinplan"
	"membersearch/internal/core/paging"
	"membersearch/internal/core/predicate"
	"membersearch/internal/core/sqlq"
	"membersearch/internal/modkit/repokit"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/store"
	"membersearch/internal/platform/store/pg"
)

// query labels used for tracing and metrics
const (
	QueryList     = "members.list"
	QueryContent  = "members.content"
	QueryCount    = "members.count"
	QueryByName   = "members.by_username"
	QueryMutation = "members.write"
)

// Repo defines the repository contract for member search
type Repo interface {
	// List runs q without paging
	List(ctx context.Context, q Query) ([]RowMemberTeam, error)
	// Content runs q for one page, exactly one read
	Content(ctx context.Context, q Query, r paging.Request) ([]RowMemberTeam, error)
	// Count counts every row q matches
	Count(ctx context.Context, q Query) (int64, error)
	// FindByUsername returns the single member named username
	FindByUsername(ctx context.Context, username string) (RowMemberTeam, error)

	CreateTeam(ctx context.Context, name string) (int64, error)
	CreateMember(ctx context.Context, username string, age int, teamID *int64) (int64, error)
	// Reset empties both tables and restarts ids
	Reset(ctx context.Context) error
}

// RowMemberTeam is one projected row, mapped by result column name
type RowMemberTeam struct {
	MemberID int64   `db:"member_id"`
	Username string  `db:"username"`
	Age      int     `db:"age"`
	TeamID   *int64  `db:"team_id"`
	TeamName *string `db:"team_name"`
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) List(ctx context.Context, q Query) ([]RowMemberTeam, error) {
	stmt, err := q.Select(nil)
	if err != nil {
		return nil, err
	}
	sql, args := stmt.SQL()
	rows, err := store.Named[RowMemberTeam](pg.WithQueryName(ctx, QueryList), r.q, sql, args...)
	return rows, dbErr(err, "list members")
}

func (r *queries) Content(ctx context.Context, q Query, pr paging.Request) ([]RowMemberTeam, error) {
	stmt, err := q.Select(&pr)
	if err != nil {
		return nil, err
	}
	sql, args := stmt.SQL()
	rows, err := store.Named[RowMemberTeam](pg.WithQueryName(ctx, QueryContent), r.q, sql, args...)
	return rows, dbErr(err, "search members")
}

func (r *queries) Count(ctx context.Context, q Query) (int64, error) {
	sql, args := q.Count().SQL()
	n, err := store.Scalar[int64](pg.WithQueryName(ctx, QueryCount), r.q, sql, args...)
	return n, dbErr(err, "count members")
}

func (r *queries) FindByUsername(ctx context.Context, username string) (RowMemberTeam, error) {
	where := predicate.Cmp{Col: colUsername, Op: predicate.OpEq, Value: username}
	stmt := sqlq.Select{
		Columns: projection,
		From:    members,
		Joins:   []joinplan.Join{joinplan.Plan(teamByRelation, joinplan.Requirement{KeepUnmatched: true, Filter: where})},
		Where:   where,
		OrderBy: []sqlq.Order{{Col: colMemberID}},
		// a second row is enough to call it ambiguous
		Limit: 2,
	}
	sql, args := stmt.SQL()
	row, err := store.NamedOne[RowMemberTeam](pg.WithQueryName(ctx, QueryByName), r.q, sql, args...)
	return row, dbErr(err, "find member by username")
}

func (r *queries) CreateTeam(ctx context.Context, name string) (int64, error) {
	const sql = `INSERT INTO teams (name) VALUES ($1) RETURNING id`
	id, err := store.Scalar[int64](pg.WithQueryName(ctx, QueryMutation), r.q, sql, name)
	return id, dbErr(err, "create team")
}

func (r *queries) CreateMember(ctx context.Context, username string, age int, teamID *int64) (int64, error) {
	const sql = `INSERT INTO members (username, age, team_id) VALUES ($1, $2, $3) RETURNING id`
	id, err := store.Scalar[int64](pg.WithQueryName(ctx, QueryMutation), r.q, sql, username, age, teamID)
	return id, dbErr(err, "create member")
}

func (r *queries) Reset(ctx context.Context) error {
	_, err := r.q.Exec(pg.WithQueryName(ctx, QueryMutation), `TRUNCATE members, teams RESTART IDENTITY`)
	return dbErr(err, "reset members")
}

// dbErr maps driver failures to project errors
// project errors and cancellations pass through untouched
func dbErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return perr.FromPostgres(err, msg)
}
