// Package service contains member search workflows
package service

import (
	"context"
	"strings"

	"membersearch/internal/core/paging"
	"membersearch/internal/modkit/repokit"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/metrics"
	"membersearch/internal/platform/store"
	"membersearch/internal/services/api/members/domain"
	"membersearch/internal/services/api/members/repo"
)

// Service defines the service contract for member search
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	concurrent bool
	observe    paging.Observer
}

// Option tunes a Svc
type Option func(*Svc)

// WithConcurrentCount runs the count alongside the content read on separate
// pool sessions instead of one snapshot
func WithConcurrentCount(on bool) Option {
	return func(s *Svc) { s.concurrent = on }
}

// WithObserver replaces the default count outcome hook
func WithObserver(fn paging.Observer) Option {
	return func(s *Svc) { s.observe = fn }
}

// New creates a new member search service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("members.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("members.Service requires a non nil Repo binder")
	}
	s := &Svc{Repo: binder.Bind(db), binder: binder, db: db, observe: observeCount}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observeCount logs and counts what happened to the count query
func observeCount(ctx context.Context, o paging.Outcome, r paging.Request, n int) {
	metrics.ObserveCount(o.String())
	logger.C(ctx).Debug().
		Str("count", o.String()).
		Int64("offset", r.Offset).
		Int("limit", r.Limit).
		Int("rows", n).
		Msg("members page")
}

// Search lists every member matching cond, team columns NULL without a team
func (s *Svc) Search(ctx context.Context, cond domain.SearchCondition) ([]domain.MemberTeam, error) {
	return s.list(ctx, repo.Query{Where: repo.Where(cond)})
}

// SearchByBuilder is Search with the filter accumulated field by field
func (s *Svc) SearchByBuilder(ctx context.Context, cond domain.SearchCondition) ([]domain.MemberTeam, error) {
	return s.list(ctx, repo.Query{Where: repo.WhereByBuilder(cond)})
}

// SearchPage pages Search
func (s *Svc) SearchPage(ctx context.Context, cond domain.SearchCondition, r paging.Request) (paging.Page[domain.MemberTeam], error) {
	return s.page(ctx, repo.Query{Where: repo.Where(cond)}, r)
}

// SearchTeamMembers pages members that belong to a team
func (s *Svc) SearchTeamMembers(ctx context.Context, cond domain.SearchCondition, r paging.Request) (paging.Page[domain.MemberTeam], error) {
	return s.page(ctx, repo.Query{Where: repo.Where(cond), Shape: repo.TeamMembers}, r)
}

// SearchNameMatches pages members joined to the team named like them
func (s *Svc) SearchNameMatches(ctx context.Context, cond domain.SearchCondition, r paging.Request) (paging.Page[domain.MemberTeam], error) {
	return s.page(ctx, repo.Query{Where: repo.Where(cond), Shape: repo.NameMatches}, r)
}

// FindByUsername returns the single member named username
func (s *Svc) FindByUsername(ctx context.Context, username string) (domain.MemberTeam, error) {
	if strings.TrimSpace(username) == "" {
		return domain.MemberTeam{}, perr.Validationf("username", "username is required")
	}
	row, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.MemberTeam{}, err
	}
	return toMemberTeam(row), nil
}

func (s *Svc) list(ctx context.Context, q repo.Query) ([]domain.MemberTeam, error) {
	rows, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return toMemberTeams(rows), nil
}

// page validates r and its sort before touching the database
func (s *Svc) page(ctx context.Context, q repo.Query, r paging.Request) (paging.Page[domain.MemberTeam], error) {
	if err := r.Validate(); err != nil {
		return paging.Page[domain.MemberTeam]{}, err
	}
	if err := repo.CheckSort(r.Sort); err != nil {
		return paging.Page[domain.MemberTeam]{}, err
	}

	var (
		out paging.Page[repo.RowMemberTeam]
		err error
	)
	if s.concurrent {
		// separate pool sessions, one per query
		out, err = s.paginate(ctx, s.Repo, q, r, paging.WithConcurrentCount(true))
	} else {
		err = store.Snapshot(ctx, s.db, func(ctx context.Context, tx store.RowQuerier) error {
			var pageErr error
			out, pageErr = s.paginate(ctx, s.binder.Bind(tx), q, r)
			return pageErr
		})
	}
	if err != nil {
		return paging.Page[domain.MemberTeam]{}, err
	}
	return paging.Map(out, toMemberTeam), nil
}

func (s *Svc) paginate(ctx context.Context, rp repo.Repo, q repo.Query, r paging.Request, opts ...paging.Option) (paging.Page[repo.RowMemberTeam], error) {
	content := func(ctx context.Context, r paging.Request) ([]repo.RowMemberTeam, error) {
		return rp.Content(ctx, q, r)
	}
	count := func(ctx context.Context) (int64, error) {
		return rp.Count(ctx, q)
	}
	if s.observe != nil {
		opts = append(opts, paging.WithObserver(s.observe))
	}
	return paging.Paginate(ctx, r, content, count, opts...)
}

func toMemberTeam(r repo.RowMemberTeam) domain.MemberTeam {
	return domain.MemberTeam{
		MemberID: r.MemberID,
		Username: r.Username,
		Age:      r.Age,
		TeamID:   r.TeamID,
		TeamName: r.TeamName,
	}
}

func toMemberTeams(rows []repo.RowMemberTeam) []domain.MemberTeam {
	out := make([]domain.MemberTeam, 0, len(rows))
	for _, r := range rows {
		out = append(out, toMemberTeam(r))
	}
	return out
}
