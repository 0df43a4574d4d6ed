//go:build integration_pg
// +build integration_pg

package service

import (
	"context"
	"os"
	"testing"
	"time"

	"membersearch/internal/core/paging"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store"
	"membersearch/internal/platform/store/migrate"
	"membersearch/internal/services/api/members/domain"
	"membersearch/internal/services/api/members/repo"
	"membersearch/internal/services/api/members/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var itStore *store.Store

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("members"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("start postgres")
	}
	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(context.Background())
		logger.Get().Fatal().Err(err).Msg("postgres dsn")
	}
	if err := migrate.Up(dsn, *logger.Named("migrate")); err != nil {
		_ = c.Terminate(context.Background())
		logger.Get().Fatal().Err(err).Msg("migrate")
	}
	itStore, err = store.Open(ctx, store.Config{
		AppName: "membersearch-it",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4},
	})
	if err != nil {
		_ = c.Terminate(context.Background())
		logger.Get().Fatal().Err(err).Msg("open store")
	}

	code := m.Run()
	_ = itStore.Close(context.Background())
	_ = c.Terminate(context.Background())
	os.Exit(code)
}

func reseed(t *testing.T) {
	t.Helper()
	require.NoError(t, seed.Load(context.Background(), itStore.PG, repo.NewPG(), seed.Scenario()))
}

func names(rows []domain.MemberTeam) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Username)
	}
	return out
}

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func TestIT_SchemaVersion(t *testing.T) {
	st, err := migrate.Current(context.Background(), itStore.PG)
	require.NoError(t, err)
	assert.Equal(t, migrate.Status{Version: 2, Applied: true}, st)
}

func TestIT_Search(t *testing.T) {
	reseed(t)
	s := New(itStore.PG, repo.NewPG())
	ctx := context.Background()

	got, err := s.Search(ctx, domain.SearchCondition{TeamName: sp("teamB"), AgeGoe: ip(30), AgeLoe: ip(40)})
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member4"}, names(got))
	assert.Equal(t, "teamB", *got[0].TeamName)

	all, err := s.Search(ctx, domain.SearchCondition{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "loner", all[4].Username)
	assert.Nil(t, all[4].TeamID)
	assert.Nil(t, all[4].TeamName)

	none, err := s.Search(ctx, domain.SearchCondition{Username: sp("ghost")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	for _, c := range []domain.SearchCondition{
		{},
		{Username: sp("member2")},
		{TeamName: sp("teamA"), AgeLoe: ip(15)},
		{AgeGoe: ip(20), AgeLoe: ip(45)},
		{Username: sp(" "), TeamName: sp("")},
	} {
		a, err := s.Search(ctx, c)
		require.NoError(t, err)
		b, err := s.SearchByBuilder(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestIT_SearchPage(t *testing.T) {
	reseed(t)
	ctx := context.Background()

	for _, concurrent := range []bool{false, true} {
		s := New(itStore.PG, repo.NewPG(), WithConcurrentCount(concurrent))

		r, _ := paging.NewRequest(0, 3, nil)
		p, err := s.SearchPage(ctx, domain.SearchCondition{}, r)
		require.NoError(t, err)
		assert.Len(t, p.Content, 3)
		assert.Equal(t, int64(5), p.Total)
		assert.True(t, p.Counted)

		r, _ = paging.NewRequest(3, 3, nil)
		p, err = s.SearchPage(ctx, domain.SearchCondition{}, r)
		require.NoError(t, err)
		assert.Equal(t, []string{"member4", "loner"}, names(p.Content))
		assert.Equal(t, int64(5), p.Total)
		assert.False(t, p.Counted)

		r, _ = paging.NewRequest(10, 3, nil)
		p, err = s.SearchPage(ctx, domain.SearchCondition{}, r)
		require.NoError(t, err)
		assert.Empty(t, p.Content)
		assert.Equal(t, int64(10), p.Total)

		r, _ = paging.NewRequest(0, 2, paging.By(paging.Order{Property: "age", Direction: paging.Desc}))
		p, err = s.SearchPage(ctx, domain.SearchCondition{TeamName: sp("teamA")}, r)
		require.NoError(t, err)
		assert.Equal(t, []string{"member2", "member1"}, names(p.Content))
		assert.Equal(t, int64(2), p.Total)
		assert.True(t, p.Counted)
	}
}

func TestIT_ShapesAgreeWithCount(t *testing.T) {
	reseed(t)
	s := New(itStore.PG, repo.NewPG())
	ctx := context.Background()

	r, _ := paging.NewRequest(0, 2, nil)
	p, err := s.SearchTeamMembers(ctx, domain.SearchCondition{}, r)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Total)
	assert.True(t, p.Counted)

	r, _ = paging.NewRequest(0, 100, nil)
	full, err := s.SearchTeamMembers(ctx, domain.SearchCondition{}, r)
	require.NoError(t, err)
	assert.Len(t, full.Content, int(p.Total))
	assert.NotContains(t, names(full.Content), "loner")

	r, _ = paging.NewRequest(0, 5, nil)
	nm, err := s.SearchNameMatches(ctx, domain.SearchCondition{}, r)
	require.NoError(t, err)
	assert.Equal(t, int64(5), nm.Total)
	for _, m := range nm.Content {
		if m.Username == "loner" {
			require.NotNil(t, m.TeamName)
			assert.Equal(t, "loner", *m.TeamName)
		} else {
			assert.Nil(t, m.TeamName, m.Username)
		}
	}
}

func TestIT_FindByUsername(t *testing.T) {
	reseed(t)
	s := New(itStore.PG, repo.NewPG())
	ctx := context.Background()

	m, err := s.FindByUsername(ctx, "member3")
	require.NoError(t, err)
	assert.Equal(t, 30, m.Age)
	assert.Equal(t, "teamB", *m.TeamName)

	_, err = s.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, perr.ErrNotFound)

	err = itStore.PG.Tx(ctx, func(q store.RowQuerier) error {
		_, err := repo.NewPG().Bind(q).CreateMember(ctx, "member3", 31, nil)
		return err
	})
	require.NoError(t, err)
	_, err = s.FindByUsername(ctx, "member3")
	assert.ErrorIs(t, err, perr.ErrAmbiguous)
}

func TestIT_UnknownSortNeverQueries(t *testing.T) {
	s := New(itStore.PG, repo.NewPG())
	r, _ := paging.NewRequest(0, 5, paging.By(paging.Order{Property: "id; DROP TABLE members"}))
	_, err := s.SearchPage(context.Background(), domain.SearchCondition{}, r)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}
