package seed

import (
	"context"
	"errors"
	"testing"

	"membersearch/internal/modkit/repokit"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/store"
	"membersearch/internal/services/api/members/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	username string
	age      int
	team     *int64
}

// recRepo records writes, reads are unused
type recRepo struct {
	repo.Repo
	resets  int
	teams   []string
	members []created
	failOn  string
}

func (r *recRepo) Reset(context.Context) error { r.resets++; return nil }

func (r *recRepo) CreateTeam(_ context.Context, name string) (int64, error) {
	r.teams = append(r.teams, name)
	return int64(len(r.teams)), nil
}

func (r *recRepo) CreateMember(_ context.Context, username string, age int, team *int64) (int64, error) {
	if username == r.failOn {
		return 0, errors.New("insert failed")
	}
	r.members = append(r.members, created{username, age, team})
	return int64(len(r.members)), nil
}

type txRunner struct {
	store.RowQuerier
	txs int
}

func (t *txRunner) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	t.txs++
	return fn(t)
}

func binderFor(r *recRepo) repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r })
}

func TestDemo_Shape(t *testing.T) {
	t.Parallel()

	d := Demo()
	require.Len(t, d.Members, 100)
	assert.Equal(t, Member{Username: "member0", Age: 0, Team: "teamA"}, d.Members[0])
	assert.Equal(t, Member{Username: "member99", Age: 99, Team: "teamB"}, d.Members[99])
}

func TestLoad_OneTransaction(t *testing.T) {
	t.Parallel()

	r := &recRepo{}
	db := &txRunner{}
	require.NoError(t, Load(context.Background(), db, binderFor(r), Scenario()))

	assert.Equal(t, 1, db.txs)
	assert.Equal(t, 1, r.resets)
	assert.Equal(t, []string{"teamA", "teamB", "loner"}, r.teams)
	require.Len(t, r.members, 5)
	assert.Equal(t, int64(2), *r.members[2].team)
	assert.Nil(t, r.members[4].team)
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	r := &recRepo{failOn: "member3"}
	err := Load(context.Background(), &txRunner{}, binderFor(r), Scenario())
	assert.EqualError(t, err, "insert failed")

	bad := Dataset{Teams: []string{"teamA"}, Members: []Member{{Username: "x", Team: "teamZ"}}}
	err = Load(context.Background(), &txRunner{}, binderFor(&recRepo{}), bad)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestByName(t *testing.T) {
	t.Parallel()

	d, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "demo", d.Name)

	d, err = ByName("scenario")
	require.NoError(t, err)
	assert.Len(t, d.Members, 5)

	_, err = ByName("huge")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}
