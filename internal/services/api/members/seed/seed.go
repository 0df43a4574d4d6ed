// Package seed loads deterministic member data
package seed

import (
	"context"
	"fmt"

	"membersearch/internal/modkit/repokit"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"
	"membersearch/internal/services/api/members/repo"
)

// Member is one member to insert, Team names a team of the same dataset
type Member struct {
	Username string
	Age      int
	Team     string
}

// Dataset is a set of teams and members
type Dataset struct {
	Name    string
	Teams   []string
	Members []Member
}

// Demo is teamA and teamB with member0..member99, age i, even i in teamA
func Demo() Dataset {
	d := Dataset{Name: "demo", Teams: []string{"teamA", "teamB"}}
	for i := 0; i < 100; i++ {
		d.Members = append(d.Members, Member{
			Username: fmt.Sprintf("member%d", i),
			Age:      i,
			Team:     d.Teams[i%2],
		})
	}
	return d
}

// Scenario is four members split over two teams plus one without a team
// the memberless team "loner" shares its name with the teamless member
func Scenario() Dataset {
	return Dataset{
		Name:  "scenario",
		Teams: []string{"teamA", "teamB", "loner"},
		Members: []Member{
			{Username: "member1", Age: 10, Team: "teamA"},
			{Username: "member2", Age: 20, Team: "teamA"},
			{Username: "member3", Age: 30, Team: "teamB"},
			{Username: "member4", Age: 40, Team: "teamB"},
			{Username: "loner", Age: 50},
		},
	}
}

// ByName returns the named dataset
func ByName(name string) (Dataset, error) {
	switch name {
	case "", "demo":
		return Demo(), nil
	case "scenario":
		return Scenario(), nil
	default:
		return Dataset{}, perr.Validationf("dataset", "unknown dataset %q", name)
	}
}

// Load replaces every team and member with d in one transaction
func Load(ctx context.Context, db repokit.TxRunner, binder repokit.Binder[repo.Repo], d Dataset) error {
	err := repokit.WithTx(ctx, db, binder, func(r repo.Repo) error {
		if err := r.Reset(ctx); err != nil {
			return err
		}
		ids := make(map[string]int64, len(d.Teams))
		for _, name := range d.Teams {
			id, err := r.CreateTeam(ctx, name)
			if err != nil {
				return err
			}
			ids[name] = id
		}
		for _, m := range d.Members {
			var team *int64
			if m.Team != "" {
				id, ok := ids[m.Team]
				if !ok {
					return perr.Validationf("team", "member %s names unknown team %q", m.Username, m.Team)
				}
				team = &id
			}
			if _, err := r.CreateMember(ctx, m.Username, m.Age, team); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.C(ctx).Info().
		Str("dataset", d.Name).
		Int("teams", len(d.Teams)).
		Int("members", len(d.Members)).
		Msg("seeded")
	return nil
}
