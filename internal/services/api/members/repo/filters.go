package repo

import (
	"membersearch/internal/core/joinplan"
	"membersearch/internal/core/paging"
	"membersearch/internal/core/predicate"
	"membersearch/internal/core/sqlq"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/services/api/members/domain"

	"golang.org/x/text/cases"
)

var (
	colMemberID   = predicate.Col{Alias: "m", Name: "id"}
	colUsername   = predicate.Col{Alias: "m", Name: "username"}
	colAge        = predicate.Col{Alias: "m", Name: "age"}
	colMemberTeam = predicate.Col{Alias: "m", Name: "team_id"}
	colTeamID     = predicate.Col{Alias: "t", Name: "id"}
	colTeamName   = predicate.Col{Alias: "t", Name: "name"}

	members = sqlq.Table{Name: "members", Alias: "m"}

	// member's team by foreign key
	teamByRelation = joinplan.Target{Table: "teams", Alias: "t", Key: joinplan.Relation(colMemberTeam, colTeamID)}
	// teams whose name equals the member's username, no declared relation
	teamByName = joinplan.Target{Table: "teams", Alias: "t", Key: joinplan.Expression(colUsername, colTeamName)}

	projection = []sqlq.Column{
		{Col: colMemberID, As: "member_id"},
		{Col: colUsername, As: "username"},
		{Col: colAge, As: "age"},
		{Col: colTeamID, As: "team_id"},
		{Col: colTeamName, As: "team_name"},
	}

	// sort keys are matched case insensitively
	sortable = map[string]predicate.Col{
		foldKey("memberId"): colMemberID,
		foldKey("username"): colUsername,
		foldKey("age"):      colAge,
		foldKey("teamId"):   colTeamID,
		foldKey("teamName"): colTeamName,
	}
)

// a Caser holds state, one per call
func foldKey(s string) string { return cases.Fold().String(s) }

// UsernameEq is m.username = v, nil when v is absent or blank
func UsernameEq(v *string) predicate.Expr { return predicate.EqText(colUsername, v) }

// TeamNameEq is t.name = v, nil when v is absent or blank
func TeamNameEq(v *string) predicate.Expr { return predicate.EqText(colTeamName, v) }

// AgeBetween is m.age >= goe AND m.age <= loe, either bound optional
// nil when neither is set
func AgeBetween(goe, loe *int) predicate.Expr { return predicate.Between(colAge, goe, loe) }

// Where composes cond from the fragment list, absent fragments drop out
func Where(cond domain.SearchCondition) predicate.Expr {
	return predicate.And(
		UsernameEq(cond.Username),
		TeamNameEq(cond.TeamName),
		AgeBetween(cond.AgeGoe, cond.AgeLoe),
	)
}

// WhereByBuilder composes cond by appending to a builder field by field
func WhereByBuilder(cond domain.SearchCondition) predicate.Expr {
	var b predicate.Builder
	if predicate.HasText(cond.Username) {
		b.And(predicate.Cmp{Col: colUsername, Op: predicate.OpEq, Value: *cond.Username})
	}
	if predicate.HasText(cond.TeamName) {
		b.And(predicate.Cmp{Col: colTeamName, Op: predicate.OpEq, Value: *cond.TeamName})
	}
	if cond.AgeGoe != nil {
		b.And(predicate.Cmp{Col: colAge, Op: predicate.OpGte, Value: *cond.AgeGoe})
	}
	if cond.AgeLoe != nil {
		b.And(predicate.Cmp{Col: colAge, Op: predicate.OpLte, Value: *cond.AgeLoe})
	}
	return b.Expr()
}

// Shape is which members a query keeps and how teams are joined
type Shape int

const (
	// AllMembers keeps members without a team, team columns NULL
	AllMembers Shape = iota
	// TeamMembers keeps only members with a team
	TeamMembers
	// NameMatches joins teams whose name equals the username
	NameMatches
)

func (s Shape) String() string {
	switch s {
	case TeamMembers:
		return "team_members"
	case NameMatches:
		return "name_matches"
	default:
		return "all_members"
	}
}

// Query is a composed filter with its join shape
type Query struct {
	Where predicate.Expr
	Shape Shape
}

// Join plans the team join for q
func (q Query) Join() joinplan.Join {
	switch q.Shape {
	case TeamMembers:
		return joinplan.Plan(teamByRelation, joinplan.Requirement{Filter: q.Where})
	case NameMatches:
		return joinplan.Plan(teamByName, joinplan.Requirement{KeepUnmatched: true, Filter: q.Where})
	default:
		return joinplan.Plan(teamByRelation, joinplan.Requirement{KeepUnmatched: true, Filter: q.Where})
	}
}

// Select builds the content statement, unpaged when r is nil
func (q Query) Select(r *paging.Request) (sqlq.Select, error) {
	var s paging.Sort
	if r != nil {
		s = r.Sort
	}
	order, err := OrderBy(s)
	if err != nil {
		return sqlq.Select{}, err
	}
	stmt := sqlq.Select{
		Columns: projection,
		From:    members,
		Joins:   []joinplan.Join{q.Join()},
		Where:   q.Where,
		OrderBy: order,
	}
	if r != nil {
		stmt.Offset = r.Offset
		stmt.Limit = int64(r.Limit)
	}
	return stmt, nil
}

// Count builds the count statement for q
func (q Query) Count() sqlq.Count {
	return sqlq.CountOf(sqlq.Select{
		From:  members,
		Joins: []joinplan.Join{q.Join()},
		Where: q.Where,
	})
}

// OrderBy maps sort keys to columns
// m.id then t.id are appended so equal keys still page deterministically
func OrderBy(s paging.Sort) ([]sqlq.Order, error) {
	out := make([]sqlq.Order, 0, len(s)+2)
	seen := map[predicate.Col]bool{}
	for _, o := range s {
		col, ok := sortable[foldKey(o.Property)]
		if !ok {
			return nil, perr.Validationf("sort", "unknown sort property %q", o.Property)
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, sqlq.Order{Col: col, Desc: o.Direction == paging.Desc})
	}
	for _, col := range []predicate.Col{colMemberID, colTeamID} {
		if !seen[col] {
			out = append(out, sqlq.Order{Col: col})
		}
	}
	return out, nil
}

// CheckSort rejects unknown sort keys before any query runs
func CheckSort(s paging.Sort) error {
	_, err := OrderBy(s)
	return err
}
