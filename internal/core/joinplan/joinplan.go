// Package joinplan picks the join type and key between a primary table and a
// secondary one, and trims joins that cannot change a row count
package joinplan

import (
	"membersearch/internal/core/predicate"
)

// Type is the join flavour
type Type int

const (
	// Inner keeps only primary rows with a match
	Inner Type = iota
	// LeftOuter keeps every primary row, the secondary side may be NULL
	LeftOuter
)

// Keyword renders the SQL join keyword
func (t Type) Keyword() string {
	if t == LeftOuter {
		return "LEFT OUTER JOIN"
	}
	return "INNER JOIN"
}

func (t Type) String() string {
	if t == LeftOuter {
		return "left_outer"
	}
	return "inner"
}

// KeyKind says how the two sides are matched
type KeyKind int

const (
	// ByRelation follows a foreign key to the secondary primary key
	// at most one secondary row matches each primary row
	ByRelation KeyKind = iota
	// ByExpression equates two otherwise unrelated columns
	// a primary row may match several secondary rows
	ByExpression
)

func (k KeyKind) String() string {
	if k == ByExpression {
		return "expression"
	}
	return "relation"
}

// Key is the join condition
type Key struct {
	Kind  KeyKind
	Left  predicate.Col
	Right predicate.Col
}

// Relation builds a foreign key to primary key join condition
func Relation(fk, pk predicate.Col) Key {
	return Key{Kind: ByRelation, Left: fk, Right: pk}
}

// Expression builds a value equality join condition
func Expression(left, right predicate.Col) Key {
	return Key{Kind: ByExpression, Left: left, Right: right}
}

// On returns the condition as an expression
func (k Key) On() predicate.Expr {
	return predicate.ColEq{Left: k.Left, Right: k.Right}
}

// Target describes the secondary table to join
type Target struct {
	Table string
	Alias string
	Key   Key
}

// Join is a planned join
type Join struct {
	Type  Type
	Table string
	Alias string
	Key   Key
}

// Requirement is what the caller needs from the joined result
type Requirement struct {
	// KeepUnmatched asks for every primary row even without a secondary match
	KeepUnmatched bool
	// Filter is the composed where clause
	Filter predicate.Expr
}

// Plan chooses the join type for t
// a filter on the secondary side rejects NULLs so it already drops unmatched
// rows, in that case the cheaper inner join is equivalent and chosen
func Plan(t Target, req Requirement) Join {
	typ := Inner
	if req.KeepUnmatched && !predicate.References(req.Filter, t.Alias) {
		typ = LeftOuter
	}
	return Join{Type: typ, Table: t.Table, Alias: t.Alias, Key: t.Key}
}

// Needed reports whether j can change which rows, or how many, filter matches
//   - inner joins drop unmatched primary rows
//   - a filter reading the joined alias needs it
//   - expression keys can fan a primary row out to several rows
//
// only a left outer relation join nobody filters on is free to drop
func Needed(j Join, filter predicate.Expr) bool {
	if j.Type == Inner {
		return true
	}
	if predicate.References(filter, j.Alias) {
		return true
	}
	return j.Key.Kind == ByExpression
}

// ForCount returns the joins a count over filter still needs
func ForCount(joins []Join, filter predicate.Expr) []Join {
	out := make([]Join, 0, len(joins))
	for _, j := range joins {
		if Needed(j, filter) {
			out = append(out, j)
		}
	}
	return out
}
