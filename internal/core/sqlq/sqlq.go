// Package sqlq lowers a projected, joined, filtered and paged read into a
// Postgres SELECT and derives the matching COUNT statement
package sqlq

import (
	"membersearch/internal/core/joinplan"
	"membersearch/internal/core/predicate"
)

// Table is a FROM source with its alias
type Table struct {
	Name  string
	Alias string
}

// Column is one projected output column
// As names the result column so rows are mapped by name, never position
type Column struct {
	Col predicate.Col
	As  string
}

// Order is one ORDER BY key
type Order struct {
	Col  predicate.Col
	Desc bool
}

// Select is a content read
// Limit 0 means unbounded, Offset 0 is omitted
type Select struct {
	Columns []Column
	From    Table
	Joins   []joinplan.Join
	Where   predicate.Expr
	OrderBy []Order
	Offset  int64
	Limit   int64
}

// SQL renders the statement and its args
func (s Select) SQL() (string, []any) {
	var b predicate.Buf
	b.WriteString("SELECT ")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		c.Col.Render(&b)
		if c.As != "" {
			b.WriteString(" AS " + c.As)
		}
	}
	writeFrom(&b, s.From, s.Joins, s.Where)
	for i, o := range s.OrderBy {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		o.Col.Render(&b)
		if o.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}
	if s.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.Bind(s.Limit)
	}
	if s.Offset > 0 {
		b.WriteString(" OFFSET ")
		b.Bind(s.Offset)
	}
	return b.String(), b.Args()
}

// Count is a row count over the same filter and joins
type Count struct {
	From  Table
	Joins []joinplan.Join
	Where predicate.Expr
}

// CountOf derives the count for s
// projection, order, offset and limit are dropped and joins that cannot
// change the count are trimmed
func CountOf(s Select) Count {
	return Count{
		From:  s.From,
		Joins: joinplan.ForCount(s.Joins, s.Where),
		Where: s.Where,
	}
}

// SQL renders the statement and its args
func (c Count) SQL() (string, []any) {
	var b predicate.Buf
	b.WriteString("SELECT count(*)")
	writeFrom(&b, c.From, c.Joins, c.Where)
	return b.String(), b.Args()
}

func writeFrom(b *predicate.Buf, from Table, joins []joinplan.Join, where predicate.Expr) {
	b.WriteString(" FROM " + from.Name)
	if from.Alias != "" {
		b.WriteString(" " + from.Alias)
	}
	for _, j := range joins {
		b.WriteString(" " + j.Type.Keyword() + " " + j.Table)
		if j.Alias != "" {
			b.WriteString(" " + j.Alias)
		}
		b.WriteString(" ON ")
		j.Key.On().Render(b)
	}
	if !predicate.IsTrue(where) {
		b.WriteString(" WHERE ")
		where.Render(b)
	}
}
