// Package predicate models optional filter fragments and their composition
// into a single boolean expression that lowers to Postgres SQL with bind args
package predicate

import (
	"strconv"
	"strings"
)

// Expr is a boolean expression node
type Expr interface {
	// Render writes the expression into b, binding values as $n args
	Render(b *Buf)
	// Aliases lists the table aliases the expression reads
	Aliases() []string
}

// Buf accumulates SQL text and its positional args
// the zero value is ready to use and numbers args from $1
type Buf struct {
	sb   strings.Builder
	args []any
}

// WriteString appends raw SQL
func (b *Buf) WriteString(s string) { b.sb.WriteString(s) }

// Bind appends v as the next positional arg and writes its placeholder
func (b *Buf) Bind(v any) {
	b.args = append(b.args, v)
	b.sb.WriteByte('$')
	b.sb.WriteString(strconv.Itoa(len(b.args)))
}

// String returns the SQL written so far
func (b *Buf) String() string { return b.sb.String() }

// Args returns the bound args in placeholder order
func (b *Buf) Args() []any { return b.args }

// Render lowers e on a fresh buffer
func Render(e Expr) (string, []any) {
	var b Buf
	e.Render(&b)
	return b.String(), b.Args()
}

// Col is a qualified column reference such as m.username
type Col struct {
	Alias string
	Name  string
}

// String renders the column reference
func (c Col) String() string {
	if c.Alias == "" {
		return c.Name
	}
	return c.Alias + "." + c.Name
}

// Render writes the column reference
func (c Col) Render(b *Buf) { b.WriteString(c.String()) }

// Aliases reports the column's alias, if any
func (c Col) Aliases() []string {
	if c.Alias == "" {
		return nil
	}
	return []string{c.Alias}
}

// Op is a comparison operator
type Op string

// comparison operators the fragments need
const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Cmp compares a column against a bound value
// NULL on the column side never satisfies it
type Cmp struct {
	Col   Col
	Op    Op
	Value any
}

// Render writes "col op $n"
func (c Cmp) Render(b *Buf) {
	c.Col.Render(b)
	b.WriteString(" " + string(c.Op) + " ")
	b.Bind(c.Value)
}

// Aliases reports the compared column's alias
func (c Cmp) Aliases() []string { return c.Col.Aliases() }

// ColEq equates two columns, used for join conditions
type ColEq struct {
	Left  Col
	Right Col
}

// Render writes "left = right"
func (c ColEq) Render(b *Buf) {
	c.Left.Render(b)
	b.WriteString(" = ")
	c.Right.Render(b)
}

// Aliases reports both sides' aliases
func (c ColEq) Aliases() []string { return union(c.Left.Aliases(), c.Right.Aliases()) }

// trueExpr is the no-constraint sentinel
type trueExpr struct{}

func (trueExpr) Render(b *Buf)     { b.WriteString("TRUE") }
func (trueExpr) Aliases() []string { return nil }

// True matches every row and vanishes under And
var True Expr = trueExpr{}

// IsTrue reports whether e is nil or the True sentinel
func IsTrue(e Expr) bool {
	if e == nil {
		return true
	}
	_, ok := e.(trueExpr)
	return ok
}

// AndExpr is a flattened conjunction of at least two parts
type AndExpr struct {
	Parts []Expr
}

// Render writes the parts joined by AND
func (a AndExpr) Render(b *Buf) {
	for i, p := range a.Parts {
		if i > 0 {
			b.WriteString(" AND ")
		}
		p.Render(b)
	}
}

// Aliases is the union over all parts
func (a AndExpr) Aliases() []string {
	var out []string
	for _, p := range a.Parts {
		out = union(out, p.Aliases())
	}
	return out
}

// And conjoins fragments left to right
// nil entries and True are dropped, nested conjunctions are flattened
// no surviving fragment yields True, a single one is returned as is
func And(frags ...Expr) Expr {
	parts := make([]Expr, 0, len(frags))
	for _, f := range frags {
		if IsTrue(f) {
			continue
		}
		if a, ok := f.(AndExpr); ok {
			parts = append(parts, a.Parts...)
			continue
		}
		parts = append(parts, f)
	}
	switch len(parts) {
	case 0:
		return True
	case 1:
		return parts[0]
	default:
		return AndExpr{Parts: parts}
	}
}

// References reports whether e reads any column of alias
func References(e Expr, alias string) bool {
	if e == nil {
		return false
	}
	for _, a := range e.Aliases() {
		if a == alias {
			return true
		}
	}
	return false
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, s := range b {
		dup := false
		for _, have := range out {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
