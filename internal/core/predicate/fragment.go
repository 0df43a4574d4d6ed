package predicate

import "strings"

// HasText reports whether s is present and not blank
func HasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// EqText is an exact, case sensitive match on col
// absent or blank input means no constraint and yields nil
func EqText(col Col, v *string) Expr {
	if !HasText(v) {
		return nil
	}
	return Cmp{Col: col, Op: OpEq, Value: *v}
}

// Goe is col >= v, nil when v is absent
func Goe(col Col, v *int) Expr {
	if v == nil {
		return nil
	}
	return Cmp{Col: col, Op: OpGte, Value: *v}
}

// Loe is col <= v, nil when v is absent
func Loe(col Col, v *int) Expr {
	if v == nil {
		return nil
	}
	return Cmp{Col: col, Op: OpLte, Value: *v}
}

// Between is the inclusive range [lo, hi] with either end optional
// nil when both ends are absent
func Between(col Col, lo, hi *int) Expr {
	e := And(Goe(col, lo), Loe(col, hi))
	if IsTrue(e) {
		return nil
	}
	return e
}

// Builder accumulates constraints imperatively
// the zero value matches everything
type Builder struct {
	parts []Expr
}

// And appends e unless it is nil or True
func (b *Builder) And(e Expr) *Builder {
	if !IsTrue(e) {
		b.parts = append(b.parts, e)
	}
	return b
}

// Expr returns the conjunction of everything appended so far
func (b *Builder) Expr() Expr { return And(b.parts...) }
