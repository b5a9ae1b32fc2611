// ABOUTME: Filter expression tree evaluated against managed objects
// ABOUTME: Property comparisons plus and/or/not composition

package filter

import (
	"strconv"
	"strings"

	"github.com/nainya/mittree/pkg/mo"
)

// Expr is a filter node evaluated against one managed object.
type Expr interface {
	Evaluate(m *mo.Mo) bool
}

// Comparison operators of a property expression.
const (
	OpEq    = "eq"
	OpNe    = "ne"
	OpLt    = "lt"
	OpGt    = "gt"
	OpGe    = "ge"
	OpLe    = "le"
	OpWcard = "wcard"
)

// PropExpr compares one property of one class against a literal value. An
// object of a different class never matches, whatever the operator; nor does
// an object whose class does not declare the property. A declared property
// that was never set compares by its class default.
type PropExpr struct {
	Class string
	Prop  string
	Value string
	Op    string
}

// Evaluate applies the comparison. Ordering operators compare numerically
// when both sides parse as numbers, by string otherwise. Wcard matches on
// substring containment.
func (e *PropExpr) Evaluate(m *mo.Mo) bool {
	if m.Class() != e.Class {
		return false
	}
	v, err := m.PropValue(e.Prop)
	if err != nil {
		return false
	}
	switch e.Op {
	case OpEq:
		return v == e.Value
	case OpNe:
		return v != e.Value
	case OpLt:
		return compare(v, e.Value) < 0
	case OpGt:
		return compare(v, e.Value) > 0
	case OpGe:
		return compare(v, e.Value) >= 0
	case OpLe:
		return compare(v, e.Value) <= 0
	case OpWcard:
		return strings.Contains(v, e.Value)
	}
	return false
}

func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Exprs []Expr
}

func (e *And) Evaluate(m *mo.Mo) bool {
	for _, c := range e.Exprs {
		if !c.Evaluate(m) {
			return false
		}
	}
	return true
}

// Or matches when any child matches.
type Or struct {
	Exprs []Expr
}

func (e *Or) Evaluate(m *mo.Mo) bool {
	for _, c := range e.Exprs {
		if c.Evaluate(m) {
			return true
		}
	}
	return false
}

// Not matches when no child matches. Over several children it is a NOR, not
// the negation of a conjunction.
type Not struct {
	Exprs []Expr
}

func (e *Not) Evaluate(m *mo.Mo) bool {
	for _, c := range e.Exprs {
		if c.Evaluate(m) {
			return false
		}
	}
	return true
}
