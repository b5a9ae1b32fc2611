// ABOUTME: Relative name (Rn) values bound to a class meta
// ABOUTME: Converts between naming value tuples and delimited string form

package naming

import (
	"fmt"
	"strings"

	"github.com/nainya/mittree/pkg/meta"
)

// Rn is the relative name of a managed object: the naming values of one tree
// level bound to a class. The string form substitutes the naming values into
// the class Rn format, wrapping a value in [] where the class marks the
// naming property as delimiter-needing.
//
// An Rn is immutable after construction; the string form is memoized.
type Rn struct {
	meta       *meta.ClassMeta
	namingVals []string

	str    string
	strSet bool
}

// NewRn builds an Rn for a class from its naming values. The number of
// values must match the class naming property count.
func NewRn(cm *meta.ClassMeta, namingVals ...string) (*Rn, error) {
	if len(namingVals) != len(cm.NamingProps) {
		return nil, fmt.Errorf("naming: class %q requires %d naming values, got %d",
			cm.ClassName, len(cm.NamingProps), len(namingVals))
	}
	return &Rn{meta: cm, namingVals: append([]string(nil), namingVals...)}, nil
}

// ParseRn parses the string form of an Rn against a class meta. It scans the
// class prefix list, extracting the naming value between consecutive
// prefixes; delimiter-wrapped values are located with a bracket-balanced
// scan so a value may itself contain brackets.
func ParseRn(cm *meta.ClassMeta, rnStr string) (*Rn, error) {
	if len(cm.NamingProps) == 0 {
		if rnStr != cm.RnFormat() {
			return nil, &ParseError{Input: rnStr, Reason: fmt.Sprintf("rn of class %q must be %q", cm.ClassName, cm.RnFormat())}
		}
		return NewRn(cm)
	}

	var vals []string
	start, end := 0, 0
	propIdx := 0
	needDelim := false
	pending := false
	for _, rp := range cm.RnPrefixes {
		if start > end {
			if needDelim {
				var err error
				end, err = findBalancedDelims(rnStr, start)
				if err != nil {
					return nil, err
				}
			} else {
				end = strings.Index(rnStr[start:], rp.Prefix)
				if end >= 0 {
					end += start
				}
			}
			if end == -1 {
				return nil, &ParseError{Input: rnStr, Offending: rp.Prefix,
					Reason: fmt.Sprintf("rn prefix %q not found", rp.Prefix)}
			}
			val, err := stripDelims(rnStr, rnStr[start:end], needDelim)
			if err != nil {
				return nil, err
			}
			if pending {
				vals = append(vals, val)
			}
			start = end
		}
		if !strings.HasPrefix(rnStr[start:], rp.Prefix) {
			return nil, &ParseError{Input: rnStr,
				Reason: fmt.Sprintf("rn must match format %q of class %q", cm.RnFormat(), cm.ClassName)}
		}
		if rp.HasProp {
			needDelim = cm.NamingProps[propIdx].NeedDelimiter
			propIdx++
			pending = true
		}
		start += len(rp.Prefix)
	}

	val, err := stripDelims(rnStr, rnStr[start:], needDelim)
	if err != nil {
		return nil, err
	}
	if pending {
		vals = append(vals, val)
	}
	if len(vals) != len(cm.NamingProps) {
		return nil, &ParseError{Input: rnStr,
			Reason: fmt.Sprintf("expected %d naming values, found %d", len(cm.NamingProps), len(vals))}
	}
	return NewRn(cm, vals...)
}

// findBalancedDelims locates the end of a delimiter-wrapped naming value
// starting at start, tracking nested [] depth. It returns the index just
// past the matching closing bracket, or -1 when the value runs to the end of
// the string.
func findBalancedDelims(rn string, start int) (int, error) {
	depth := 0
	first := true
	for end := start; end < len(rn); end++ {
		if !first && depth == 0 {
			return end, nil
		}
		switch rn[end] {
		case '[':
			first = false
			depth++
		case ']':
			if first && depth == 0 {
				return -1, &ParseError{Input: rn, Reason: "closing delimiter before opening delimiter"}
			}
			depth--
		}
	}
	return -1, nil
}

func stripDelims(input, val string, needDelim bool) (string, error) {
	if !needDelim {
		return val, nil
	}
	if len(val) < 2 || val[0] != '[' || val[len(val)-1] != ']' {
		return "", &ParseError{Input: input, Offending: val, Reason: "naming value is not delimiter-wrapped"}
	}
	return val[1 : len(val)-1], nil
}

// Meta returns the class meta the Rn is bound to.
func (r *Rn) Meta() *meta.ClassMeta {
	return r.meta
}

// Class returns the class name the Rn is bound to.
func (r *Rn) Class() string {
	return r.meta.ClassName
}

// NamingVals returns a copy of the naming values in declaration order.
func (r *Rn) NamingVals() []string {
	return append([]string(nil), r.namingVals...)
}

// String returns the canonical string form.
func (r *Rn) String() string {
	if !r.strSet {
		r.str = r.makeRnStr()
		r.strSet = true
	}
	return r.str
}

// Equal compares by canonical string form.
func (r *Rn) Equal(other *Rn) bool {
	return other != nil && r.String() == other.String()
}

// Less orders Rns by canonical string form.
func (r *Rn) Less(other *Rn) bool {
	return r.String() < other.String()
}

func (r *Rn) makeRnStr() string {
	var b strings.Builder
	propIdx := 0
	for _, rp := range r.meta.RnPrefixes {
		b.WriteString(rp.Prefix)
		if rp.HasProp {
			pm := r.meta.NamingProps[propIdx]
			val := r.namingVals[propIdx]
			propIdx++
			if pm.NeedDelimiter {
				b.WriteString("[")
				b.WriteString(val)
				b.WriteString("]")
			} else {
				b.WriteString(val)
			}
		}
	}
	return b.String()
}
