// ABOUTME: Distinguished name (Dn) values, ordered Rn sequences from root
// ABOUTME: Parsing, containment validation, ancestry and common parent

package naming

import (
	"fmt"
	"strings"

	"github.com/nainya/mittree/pkg/meta"
)

// Dn is the distinguished name of a managed object: an ordered sequence of
// Rns from the root class down to the target class, joined with "/" in
// string form. The Dn of the root itself is the empty sequence with string
// form "".
//
// Every appended Rn is validated against the containment table of the
// current class, so a Dn always names a path the model allows.
type Dn struct {
	cat      meta.Catalog
	rootMeta *meta.ClassMeta

	rns  []*Rn
	meta *meta.ClassMeta // class of the last Rn, or the root class

	str    string
	strSet bool
}

// NewDn creates a Dn rooted at the catalog root class and appends the given
// Rns in order.
func NewDn(cat meta.Catalog, rns ...*Rn) (*Dn, error) {
	rootMeta, err := cat.Lookup(cat.RootClass())
	if err != nil {
		return nil, err
	}
	d := &Dn{cat: cat, rootMeta: rootMeta, meta: rootMeta}
	for _, rn := range rns {
		if err := d.AppendRn(rn); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ParseDn parses a Dn string. The string is split on "/" outside of bracket
// depth, so a delimiter-wrapped naming value may contain the path separator.
// Each Rn substring is matched against the child prefix table of the current
// class, longest prefix first.
func ParseDn(cat meta.Catalog, dnStr string) (*Dn, error) {
	rnStrs, err := splitDnStr(dnStr)
	if err != nil {
		return nil, err
	}
	d, err := NewDn(cat)
	if err != nil {
		return nil, err
	}
	for _, rnStr := range rnStrs {
		childClass, ok := d.meta.FindChild(rnStr)
		if !ok {
			return nil, &ParseError{Input: dnStr, Offending: rnStr,
				Reason: fmt.Sprintf("class %q has no child class with this rn prefix", d.meta.ClassName)}
		}
		cm, err := cat.Lookup(childClass)
		if err != nil {
			return nil, err
		}
		rn, err := ParseRn(cm, rnStr)
		if err != nil {
			return nil, err
		}
		if err := d.AppendRn(rn); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FindCommonParent returns the deepest Dn shared by all given Dns: their
// longest common Rn prefix. A single Dn is returned unchanged; Dns that
// diverge at the first level share only the root Dn. Nil is returned for an
// empty input.
func FindCommonParent(dns []*Dn) *Dn {
	if len(dns) == 0 {
		return nil
	}
	if len(dns) == 1 {
		return dns[0]
	}
	maxLen := len(dns[0].rns)
	for _, d := range dns[1:] {
		if len(d.rns) < maxLen {
			maxLen = len(d.rns)
		}
	}
	index := 0
	for index < maxLen && allRnsEqual(dns, index) {
		index++
	}
	return dns[0].slice(index)
}

func allRnsEqual(dns []*Dn, idx int) bool {
	first := dns[0].rns[idx]
	for _, d := range dns[1:] {
		if !first.Equal(d.rns[idx]) {
			return false
		}
	}
	return true
}

// AppendRn appends an Rn, making its class the new target of the Dn. The
// Rn class must be a declared child class of the current class. Appending
// the empty root Rn to the root Dn is a no-op.
func (d *Dn) AppendRn(rn *Rn) error {
	if len(d.rns) == 0 && rn.String() == "" {
		return nil
	}
	if !d.meta.HasChildClass(rn.Class()) {
		return fmt.Errorf("naming: class %q cannot contain %q", d.meta.ClassName, rn.Class())
	}
	d.rns = append(d.rns, rn)
	d.meta = rn.Meta()
	d.str = ""
	d.strSet = false
	return nil
}

// Rns returns the Rn sequence from root to target.
func (d *Dn) Rns() []*Rn {
	return append([]*Rn(nil), d.rns...)
}

// Rn returns the Rn of the target class, or nil for the root Dn.
func (d *Dn) Rn() *Rn {
	if len(d.rns) == 0 {
		return nil
	}
	return d.rns[len(d.rns)-1]
}

// RnAt returns the Rn at the given depth, starting at 0 below the root.
func (d *Dn) RnAt(index int) *Rn {
	return d.rns[index]
}

// Meta returns the class meta of the target, or the root class meta for the
// root Dn.
func (d *Dn) Meta() *meta.ClassMeta {
	return d.meta
}

// Class returns the target class name.
func (d *Dn) Class() string {
	return d.meta.ClassName
}

// Len returns the number of Rns.
func (d *Dn) Len() int {
	return len(d.rns)
}

// IsRoot reports whether the Dn names the root.
func (d *Dn) IsRoot() bool {
	return len(d.rns) == 0
}

// GetParent returns the Dn of the immediate parent.
func (d *Dn) GetParent() *Dn {
	return d.GetAncestor(1)
}

// GetAncestor returns the Dn with the last level Rns dropped.
func (d *Dn) GetAncestor(level int) *Dn {
	n := len(d.rns) - level
	if n < 0 {
		n = 0
	}
	return d.slice(n)
}

// Clone returns a copy of the Dn.
func (d *Dn) Clone() *Dn {
	return d.slice(len(d.rns))
}

// IsDescendantOf reports whether the Dn lies strictly below ancestor. The
// prefix test is separator-aligned so "uni/tn-ab" is not a descendant of
// "uni/tn-a".
func (d *Dn) IsDescendantOf(ancestor *Dn) bool {
	ancStr := ancestor.String()
	dnStr := d.String()
	if dnStr == ancStr || len(d.rns) <= len(ancestor.rns) || !strings.HasPrefix(dnStr, ancStr) {
		return false
	}
	return ancStr == "" || dnStr[len(ancStr)] == '/'
}

// IsAncestorOf reports whether descendant lies strictly below the Dn.
func (d *Dn) IsAncestorOf(descendant *Dn) bool {
	return descendant.IsDescendantOf(d)
}

// String returns the canonical "/"-joined form; "" for the root Dn.
func (d *Dn) String() string {
	if !d.strSet {
		rnStrs := make([]string, len(d.rns))
		for i, rn := range d.rns {
			rnStrs[i] = rn.String()
		}
		d.str = strings.Join(rnStrs, "/")
		d.strSet = true
	}
	return d.str
}

// Equal compares by canonical string form.
func (d *Dn) Equal(other *Dn) bool {
	return other != nil && d.String() == other.String()
}

// Less orders Dns by canonical string form.
func (d *Dn) Less(other *Dn) bool {
	return d.String() < other.String()
}

// slice returns a new Dn holding the first n Rns.
func (d *Dn) slice(n int) *Dn {
	nd := &Dn{
		cat:      d.cat,
		rootMeta: d.rootMeta,
		rns:      append([]*Rn(nil), d.rns[:n]...),
		meta:     d.rootMeta,
	}
	if n > 0 {
		nd.meta = nd.rns[n-1].Meta()
	}
	return nd
}

// splitDnStr splits a Dn string into Rn substrings on "/" outside bracket
// depth. Unbalanced delimiters are a parse error.
func splitDnStr(dnStr string) ([]string, error) {
	var rnStrs []string
	var rnStr strings.Builder
	delimCount := 0
	for i := 0; i < len(dnStr); i++ {
		c := dnStr[i]
		switch {
		case delimCount == 0 && c == '/':
			if rnStr.Len() > 0 {
				rnStrs = append(rnStrs, rnStr.String())
				rnStr.Reset()
			}
		case c == '[':
			delimCount++
			rnStr.WriteByte(c)
		case c == ']':
			delimCount--
			rnStr.WriteByte(c)
		default:
			rnStr.WriteByte(c)
		}
	}
	if rnStr.Len() > 0 {
		rnStrs = append(rnStrs, rnStr.String())
	}
	if delimCount != 0 {
		return nil, &ParseError{Input: dnStr, Reason: "unbalanced delimiters"}
	}
	return rnStrs, nil
}
