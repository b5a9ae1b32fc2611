// ABOUTME: Query types: dn and class queries with shared scoping options
// ABOUTME: Filters are carried in textual form and parsed at execution

package query

import (
	"github.com/nainya/mittree/pkg/mit"
	"github.com/nainya/mittree/pkg/mo"
)

// Query target values: how far past the addressed objects the candidate set
// extends.
const (
	TargetSelf     = "self"
	TargetChildren = "children"
	TargetSubtree  = "subtree"
)

// Response shaping values: how much of each result object's descendant tree
// the shaped clone carries.
const (
	SubtreeNo       = "no"
	SubtreeChildren = "children"
	SubtreeFull     = "full"
)

// Options scope a query. The zero value means target self with no filters
// and no subtree in the response.
//
// ClassFilter and PropFilter prune the candidate set; SubtreeClassFilter and
// SubtreePropFilter independently prune which descendants the shaped
// response carries. Property filters use the textual filter grammar.
type Options struct {
	Target      string
	ClassFilter []string
	PropFilter  string

	Subtree            string
	SubtreeClassFilter []string
	SubtreePropFilter  string
}

// Query addresses the objects a query starts from.
type Query interface {
	baseMos(t *mit.Tree) []*mo.Mo
	opts() *Options
}

// DnQuery starts from the object at one Dn.
type DnQuery struct {
	DnStr string
	Options
}

// NewDnQuery creates a query addressed by Dn string.
func NewDnQuery(dnStr string) *DnQuery {
	return &DnQuery{DnStr: dnStr}
}

func (q *DnQuery) baseMos(t *mit.Tree) []*mo.Mo {
	if m, ok := t.MoByDn(q.DnStr); ok {
		return []*mo.Mo{m}
	}
	return nil
}

func (q *DnQuery) opts() *Options {
	return &q.Options
}

// ClassQuery starts from every instance of the given classes, subclasses
// included.
type ClassQuery struct {
	ClassNames []string
	Options
}

// NewClassQuery creates a query addressed by class names.
func NewClassQuery(classNames ...string) *ClassQuery {
	return &ClassQuery{ClassNames: classNames}
}

func (q *ClassQuery) baseMos(t *mit.Tree) []*mo.Mo {
	return t.MoByClass(q.ClassNames...)
}

func (q *ClassQuery) opts() *Options {
	return &q.Options
}
