// ABOUTME: Query execution: target scoping then response shaping
// ABOUTME: Results are clones, never live references into the tree

package query

import (
	"fmt"

	"github.com/nainya/mittree/pkg/filter"
	"github.com/nainya/mittree/pkg/mit"
	"github.com/nainya/mittree/pkg/mo"
)

// Execute runs a query against a tree.
//
// Stage one walks the addressed objects out to the query target and keeps
// every visited object that passes the class and property filters and is not
// deleted. Stage two shapes each survivor into a detached clone carrying as
// much of its descendant tree as the subtree option and its independent
// filters admit. Tree state is never aliased into the result.
func Execute(t *mit.Tree, q Query) ([]*mo.Mo, error) {
	tp, err := newTargetProc(q.opts())
	if err != nil {
		return nil, err
	}
	return tp.process(q.baseMos(t))
}

type targetProc struct {
	target  string
	classes []string
	prop    filter.Expr
	resp    *respProc
}

func newTargetProc(o *Options) (*targetProc, error) {
	tp := &targetProc{target: o.Target, classes: o.ClassFilter}
	switch o.Target {
	case "", TargetSelf, TargetChildren, TargetSubtree:
	default:
		return nil, fmt.Errorf("query: unknown query target %q", o.Target)
	}
	if o.PropFilter != "" {
		e, err := filter.Parse(o.PropFilter)
		if err != nil {
			return nil, err
		}
		tp.prop = e
	}
	rp, err := newRespProc(o)
	if err != nil {
		return nil, err
	}
	tp.resp = rp
	return tp, nil
}

func (tp *targetProc) process(base []*mo.Mo) ([]*mo.Mo, error) {
	var results []*mo.Mo
	visit := func(m *mo.Mo) error {
		if len(tp.classes) > 0 && !m.IsInstance(tp.classes...) {
			return nil
		}
		if tp.prop != nil && !tp.prop.Evaluate(m) {
			return nil
		}
		if m.Status().Deleted() {
			return nil
		}
		shaped, err := tp.resp.process(m)
		if err != nil {
			return err
		}
		results = append(results, shaped)
		return nil
	}
	for _, m := range base {
		switch tp.target {
		case "", TargetSelf:
			if err := visit(m); err != nil {
				return nil, err
			}
		case TargetChildren:
			for _, c := range m.Children() {
				if err := visit(c); err != nil {
					return nil, err
				}
			}
		case TargetSubtree:
			if err := walk(m, visit); err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}

// walk visits m and its descendants depth first, children in insertion
// order.
func walk(m *mo.Mo, visit func(*mo.Mo) error) error {
	if err := visit(m); err != nil {
		return err
	}
	for _, c := range m.Children() {
		if err := walk(c, visit); err != nil {
			return err
		}
	}
	return nil
}

type respProc struct {
	mode    string
	classes []string
	prop    filter.Expr
}

func newRespProc(o *Options) (*respProc, error) {
	rp := &respProc{mode: o.Subtree, classes: o.SubtreeClassFilter}
	switch o.Subtree {
	case "", SubtreeNo, SubtreeChildren, SubtreeFull:
	default:
		return nil, fmt.Errorf("query: unknown response subtree %q", o.Subtree)
	}
	if o.SubtreePropFilter != "" {
		e, err := filter.Parse(o.SubtreePropFilter)
		if err != nil {
			return nil, err
		}
		rp.prop = e
	}
	return rp, nil
}

func (rp *respProc) process(m *mo.Mo) (*mo.Mo, error) {
	switch rp.mode {
	case "", SubtreeNo:
		return m.Clone(nil), nil
	case SubtreeChildren:
		pMo := m.Clone(nil)
		for _, c := range m.Children() {
			if rp.match(c) {
				c.Clone(pMo)
			}
		}
		return pMo, nil
	}
	pMo := m.Clone(nil)
	for _, c := range m.Children() {
		sel, err := rp.shapeFull(c)
		if err != nil {
			return nil, err
		}
		if sel != nil {
			if err := pMo.AttachChild(sel); err != nil {
				return nil, err
			}
		}
	}
	return pMo, nil
}

// shapeFull returns the shaped clone of m: the whole subtree when m itself
// matches, otherwise the matching descendants threaded through an empty
// clone of m, or nil when nothing below matches.
func (rp *respProc) shapeFull(m *mo.Mo) (*mo.Mo, error) {
	if rp.match(m) {
		return m.CloneSubtree(nil), nil
	}
	var pMo *mo.Mo
	for _, c := range m.Children() {
		sel, err := rp.shapeFull(c)
		if err != nil {
			return nil, err
		}
		if sel == nil {
			continue
		}
		if pMo == nil {
			pMo = m.Clone(nil)
		}
		if err := pMo.AttachChild(sel); err != nil {
			return nil, err
		}
	}
	return pMo, nil
}

func (rp *respProc) match(m *mo.Mo) bool {
	if len(rp.classes) > 0 && !m.IsInstance(rp.classes...) {
		return false
	}
	if rp.prop != nil && !rp.prop.Evaluate(m) {
		return false
	}
	return !m.Status().Deleted()
}
