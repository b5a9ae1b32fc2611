// ABOUTME: Management information tree: dn index, class index, merge rules
// ABOUTME: Absorbs foreign subtrees by cloning, synthesizes missing ancestors

package mit

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nainya/mittree/pkg/meta"
	"github.com/nainya/mittree/pkg/mo"
	"github.com/nainya/mittree/pkg/naming"
)

// Tree is an in-memory management information tree. It owns every node it
// holds: Add clones the caller's objects into the tree, so later mutation of
// the source never changes tree state.
//
// Two indexes back the lookups: a dn index over every node, and a class
// index keyed by class name including every superclass, so a query for a
// base class finds the instances of its subclasses.
type Tree struct {
	cat  meta.Catalog
	log  zerolog.Logger
	root *mo.Mo

	dnIndex    map[string]*mo.Mo
	classIndex map[string]map[string]*mo.Mo
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger attaches a logger; Add and lookup paths emit debug events.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tree) {
		t.log = log
	}
}

// New creates an empty tree holding only the catalog root object.
func New(cat meta.Catalog, opts ...Option) (*Tree, error) {
	root, err := mo.New(cat, cat.RootClass(), nil, false, nil, nil)
	if err != nil {
		return nil, err
	}
	root.ResetProps()
	t := &Tree{
		cat:        cat,
		log:        zerolog.Nop(),
		root:       root,
		dnIndex:    make(map[string]*mo.Mo),
		classIndex: make(map[string]map[string]*mo.Mo),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.index(root)
	return t, nil
}

// Root returns the tree root object.
func (t *Tree) Root() *mo.Mo {
	return t.root
}

// Add merges src and its whole subtree into the tree. Nodes new to the tree
// are cloned in, with missing ancestors synthesized from the Dn naming
// values; nodes already present absorb the source properties and status. A
// deleted source marks its tree subtree deleted; a live source un-deletes a
// previously deleted node. Adding below an ancestor the tree already marks
// deleted fails with AncestorDeletedError.
//
// The merged in-tree node is returned.
func (t *Tree) Add(src *mo.Mo) (*mo.Mo, error) {
	d := src.Dn()
	if d == nil {
		return nil, errors.New("mit: cannot add a detached object")
	}
	for anc := d.GetParent(); ; anc = anc.GetParent() {
		if m, ok := t.dnIndex[anc.String()]; ok && m.Status().Deleted() {
			return nil, &AncestorDeletedError{Dn: anc.String()}
		}
		if anc.IsRoot() {
			break
		}
	}
	dst, err := t.add(src)
	if err != nil {
		return nil, err
	}
	t.log.Debug().
		Str("dn", dst.DnString()).
		Str("class", dst.Class()).
		Str("status", dst.Status().String()).
		Msg("merged object")
	return dst, nil
}

func (t *Tree) add(src *mo.Mo) (*mo.Mo, error) {
	dnStr := src.DnString()
	dst, ok := t.dnIndex[dnStr]
	if !ok {
		parent, err := t.ensureParent(src.Dn().GetParent())
		if err != nil {
			return nil, err
		}
		dst = src.Clone(parent)
		if parent.Status().Deleted() {
			dst.Delete()
		}
		t.index(dst)
	} else {
		dst.Update(src)
	}
	if dst.Status().Deleted() {
		t.markSubtreeDeleted(dst)
	}
	for _, c := range src.Children() {
		if _, err := t.add(c); err != nil {
			return nil, err
		}
	}
	if dst.Status().Deleted() {
		t.markSubtreeDeleted(dst)
	}
	return dst, nil
}

// ensureParent resolves the in-tree node for a parent Dn, synthesizing the
// missing ancestor chain. Synthesized nodes carry only the naming values the
// Dn encodes and are not marked dirty beyond the construction baseline.
func (t *Tree) ensureParent(d *naming.Dn) (*mo.Mo, error) {
	if m, ok := t.dnIndex[d.String()]; ok {
		return m, nil
	}
	parent, err := t.ensureParent(d.GetParent())
	if err != nil {
		return nil, err
	}
	synth, err := mo.New(t.cat, d.Class(), parent, false, d.Rn().NamingVals(), nil)
	if err != nil {
		return nil, err
	}
	if parent.Status().Deleted() {
		synth.Delete()
	}
	t.index(synth)
	t.log.Debug().Str("dn", synth.DnString()).Str("class", synth.Class()).Msg("synthesized ancestor")
	return synth, nil
}

func (t *Tree) markSubtreeDeleted(m *mo.Mo) {
	for _, c := range m.Children() {
		if !c.Status().Deleted() {
			c.Delete()
		}
		t.markSubtreeDeleted(c)
	}
}

func (t *Tree) index(m *mo.Mo) {
	dnStr := m.DnString()
	t.dnIndex[dnStr] = m
	for _, class := range append([]string{m.Class()}, m.Meta().SuperClasses...) {
		byDn, ok := t.classIndex[class]
		if !ok {
			byDn = make(map[string]*mo.Mo)
			t.classIndex[class] = byDn
		}
		byDn[dnStr] = m
	}
}

// MoByDn looks up a node by Dn string.
func (t *Tree) MoByDn(dnStr string) (*mo.Mo, bool) {
	m, ok := t.dnIndex[dnStr]
	return m, ok
}

// MoByClass returns every node whose class is, or descends from, any of the
// given class names, ordered by Dn string.
func (t *Tree) MoByClass(classNames ...string) []*mo.Mo {
	seen := make(map[string]*mo.Mo)
	for _, class := range classNames {
		for dnStr, m := range t.classIndex[class] {
			seen[dnStr] = m
		}
	}
	return sortByDn(seen)
}

// All returns every node in the tree, root included, ordered by Dn string.
func (t *Tree) All() []*mo.Mo {
	return sortByDn(t.dnIndex)
}

// IsDeleted reports whether the tree holds the Dn and marks it deleted.
func (t *Tree) IsDeleted(dnStr string) bool {
	m, ok := t.dnIndex[dnStr]
	return ok && m.Status().Deleted()
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.dnIndex)
}

// Stats summarizes the tree for logging and gauges.
type Stats struct {
	Nodes   int
	Deleted int
	Classes int
}

// Stats computes the current tree statistics.
func (t *Tree) Stats() Stats {
	s := Stats{Nodes: len(t.dnIndex), Classes: len(t.classIndex)}
	for _, m := range t.dnIndex {
		if m.Status().Deleted() {
			s.Deleted++
		}
	}
	return s
}

func sortByDn(byDn map[string]*mo.Mo) []*mo.Mo {
	dns := make([]string, 0, len(byDn))
	for dnStr := range byDn {
		dns = append(dns, dnStr)
	}
	sort.Strings(dns)
	mos := make([]*mo.Mo, len(dns))
	for i, dnStr := range dns {
		mos[i] = byDn[dnStr]
	}
	return mos
}
