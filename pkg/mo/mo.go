// ABOUTME: Managed object node: naming, status, dirty tracking, children
// ABOUTME: Lifecycle state machine over the status bitmask

package mo

import (
	"fmt"

	"github.com/nainya/mittree/pkg/meta"
	"github.com/nainya/mittree/pkg/naming"
)

// Mo is one node of the managed object tree. It carries the naming values of
// its level (the Rn), an explicit property map, the status bitmask, the set
// of dirty property names not yet committed to the remote system, and an
// insertion-ordered child collection.
//
// A Mo is not internally synchronized; callers sharing one tree across
// goroutines hold their own lock.
type Mo struct {
	cat  meta.Catalog
	meta *meta.ClassMeta

	rn       *naming.Rn
	dn       *naming.Dn // computed lazily, reset on re-parent
	parent   *Mo
	parentDn *naming.Dn

	status   Status
	props    map[string]string
	dirty    map[string]struct{}
	children childList
}

// New creates a managed object under a parent Mo and attaches it. For the
// catalog root class the parent may be nil.
//
// With markDirty set, every naming and creation property joins the dirty
// set, the way a locally created object awaits a commit. With markDirty
// unset the object mirrors state received from the remote system and only
// the implicit status property is dirty.
func New(cat meta.Catalog, className string, parent *Mo, markDirty bool, namingVals []string, props map[string]string) (*Mo, error) {
	m, err := newMo(cat, className, markDirty, namingVals, props)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		if err := parent.AttachChild(m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if className != cat.RootClass() {
		return nil, fmt.Errorf("mo: class %q requires a parent", className)
	}
	rootDn, err := naming.NewDn(cat)
	if err != nil {
		return nil, err
	}
	m.parentDn = rootDn
	return m, nil
}

// NewUnder creates a managed object whose parent is identified by Dn only,
// for subtrees built before they are joined to a live tree. The parent class
// must be able to contain the new object.
func NewUnder(cat meta.Catalog, className string, parentDn *naming.Dn, markDirty bool, namingVals []string, props map[string]string) (*Mo, error) {
	m, err := newMo(cat, className, markDirty, namingVals, props)
	if err != nil {
		return nil, err
	}
	if !parentDn.Meta().HasChildClass(className) {
		return nil, fmt.Errorf("mo: class %q cannot contain %q", parentDn.Class(), className)
	}
	m.parentDn = parentDn.Clone()
	return m, nil
}

// NewUnderDnString is NewUnder with the parent Dn in string form.
func NewUnderDnString(cat meta.Catalog, className, parentDnStr string, markDirty bool, namingVals []string, props map[string]string) (*Mo, error) {
	parentDn, err := naming.ParseDn(cat, parentDnStr)
	if err != nil {
		return nil, err
	}
	return NewUnder(cat, className, parentDn, markDirty, namingVals, props)
}

func newMo(cat meta.Catalog, className string, markDirty bool, namingVals []string, props map[string]string) (*Mo, error) {
	cm, err := cat.Lookup(className)
	if err != nil {
		return nil, err
	}
	rn, err := naming.NewRn(cm, namingVals...)
	if err != nil {
		return nil, err
	}
	m := &Mo{
		cat:      cat,
		meta:     cm,
		rn:       rn,
		status:   StatusCreated | StatusModified,
		props:    make(map[string]string),
		dirty:    make(map[string]struct{}),
		children: newChildList(),
	}
	m.dirty["status"] = struct{}{}
	for i, pm := range cm.NamingProps {
		m.props[pm.Name] = namingVals[i]
		if markDirty {
			m.dirty[pm.Name] = struct{}{}
		}
	}
	for name, value := range props {
		pm, ok := cm.Prop(name)
		if !ok {
			return nil, &PropError{Class: className, Prop: name}
		}
		switch {
		case pm.IsDn, pm.IsRn:
			return nil, &NotSettableError{Class: className, Prop: name, Reason: "computed from the object position"}
		case name == "status":
			m.status = ParseStatus(value)
		default:
			m.props[name] = value
		}
		if markDirty {
			m.dirty[name] = struct{}{}
		}
	}
	return m, nil
}

// Meta returns the class meta.
func (m *Mo) Meta() *meta.ClassMeta {
	return m.meta
}

// Class returns the class name.
func (m *Mo) Class() string {
	return m.meta.ClassName
}

// IsInstance reports whether the object class is, or descends from, any of
// the given class names.
func (m *Mo) IsInstance(classNames ...string) bool {
	return m.meta.IsInstance(classNames...)
}

// Rn returns the relative name.
func (m *Mo) Rn() *naming.Rn {
	return m.rn
}

// Dn returns the distinguished name: the parent Dn extended with the own Rn.
// It is computed lazily and invalidated when the object is re-parented.
// A detached object has no Dn.
func (m *Mo) Dn() *naming.Dn {
	if m.dn == nil {
		pd := m.ParentDn()
		if pd == nil {
			return nil
		}
		d := pd.Clone()
		if err := d.AppendRn(m.rn); err != nil {
			return nil
		}
		m.dn = d
	}
	return m.dn
}

// DnString returns the string form of the Dn, or "" for a detached object of
// a non-root class.
func (m *Mo) DnString() string {
	d := m.Dn()
	if d == nil {
		return ""
	}
	return d.String()
}

// Parent returns the live parent Mo, or nil when the object is attached by
// Dn only or detached.
func (m *Mo) Parent() *Mo {
	return m.parent
}

// ParentDn returns the Dn of the parent, or nil for a detached object.
func (m *Mo) ParentDn() *naming.Dn {
	return m.parentDn
}

// Status returns the status bitmask.
func (m *Mo) Status() Status {
	return m.status
}

// Delete marks the object deleted, clearing all other status bits. Deleting
// is idempotent.
func (m *Mo) Delete() {
	m.status.Clear()
	m.status.On(StatusDeleted)
	m.dirty["status"] = struct{}{}
}

// SetProp sets a property value, marks the object modified and the property
// dirty. Writing dn or rn, or a create-only property after construction, is
// a policy error. Writing "status" replaces the status bitmask from its wire
// form.
func (m *Mo) SetProp(name, value string) error {
	pm, ok := m.meta.Prop(name)
	if !ok {
		return &PropError{Class: m.Class(), Prop: name}
	}
	switch {
	case pm.IsDn:
		return &NotSettableError{Class: m.Class(), Prop: name, Reason: "dn cannot be set"}
	case pm.IsRn:
		return &NotSettableError{Class: m.Class(), Prop: name, Reason: "rn cannot be set"}
	case pm.IsCreateOnly:
		return &NotSettableError{Class: m.Class(), Prop: name, Reason: "create-only property"}
	}
	if name == "status" {
		m.status = ParseStatus(value)
	} else {
		m.props[name] = value
		m.status.On(StatusModified)
	}
	m.dirty[name] = struct{}{}
	m.dirty["status"] = struct{}{}
	return nil
}

// PropValue returns the current value of a property. The implicit dn, rn and
// status properties are computed. Reading a declared property that was never
// set materializes the class default without marking it dirty. An
// undeclared property is a PropError.
func (m *Mo) PropValue(name string) (string, error) {
	switch name {
	case "dn":
		return m.DnString(), nil
	case "rn":
		return m.rn.String(), nil
	case "status":
		return m.status.String(), nil
	}
	pm, ok := m.meta.Prop(name)
	if !ok {
		return "", &PropError{Class: m.Class(), Prop: name}
	}
	if v, ok := m.props[name]; ok {
		return v, nil
	}
	m.props[name] = pm.DefaultValue
	return pm.DefaultValue, nil
}

// Props returns a copy of the explicit property map.
func (m *Mo) Props() map[string]string {
	props := make(map[string]string, len(m.props))
	for k, v := range m.props {
		props[k] = v
	}
	return props
}

// DirtyProps returns the names of the dirty properties.
func (m *Mo) DirtyProps() []string {
	names := make([]string, 0, len(m.dirty))
	for name := range m.dirty {
		names = append(names, name)
	}
	return names
}

// IsPropDirty reports whether the named property is dirty.
func (m *Mo) IsPropDirty(name string) bool {
	_, ok := m.dirty[name]
	return ok
}

// ResetProps clears the dirty set without touching status or values, used
// after constructing an object that mirrors already-committed remote state.
func (m *Mo) ResetProps() {
	m.dirty = make(map[string]struct{})
}

// AttachChild inserts child into the child collection, detaching it from any
// current parent first. The child class must be a declared child class and
// the child property map must agree with its Rn naming values.
func (m *Mo) AttachChild(child *Mo) error {
	if !m.meta.HasChildClass(child.Class()) {
		return fmt.Errorf("mo: class %q cannot contain %q", m.Class(), child.Class())
	}
	for i, pm := range child.meta.NamingProps {
		rnVal := child.rn.NamingVals()[i]
		if propVal, ok := child.props[pm.Name]; ok && propVal != rnVal {
			return fmt.Errorf("mo: naming property %q of %q is %q, rn requires %q",
				pm.Name, child.rn.String(), propVal, rnVal)
		}
	}
	if child.parent != nil {
		if err := child.parent.DetachChild(child); err != nil {
			return err
		}
	}
	m.adoptChild(child)
	return nil
}

// DetachChild removes child from the child collection and clears its parent
// link. It is an error if this object is not the current parent.
func (m *Mo) DetachChild(child *Mo) error {
	if child.parent != m {
		return fmt.Errorf("mo: %q is not attached to %q", child.rn.String(), m.DnString())
	}
	m.children.remove(child.rn.String())
	child.parent = nil
	child.parentDn = nil
	child.dn = nil
	return nil
}

// adoptChild wires a child without re-validation, for attach paths whose
// input is already consistent (clones of a validated tree).
func (m *Mo) adoptChild(child *Mo) {
	m.children.insert(child.rn.String(), child)
	child.parent = m
	child.parentDn = m.Dn().Clone()
	child.dn = nil
}

// Children returns the children in insertion order.
func (m *Mo) Children() []*Mo {
	return m.children.all()
}

// ChildrenOfType returns the children of one class, in insertion order.
func (m *Mo) ChildrenOfType(className string) []*Mo {
	var mos []*Mo
	for _, c := range m.children.all() {
		if c.Class() == className {
			mos = append(mos, c)
		}
	}
	return mos
}

// ChildByRn looks up a child by its Rn string.
func (m *Mo) ChildByRn(rnStr string) (*Mo, bool) {
	return m.children.get(rnStr)
}

// NumChildren returns the number of children.
func (m *Mo) NumChildren() int {
	return m.children.len()
}

// Clone copies the object without its children. With a parent the clone is
// attached; without one the clone stays detached but keeps the parent Dn so
// it still reports its position.
func (m *Mo) Clone(parent *Mo) *Mo {
	nm := &Mo{
		cat:      m.cat,
		meta:     m.meta,
		rn:       m.rn,
		status:   m.status,
		props:    make(map[string]string, len(m.props)),
		dirty:    make(map[string]struct{}, len(m.dirty)),
		children: newChildList(),
	}
	for k, v := range m.props {
		nm.props[k] = v
	}
	for k := range m.dirty {
		nm.dirty[k] = struct{}{}
	}
	if parent != nil {
		parent.adoptChild(nm)
	} else if m.parentDn != nil {
		nm.parentDn = m.parentDn.Clone()
	}
	return nm
}

// CloneSubtree copies the object and its whole descendant tree.
func (m *Mo) CloneSubtree(parent *Mo) *Mo {
	nm := m.Clone(parent)
	for _, c := range m.children.all() {
		c.CloneSubtree(nm)
	}
	return nm
}

// Update merges the state of src into the object: property values are
// copied over, the status is adopted, and the dirty sets are joined.
func (m *Mo) Update(src *Mo) {
	for k, v := range src.props {
		m.props[k] = v
	}
	m.status = src.status
	for k := range src.dirty {
		m.dirty[k] = struct{}{}
	}
}
