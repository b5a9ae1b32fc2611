// ABOUTME: Class metadata data model for the managed object tree
// ABOUTME: Describes naming, containment and property rules per class

package meta

import (
	"sort"
	"strings"
)

// RnPrefix is one segment of a class Rn format. A prefix with HasProp set is
// followed by one naming value in the string form of the Rn.
type RnPrefix struct {
	Prefix  string
	HasProp bool
}

// ChildPrefix maps the Rn prefix of a child class to its class name.
type ChildPrefix struct {
	Prefix    string
	ClassName string
}

// PropMeta describes a single property of a managed object class.
type PropMeta struct {
	Name         string
	Label        string
	DefaultValue string

	IsDn         bool // the computed distinguished name, never settable
	IsRn         bool // the computed relative name, never settable
	IsImplicit   bool
	IsCreateOnly bool
	IsNaming     bool

	// NeedDelimiter marks a naming value that is wrapped in [] in the Rn
	// string so it may itself contain the path separator.
	NeedDelimiter bool
}

// ClassMeta describes one managed object class: its naming scheme, which
// classes it may contain, its super-class chain and its properties.
//
// SuperClasses holds the transitive closure of all ancestor class names, so
// instance checks and class indexing never walk the catalog recursively.
type ClassMeta struct {
	ClassName string
	Label     string

	IsAbstract     bool
	IsConfigurable bool
	IsDeletable    bool

	SuperClasses []string
	RnPrefixes   []RnPrefix
	NamingProps  []*PropMeta
	Props        map[string]*PropMeta

	// childPrefixes is kept sorted with the longest prefix first so that
	// prefix matching picks e.g. "action-" over "ac-".
	childPrefixes []ChildPrefix
	childClasses  map[string]string // class name -> rn prefix

	rnFormat string
}

// NewClassMeta creates a class meta with the implicit dn, rn and status
// properties every managed object carries.
func NewClassMeta(className string) *ClassMeta {
	cm := &ClassMeta{
		ClassName:    className,
		Props:        make(map[string]*PropMeta),
		childClasses: make(map[string]string),
	}
	cm.Props["dn"] = &PropMeta{Name: "dn", IsDn: true, IsImplicit: true}
	cm.Props["rn"] = &PropMeta{Name: "rn", IsRn: true, IsImplicit: true}
	cm.Props["status"] = &PropMeta{Name: "status", IsImplicit: true}
	return cm
}

// AddProp registers a regular property.
func (cm *ClassMeta) AddProp(pm *PropMeta) {
	cm.Props[pm.Name] = pm
}

// AddNamingProp registers a naming property. Naming properties are ordered;
// the order of AddNamingProp calls must match the order of the HasProp
// prefixes in the Rn format.
func (cm *ClassMeta) AddNamingProp(pm *PropMeta) {
	pm.IsNaming = true
	cm.NamingProps = append(cm.NamingProps, pm)
	cm.Props[pm.Name] = pm
	cm.rnFormat = ""
}

// SetRnPrefixes defines the Rn format of the class as an ordered list of
// prefixes. The number of prefixes with HasProp set must equal the number of
// naming properties.
func (cm *ClassMeta) SetRnPrefixes(prefixes ...RnPrefix) {
	cm.RnPrefixes = prefixes
	cm.rnFormat = ""
}

// AddChild declares that this class may contain childClassName, addressed by
// the given Rn prefix.
func (cm *ClassMeta) AddChild(rnPrefix, childClassName string) {
	cm.childClasses[childClassName] = rnPrefix
	cm.childPrefixes = append(cm.childPrefixes, ChildPrefix{Prefix: rnPrefix, ClassName: childClassName})
	sort.SliceStable(cm.childPrefixes, func(i, j int) bool {
		return len(cm.childPrefixes[i].Prefix) > len(cm.childPrefixes[j].Prefix)
	})
}

// HasChildClass reports whether childClassName is a declared child class.
func (cm *ClassMeta) HasChildClass(childClassName string) bool {
	_, ok := cm.childClasses[childClassName]
	return ok
}

// ChildPrefixes returns the child prefix table, longest prefix first.
func (cm *ClassMeta) ChildPrefixes() []ChildPrefix {
	return cm.childPrefixes
}

// FindChild returns the class name of the child class whose Rn prefix starts
// rnStr. When several child prefixes share a leading substring the longest
// match wins.
func (cm *ClassMeta) FindChild(rnStr string) (string, bool) {
	for _, cp := range cm.childPrefixes {
		if strings.HasPrefix(rnStr, cp.Prefix) {
			return cp.ClassName, true
		}
	}
	return "", false
}

// Prop looks up a property meta by name.
func (cm *ClassMeta) Prop(name string) (*PropMeta, bool) {
	pm, ok := cm.Props[name]
	return pm, ok
}

// IsInstance reports whether the class is, or descends from, any of the
// given class names.
func (cm *ClassMeta) IsInstance(classNames ...string) bool {
	for _, name := range classNames {
		if name == cm.ClassName {
			return true
		}
		for _, super := range cm.SuperClasses {
			if name == super {
				return true
			}
		}
	}
	return false
}

// RnFormat returns a readable template of the class Rn, e.g. "tn-{name}" or
// "subnet-[{ip}]", used in parse error messages.
func (cm *ClassMeta) RnFormat() string {
	if cm.rnFormat != "" {
		return cm.rnFormat
	}
	var b strings.Builder
	propIdx := 0
	for _, rp := range cm.RnPrefixes {
		b.WriteString(rp.Prefix)
		if rp.HasProp && propIdx < len(cm.NamingProps) {
			pm := cm.NamingProps[propIdx]
			propIdx++
			if pm.NeedDelimiter {
				b.WriteString("[{" + pm.Name + "}]")
			} else {
				b.WriteString("{" + pm.Name + "}")
			}
		}
	}
	cm.rnFormat = b.String()
	return cm.rnFormat
}
