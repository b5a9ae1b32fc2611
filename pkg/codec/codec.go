// ABOUTME: JSON wire codec for managed object subtrees
// ABOUTME: imdata envelope, per-object attributes map and nested children

package codec

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nainya/mittree/pkg/meta"
	"github.com/nainya/mittree/pkg/mo"
	"github.com/nainya/mittree/pkg/naming"
)

// Wire form: an envelope object whose "imdata" array holds one entry per
// top-level managed object. Each entry is keyed by class name and carries an
// "attributes" map plus an optional "children" array of entries in the same
// shape. The dn and rn attributes are always emitted; status is emitted when
// non-default.

// Encode renders managed objects and their subtrees into the envelope form.
// Attributes are emitted in sorted property order so equal trees encode to
// equal documents.
func Encode(mos []*mo.Mo) (string, error) {
	doc := `{"imdata":[]}`
	for _, m := range mos {
		raw, err := encodeNode(m)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "imdata.-1", raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// EncodeMo renders one managed object subtree into the envelope form.
func EncodeMo(m *mo.Mo) (string, error) {
	return Encode([]*mo.Mo{m})
}

func encodeNode(m *mo.Mo) (string, error) {
	node := "{}"
	props := m.Props()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	attrs := m.Class() + ".attributes."
	for _, name := range names {
		if node, err = sjson.Set(node, attrs+name, props[name]); err != nil {
			return "", err
		}
	}
	if node, err = sjson.Set(node, attrs+"dn", m.DnString()); err != nil {
		return "", err
	}
	if node, err = sjson.Set(node, attrs+"rn", m.Rn().String()); err != nil {
		return "", err
	}
	if s := m.Status().String(); s != "" {
		if node, err = sjson.Set(node, attrs+"status", s); err != nil {
			return "", err
		}
	}
	for _, c := range m.Children() {
		raw, err := encodeNode(c)
		if err != nil {
			return "", err
		}
		if node, err = sjson.SetRaw(node, m.Class()+".children.-1", raw); err != nil {
			return "", err
		}
	}
	return node, nil
}

// Decode parses an envelope document into detached managed object subtrees.
// Top-level objects resolve their parent from the dn attribute; nested
// children attach to the enclosing object. Objects are constructed clean,
// mirroring remote state.
func Decode(cat meta.Catalog, doc string) ([]*mo.Mo, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("codec: invalid json document")
	}
	imdata := gjson.Get(doc, "imdata")
	if !imdata.Exists() || !imdata.IsArray() {
		return nil, fmt.Errorf("codec: missing imdata array")
	}
	var mos []*mo.Mo
	for _, node := range imdata.Array() {
		m, err := decodeNode(cat, node, nil)
		if err != nil {
			return nil, err
		}
		mos = append(mos, m)
	}
	return mos, nil
}

func decodeNode(cat meta.Catalog, node gjson.Result, parent *mo.Mo) (*mo.Mo, error) {
	var className string
	var body gjson.Result
	node.ForEach(func(key, value gjson.Result) bool {
		className = key.String()
		body = value
		return false
	})
	if className == "" {
		return nil, fmt.Errorf("codec: object entry has no class key")
	}
	cm, err := cat.Lookup(className)
	if err != nil {
		return nil, err
	}
	attrs := body.Get("attributes")

	namingVals, err := namingValsFromAttrs(cat, cm, attrs)
	if err != nil {
		return nil, err
	}
	props := make(map[string]string)
	var attrErr error
	attrs.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch {
		case name == "dn" || name == "rn":
			return true
		case name == "status" && value.String() == "":
			return true
		}
		if _, isNaming := namingPropIndex(cm, name); isNaming {
			return true
		}
		if _, ok := cm.Prop(name); !ok {
			attrErr = &mo.PropError{Class: className, Prop: name}
			return false
		}
		props[name] = value.String()
		return true
	})
	if attrErr != nil {
		return nil, attrErr
	}

	var m *mo.Mo
	switch {
	case parent != nil:
		m, err = mo.New(cat, className, parent, false, namingVals, props)
	case attrs.Get("dn").Exists():
		var d *naming.Dn
		d, err = naming.ParseDn(cat, attrs.Get("dn").String())
		if err != nil {
			return nil, err
		}
		if d.IsRoot() {
			m, err = mo.New(cat, className, nil, false, namingVals, props)
		} else {
			m, err = mo.NewUnder(cat, className, d.GetParent(), false, namingVals, props)
		}
	case className == cat.RootClass():
		m, err = mo.New(cat, className, nil, false, namingVals, props)
	default:
		return nil, fmt.Errorf("codec: class %q object carries no dn attribute", className)
	}
	if err != nil {
		return nil, err
	}

	for _, child := range body.Get("children").Array() {
		if _, err := decodeNode(cat, child, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// namingValsFromAttrs assembles the naming values of a class from the
// attribute map, falling back to the values encoded in the dn attribute when
// an attribute is absent.
func namingValsFromAttrs(cat meta.Catalog, cm *meta.ClassMeta, attrs gjson.Result) ([]string, error) {
	vals := make([]string, len(cm.NamingProps))
	missing := false
	for i, pm := range cm.NamingProps {
		if v := attrs.Get(pm.Name); v.Exists() {
			vals[i] = v.String()
		} else {
			missing = true
		}
	}
	if !missing {
		return vals, nil
	}
	dnAttr := attrs.Get("dn")
	if !dnAttr.Exists() {
		return nil, fmt.Errorf("codec: class %q object is missing naming attributes", cm.ClassName)
	}
	d, err := naming.ParseDn(cat, dnAttr.String())
	if err != nil {
		return nil, err
	}
	rn := d.Rn()
	if rn == nil || rn.Class() != cm.ClassName {
		return nil, fmt.Errorf("codec: dn %q does not name a %q object", dnAttr.String(), cm.ClassName)
	}
	return rn.NamingVals(), nil
}

func namingPropIndex(cm *meta.ClassMeta, name string) (int, bool) {
	for i, pm := range cm.NamingProps {
		if pm.Name == name {
			return i, true
		}
	}
	return 0, false
}
