// ABOUTME: JSON catalog loader for model definitions on disk
// ABOUTME: Parses class metadata documents with gjson

package meta

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// LoadJSON builds a Registry from a JSON model document of the form:
//
//	{
//	  "root": "topRoot",
//	  "classes": {
//	    "fvTenant": {
//	      "label": "Tenant",
//	      "super": ["fvComp"],
//	      "rnPrefixes": [{"prefix": "tn-", "hasProp": true}],
//	      "namingProps": [{"name": "name", "needDelimiter": false}],
//	      "props": {"descr": {"default": ""}, "mac": {"createOnly": true}},
//	      "children": {"BD-": "fvBD"}
//	    }
//	  }
//	}
func LoadJSON(doc string) (*Registry, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("meta: model document is not valid JSON")
	}
	root := gjson.Get(doc, "root")
	if !root.Exists() || root.String() == "" {
		return nil, fmt.Errorf("meta: model document has no root class")
	}
	reg := NewRegistry(root.String())

	var loadErr error
	gjson.Get(doc, "classes").ForEach(func(key, value gjson.Result) bool {
		cm, err := parseClass(key.String(), value)
		if err != nil {
			loadErr = err
			return false
		}
		reg.Register(cm)
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}

	if _, err := reg.Lookup(reg.RootClass()); err != nil {
		return nil, fmt.Errorf("meta: root class %q is not defined in the document", reg.RootClass())
	}
	return reg, nil
}

func parseClass(className string, def gjson.Result) (*ClassMeta, error) {
	cm := NewClassMeta(className)
	cm.Label = def.Get("label").String()
	cm.IsAbstract = def.Get("abstract").Bool()
	cm.IsConfigurable = def.Get("configurable").Bool()
	cm.IsDeletable = def.Get("deletable").Bool()

	for _, s := range def.Get("super").Array() {
		cm.SuperClasses = append(cm.SuperClasses, s.String())
	}

	var prefixes []RnPrefix
	withProp := 0
	for _, p := range def.Get("rnPrefixes").Array() {
		rp := RnPrefix{
			Prefix:  p.Get("prefix").String(),
			HasProp: p.Get("hasProp").Bool(),
		}
		if rp.HasProp {
			withProp++
		}
		prefixes = append(prefixes, rp)
	}
	cm.SetRnPrefixes(prefixes...)

	for _, np := range def.Get("namingProps").Array() {
		cm.AddNamingProp(&PropMeta{
			Name:          np.Get("name").String(),
			Label:         np.Get("label").String(),
			NeedDelimiter: np.Get("needDelimiter").Bool(),
		})
	}
	if withProp != len(cm.NamingProps) {
		return nil, fmt.Errorf("meta: class %q declares %d naming props but %d naming prefixes",
			className, len(cm.NamingProps), withProp)
	}

	var propErr error
	def.Get("props").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, ok := cm.Props[name]; ok {
			propErr = fmt.Errorf("meta: class %q redefines property %q", className, name)
			return false
		}
		cm.AddProp(&PropMeta{
			Name:         name,
			Label:        value.Get("label").String(),
			DefaultValue: value.Get("default").String(),
			IsCreateOnly: value.Get("createOnly").Bool(),
		})
		return true
	})
	if propErr != nil {
		return nil, propErr
	}

	def.Get("children").ForEach(func(key, value gjson.Result) bool {
		cm.AddChild(key.String(), value.String())
		return true
	})
	return cm, nil
}
