// ABOUTME: Tests for class metadata and the catalog registry
// ABOUTME: Prefix matching, instance checks, lazy loading

package meta

import (
	"errors"
	"testing"
)

func newTenantMeta() *ClassMeta {
	cm := NewClassMeta("fvTenant")
	cm.SuperClasses = []string{"fvComp", "polObj"}
	cm.SetRnPrefixes(RnPrefix{Prefix: "tn-", HasProp: true})
	cm.AddNamingProp(&PropMeta{Name: "name"})
	cm.AddProp(&PropMeta{Name: "descr"})
	cm.AddChild("BD-", "fvBD")
	cm.AddChild("ap-", "fvAp")
	return cm
}

func TestImplicitProps(t *testing.T) {
	cm := NewClassMeta("fvTenant")
	for _, name := range []string{"dn", "rn", "status"} {
		pm, ok := cm.Prop(name)
		if !ok {
			t.Fatalf("implicit property %q missing", name)
		}
		if !pm.IsImplicit {
			t.Errorf("property %q not marked implicit", name)
		}
	}
	if pm, _ := cm.Prop("dn"); !pm.IsDn {
		t.Error("dn property not marked as dn")
	}
	if pm, _ := cm.Prop("rn"); !pm.IsRn {
		t.Error("rn property not marked as rn")
	}
}

func TestFindChildPrefersLongestPrefix(t *testing.T) {
	cm := NewClassMeta("polUni")
	cm.AddChild("ac-", "acPol")
	cm.AddChild("action-", "actionPol")

	tests := []struct {
		rnStr string
		want  string
	}{
		{"ac-x", "acPol"},
		{"action-x", "actionPol"},
		{"ac-tion", "acPol"},
	}
	for _, tt := range tests {
		got, ok := cm.FindChild(tt.rnStr)
		if !ok || got != tt.want {
			t.Errorf("FindChild(%q) = %q, expected %q", tt.rnStr, got, tt.want)
		}
	}
	if _, ok := cm.FindChild("xx-y"); ok {
		t.Error("unmatched prefix must not resolve")
	}
}

func TestIsInstance(t *testing.T) {
	cm := newTenantMeta()
	if !cm.IsInstance("fvTenant") || !cm.IsInstance("fvComp") || !cm.IsInstance("polObj") {
		t.Error("class and super classes must match")
	}
	if cm.IsInstance("fvBD") {
		t.Error("unrelated class must not match")
	}
	if !cm.IsInstance("nosuch", "fvComp") {
		t.Error("any matching name in the list suffices")
	}
}

func TestRnFormat(t *testing.T) {
	cm := newTenantMeta()
	if got := cm.RnFormat(); got != "tn-{name}" {
		t.Errorf("RnFormat() = %q", got)
	}

	conn := NewClassMeta("fvIfConn")
	conn.SetRnPrefixes(
		RnPrefix{Prefix: "conn-", HasProp: true},
		RnPrefix{Prefix: "-port-", HasProp: true},
	)
	conn.AddNamingProp(&PropMeta{Name: "addr", NeedDelimiter: true})
	conn.AddNamingProp(&PropMeta{Name: "port"})
	if got := conn.RnFormat(); got != "conn-[{addr}]-port-{port}" {
		t.Errorf("RnFormat() = %q", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry("topRoot")
	reg.Register(newTenantMeta())

	cm, err := reg.Lookup("fvTenant")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if cm.ClassName != "fvTenant" {
		t.Errorf("looked up %q", cm.ClassName)
	}
	if _, err := reg.Lookup("nosuch"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
	if reg.RootClass() != "topRoot" {
		t.Errorf("root class is %q", reg.RootClass())
	}
}

func TestRegistryLazyLoader(t *testing.T) {
	reg := NewRegistry("topRoot")
	calls := 0
	reg.SetLoader(func(className string) (*ClassMeta, error) {
		calls++
		if className != "fvTenant" {
			return nil, ErrClassNotFound
		}
		return newTenantMeta(), nil
	})

	for i := 0; i < 3; i++ {
		if _, err := reg.Lookup("fvTenant"); err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, resolved classes must be cached", calls)
	}
	if _, err := reg.Lookup("nosuch"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := `{
	  "root": "topRoot",
	  "classes": {
	    "topRoot": {"rnPrefixes": [], "children": {"uni": "polUni"}},
	    "polUni": {
	      "rnPrefixes": [{"prefix": "uni", "hasProp": false}],
	      "children": {"tn-": "fvTenant"}
	    },
	    "fvTenant": {
	      "label": "Tenant",
	      "super": ["fvComp"],
	      "rnPrefixes": [{"prefix": "tn-", "hasProp": true}],
	      "namingProps": [{"name": "name"}],
	      "props": {"descr": {"default": ""}, "mac": {"createOnly": true}}
	    }
	  }
	}`
	reg, err := LoadJSON(doc)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if reg.RootClass() != "topRoot" {
		t.Errorf("root class is %q", reg.RootClass())
	}
	tenant, err := reg.Lookup("fvTenant")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if tenant.Label != "Tenant" {
		t.Errorf("label is %q", tenant.Label)
	}
	if !tenant.IsInstance("fvComp") {
		t.Error("super class not loaded")
	}
	if len(tenant.NamingProps) != 1 || tenant.NamingProps[0].Name != "name" {
		t.Error("naming props not loaded")
	}
	if pm, _ := tenant.Prop("mac"); pm == nil || !pm.IsCreateOnly {
		t.Error("createOnly flag not loaded")
	}
	uni, _ := reg.Lookup("polUni")
	if child, ok := uni.FindChild("tn-prod"); !ok || child != "fvTenant" {
		t.Error("child table not loaded")
	}
}

func TestLoadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"root": `},
		{"no root", `{"classes": {}}`},
		{"root undefined", `{"root": "topRoot", "classes": {}}`},
		{"prefix mismatch", `{
		  "root": "topRoot",
		  "classes": {
		    "topRoot": {"rnPrefixes": []},
		    "fvTenant": {
		      "rnPrefixes": [{"prefix": "tn-", "hasProp": true}],
		      "namingProps": []
		    }
		  }
		}`},
	}
	for _, tt := range tests {
		if _, err := LoadJSON(tt.doc); err == nil {
			t.Errorf("%s: LoadJSON should have failed", tt.name)
		}
	}
}
