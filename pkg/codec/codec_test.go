// ABOUTME: Tests for the imdata JSON codec
// ABOUTME: Encode shape, decode wiring and round trips through a tree

package codec

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/nainya/mittree/pkg/meta/metatest"
	"github.com/nainya/mittree/pkg/mit"
	"github.com/nainya/mittree/pkg/mo"
)

func TestEncodeMo(t *testing.T) {
	cat := metatest.NewCatalog()
	tenant, err := mo.NewUnderDnString(cat, "fvTenant", "uni", true,
		[]string{"prod"}, map[string]string{"descr": "production"})
	if err != nil {
		t.Fatalf("building tenant failed: %v", err)
	}
	if _, err := mo.New(cat, "fvBD", tenant, true, []string{"web"}, nil); err != nil {
		t.Fatalf("building bd failed: %v", err)
	}

	doc, err := EncodeMo(tenant)
	if err != nil {
		t.Fatalf("EncodeMo failed: %v", err)
	}

	attrs := gjson.Get(doc, "imdata.0.fvTenant.attributes")
	if !attrs.Exists() {
		t.Fatalf("no tenant attributes in %s", doc)
	}
	checks := map[string]string{
		"dn":     "uni/tn-prod",
		"rn":     "tn-prod",
		"name":   "prod",
		"descr":  "production",
		"status": "created,modified",
	}
	for key, want := range checks {
		if got := attrs.Get(key).String(); got != want {
			t.Errorf("attribute %q is %q, expected %q", key, got, want)
		}
	}

	child := gjson.Get(doc, "imdata.0.fvTenant.children.0.fvBD.attributes")
	if got := child.Get("rn").String(); got != "BD-web" {
		t.Errorf("child rn is %q", got)
	}
}

func TestDecodeBuildsSubtrees(t *testing.T) {
	cat := metatest.NewCatalog()
	doc := `{"imdata":[
	  {"fvTenant": {
	    "attributes": {"dn": "uni/tn-prod", "name": "prod", "descr": "production"},
	    "children": [
	      {"fvBD": {
	        "attributes": {"name": "web", "arpFlood": "yes"},
	        "children": [
	          {"fvSubnet": {"attributes": {"ip": "10.0.0.1/24", "scope": "public", "status": "deleted"}}}
	        ]
	      }}
	    ]
	  }}
	]}`

	mos, err := Decode(cat, doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(mos) != 1 {
		t.Fatalf("decoded %d objects", len(mos))
	}
	tenant := mos[0]
	if tenant.DnString() != "uni/tn-prod" {
		t.Errorf("tenant dn is %q", tenant.DnString())
	}
	if v, _ := tenant.PropValue("descr"); v != "production" {
		t.Errorf("descr is %q", v)
	}
	// Decoded objects mirror remote state: only status is dirty.
	if n := len(tenant.DirtyProps()); n != 1 {
		t.Errorf("tenant dirty set has %d entries", n)
	}

	if tenant.NumChildren() != 1 {
		t.Fatalf("tenant has %d children", tenant.NumChildren())
	}
	bd := tenant.Children()[0]
	if bd.DnString() != "uni/tn-prod/BD-web" {
		t.Errorf("bd dn is %q", bd.DnString())
	}
	subnet := bd.Children()[0]
	if subnet.Rn().NamingVals()[0] != "10.0.0.1/24" {
		t.Errorf("subnet ip is %q", subnet.Rn().NamingVals()[0])
	}
	if !subnet.Status().Deleted() {
		t.Error("status attribute not applied")
	}
}

func TestDecodeNamingValsFromDn(t *testing.T) {
	cat := metatest.NewCatalog()
	// No name attribute; the naming value must come from the dn.
	doc := `{"imdata":[{"fvTenant": {"attributes": {"dn": "uni/tn-fallback"}}}]}`

	mos, err := Decode(cat, doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v, _ := mos[0].PropValue("name"); v != "fallback" {
		t.Errorf("name is %q", v)
	}
}

func TestDecodeErrors(t *testing.T) {
	cat := metatest.NewCatalog()
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"imdata":`},
		{"missing imdata", `{"totalCount":"1"}`},
		{"unknown class", `{"imdata":[{"noSuchClass": {"attributes": {"dn": "uni"}}}]}`},
		{"unknown attribute", `{"imdata":[{"fvTenant": {"attributes": {"dn": "uni/tn-a", "bogus": "x"}}}]}`},
		{"no dn", `{"imdata":[{"fvTenant": {"attributes": {"name": "a"}}}]}`},
		{"bad dn", `{"imdata":[{"fvTenant": {"attributes": {"dn": "nonsense-a"}}}]}`},
	}
	for _, tt := range tests {
		if _, err := Decode(cat, tt.doc); err == nil {
			t.Errorf("%s: Decode should have failed", tt.name)
		}
	}
}

func TestRoundTripThroughTree(t *testing.T) {
	cat := metatest.NewCatalog()
	doc := `{"imdata":[
	  {"fvBD": {
	    "attributes": {"dn": "uni/tn-prod/BD-web", "name": "web"},
	    "children": [
	      {"fvSubnet": {"attributes": {"ip": "10.0.0.1/24", "scope": "public"}}}
	    ]
	  }}
	]}`

	mos, err := Decode(cat, doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	tree, err := mit.New(cat)
	if err != nil {
		t.Fatalf("mit.New failed: %v", err)
	}
	for _, m := range mos {
		if _, err := tree.Add(m); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	bd, ok := tree.MoByDn("uni/tn-prod/BD-web")
	if !ok {
		t.Fatal("bd missing from the tree")
	}
	out, err := EncodeMo(bd.CloneSubtree(nil))
	if err != nil {
		t.Fatalf("EncodeMo failed: %v", err)
	}
	if got := gjson.Get(out, "imdata.0.fvBD.attributes.dn").String(); got != "uni/tn-prod/BD-web" {
		t.Errorf("dn is %q", got)
	}
	if got := gjson.Get(out, "imdata.0.fvBD.children.0.fvSubnet.attributes.scope").String(); got != "public" {
		t.Errorf("scope is %q", got)
	}
	if got := gjson.Get(out, "imdata.0.fvBD.children.0.fvSubnet.attributes.dn").String(); got != "uni/tn-prod/BD-web/subnet-[10.0.0.1/24]" {
		t.Errorf("subnet dn is %q", got)
	}
}
