// ABOUTME: Tests for Dn parsing, containment and ancestry predicates
// ABOUTME: Covers separators inside delimited values and prefix disambiguation

package naming

import (
	"testing"

	"github.com/nainya/mittree/pkg/meta/metatest"
)

func parseDn(t *testing.T, dnStr string) *Dn {
	t.Helper()
	d, err := ParseDn(metatest.NewCatalog(), dnStr)
	if err != nil {
		t.Fatalf("ParseDn(%q) failed: %v", dnStr, err)
	}
	return d
}

func TestParseDnRoundTrip(t *testing.T) {
	tests := []struct {
		dnStr string
		class string
		depth int
	}{
		{"", "topRoot", 0},
		{"uni", "polUni", 1},
		{"uni/tn-prod", "fvTenant", 2},
		{"uni/tn-prod/BD-web", "fvBD", 3},
		{"uni/tn-prod/BD-web/subnet-[10.0.0.1/24]", "fvSubnet", 4},
		{"uni/tn-prod/ap-app1/conn-[eth1/1]-port-2", "fvIfConn", 4},
	}
	for _, tt := range tests {
		d := parseDn(t, tt.dnStr)
		if d.String() != tt.dnStr {
			t.Errorf("round trip of %q gave %q", tt.dnStr, d.String())
		}
		if d.Class() != tt.class {
			t.Errorf("%q: class is %q, expected %q", tt.dnStr, d.Class(), tt.class)
		}
		if d.Len() != tt.depth {
			t.Errorf("%q: depth is %d, expected %d", tt.dnStr, d.Len(), tt.depth)
		}
	}
}

func TestParseDnLongestPrefixWins(t *testing.T) {
	// "action-go" starts with both the "ac-" and "action-" child prefixes of
	// polUni; the longer prefix must be chosen.
	d := parseDn(t, "uni/action-go")
	if d.Class() != "actionPol" {
		t.Errorf("expected actionPol, got %q", d.Class())
	}
	d = parseDn(t, "uni/ac-go")
	if d.Class() != "acPol" {
		t.Errorf("expected acPol, got %q", d.Class())
	}
}

func TestParseDnErrors(t *testing.T) {
	cat := metatest.NewCatalog()
	tests := []string{
		"tn-prod",                     // fvTenant is not a child of the root
		"uni/xx-prod",                 // no child prefix matches
		"uni/tn-prod/subnet-[10.0.0.1]", // fvSubnet is not a child of fvTenant
		"uni/tn-prod/BD-web/subnet-[10.0.0.1", // unbalanced delimiters
	}
	for _, dnStr := range tests {
		if _, err := ParseDn(cat, dnStr); err == nil {
			t.Errorf("ParseDn(%q) should have failed", dnStr)
		}
	}
}

func TestAppendRnValidatesContainment(t *testing.T) {
	cat := metatest.NewCatalog()
	subnet, err := cat.Lookup("fvSubnet")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	rn, err := NewRn(subnet, "10.0.0.1/24")
	if err != nil {
		t.Fatalf("NewRn failed: %v", err)
	}

	d := parseDn(t, "uni/tn-prod")
	if err := d.AppendRn(rn); err == nil {
		t.Fatal("appending fvSubnet below fvTenant should have failed")
	}

	d = parseDn(t, "uni/tn-prod/BD-web")
	if err := d.AppendRn(rn); err != nil {
		t.Fatalf("appending fvSubnet below fvBD failed: %v", err)
	}
	if d.String() != "uni/tn-prod/BD-web/subnet-[10.0.0.1/24]" {
		t.Errorf("unexpected dn %q", d.String())
	}
}

func TestGetParentAndAncestor(t *testing.T) {
	d := parseDn(t, "uni/tn-prod/BD-web/subnet-[10.0.0.1/24]")

	if got := d.GetParent().String(); got != "uni/tn-prod/BD-web" {
		t.Errorf("parent is %q", got)
	}
	if got := d.GetAncestor(2).String(); got != "uni/tn-prod" {
		t.Errorf("ancestor at level 2 is %q", got)
	}
	if got := d.GetAncestor(10); !got.IsRoot() {
		t.Errorf("ancestor beyond the root is %q", got)
	}
}

func TestFindCommonParent(t *testing.T) {
	tests := []struct {
		name string
		dns  []string
		want string
	}{
		{"single", []string{"uni/tn-prod"}, "uni/tn-prod"},
		{"identical", []string{"uni/tn-prod", "uni/tn-prod"}, "uni/tn-prod"},
		{"siblings", []string{"uni/tn-prod/BD-web", "uni/tn-prod/BD-db"}, "uni/tn-prod"},
		{"nested", []string{"uni/tn-prod/BD-web/subnet-[10.0.0.1/24]", "uni/tn-prod/BD-web"}, "uni/tn-prod/BD-web"},
		{"divergent tenants", []string{"uni/tn-prod", "uni/tn-dev"}, "uni"},
	}
	for _, tt := range tests {
		dns := make([]*Dn, len(tt.dns))
		for i, s := range tt.dns {
			dns[i] = parseDn(t, s)
		}
		got := FindCommonParent(dns)
		if got.String() != tt.want {
			t.Errorf("%s: common parent is %q, expected %q", tt.name, got.String(), tt.want)
		}
	}
	if FindCommonParent(nil) != nil {
		t.Error("empty input must yield nil")
	}
}

func TestIsDescendantOf(t *testing.T) {
	root := parseDn(t, "")
	uni := parseDn(t, "uni")
	tnA := parseDn(t, "uni/tn-a")
	tnAB := parseDn(t, "uni/tn-ab")
	bd := parseDn(t, "uni/tn-a/BD-web")

	if !bd.IsDescendantOf(tnA) || !bd.IsDescendantOf(uni) || !bd.IsDescendantOf(root) {
		t.Error("descendant chain not recognized")
	}
	if !tnA.IsAncestorOf(bd) {
		t.Error("ancestor predicate must mirror descendant predicate")
	}
	if tnA.IsDescendantOf(tnA) {
		t.Error("a dn is not its own descendant")
	}
	// Shared string prefix without a path separator boundary is not ancestry.
	if tnAB.IsDescendantOf(tnA) {
		t.Error("uni/tn-ab must not be a descendant of uni/tn-a")
	}
}

func TestDnCloneIsIndependent(t *testing.T) {
	cat := metatest.NewCatalog()
	d := parseDn(t, "uni/tn-prod/BD-web")
	c := d.Clone()

	subnet, _ := cat.Lookup("fvSubnet")
	rn, _ := NewRn(subnet, "10.0.0.1/24")
	if err := c.AppendRn(rn); err != nil {
		t.Fatalf("AppendRn failed: %v", err)
	}
	if d.Len() != 3 {
		t.Error("appending to the clone mutated the original")
	}
	if !d.Equal(parseDn(t, "uni/tn-prod/BD-web")) {
		t.Error("original dn changed")
	}
}
