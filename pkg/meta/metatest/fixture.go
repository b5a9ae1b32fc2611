// ABOUTME: Shared model fixture for mittree package tests
// ABOUTME: Small tenant/bridge-domain style class catalog

package metatest

import "github.com/nainya/mittree/pkg/meta"

// NewCatalog returns a small model catalog used across the mittree tests.
//
// Containment:
//
//	topRoot ("")
//	└── polUni ("uni")
//	    ├── fvTenant ("tn-{name}")          super: fvComp
//	    │   ├── fvBD ("BD-{name}")          super: fvComp
//	    │   │   └── fvSubnet ("subnet-[{ip}]")
//	    │   └── fvAp ("ap-{name}")
//	    │       └── fvIfConn ("conn-[{addr}]-port-{port}")
//	    ├── acPol ("ac-{name}")
//	    └── actionPol ("action-{name}")
func NewCatalog() *meta.Registry {
	reg := meta.NewRegistry("topRoot")

	topRoot := meta.NewClassMeta("topRoot")
	topRoot.AddChild("uni", "polUni")
	reg.Register(topRoot)

	polUni := meta.NewClassMeta("polUni")
	polUni.SetRnPrefixes(meta.RnPrefix{Prefix: "uni"})
	polUni.AddChild("tn-", "fvTenant")
	polUni.AddChild("ac-", "acPol")
	polUni.AddChild("action-", "actionPol")
	reg.Register(polUni)

	fvTenant := meta.NewClassMeta("fvTenant")
	fvTenant.SuperClasses = []string{"fvComp"}
	fvTenant.SetRnPrefixes(meta.RnPrefix{Prefix: "tn-", HasProp: true})
	fvTenant.AddNamingProp(&meta.PropMeta{Name: "name"})
	fvTenant.AddProp(&meta.PropMeta{Name: "descr"})
	fvTenant.AddProp(&meta.PropMeta{Name: "ownerKey"})
	fvTenant.AddChild("BD-", "fvBD")
	fvTenant.AddChild("ap-", "fvAp")
	reg.Register(fvTenant)

	fvBD := meta.NewClassMeta("fvBD")
	fvBD.SuperClasses = []string{"fvComp"}
	fvBD.SetRnPrefixes(meta.RnPrefix{Prefix: "BD-", HasProp: true})
	fvBD.AddNamingProp(&meta.PropMeta{Name: "name"})
	fvBD.AddProp(&meta.PropMeta{Name: "descr"})
	fvBD.AddProp(&meta.PropMeta{Name: "arpFlood", DefaultValue: "no"})
	fvBD.AddProp(&meta.PropMeta{Name: "mac", DefaultValue: "00:22:BD:F8:19:FF", IsCreateOnly: true})
	fvBD.AddChild("subnet-", "fvSubnet")
	reg.Register(fvBD)

	fvSubnet := meta.NewClassMeta("fvSubnet")
	fvSubnet.SetRnPrefixes(meta.RnPrefix{Prefix: "subnet-", HasProp: true})
	fvSubnet.AddNamingProp(&meta.PropMeta{Name: "ip", NeedDelimiter: true})
	fvSubnet.AddProp(&meta.PropMeta{Name: "scope", DefaultValue: "private"})
	reg.Register(fvSubnet)

	fvAp := meta.NewClassMeta("fvAp")
	fvAp.SetRnPrefixes(meta.RnPrefix{Prefix: "ap-", HasProp: true})
	fvAp.AddNamingProp(&meta.PropMeta{Name: "name"})
	fvAp.AddProp(&meta.PropMeta{Name: "prio", DefaultValue: "unspecified"})
	fvAp.AddChild("conn-", "fvIfConn")
	reg.Register(fvAp)

	// Two naming properties, the first delimiter-wrapped.
	fvIfConn := meta.NewClassMeta("fvIfConn")
	fvIfConn.SetRnPrefixes(
		meta.RnPrefix{Prefix: "conn-", HasProp: true},
		meta.RnPrefix{Prefix: "-port-", HasProp: true},
	)
	fvIfConn.AddNamingProp(&meta.PropMeta{Name: "addr", NeedDelimiter: true})
	fvIfConn.AddNamingProp(&meta.PropMeta{Name: "port"})
	fvIfConn.AddProp(&meta.PropMeta{Name: "speed", DefaultValue: "inherit"})
	reg.Register(fvIfConn)

	// acPol and actionPol share a leading prefix substring; Dn parsing must
	// prefer the longer "action-" match.
	acPol := meta.NewClassMeta("acPol")
	acPol.SetRnPrefixes(meta.RnPrefix{Prefix: "ac-", HasProp: true})
	acPol.AddNamingProp(&meta.PropMeta{Name: "name"})
	reg.Register(acPol)

	actionPol := meta.NewClassMeta("actionPol")
	actionPol.SetRnPrefixes(meta.RnPrefix{Prefix: "action-", HasProp: true})
	actionPol.AddNamingProp(&meta.PropMeta{Name: "name"})
	reg.Register(actionPol)

	return reg
}
