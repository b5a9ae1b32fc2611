// ABOUTME: Error types for managed object property and containment rules
// ABOUTME: Policy violations and unknown properties are distinct kinds

package mo

import "fmt"

// NotSettableError reports a write to a property the class policy forbids:
// the dn/rn properties are immutable by construction, create-only properties
// are writable only during construction.
type NotSettableError struct {
	Class  string
	Prop   string
	Reason string
}

func (e *NotSettableError) Error() string {
	return fmt.Sprintf("mo: property %q of class %q cannot be set: %s", e.Prop, e.Class, e.Reason)
}

// PropError reports access to a property the class does not declare.
type PropError struct {
	Class string
	Prop  string
}

func (e *PropError) Error() string {
	return fmt.Sprintf("mo: class %q has no property %q", e.Class, e.Prop)
}
