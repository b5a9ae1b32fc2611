// ABOUTME: Structured parse errors for Rn and Dn strings
// ABOUTME: Callers must treat these as fatal, names are lookup keys

package naming

import "fmt"

// ParseError reports a malformed Rn or Dn string. Input is the full string
// that was being parsed, Offending the substring that failed when it differs
// from the input.
type ParseError struct {
	Input     string
	Offending string
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Offending != "" && e.Offending != e.Input {
		return fmt.Sprintf("naming: invalid name %q: %s (at %q)", e.Input, e.Reason, e.Offending)
	}
	return fmt.Sprintf("naming: invalid name %q: %s", e.Input, e.Reason)
}
