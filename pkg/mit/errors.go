// ABOUTME: Error types for tree merge rules
// ABOUTME: Adding below a deleted ancestor is the one structural refusal

package mit

import "fmt"

// AncestorDeletedError reports an Add below an ancestor already marked
// deleted in the tree. The doomed subtree cannot accept new state.
type AncestorDeletedError struct {
	Dn string
}

func (e *AncestorDeletedError) Error() string {
	return fmt.Sprintf("mit: ancestor %q is marked deleted", e.Dn)
}
