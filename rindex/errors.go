package rindex

import "fmt"

// recoverAsError converts a panic raised during operation into a
// returned error, the way search/bwt's bwtRecovery turns internal
// invariant panics (out-of-range bit access, malformed run streams)
// into ordinary errors at the package boundary.
func recoverAsError(operation string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("rindex: %s: %v", operation, r)
	}
}
