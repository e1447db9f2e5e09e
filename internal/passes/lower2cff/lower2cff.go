// SPDX-License-Identifier: Apache-2.0

// Package lower2cff checks that a scope is in closure-free form: every
// call must target either a literal lambda (direct call) or a Param bound
// by an enclosing lambda (a continuation passed in as an argument, e.g.
// the then/else targets of a branch). A call through anything else — an
// arbitrary computed value — would require a real closure representation
// this kernel doesn't have, and is reported rather than silently
// accepted. The package does not rewrite the scope.
package lower2cff

import (
	"fmt"

	"thorin/internal/ir"
)

// Violation names one non-closure-free jump found while checking scope.
type Violation struct {
	Lambda *ir.Lambda
	Reason string
}

func (v Violation) String() string { return fmt.Sprintf("%s: %s", v.Lambda, v.Reason) }

// Check walks every member of scope and reports every jump whose target
// is neither a Lambda nor a Param. In this kernel every lambda is built
// directly against World and Param, so a well-formed program is always
// already closure-free; Check exists to make that invariant verifiable
// after a transform pass has run, the same role World::cleanup's
// assertions play for interning (§5, "lower2cff" step of the opt order).
func Check(scope *ir.Scope) []Violation {
	var violations []Violation
	for _, l := range scope.Members() {
		if l.IsMeta() {
			continue
		}
		switch l.Body.To.(type) {
		case *ir.Lambda, *ir.Param:
			// fine: direct call or call through a bound continuation
		default:
			violations = append(violations, Violation{Lambda: l, Reason: "jump target is neither a lambda nor a param"})
		}
	}
	return violations
}
