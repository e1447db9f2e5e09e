// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantError is raised (via panic) whenever a structural invariant of
// §3 is violated: type/vector-length mismatch in a binary op, interning
// an unclosed type, operating on a destroyed lambda, or a use-list
// consistency failure. These are programmer errors (§7): fail-stop, never
// retried, and never recovered from inside this package.
type InvariantError struct {
	cause error
}

func (e *InvariantError) Error() string { return e.cause.Error() }
func (e *InvariantError) Unwrap() error  { return e.cause }

// invariantf builds a stack-carrying InvariantError. Call sites panic
// with its result; only cmd/thorinc recovers it, at the process boundary.
func invariantf(format string, args ...interface{}) *InvariantError {
	return &InvariantError{cause: errors.WithStack(fmt.Errorf(format, args...))}
}

// require panics with an InvariantError if cond is false. Mirrors the
// assert()-as-fail-stop style of the original world.cpp.
func require(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(invariantf(format, args...))
	}
}
