// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// Location is a source span attached to a Def for diagnostics only: it is
// never part of a Def's structural hash or equality (§4.5, last line).
type Location struct {
	File                   string
	Line1, Col1, Line2, Col2 int
}

// String renders "file:line col col - file:line col col", eliding the
// right-hand side fields when they coincide with the left, per §6.
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Line1 == l.Line2 {
		if l.Col1 == l.Col2 {
			return fmt.Sprintf("%s:%d %d", l.File, l.Line1, l.Col1)
		}
		return fmt.Sprintf("%s:%d %d %d", l.File, l.Line1, l.Col1, l.Col2)
	}
	return fmt.Sprintf("%s:%d %d - %d %d", l.File, l.Line1, l.Col1, l.Line2, l.Col2)
}
