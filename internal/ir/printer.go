// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Printer renders a World as a flat, readable dump: one line per lambda
// header, lambdas sorted by gid, each followed by an indented line per
// live primop reachable from its jump, printed operands first, so the
// output is deterministic across runs.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter wraps w for a single Stream call.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (p *Printer) line(format string, args ...interface{}) {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
	fmt.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

// Stream writes every lambda in world, sorted by gid, to w.
func (world *World) Stream(w io.Writer) {
	p := NewPrinter(w)
	lambdas := world.Lambdas()
	sort.Slice(lambdas, func(i, j int) bool { return lambdas[i].GID() < lambdas[j].GID() })

	for _, l := range lambdas {
		p.printLambda(l)
	}
}

func (p *Printer) printLambda(l *Lambda) {
	params := make([]string, len(l.Params))
	for i, param := range l.Params {
		params[i] = fmt.Sprintf("%s: %s", param, param.Type())
	}
	header := fmt.Sprintf("%s(%s)", l, strings.Join(params, ", "))
	if l.External {
		header = "extern " + header
	}
	if l.Intrinsic != IntrinsicNone {
		header += " @" + l.Intrinsic.String()
	}
	p.line("%s", header)

	p.indent++
	defer func() { p.indent-- }()

	if l.IsMeta() {
		p.line("<no body>")
		return
	}

	seen := make(map[Def]struct{})
	var printOperand func(d Def)
	printOperand = func(d Def) {
		if d == nil {
			return
		}
		if _, ok := d.(*Lambda); ok {
			return // printed at top level, not inlined
		}
		if _, ok := d.(*Param); ok {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		for _, op := range d.Ops() {
			printOperand(op)
		}
		if eff, ok := d.(MemEffect); ok {
			p.line("%%%d = %s : %s [%s]", d.GID(), d, d.Type(), effectName(eff.Effect()))
		} else {
			p.line("%%%d = %s : %s", d.GID(), d, d.Type())
		}
	}

	printOperand(l.Body.To)
	for _, a := range l.Body.Args {
		printOperand(a)
	}

	args := make([]string, len(l.Body.Args))
	for i, a := range l.Body.Args {
		args[i] = refString(a)
	}
	p.line("jump %s(%s)", refString(l.Body.To), strings.Join(args, ", "))
}

func effectName(e MemoryEffectType) string {
	switch e {
	case MemEffectRead:
		return "read"
	case MemEffectWrite:
		return "write"
	case MemEffectAllocate:
		return "allocate"
	case MemEffectFree:
		return "free"
	default:
		return "?effect"
	}
}

// refString renders a reference to d the way an operand slot refers to
// an already-printed value: lambdas and params by name, everything else
// by its gid.
func refString(d Def) string {
	switch d.(type) {
	case *Lambda, *Param:
		return d.String()
	default:
		return fmt.Sprintf("%%%d", d.GID())
	}
}
