// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
)

// diagnosticsLogger backs the non-fatal diagnostics taxonomy of §7: things
// like a Map/Unmap whose device or address-space argument isn't a literal
// are logged and then coerced, rather than aborting the process.
var diagnosticsLogger = commonlog.GetLogger("thorin.ir")

// ConfigureDiagnostics wires up commonlog's backend at the given verbosity
// (0 = critical only .. 3 = debug). Call once, typically from cmd/thorinc.
func ConfigureDiagnostics(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// warnNonLiteral logs a non-fatal diagnostic for a Map/Unmap argument that
// should have been a compile-time literal, matching the original's WLOG.
func warnNonLiteral(what string, loc Location) {
	diagnosticsLogger.Warningf("%s must be a literal at %s; coercing to an implementation-defined value", what, loc)
}

// ReportFatal prints a fail-stop diagnostic to stderr in the CLI's style
// before the process aborts; used only at the cmd/thorinc boundary when an
// InvariantError is recovered.
func ReportFatal(err error) {
	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintln(os.Stderr, bold("fatal:"), err.Error())
}
