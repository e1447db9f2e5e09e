// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"thorin/internal/ir"
	"thorin/internal/opt"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if ierr, ok := r.(*ir.InvariantError); ok {
				ir.ReportFatal(ierr)
				os.Exit(1)
			}
			panic(r)
		}
	}()

	var configPath string
	verbosity := 1
	for _, a := range os.Args[1:] {
		switch {
		case a == "-v":
			verbosity++
		case len(a) > len("--config=") && a[:len("--config=")] == "--config=":
			configPath = a[len("--config="):]
		default:
			color.Red("unrecognized argument: %s", a)
			os.Exit(1)
		}
	}

	ir.ConfigureDiagnostics(verbosity)

	cfg := &ir.PipelineConfig{Passes: ir.DefaultPipeline}
	if configPath != "" {
		loaded, err := ir.LoadPipelineConfig(configPath)
		if err != nil {
			color.Red("failed to load pipeline config: %s", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	world, roots := buildSample()
	cfg.ApplyBreakpoints(world)

	fmt.Println("Before optimization:")
	world.Stream(os.Stdout)

	stats, err := opt.Run(world, roots, cfg)
	if err != nil {
		color.Red("optimization failed: %s", err)
		os.Exit(1)
	}

	fmt.Println("\nAfter optimization:")
	world.Stream(os.Stdout)

	fmt.Println()
	for _, pass := range cfg.Passes {
		if n, ok := stats[pass]; ok {
			fmt.Printf("%s: %d\n", pass, n)
		}
	}

	color.Green("✅ built and optimized a sample program")
}

// buildSample constructs a tiny demonstration program: a function
// taking an i32 parameter and a return continuation, computing
// (2 + 3) * x and jumping to the return continuation with the result.
// It exists only so cmd/thorinc has something to run the pipeline over;
// real programs are built by a client embedding internal/ir directly.
func buildSample() (*ir.World, []*ir.Lambda) {
	world := ir.NewWorld("sample")
	i32 := world.PrimType(ir.KindI32)

	retCont := world.FnType(i32)
	fn := world.FnType(i32, retCont)

	entry := world.Lambda(fn, ir.CC_C, true, ir.Location{})
	entry.SetName("main")
	x := entry.Param(0)
	ret := entry.Param(1)

	two := world.LitI64(ir.KindI32, 2)
	three := world.LitI64(ir.KindI32, 3)
	sum := world.Arithop(ir.ArithAdd, ir.Precise, two, three, ir.Location{})
	product := world.Arithop(ir.ArithMul, ir.Precise, sum, x, ir.Location{})

	entry.SetBody(ret, []ir.Def{product})

	return world, []*ir.Lambda{entry}
}
