// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig describes which optimization passes opt.Run executes, in
// order, plus a set of breakpoint gids that ApplyBreakpoints records on a
// World. Neither opt.Run nor the kernel reads those breakpoints back: the
// pipeline does not stop or dump when one is reached. It is intentionally a thin, serializable mirror of
// what Run actually does — a config file is meant to toggle passes on
// and off for debugging, not to describe new ones.
type PipelineConfig struct {
	Passes      []string `yaml:"passes"`
	Breakpoints []int    `yaml:"breakpoints"`
	Verbosity   int      `yaml:"verbosity"`
}

// DefaultPipeline lists every pass opt.Run executes when no config is
// supplied, in the fixed order described in §5.
var DefaultPipeline = []string{
	"dce",
	"peval",
	"dce",
	"lower2cff",
	"clonebodies",
	"mem2reg",
	"memmapbuiltins",
	"liftbuiltins",
	"inliner",
	"liftenters",
	"deadloadopt",
	"uce",
	"dce",
}

// LoadPipelineConfig reads a yaml pipeline configuration from path. A
// missing Passes list falls back to DefaultPipeline.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &PipelineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Passes) == 0 {
		cfg.Passes = DefaultPipeline
	}
	return cfg, nil
}

// ApplyBreakpoints records every gid in cfg on world.
func (cfg *PipelineConfig) ApplyBreakpoints(world *World) {
	for _, gid := range cfg.Breakpoints {
		world.Breakpoint(gid)
	}
}
