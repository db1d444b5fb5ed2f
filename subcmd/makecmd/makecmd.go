// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makecmd provides subcommands to run make actions of a kernel
// project: build, clean, configure, prune and defconfig.
package makecmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/subcmd/projflags"
	"go.chromium.org/infra/build/kernelproj/ui"
)

// action starts a make action of p.
type action func(p *project.Project, ctx context.Context) project.Job

type actionDef struct {
	name      string
	shortDesc string
	usage     string
	action    action
}

var actions = []actionDef{
	{
		name:      "build",
		shortDesc: "build the kernel project",
		usage: `build the kernel project.

 $ kernelproj build -C <dir> [-target <targets>]

runs make with the default targets ([MakeBuilder] Default Target),
or with <targets> if -target is set.
`,
		action: (*project.Project).Build,
	},
	{
		name:      "clean",
		shortDesc: "run make clean",
		usage: `remove build outputs.

 $ kernelproj clean -C <dir>

runs make clean.
`,
		action: (*project.Project).Clean,
	},
	{
		name:      "configure",
		shortDesc: "run make xconfig",
		usage: `configure the kernel.

 $ kernelproj configure -C <dir>

runs make xconfig.
`,
		action: (*project.Project).Configure,
	},
	{
		name:      "prune",
		shortDesc: "run make mrproper",
		usage: `remove build outputs and configuration.

 $ kernelproj prune -C <dir>

runs make mrproper.
`,
		action: (*project.Project).Prune,
	},
	{
		name:      "defconfig",
		shortDesc: "generate .config from a defconfig",
		usage: `generate .config from a defconfig.

 $ kernelproj defconfig -C <dir> [-arch <arch>] -defconfig <name>

runs make <name>_defconfig.
`,
		action: (*project.Project).CreateDotConfig,
	},
}

// Cmds returns the Commands for make actions provided by this package.
func Cmds() []*subcommands.Command {
	var cmds []*subcommands.Command
	for _, a := range actions {
		cmds = append(cmds, &subcommands.Command{
			UsageLine: a.name + " [-C <dir>]",
			ShortDesc: a.shortDesc,
			LongDesc:  a.usage,
			CommandRun: func() subcommands.CommandRun {
				c := &run{
					def:    a,
					stdout: os.Stdout,
					stderr: os.Stderr,
				}
				c.init()
				return c
			},
		})
	}
	return cmds
}

type run struct {
	subcommands.CommandRunBase
	def            actionDef
	stdout, stderr io.Writer

	flags  projflags.Flags
	target string
}

func (c *run) init() {
	c.flags.Register(&c.Flags)
	if c.def.name == "build" {
		c.Flags.StringVar(&c.target, "target", "", "make targets to build, separated by space. overrides [MakeBuilder] Default Target")
	}
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, c.def.usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(cancel)()

	if len(args) != 0 {
		return fmt.Errorf("position arguments not expected: %w", flag.ErrHelp)
	}
	// make actions don't need .config here; the kernel's make
	// reports a missing one.
	inv := c.flags.Invoker(c.stdout, c.stderr)
	s, p, err := c.flags.Open(ctx, project.Options{Builder: inv})
	if err != nil {
		return err
	}
	defer s.CloseAll()
	if c.target != "" {
		p.Config().Set(project.GroupMakeBuilder, project.KeyDefaultTarget, c.target)
	}

	started := time.Now()
	job := c.def.action(p, ctx)
	if job == nil {
		if c.def.name == "defconfig" {
			return fmt.Errorf("no defconfig. set -defconfig: %w", flag.ErrHelp)
		}
		return fmt.Errorf("nothing to run for %s", c.def.name)
	}
	err = job.Wait()
	if err != nil {
		ui.Default.Errorf("%s failed in %s: %v", c.def.name, ui.FormatDuration(time.Since(started)), err)
		return err
	}
	ui.Default.Infof("%s done in %s", c.def.name, ui.FormatDuration(time.Since(started)))
	return nil
}
