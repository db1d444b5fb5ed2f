// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package files provides files subcommand.
package files

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/kernelproj/fswalk"
	"go.chromium.org/infra/build/kernelproj/osfs"
	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/subcmd/projflags"
	"go.chromium.org/infra/build/kernelproj/ui"
)

const usage = `list files of the kernel project.

 $ kernelproj files -C <dir> [-arch <arch>] [-O <builddir>] [-dirs]

prints files in the active build configuration, relative to <dir>.
It generates .config by -defconfig if the build directory has none.
`

// Cmd returns the Command for the `files` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "files [-C <dir>] [-dirs] [-stats]",
		ShortDesc: "list files of the kernel project",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	w io.Writer

	flags projflags.Flags
	dirs  bool
	stats bool
}

func (c *run) init() {
	c.flags.Register(&c.Flags)
	c.Flags.BoolVar(&c.dirs, "dirs", false, "also print directories")
	c.Flags.BoolVar(&c.stats, "stats", false, "print stats to stderr")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
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
	inv := c.flags.Invoker(os.Stderr, os.Stderr)
	s, p, err := c.flags.Open(ctx, project.Options{
		Materializer: inv,
		Controller:   projflags.Controller{},
	})
	if err != nil {
		return err
	}
	defer s.CloseAll()

	fsys := osfs.New("walk")
	spin := ui.Default.NewSpinner()
	spin.Start("scanning %s", p.Root())
	ents, err := fswalk.Walk(ctx, fsys, p.Root(), p)
	if err != nil {
		spin.Stop(err)
		return err
	}
	nfiles := 0
	for _, ent := range ents {
		if !ent.IsDir {
			nfiles++
		}
	}
	spin.Done("%d files", nfiles)
	for _, ent := range ents {
		if ent.IsDir && !c.dirs {
			continue
		}
		fmt.Fprintln(c.w, ent.Path)
	}
	if c.stats {
		st := p.Stats()
		fmt.Fprintf(os.Stderr, "makefile parses=%d queries=%d fs %s\n", st.Parses, st.Queries, fsys.Stats())
	}
	return nil
}
