// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package check provides check subcommand.
package check

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/kernelproj/osfs"
	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/subcmd/projflags"
)

const usage = `check whether paths belong to the kernel project.

 $ kernelproj check -C <dir> <path>...

prints "valid" or "invalid" for each <path>. <path> is relative to <dir>.
`

// Cmd returns the Command for the `check` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "check [-C <dir>] <path>...",
		ShortDesc: "check whether paths belong to the kernel project",
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
}

func (c *run) init() {
	c.flags.Register(&c.Flags)
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

	if len(args) == 0 {
		return fmt.Errorf("no paths to check: %w", flag.ErrHelp)
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

	fsys := osfs.New("check")
	for _, arg := range args {
		fullpath := arg
		if !filepath.IsAbs(fullpath) {
			fullpath = filepath.Join(p.Root(), fullpath)
		}
		isDir := false
		fi, err := fsys.Stat(ctx, fullpath)
		if err == nil {
			isDir = fi.IsDir()
		}
		result := "invalid"
		if p.IsValid(fullpath, isDir) {
			result = "valid"
		}
		fmt.Fprintf(c.w, "%s\t%s\n", result, arg)
	}
	return nil
}
