// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package query provides subcommands to query the code model of a kernel
// project: include directories, defines and defconfigs.
package query

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

	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/subcmd/projflags"
)

// queryFunc prints the query result of p to w.
type queryFunc func(ctx context.Context, w io.Writer, p *project.Project, r *run) error

func newCmd(usageLine, shortDesc, usage string, f queryFunc, init func(r *run)) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: usageLine,
		ShortDesc: shortDesc,
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			return newRun(os.Stdout, usage, f, init)
		},
	}
}

func newRun(w io.Writer, usage string, f queryFunc, init func(r *run)) *run {
	c := &run{w: w, usage: usage, query: f}
	c.init()
	if init != nil {
		init(c)
	}
	return c
}

type run struct {
	subcommands.CommandRunBase
	w     io.Writer
	usage string
	query queryFunc

	flags projflags.Flags

	// defines
	cFormat bool
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
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, c.usage)
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
	return c.query(ctx, c.w, p, c)
}
