// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
)

// Cmd returns the Command for the `version` subcommand provided by this package.
func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version and how it was built.",
		CommandRun: func() subcommands.CommandRun {
			r := &versionRun{version: ver, w: os.Stdout}
			r.init()
			return r
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version string
	w       io.Writer
	deps    bool
}

func (c *versionRun) init() {
	c.Flags.BoolVar(&c.deps, "deps", false, "show dependency modules")
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	fmt.Fprintln(c.w, c.version)
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return 0
	}
	c.printBuildInfo(buildInfo)
	return 0
}

func (c *versionRun) printBuildInfo(buildInfo *debug.BuildInfo) {
	if buildInfo.GoVersion != "" {
		fmt.Fprintf(c.w, "go\t%s\n", buildInfo.GoVersion)
	}
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(c.w, "build\t%s=%s\n", s.Key, s.Value)
		}
	}
	if !c.deps {
		return
	}
	for _, m := range buildInfo.Deps {
		fmt.Fprintf(c.w, "dep\t%s\t%s\n", m.Path, m.Version)
	}
}
