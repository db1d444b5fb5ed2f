// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// kernelproj manages Linux kernel source trees as projects.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/kernelproj/subcmd/check"
	"go.chromium.org/infra/build/kernelproj/subcmd/files"
	"go.chromium.org/infra/build/kernelproj/subcmd/help"
	"go.chromium.org/infra/build/kernelproj/subcmd/makecmd"
	"go.chromium.org/infra/build/kernelproj/subcmd/query"
	"go.chromium.org/infra/build/kernelproj/subcmd/version"
	"go.chromium.org/infra/build/kernelproj/ui"
)

const kernelprojVersion = "kernelproj v0.1.0"

func main() {
	os.Exit(kernelprojMain())
}

func kernelprojMain() int {
	ui.Init()
	defer ui.Restore()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	if buildinfo, ok := debug.ReadBuildInfo(); ok {
		log.Debugf("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
	}
	return subcommands.Run(getApplication(), nil)
}

func getApplication() *cli.Application {
	commands := []*subcommands.Command{
		files.Cmd(),
		check.Cmd(),
		query.CmdIncludes(),
		query.CmdDefines(),
		query.CmdDefconfigs(),
	}
	commands = append(commands, makecmd.Cmds()...)
	commands = append(commands,
		version.Cmd(kernelprojVersion),
		help.Cmd(),
	)
	return &cli.Application{
		Name:  "kernelproj",
		Title: "Linux kernel project manager",
		Context: func(ctx context.Context) context.Context {
			return ctx
		},
		Commands: commands,
	}
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
