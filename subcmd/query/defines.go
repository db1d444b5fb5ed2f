// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/kernelproj/project"
)

const definesUsage = `print defines of the kernel project.

 $ kernelproj defines -C <dir> [-c]

prints config symbols of .config in the build directory and __KERNEL__
as NAME=VALUE, or as #define lines with -c.
`

// CmdDefines returns the Command for the `defines` subcommand.
func CmdDefines() *subcommands.Command {
	return newCmd("defines [-C <dir>] [-c]", "print defines", definesUsage, defines, initDefines)
}

func initDefines(r *run) {
	r.Flags.BoolVar(&r.cFormat, "c", false, "print as C #define")
}

func defines(ctx context.Context, w io.Writer, p *project.Project, r *run) error {
	defs := p.Defines()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if r.cFormat {
			fmt.Fprintf(w, "#define %s %s\n", name, defs[name])
			continue
		}
		fmt.Fprintf(w, "%s=%s\n", name, defs[name])
	}
	return nil
}
