// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/kernelproj/project"
)

const includesUsage = `print include directories of the kernel project.

 $ kernelproj includes -C <dir> [-arch <arch>] [-O <builddir>]

prints include directories in search order.
Machine directories are found from arch/<arch>/Makefile.
`

// CmdIncludes returns the Command for the `includes` subcommand.
func CmdIncludes() *subcommands.Command {
	return newCmd("includes [-C <dir>]", "print include directories", includesUsage, includes, nil)
}

func includes(ctx context.Context, w io.Writer, p *project.Project, r *run) error {
	if arch := p.Arch(); arch != "" {
		// machine dirs are discovered by parsing arch/<arch>/Makefile.
		p.IsValid(filepath.Join(p.Root(), "arch", arch, "Makefile"), false)
	}
	for _, dir := range p.IncludeDirectories() {
		fmt.Fprintln(w, dir)
	}
	return nil
}
