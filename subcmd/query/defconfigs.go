// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/kernelproj/project"
)

const defconfigsUsage = `print defconfigs of the architecture.

 $ kernelproj defconfigs -C <dir> -arch <arch>

prints names of arch/<arch>/configs/*_defconfig, usable for -defconfig.
`

// CmdDefconfigs returns the Command for the `defconfigs` subcommand.
func CmdDefconfigs() *subcommands.Command {
	return newCmd("defconfigs [-C <dir>] -arch <arch>", "print defconfigs of the architecture", defconfigsUsage, defconfigs, nil)
}

func defconfigs(ctx context.Context, w io.Writer, p *project.Project, r *run) error {
	if p.Arch() == "" {
		return errors.New("no architecture. set -arch")
	}
	for _, name := range p.ListDefconfigs() {
		fmt.Fprintln(w, name)
	}
	return nil
}
