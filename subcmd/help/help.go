// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package help provides help subcommand.
package help

import (
	"github.com/maruel/subcommands"
)

// Cmd returns the Command for the `help` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "help [<command>|-advanced]",
		ShortDesc: "prints help about a command",
		LongDesc:  "Prints commands or help about a specific command.\nUse -advanced to display all commands.",
		CommandRun: func() subcommands.CommandRun {
			ret := &helpCmdRun{}
			ret.Flags.BoolVar(&ret.advanced, "advanced", false, "show advanced commands")
			return ret
		},
	}
}

type helpCmdRun struct {
	subcommands.CommandRunBase
	advanced bool
}

func (h *helpCmdRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) == 0 {
		subcommands.Usage(a.GetOut(), a, h.advanced)
		return 0
	}
	// subcommands.CmdHelp prints usage and flags of the command.
	return subcommands.CmdHelp.CommandRun().Run(a, args, env)
}
