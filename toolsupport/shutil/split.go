// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil handles shell command lines without invoking a shell.
package shutil

import (
	"fmt"
	"strings"
)

// Split splits a command line into args as sh does for a simple command.
// Single quotes, double quotes and backslash escapes are honored.
// It returns error for a command line that needs a shell to run,
// e.g. pipe line, redirect or expansion, and for unterminated quotes.
func Split(cmdline string) ([]string, error) {
	var args []string
	var sb strings.Builder
	inArg := false
	escaped := false
	var quote rune
	for _, ch := range cmdline {
		if escaped {
			sb.WriteRune(ch)
			escaped = false
			continue
		}
		switch quote {
		case '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			sb.WriteRune(ch)
			continue
		case '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			case '$', '`':
				return nil, fmt.Errorf("failed to split %q: expansion in quote %c", cmdline, ch)
			default:
				sb.WriteRune(ch)
			}
			continue
		}
		switch ch {
		case ' ', '\t', '\n':
			if inArg {
				args = append(args, sb.String())
				sb.Reset()
				inArg = false
			}
		case '\\':
			escaped = true
			inArg = true
		case '\'', '"':
			quote = ch
			inArg = true
		case ';', '&', '|', '<', '>', '$', '`', '(', ')', '#':
			return nil, fmt.Errorf("failed to split %q: cmdline contains shell metachar %c", cmdline, ch)
		default:
			sb.WriteRune(ch)
			inArg = true
		}
	}
	if escaped {
		return nil, fmt.Errorf("failed to split %q: trailing backslash", cmdline)
	}
	if quote != 0 {
		return nil, fmt.Errorf("failed to split %q: unterminated quote %c", cmdline, quote)
	}
	if inArg {
		args = append(args, sb.String())
	}
	return args, nil
}
