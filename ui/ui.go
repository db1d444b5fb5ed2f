// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui provides user interface functionalities.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Spinner shows progress of a long operation, e.g. make or tree walk.
type Spinner interface {
	// Start starts the spinner with the specified formatted string.
	Start(format string, args ...any)
	// Stop stops the spinner, outputting an error if provided.
	Stop(err error)
	// Done finishes the spinner with message.
	Done(format string, args ...any)
}

// UI is a user interface.
type UI interface {
	// Infof reports a message to stdout.
	Infof(format string, args ...any)
	// Warningf reports a warning to stderr.
	Warningf(format string, args ...any)
	// Errorf reports an error to stderr.
	Errorf(format string, args ...any)
	// NewSpinner returns a new spinner.
	NewSpinner() Spinner
}

// Default holds the default UI interface.
// Making changes to this variable after init is undefined behavior.
var Default UI

func init() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		termUI := &TermUI{}
		termUI.init()
		Default = termUI
	} else {
		Default = LogUI{}
	}
}

// IsTerminal returns whether currently using a terminal UI.
func IsTerminal() bool {
	_, ok := Default.(*TermUI)
	return ok
}

// elideMiddle elides msg in the middle to fit in width.
// msg should not contain escape sequences.
func elideMiddle(msg string, width int) string {
	const elideMarker = "..."
	if width <= len(elideMarker) || len(msg) < width {
		return msg
	}
	n := (width - (len(elideMarker) + 1)) / 2
	return msg[:n] + elideMarker + msg[len(msg)-n:]
}

// https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
type SGRCode int

const (
	Bold SGRCode = iota
	Red
	Green
	Yellow
	Reset
)

var sgrEscSeq = map[SGRCode]string{
	Bold:   "\033[1m",
	Red:    "\033[31;1m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Reset:  "\033[0m",
}

func (s SGRCode) String() string {
	return sgrEscSeq[s]
}

// SGR formats s in SGR (select graphic rendition).
func SGR(n SGRCode, s string) string {
	return fmt.Sprintf("%s%s%s", n, s, Reset)
}

// StripANSIEscapeCodes strips ANSI escape codes.
// Only CSI sequences are recognized; a lone ESC is dropped.
func StripANSIEscapeCodes(s string) string {
	if !strings.Contains(s, "\033") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) || s[i+1] != '[' {
			continue
		}
		i += 2
		// skip parameters up to and including the final byte [a-zA-Z].
		for i < len(s) && !isFinalByte(s[i]) {
			i++
		}
	}
	return sb.String()
}

func isFinalByte(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}
