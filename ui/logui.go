// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

type logSpinner struct {
	started time.Time
	msg     string
}

// Start reports the start of the operation.
// A log-based UI can't animate, so the spinner only reports start and end.
func (l *logSpinner) Start(format string, args ...any) {
	l.started = time.Now()
	l.msg = StripANSIEscapeCodes(fmt.Sprintf(format, args...))
	log.Info(l.msg)
}

// Stop reports how long the operation took.
func (l *logSpinner) Stop(err error) {
	if err != nil {
		log.Warnf("%s -> failed %s %v", l.msg, FormatDuration(time.Since(l.started)), err)
		return
	}
	log.Infof("%s -> done %s", l.msg, FormatDuration(time.Since(l.started)))
}

// Done finishes the spinner with message.
func (l *logSpinner) Done(format string, args ...any) {
	log.Infof("%s -> %s %s", l.msg, StripANSIEscapeCodes(fmt.Sprintf(format, args...)), FormatDuration(time.Since(l.started)))
}

// LogUI is a log-based UI.
type LogUI struct{}

// NewSpinner returns a log-based spinner.
func (LogUI) NewSpinner() Spinner {
	return &logSpinner{}
}

// Infof reports to log, stripping ansi escape sequence.
func (LogUI) Infof(format string, args ...any) {
	log.Helper()
	log.Info(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}

// Warningf reports to log, stripping ansi escape sequence.
func (LogUI) Warningf(format string, args ...any) {
	log.Helper()
	log.Warn(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}

// Errorf reports to log, stripping ansi escape sequence.
func (LogUI) Errorf(format string, args ...any) {
	log.Helper()
	log.Error(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}
