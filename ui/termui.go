// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// DurationThreshold is the duration below which a finished spinner
// is erased instead of reported.
const DurationThreshold = 1 * time.Second

type termSpinner struct {
	w          io.Writer
	width      int
	quit, done chan struct{}
	started    time.Time
	n          int
	msg        string
}

// Start starts the spinner.
func (s *termSpinner) Start(format string, args ...any) {
	s.started = time.Now()
	s.msg = fmt.Sprintf(format, args...)
	if s.width > 0 {
		// leave room for duration and spinner.
		s.msg = elideMiddle(s.msg, s.width-10)
	}
	fmt.Fprintf(s.w, "%s... ", s.msg)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-s.quit:
				return
			case <-ticker.C:
				const chars = `/-\|`
				fmt.Fprintf(s.w, "\b%c", chars[s.n])
				s.n = (s.n + 1) % len(chars)
			}
		}
	}()
}

func (s *termSpinner) stop() time.Duration {
	close(s.quit)
	<-s.done
	return time.Since(s.started)
}

// Stop stops the spinner.
func (s *termSpinner) Stop(err error) {
	d := s.stop()
	if err != nil {
		fmt.Fprintf(s.w, "\r\033[K%6s %s %s %v\n", FormatDuration(d), s.msg, SGR(Red, "failed"), err)
		return
	}
	if d < DurationThreshold {
		fmt.Fprintf(s.w, "\r\033[K")
		return
	}
	fmt.Fprintf(s.w, "\r\033[K%6s %s\n", FormatDuration(d), s.msg)
}

// Done finishes the spinner with message.
func (s *termSpinner) Done(format string, args ...any) {
	d := s.stop()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.w, "\r\033[K%6s %s %s\n", FormatDuration(d), s.msg, msg)
}

// TermUI is a terminal-based UI.
type TermUI struct {
	width int

	mu sync.Mutex
}

func (t *TermUI) init() {
	t.width, _, _ = term.GetSize(int(os.Stdout.Fd()))
}

// NewSpinner returns a terminal-based spinner.
func (t *TermUI) NewSpinner() Spinner {
	return &termSpinner{w: os.Stdout, width: t.width}
}

// Infof reports a line to stdout.
func (t *TermUI) Infof(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(os.Stdout, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// Warningf reports a line to stderr in yellow.
func (t *TermUI) Warningf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(os.Stderr, SGR(Yellow, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")))
}

// Errorf reports a line to stderr in red.
func (t *TermUI) Errorf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(os.Stderr, SGR(Red, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")))
}
