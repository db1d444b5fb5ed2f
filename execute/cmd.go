// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execute runs commands.
package execute

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.chromium.org/infra/build/kernelproj/toolsupport/shutil"
)

// Executor is an interface to run the cmd.
type Executor interface {
	Run(ctx context.Context, cmd *Cmd) error
}

// Cmd is a command to run, e.g. make for a kernel tree.
type Cmd struct {
	// ID is used as a unique identifier of the cmd in logs.
	ID string

	// Desc is a short, human-readable description of the cmd.
	// Example: "make clean"
	Desc string

	// Args holds command line arguments.
	Args []string

	// Env specifies the environment of the process.
	// If nil, the process inherits the current environment.
	Env []string

	// Dir specifies the working directory of the cmd.
	Dir string

	stdoutWriter, stderrWriter io.Writer
	stdoutBuffer, stderrBuffer bytes.Buffer

	result Result
}

// Result is a result of the cmd.
type Result struct {
	ExitCode int
	Duration time.Duration
	// Rusage is resource usage of the process. nil if not available.
	Rusage *Rusage
}

// Rusage is resource usage of a process.
type Rusage struct {
	// MaxRSS is max resident set size in kilobytes.
	MaxRSS  int64
	Majflt  int64
	Inblock int64
	Oublock int64
	Utime   time.Duration
	Stime   time.Duration
}

// String returns an ID of the cmd.
func (c *Cmd) String() string {
	return c.ID
}

// Command returns a command line string.
func (c *Cmd) Command() string {
	return shutil.Join(c.Args)
}

// SetStdoutWriter sets w for stdout.
func (c *Cmd) SetStdoutWriter(w io.Writer) {
	c.stdoutWriter = w
}

// SetStderrWriter sets w for stderr.
func (c *Cmd) SetStderrWriter(w io.Writer) {
	c.stderrWriter = w
}

// StdoutWriter returns a writer set for stdout.
// Output is also kept in the cmd.
func (c *Cmd) StdoutWriter() io.Writer {
	c.stdoutBuffer.Reset()
	if c.stdoutWriter == nil {
		return &c.stdoutBuffer
	}
	return io.MultiWriter(c.stdoutWriter, &c.stdoutBuffer)
}

// StderrWriter returns a writer set for stderr.
// Output is also kept in the cmd.
func (c *Cmd) StderrWriter() io.Writer {
	c.stderrBuffer.Reset()
	if c.stderrWriter == nil {
		return &c.stderrBuffer
	}
	return io.MultiWriter(c.stderrWriter, &c.stderrBuffer)
}

// Stdout returns stdout output of the cmd.
func (c *Cmd) Stdout() []byte {
	return c.stdoutBuffer.Bytes()
}

// Stderr returns stderr output of the cmd.
func (c *Cmd) Stderr() []byte {
	return c.stderrBuffer.Bytes()
}

// SetResult sets a result of the cmd.
func (c *Cmd) SetResult(r Result) {
	c.result = r
}

// Result returns a result of the cmd.
func (c *Cmd) Result() Result {
	return c.result
}

// ExitError is an error of cmd exit.
type ExitError struct {
	ExitCode int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit=%d", e.ExitCode)
}
