// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package localexec implements local command execution.
package localexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/kernelproj/execute"
	"go.chromium.org/infra/build/kernelproj/runtimex"
	"go.chromium.org/infra/build/kernelproj/sync/semaphore"
)

// LocalExec implements execute.Executor interface that runs commands locally.
type LocalExec struct{}

// Run runs cmd with LocalExec.
func Run(ctx context.Context, cmd *execute.Cmd) error {
	return LocalExec{}.Run(ctx, cmd)
}

var forkSema = semaphore.New("fork", runtimex.NumCPU())

// Run runs a cmd.
// It returns *execute.ExitError if the cmd exits with non-zero status.
func (LocalExec) Run(ctx context.Context, cmd *execute.Cmd) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("no arguments in the command. ID: %s", cmd.ID)
	}
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdout = cmd.StdoutWriter()
	c.Stderr = cmd.StderrWriter()

	s := time.Now()
	err := forkSema.Do(ctx, func(ctx context.Context) error {
		return c.Start()
	})
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Command(), err)
	}
	err = c.Wait()
	res := execute.Result{
		ExitCode: exitCode(err),
		Duration: time.Since(s),
	}
	if c.ProcessState != nil {
		res.Rusage = rusage(c)
	}
	cmd.SetResult(res)
	log.Infof("%s exit=%d stdout=%d stderr=%d in %s", cmd, res.ExitCode, len(cmd.Stdout()), len(cmd.Stderr()), res.Duration)
	if res.Rusage != nil {
		log.Debugf("%s maxrss=%dKB utime=%s stime=%s", cmd, res.Rusage.MaxRSS, res.Rusage.Utime, res.Rusage.Stime)
	}
	if res.ExitCode != 0 {
		return &execute.ExitError{ExitCode: res.ExitCode}
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 1
	}
	if w, ok := eerr.ProcessState.Sys().(syscall.WaitStatus); ok {
		if w.Signaled() {
			return 128 + int(w.Signal())
		}
		return w.ExitStatus()
	}
	return 1
}
