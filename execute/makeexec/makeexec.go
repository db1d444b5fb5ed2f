// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeexec runs make for kernel projects.
package makeexec

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"go.chromium.org/infra/build/kernelproj/execute"
	"go.chromium.org/infra/build/kernelproj/execute/localexec"
	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/sync/semaphore"
	"go.chromium.org/infra/build/kernelproj/toolsupport/shutil"
)

// Invoker runs make targets.
// It implements project.BuildInvoker and project.ConfigMaterializer.
//
// Runs in the same directory are serialized, since concurrent makes
// in a kernel tree step on each other's outputs.
type Invoker struct {
	// Make is a make command line, e.g. "make -j8".
	// "make" if empty.
	Make string

	// Env is the environment of make. nil to inherit.
	Env []string

	// Stdout and Stderr receive make's output if set.
	Stdout io.Writer
	Stderr io.Writer

	// Executor runs make. localexec if nil.
	Executor execute.Executor
}

// Job is a running make.
type Job struct {
	cmd  *execute.Cmd
	done chan struct{}
	err  error
}

// Wait waits for make to finish and returns its error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// Cmd returns the make command of the job.
// Its result is valid after Wait returns.
func (j *Job) Cmd() *execute.Cmd {
	return j.cmd
}

// ExecuteMakeTargets starts `make <vars> <targets>` in dir.
// The error, if any, is reported by Wait of the returned job.
func (m *Invoker) ExecuteMakeTargets(ctx context.Context, dir string, targets []string, vars []project.MakeVar) project.Job {
	j := &Job{done: make(chan struct{})}
	j.cmd, j.err = m.cmd(dir, targets, vars)
	if j.err != nil {
		close(j.done)
		return j
	}
	go func() {
		defer close(j.done)
		j.err = m.run(ctx, j.cmd)
	}()
	return j
}

// MaterializeDefconfig runs `make <vars> <name>_defconfig` in dir and
// waits for it.
func (m *Invoker) MaterializeDefconfig(ctx context.Context, dir string, vars []project.MakeVar, name string) error {
	cmd, err := m.cmd(dir, []string{name + "_defconfig"}, vars)
	if err != nil {
		return err
	}
	return m.run(ctx, cmd)
}

func (m *Invoker) cmd(dir string, targets []string, vars []project.MakeVar) (*execute.Cmd, error) {
	mk := m.Make
	if mk == "" {
		mk = "make"
	}
	args, err := shutil.Split(mk)
	if err != nil {
		return nil, fmt.Errorf("bad make command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("bad make command: %q", mk)
	}
	for _, v := range vars {
		args = append(args, v.String())
	}
	args = append(args, targets...)
	cmd := &execute.Cmd{
		ID:   uuid.NewString(),
		Desc: shutil.Join(append([]string{"make"}, targets...)),
		Args: args,
		Env:  m.Env,
		Dir:  dir,
	}
	cmd.SetStdoutWriter(m.Stdout)
	cmd.SetStderrWriter(m.Stderr)
	return cmd, nil
}

func (m *Invoker) run(ctx context.Context, cmd *execute.Cmd) error {
	ex := m.Executor
	if ex == nil {
		ex = localexec.LocalExec{}
	}
	sema := semaphore.Get("make:"+cmd.Dir, 1)
	if n := sema.NumServs(); n > 0 {
		log.Infof("%s: wait for other make in %s running=%d waiting=%d", cmd.Desc, cmd.Dir, n, sema.NumWaits())
	}
	return sema.Do(ctx, func(ctx context.Context) error {
		log.Infof("%s: %s in %s (run #%d)", cmd.Desc, cmd.Command(), cmd.Dir, sema.NumRequests())
		err := ex.Run(ctx, cmd)
		if err != nil {
			return fmt.Errorf("%s failed: %w", cmd.Desc, err)
		}
		return nil
	})
}
