// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS Filesystem access.
package osfs

import (
	"context"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/kernelproj/o11y/iometrics"
)

// slowOp is the duration an operation is reported as slow.
// Kernel trees on network filesystems may be slow to scan.
const slowOp = 10 * time.Second

// OSFS provides OS Filesystem access.
// It counts metrics by iometrics.
type OSFS struct {
	*iometrics.IOMetrics
}

// New creates new OSFS.
func New(name string) *OSFS {
	return &OSFS{IOMetrics: iometrics.New(name)}
}

func logSlow(ctx context.Context, name string, dur time.Duration, err error) {
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	log.Warnf("slow op %s: %s %v\n%s", name, dur, err, buf[:n])
}

// Stat returns a FileInfo describing the named file.
func (fs *OSFS) Stat(ctx context.Context, fname string) (fs.FileInfo, error) {
	started := time.Now()
	fi, err := os.Stat(fname)
	fs.OpsDone(err)
	if dur := time.Since(started); dur > slowOp {
		logSlow(ctx, fname, dur, err)
	}
	return fi, err
}

// ReadDir reads the named directory and returns its entries sorted
// by filename.
func (fs *OSFS) ReadDir(ctx context.Context, dirname string) ([]fs.DirEntry, error) {
	started := time.Now()
	ents, err := os.ReadDir(dirname)
	fs.OpsDone(err)
	fs.EntriesRead(len(ents))
	if dur := time.Since(started); dur > slowOp {
		logSlow(ctx, dirname, dur, err)
	}
	return ents, err
}
