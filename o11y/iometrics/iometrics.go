// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package iometrics manages I/O metrics.
package iometrics

import (
	"fmt"
	"sync/atomic"
)

// IOMetrics holds I/O metrics.
type IOMetrics struct {
	name string

	ops     atomic.Int64
	opsErrs atomic.Int64
	entries atomic.Int64
}

// New returns new iometrics for name.
func New(name string) *IOMetrics {
	return &IOMetrics{name: name}
}

// OpsDone counts when an I/O operation is done. err is an I/O operation error.
// e.g. stat, readdir.
func (m *IOMetrics) OpsDone(err error) {
	if m == nil {
		return
	}
	m.ops.Add(1)
	if err != nil {
		m.opsErrs.Add(1)
	}
}

// EntriesRead counts n directory entries read.
func (m *IOMetrics) EntriesRead(n int) {
	if m == nil {
		return
	}
	m.entries.Add(int64(n))
}

// Name returns the name of the iometrics.
func (m *IOMetrics) Name() string {
	if m == nil {
		return "<nil>"
	}
	return m.name
}

// Stats holds iometrics.
type Stats struct {
	// Number of I/O operations.
	Ops int64
	// Number of I/O operation errors.
	OpsErrs int64
	// Number of directory entries read.
	Entries int64
}

func (s Stats) String() string {
	return fmt.Sprintf("ops=%d errs=%d entries=%d", s.Ops, s.OpsErrs, s.Entries)
}

// Stats returns the snapshot of the iometrics.
func (m *IOMetrics) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		Ops:     m.ops.Load(),
		OpsErrs: m.opsErrs.Load(),
		Entries: m.entries.Load(),
	}
}
