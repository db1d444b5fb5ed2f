// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iometrics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIOMetrics(t *testing.T) {
	m := New("walk")
	m.OpsDone(nil)
	m.OpsDone(errors.New("not exist"))
	m.EntriesRead(3)
	m.EntriesRead(2)
	want := Stats{Ops: 2, OpsErrs: 1, Entries: 5}
	if diff := cmp.Diff(want, m.Stats()); diff != "" {
		t.Errorf("Stats() -want +got:\n%s", diff)
	}
	if got, want := m.Stats().String(), "ops=2 errs=1 entries=5"; got != want {
		t.Errorf("Stats().String()=%q; want %q", got, want)
	}
}

func TestIOMetricsNil(t *testing.T) {
	var m *IOMetrics
	m.OpsDone(nil)
	m.EntriesRead(1)
	if got := m.Stats(); got != (Stats{}) {
		t.Errorf("Stats()=%v; want zero", got)
	}
	if got, want := m.Name(), "<nil>"; got != want {
		t.Errorf("Name()=%q; want %q", got, want)
	}
}
