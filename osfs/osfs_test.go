// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package osfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/kernelproj/o11y/iometrics"
)

func TestOSFS(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"Makefile", "Kconfig"} {
		err := os.WriteFile(filepath.Join(dir, name), nil, 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	err := os.Mkdir(filepath.Join(dir, "drivers"), 0755)
	if err != nil {
		t.Fatal(err)
	}

	fsys := New("test")
	ents, err := fsys.ReadDir(ctx, dir)
	if err != nil {
		t.Fatalf("ReadDir(ctx, %q)=_, %v; want nil error", dir, err)
	}
	var names []string
	for _, ent := range ents {
		names = append(names, ent.Name())
	}
	if diff := cmp.Diff([]string{"Kconfig", "Makefile", "drivers"}, names); diff != "" {
		t.Errorf("ReadDir -want +got:\n%s", diff)
	}
	fi, err := fsys.Stat(ctx, filepath.Join(dir, "drivers"))
	if err != nil || !fi.IsDir() {
		t.Errorf("Stat(ctx, drivers)=%v, %v; want dir", fi, err)
	}
	_, err = fsys.Stat(ctx, filepath.Join(dir, "nonexistent"))
	if err == nil {
		t.Errorf("Stat(ctx, nonexistent)=_, nil; want error")
	}
	want := iometrics.Stats{Ops: 3, OpsErrs: 1, Entries: 3}
	if diff := cmp.Diff(want, fsys.Stats()); diff != "" {
		t.Errorf("Stats() -want +got:\n%s", diff)
	}
}
