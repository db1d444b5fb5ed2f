// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.chromium.org/infra/build/kernelproj/projconfig"
)

// setupFiles creates files under dir. Keys are slash separated paths.
func setupFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		fname := filepath.Join(dir, filepath.FromSlash(name))
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// openProject opens a project on a temp dir populated with files.
func openProject(t *testing.T, files map[string]string, settings map[string]string, opts Options) (*Session, *Project) {
	t.Helper()
	ctx := context.Background()
	root := t.TempDir()
	setupFiles(t, root, files)
	cfg := projconfig.New()
	for k, v := range settings {
		cfg.Set(Group, k, v)
	}
	s := NewSession(opts)
	p, err := s.Open(ctx, root, cfg)
	if err != nil {
		t.Fatalf("Open(ctx, %q, cfg)=%v; want nil error", root, err)
	}
	t.Cleanup(s.CloseAll)
	return s, p
}

func path(p *Project, name string) string {
	return filepath.Join(p.Root(), filepath.FromSlash(name))
}

type makeCall struct {
	Dir     string
	Targets []string
	Vars    []MakeVar
}

type fakeJob struct{}

func (fakeJob) Wait() error { return nil }

type fakeBuilder struct {
	mu    sync.Mutex
	calls []makeCall
}

func (b *fakeBuilder) ExecuteMakeTargets(ctx context.Context, dir string, targets []string, vars []MakeVar) Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, makeCall{Dir: dir, Targets: targets, Vars: vars})
	return fakeJob{}
}

// fakeMaterializer writes .config content into the build root
// as `make <name>_defconfig` would.
type fakeMaterializer struct {
	content string
	calls   []makeCall
}

func (m *fakeMaterializer) MaterializeDefconfig(ctx context.Context, dir string, vars []MakeVar, name string) error {
	m.calls = append(m.calls, makeCall{Dir: dir, Targets: []string{name + "_defconfig"}, Vars: vars})
	bdir := dir
	for _, v := range vars {
		if v.Name == "O" {
			bdir = v.Value
		}
	}
	err := os.MkdirAll(bdir, 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(bdir, ".config"), []byte(m.content), 0644)
}

type fakeController struct {
	called  int
	content string
	// query is queried before .config is written.
	query string
}

func (c *fakeController) ConfigureProject(ctx context.Context, p *Project) {
	c.called++
	if c.query != "" {
		p.IsValid(path(p, c.query), false)
	}
	if c.content == "" {
		return
	}
	err := os.WriteFile(filepath.Join(p.BuildRoot(), ".config"), []byte(c.content), 0644)
	if err != nil {
		panic(err)
	}
}
