// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package projflags

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/kernelproj/projconfig"
	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/ui"
)

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	f := &Flags{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Register(fs)
	err := fs.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q)=%v; want nil", args, err)
	}
	return f
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, DefaultProjectFile), []byte(`[Kernel]
arch = x86
crossCompile = x86_64-linux-gnu-
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	f := parseFlags(t, "-C", dir, "-arch", "arm", "-O", "out")
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config()=_, %v; want nil error", err)
	}
	got := map[string]string{}
	for _, key := range []string{project.KeyArch, project.KeyBuildDir, project.KeyCrossCompile, project.KeyDefaultConfig} {
		v, ok := cfg.Get(project.Group, key)
		if ok {
			got[key] = v
		}
	}
	want := map[string]string{
		project.KeyArch:         "arm",
		project.KeyBuildDir:     "out",
		project.KeyCrossCompile: "x86_64-linux-gnu-",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Config() -want +got:\n%s", diff)
	}
}

func TestOpenSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := parseFlags(t, "-C", dir, "-arch", "arm64", "-save")
	s, p, err := f.Open(ctx, project.Options{})
	if err != nil {
		t.Fatalf("Open=_, _, %v; want nil error", err)
	}
	defer s.CloseAll()
	if got := p.Arch(); got != "arm64" {
		t.Errorf("Arch()=%q; want %q", got, "arm64")
	}
	cfg, err := projconfig.Load(filepath.Join(dir, DefaultProjectFile))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := cfg.Get(project.Group, project.KeyArch); v != "arm64" {
		t.Errorf("saved %s=%q; want %q", project.KeyArch, v, "arm64")
	}
	if v, _ := cfg.Get(project.GroupProject, project.KeyLanguage); v != "C" {
		t.Errorf("saved %s=%q; want %q", project.KeyLanguage, v, "C")
	}
}

func TestOpenWithoutSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := parseFlags(t, "-C", dir, "-arch", "arm64")
	s, _, err := f.Open(ctx, project.Options{})
	if err != nil {
		t.Fatalf("Open=_, _, %v; want nil error", err)
	}
	defer s.CloseAll()
	_, err = os.Stat(filepath.Join(dir, DefaultProjectFile))
	if !os.IsNotExist(err) {
		t.Errorf("project file exists (err=%v); want not exist without -save", err)
	}
}

type fakeUI struct {
	infos, warns []string
}

func (u *fakeUI) Infof(format string, args ...any) {
	u.infos = append(u.infos, fmt.Sprintf(format, args...))
}

func (u *fakeUI) Warningf(format string, args ...any) {
	u.warns = append(u.warns, fmt.Sprintf(format, args...))
}

func (u *fakeUI) Errorf(format string, args ...any) {}

func (u *fakeUI) NewSpinner() ui.Spinner { return ui.LogUI{}.NewSpinner() }

func TestController(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"multi_v7_defconfig", "omap2plus_defconfig"} {
		fname := filepath.Join(dir, "arch", "arm", "configs", name)
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, nil, 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	u := &fakeUI{}
	f := parseFlags(t, "-C", dir, "-arch", "arm")
	s, _, err := f.Open(ctx, project.Options{Controller: Controller{UI: u}})
	if err != nil {
		t.Fatalf("Open=_, _, %v; want nil error", err)
	}
	defer s.CloseAll()
	if len(u.warns) != 1 || !strings.Contains(u.warns[0], "multi_v7, omap2plus") {
		t.Errorf("warnings=%q; want a warning listing defconfigs", u.warns)
	}
}
