// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package projflags provides flags and setup shared by subcommands
// that open a kernel project.
package projflags

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/kernelproj/execute/makeexec"
	"go.chromium.org/infra/build/kernelproj/projconfig"
	"go.chromium.org/infra/build/kernelproj/project"
	"go.chromium.org/infra/build/kernelproj/ui"
)

// DefaultProjectFile is the project file name in a kernel tree.
const DefaultProjectFile = ".kernelproj.ini"

// Flags are common flags of project subcommands.
type Flags struct {
	Dir          string
	ProjectFile  string
	Arch         string
	BuildDir     string
	CrossCompile string
	DefConfig    string
	Make         string
	Save         bool
	Verbose      bool
}

// Register registers flags in fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Dir, "C", ".", "kernel source tree")
	fs.StringVar(&f.ProjectFile, "project_file", DefaultProjectFile, "project file. relative to -C")
	fs.StringVar(&f.Arch, "arch", "", "architecture (ARCH=). overrides project file")
	fs.StringVar(&f.BuildDir, "O", "", "build directory (O=). relative to -C. overrides project file")
	fs.StringVar(&f.CrossCompile, "cross_compile", "", "cross compiler prefix (CROSS_COMPILE=). overrides project file")
	fs.StringVar(&f.DefConfig, "defconfig", "", "default config name without _defconfig, used when the build directory has no .config. overrides project file")
	fs.StringVar(&f.Make, "make", "make", "make command line")
	fs.BoolVar(&f.Save, "save", false, "save overrides to the project file")
	fs.BoolVar(&f.Verbose, "v", false, "verbose logging")
}

// Config loads the project file and applies overrides from flags.
func (f *Flags) Config() (*projconfig.File, error) {
	fname := f.ProjectFile
	if !filepath.IsAbs(fname) {
		fname = filepath.Join(f.Dir, fname)
	}
	cfg, err := projconfig.Load(fname)
	if err != nil {
		return nil, err
	}
	for _, o := range []struct {
		key, value string
	}{
		{project.KeyArch, f.Arch},
		{project.KeyBuildDir, f.BuildDir},
		{project.KeyCrossCompile, f.CrossCompile},
		{project.KeyDefaultConfig, f.DefConfig},
	} {
		if o.value == "" {
			continue
		}
		log.Debugf("override %s/%s=%q", project.Group, o.key, o.value)
		cfg.Set(project.Group, o.key, o.value)
	}
	return cfg, nil
}

// Invoker returns a make invoker writing make output to stdout and stderr.
func (f *Flags) Invoker(stdout, stderr io.Writer) *makeexec.Invoker {
	return &makeexec.Invoker{
		Make:   f.Make,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// Open opens the project in f.Dir with opts.
// The caller should close the returned session.
func (f *Flags) Open(ctx context.Context, opts project.Options) (*project.Session, *project.Project, error) {
	if f.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, nil, err
	}
	s := project.NewSession(opts)
	p, err := s.Open(ctx, f.Dir, cfg)
	if err != nil {
		return nil, nil, err
	}
	if f.Save {
		err = cfg.Save()
		if err != nil {
			s.CloseAll()
			return nil, nil, fmt.Errorf("failed to save %s: %w", cfg.Filename(), err)
		}
		log.Infof("saved %s", cfg.Filename())
	}
	return s, p, nil
}

// Controller asks the user to configure a project that has no .config.
// It can't show dialogs, so it lists defconfigs to choose with -defconfig.
type Controller struct {
	UI ui.UI
}

// ConfigureProject implements project.Controller.
func (c Controller) ConfigureProject(ctx context.Context, p *project.Project) {
	u := c.UI
	if u == nil {
		u = ui.Default
	}
	if name, _ := p.Config().Get(project.Group, project.KeyDefaultConfig); name != "" {
		u.Infof("no .config in %s. generating it by %s_defconfig", p.BuildRoot(), name)
		return
	}
	msg := fmt.Sprintf("no .config in %s. run `make defconfig` or set -defconfig", p.BuildRoot())
	if defconfigs := p.ListDefconfigs(); len(defconfigs) > 0 {
		msg += fmt.Sprintf(" (one of %s)", strings.Join(defconfigs, ", "))
	} else if p.Arch() == "" {
		msg += " with -arch"
	}
	u.Warningf("%s", msg)
}
