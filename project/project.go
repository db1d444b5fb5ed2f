// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package project manages a Linux kernel source tree as a project.
//
// It decides which files are part of the active build configuration
// from the selected architecture, the .config and the Kbuild rules in
// each directory's Makefile, and provides include directories, defines
// and make actions for the tree.
//
// Queries are best-effort: a missing or unreadable .config or Makefile
// results in fewer valid files, never in an error.
package project

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"go.chromium.org/infra/build/kernelproj/toolsupport/kconfigutil"
)

// Configuration groups and keys read from Config.
const (
	Group = "Kernel"

	KeyBuildDir      = "buildDir"
	KeyArch          = "arch"
	KeyCrossCompile  = "crossCompile"
	KeyDefaultConfig = "defaultConfig"
	KeyValidFiles    = "validFiles"

	GroupProject = "Project"
	KeyLanguage  = "Language"

	GroupMakeBuilder    = "MakeBuilder"
	KeyDefaultTarget    = "Default Target"
	KeyResolveUsingMake = "Resolve Using Make"
)

// Config is a project configuration store owned by the host.
type Config interface {
	// Get returns the value of key in group, and whether it is set.
	Get(group, key string) (string, bool)
	// Strings returns the list value of key in group.
	Strings(group, key string) []string
	// Set sets key in group.
	Set(group, key, value string)
}

// MakeVar is a variable passed to make on the command line.
type MakeVar struct {
	Name  string
	Value string
}

func (v MakeVar) String() string {
	return v.Name + "=" + v.Value
}

// Job is a handle of a running make.
type Job interface {
	// Wait waits for the job to finish.
	Wait() error
}

// BuildInvoker runs make targets asynchronously.
type BuildInvoker interface {
	ExecuteMakeTargets(ctx context.Context, dir string, targets []string, vars []MakeVar) Job
}

// ConfigMaterializer runs `make <vars> <name>_defconfig` in dir
// and blocks until it finishes.
type ConfigMaterializer interface {
	MaterializeDefconfig(ctx context.Context, dir string, vars []MakeVar, name string) error
}

// Controller lets the user configure the project, e.g. pick a defconfig,
// when the build root has no .config.
type Controller interface {
	ConfigureProject(ctx context.Context, p *Project)
}

// Options are collaborators of projects in a session.
// Any of them may be nil.
type Options struct {
	Builder      BuildInvoker
	Materializer ConfigMaterializer
	Controller   Controller
}

// Stats are counters of a project. Diagnostics only.
type Stats struct {
	// Parses is the number of Makefile parses.
	Parses int64
	// Queries is the number of IsValid calls.
	Queries int64
}

// Project is a kernel source tree opened in a session.
type Project struct {
	id   string
	root string
	cfg  Config
	opts Options

	sf singleflight.Group

	mu sync.RWMutex
	// gen is incremented whenever the caches are dropped.
	// A Makefile parse started in an older generation is discarded.
	gen      int64
	closed   bool
	symbols  kconfigutil.Symbols
	idx      *index
	machDirs map[string]bool

	parses  atomic.Int64
	queries atomic.Int64
}

func newProject(id, root string, cfg Config, opts Options) *Project {
	p := &Project{
		id:   id,
		root: root,
		cfg:  cfg,
		opts: opts,
	}
	p.resetLocked()
	return p
}

// resetLocked drops all caches. p.mu must be held.
func (p *Project) resetLocked() {
	p.gen++
	p.symbols = kconfigutil.Symbols{}
	p.idx = newIndex()
	p.machDirs = make(map[string]bool)
}

// ID returns the identity of the project in its session.
func (p *Project) ID() string { return p.id }

// Root returns the absolute path of the kernel source tree.
func (p *Project) Root() string { return p.root }

// Config returns the configuration store of the project.
func (p *Project) Config() Config { return p.cfg }

// Stats returns counters of the project.
func (p *Project) Stats() Stats {
	return Stats{
		Parses:  p.parses.Load(),
		Queries: p.queries.Load(),
	}
}

// Arch returns the configured architecture, or empty.
func (p *Project) Arch() string {
	arch, _ := p.cfg.Get(Group, KeyArch)
	return arch
}

// BuildRoot returns the build output directory (O=).
// It is the project root unless buildDir is configured.
func (p *Project) BuildRoot() string {
	bdir, ok := p.cfg.Get(Group, KeyBuildDir)
	if !ok || bdir == "" {
		return p.root
	}
	if !filepath.IsAbs(bdir) {
		bdir = filepath.Join(p.root, bdir)
	}
	return filepath.Clean(bdir)
}

// Symbols returns a copy of the config symbol table.
func (p *Project) Symbols() kconfigutil.Symbols {
	p.mu.RLock()
	defer p.mu.RUnlock()
	syms := make(kconfigutil.Symbols, len(p.symbols))
	for k, v := range p.symbols {
		syms[k] = v
	}
	return syms
}

// Defines returns macros for the code model: config symbols and __KERNEL__.
func (p *Project) Defines() map[string]string {
	defs := map[string]string(p.Symbols())
	defs["__KERNEL__"] = ""
	return defs
}
