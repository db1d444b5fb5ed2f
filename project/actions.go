// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// MakeVars returns make variables for the project:
// O=<buildDir>, ARCH=<arch> and CROSS_COMPILE=<crossCompile>, when set.
func (p *Project) MakeVars() []MakeVar {
	var vars []MakeVar
	if bdir, ok := p.cfg.Get(Group, KeyBuildDir); ok && bdir != "" {
		vars = append(vars, MakeVar{Name: "O", Value: p.BuildRoot()})
	}
	if arch := p.Arch(); arch != "" {
		vars = append(vars, MakeVar{Name: "ARCH", Value: arch})
	}
	if cross, ok := p.cfg.Get(Group, KeyCrossCompile); ok && cross != "" {
		vars = append(vars, MakeVar{Name: "CROSS_COMPILE", Value: cross})
	}
	return vars
}

// BuildDirectory returns the directory make runs in.
func (p *Project) BuildDirectory() string {
	return p.root
}

// Build runs the default make targets.
// It returns nil if no builder is available.
func (p *Project) Build(ctx context.Context) Job {
	target, _ := p.cfg.Get(GroupMakeBuilder, KeyDefaultTarget)
	return p.jobForTargets(ctx, strings.Fields(target))
}

// Clean runs `make clean`.
func (p *Project) Clean(ctx context.Context) Job {
	return p.jobForTargets(ctx, []string{"clean"})
}

// Configure runs `make xconfig`.
func (p *Project) Configure(ctx context.Context) Job {
	return p.jobForTargets(ctx, []string{"xconfig"})
}

// Prune runs `make mrproper`.
func (p *Project) Prune(ctx context.Context) Job {
	return p.jobForTargets(ctx, []string{"mrproper"})
}

// CreateDotConfig runs `make <defaultConfig>_defconfig`.
// It returns nil if defaultConfig is not set.
func (p *Project) CreateDotConfig(ctx context.Context) Job {
	name, _ := p.cfg.Get(Group, KeyDefaultConfig)
	if name == "" {
		return nil
	}
	return p.jobForTargets(ctx, []string{name + "_defconfig"})
}

// Install is not supported for kernel projects. It always returns nil.
func (p *Project) Install(ctx context.Context) Job {
	return nil
}

func (p *Project) jobForTargets(ctx context.Context, targets []string) Job {
	if p.opts.Builder == nil {
		log.Warnf("no builder to run make %q in %s", targets, p.root)
		return nil
	}
	vars := p.MakeVars()
	log.Infof("make %q %q in %s", vars, targets, p.root)
	return p.opts.Builder.ExecuteMakeTargets(ctx, p.root, targets, vars)
}

// ListDefconfigs returns names of arch/<arch>/configs/*_defconfig
// without the _defconfig suffix, sorted.
func (p *Project) ListDefconfigs() []string {
	arch := p.Arch()
	if arch == "" {
		return nil
	}
	ents, err := os.ReadDir(filepath.Join(p.root, "arch", arch, "configs"))
	if err != nil {
		log.Debugf("no defconfigs for %s: %v", arch, err)
		return nil
	}
	var names []string
	for _, ent := range ents {
		name, ok := strings.CutSuffix(ent.Name(), "_defconfig")
		if !ok || ent.IsDir() || name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
