// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/kernelproj/toolsupport/kconfigutil"
)

// subsystemDirs are top-level kernel directories seeded at import.
// They stay valid unless the root Makefile lists them only in inactive
// rules.
var subsystemDirs = []string{
	"init",
	"sound",
	"net",
	"lib",
	"usr",
	"kernel",
	"mm",
	"fs",
	"ipc",
	"security",
	"crypto",
	"block",
	"drivers",
}

// Import (re)imports the project.
//
// It drops all cached facts, forces plain C without make-based include
// resolution in the host config, makes sure the build root has a .config
// (asking the Controller, then running the defconfig), loads config
// symbols and seeds the top-level directories.
func (p *Project) Import(ctx context.Context) {
	p.mu.Lock()
	p.resetLocked()
	p.mu.Unlock()

	p.cfg.Set(GroupProject, KeyLanguage, "C")
	// include directories are provided by IncludeDirectories.
	p.cfg.Set(GroupMakeBuilder, KeyResolveUsingMake, "false")

	dotconfig := filepath.Join(p.BuildRoot(), ".config")
	if !exists(dotconfig) && p.opts.Controller != nil {
		log.Infof("no %s. configure project %s", dotconfig, p.root)
		p.opts.Controller.ConfigureProject(ctx, p)
	}
	syms := p.loadDotConfig(ctx, dotconfig)

	arch := p.Arch()
	p.mu.Lock()
	defer p.mu.Unlock()
	// queries during the Controller or .config load parsed Makefiles
	// without the new symbols.
	p.resetLocked()
	p.symbols = syms
	p.idx.seed(p.root, subsystemDirs...)
	if arch != "" {
		p.idx.seed(p.root, "arch")
		p.idx.seed(filepath.Join(p.root, "arch"), arch)
		p.idx.seed(filepath.Join(p.root, "arch", arch), "boot")
	}
	log.Infof("imported %s arch=%q bdir=%s symbols=%d", p.root, arch, p.BuildRoot(), len(syms))
}

// loadDotConfig parses fname. If fname doesn't exist and defaultConfig
// is set, it runs `make <name>_defconfig` first.
// It returns empty symbols if fname can't be read.
func (p *Project) loadDotConfig(ctx context.Context, fname string) kconfigutil.Symbols {
	if !exists(fname) {
		name, _ := p.cfg.Get(Group, KeyDefaultConfig)
		if name != "" && p.opts.Materializer != nil {
			log.Infof("generate %s by %s_defconfig", fname, name)
			// blocks until make finishes.
			err := p.opts.Materializer.MaterializeDefconfig(ctx, p.root, p.MakeVars(), name)
			if err != nil {
				log.Warnf("failed to run %s_defconfig: %v", name, err)
			}
		}
	}
	syms, err := kconfigutil.ParseFile(ctx, fname)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Infof("no %s", fname)
		} else {
			log.Warnf("failed to load %s: %v", fname, err)
		}
		return kconfigutil.Symbols{}
	}
	return syms
}

func exists(fname string) bool {
	_, err := os.Stat(fname)
	return err == nil
}
