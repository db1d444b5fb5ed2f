// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"path/filepath"
	"sort"
)

// IncludeDirectories returns include directories in search order.
//
//	<root>/include
//	<bdir>/include                       (if bdir != root)
//	<root>/arch/<arch>/include           (if arch is set)
//	<root>/arch/<arch>/<machdir>/include (for each machine dir found so far)
//	<bdir>/arch/<arch>/include/generated (if arch is set)
//
// Machine dirs are discovered while parsing Makefiles, so the list
// may grow as more directories are queried.
// Duplicates are not removed.
func (p *Project) IncludeDirectories() []string {
	bdir := p.BuildRoot()
	dirs := []string{filepath.Join(p.root, "include")}
	if bdir != p.root {
		dirs = append(dirs, filepath.Join(bdir, "include"))
	}
	arch := p.Arch()
	if arch == "" {
		return dirs
	}
	archDir := filepath.Join(p.root, "arch", arch)
	dirs = append(dirs, filepath.Join(archDir, "include"))
	for _, m := range p.MachineDirs() {
		dirs = append(dirs, filepath.Join(archDir, m, "include"))
	}
	dirs = append(dirs, filepath.Join(bdir, "arch", arch, "include", "generated"))
	return dirs
}

// MachineDirs returns mach-*/plat-* directory names discovered so far,
// sorted.
func (p *Project) MachineDirs() []string {
	p.mu.RLock()
	dirs := make([]string, 0, len(p.machDirs))
	for m := range p.machDirs {
		dirs = append(dirs, m)
	}
	p.mu.RUnlock()
	sort.Strings(dirs)
	return dirs
}
