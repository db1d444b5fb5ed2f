// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/kernelproj/toolsupport/makeutil"
)

// IsValid reports whether path belongs to the project.
//
// Decision order, first match wins:
//  1. refresh the containing directory's facts if its Makefile changed.
//  2. path is in an include directory.
//  3. path is in Documentation.
//  4. path is a header or a Makefile.
//  5. path is a Kconfig file.
//  6. name is a valid member of the containing directory.
//  7. path is listed in the user's validFiles.
//
// isDir is accepted for the host's walker; directories and files are
// decided by the same rules.
func (p *Project) IsValid(path string, isDir bool) bool {
	p.queries.Add(1)
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	ctx := context.Background()
	p.refresh(ctx, dir)

	valid, reason := p.decide(path, dir, name)
	log.Debugf("valid %s dir=%t => %t %s", path, isDir, valid, reason)
	return valid
}

func (p *Project) decide(path, dir, name string) (bool, string) {
	for _, inc := range p.IncludeDirectories() {
		if within(path, inc) {
			return true, "include"
		}
	}
	if within(path, filepath.Join(p.root, "Documentation")) {
		return true, "documentation"
	}
	if strings.HasSuffix(path, ".h") || name == "Makefile" {
		return true, "header-or-makefile"
	}
	if isKconfig(name) {
		return true, "kconfig"
	}
	p.mu.RLock()
	member := p.idx.has(dir, name)
	p.mu.RUnlock()
	if member {
		return true, "makefile"
	}
	rel, err := filepath.Rel(p.root, path)
	if err == nil && slices.Contains(p.cfg.Strings(Group, KeyValidFiles), filepath.ToSlash(rel)) {
		return true, "user"
	}
	return false, ""
}

// within reports whether path is dir or under dir.
func within(path, dir string) bool {
	dir = filepath.Clean(dir)
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

func isKconfig(name string) bool {
	return name == "Kconfig" || strings.HasPrefix(name, "Kconfig.")
}

// ValidFiles returns valid member names of dir known so far.
// It doesn't refresh dir.
func (p *Project) ValidFiles(dir string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.idx.members(filepath.Clean(dir))
}

// refresh parses dir's Makefile if its modification time differs from
// the one seen at the last parse.
func (p *Project) refresh(ctx context.Context, dir string) {
	if _, ok := p.staleMakefile(dir); !ok {
		return
	}
	// concurrent queries in the same directory share a parse.
	p.sf.Do(dir, func() (any, error) {
		// another parse may have finished before this flight started.
		mtime, ok := p.staleMakefile(dir)
		if !ok {
			return nil, nil
		}
		p.parseMakefile(ctx, dir, mtime)
		return nil, nil
	})
}

// staleMakefile returns modification time of dir's Makefile, and
// whether dir needs a parse. A Makefile replaced by an older one
// (e.g. `cp -p` or `tar x`) is also stale.
func (p *Project) staleMakefile(dir string) (time.Time, bool) {
	fi, err := os.Stat(filepath.Join(dir, "Makefile"))
	if err != nil {
		return time.Time{}, false
	}
	p.mu.RLock()
	closed := p.closed
	last := p.idx.mtime(dir)
	p.mu.RUnlock()
	if closed {
		return time.Time{}, false
	}
	return fi.ModTime(), last.IsZero() || !fi.ModTime().Equal(last)
}

// parseMakefile parses dir's Makefile and stores the facts.
// The entry records mtime even if the Makefile can't be read,
// so an unreadable Makefile is not read again until it is modified.
func (p *Project) parseMakefile(ctx context.Context, dir string, mtime time.Time) {
	t := time.Now()
	p.mu.RLock()
	gen := p.gen
	syms := p.symbols
	p.mu.RUnlock()
	arch := p.Arch()

	fname := filepath.Join(dir, "Makefile")
	rules, err := makeutil.ParseRulesFile(ctx, fname)
	if err != nil {
		log.Warnf("failed to parse %s: %v", fname, err)
	}
	facts := ExtractFacts(dir, rules, syms, arch)
	p.parses.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		log.Debugf("discard facts of %s: project reset during parse", dir)
		return
	}
	p.idx.apply(facts, mtime)
	for _, m := range facts.MachDirs {
		p.machDirs[m] = true
	}
	log.Debugf("parsed %s: members=%d pushes=%d machdirs=%d in %s", fname, len(facts.Members), len(facts.Pushes), len(facts.MachDirs), time.Since(t))
}
