// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"sort"
	"time"
)

// entry holds valid file and subdirectory names in a directory.
type entry struct {
	// mtime is the modification time of the directory's Makefile
	// at the last parse. zero if it has never been parsed.
	mtime time.Time

	// own are names listed by active rules of the directory's Makefile.
	own map[string]bool
	// suppressed are names listed only by inactive rules of the
	// directory's Makefile. They hide seeded names.
	suppressed map[string]bool
	// pushed are names pushed by Makefiles of other directories
	// (or the directory itself), keyed by the source directory.
	pushed map[string]map[string]bool
	// seeded are names given at import.
	seeded map[string]bool
}

func (e *entry) has(name string) bool {
	if e.own[name] {
		return true
	}
	for _, names := range e.pushed {
		if names[name] {
			return true
		}
	}
	return e.seeded[name] && !e.suppressed[name]
}

func (e *entry) members() []string {
	m := make(map[string]bool)
	for name := range e.own {
		m[name] = true
	}
	for _, names := range e.pushed {
		for name := range names {
			m[name] = true
		}
	}
	for name := range e.seeded {
		if !e.suppressed[name] {
			m[name] = true
		}
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// index is the valid files index of a project, keyed by directory.
type index struct {
	entries map[string]*entry
	// fanout records directories each source directory pushed names to.
	fanout map[string][]string
}

func newIndex() *index {
	return &index{
		entries: make(map[string]*entry),
		fanout:  make(map[string][]string),
	}
}

func (x *index) get(dir string) *entry {
	e, ok := x.entries[dir]
	if !ok {
		e = &entry{}
		x.entries[dir] = e
	}
	return e
}

func (x *index) mtime(dir string) time.Time {
	e, ok := x.entries[dir]
	if !ok {
		return time.Time{}
	}
	return e.mtime
}

func (x *index) has(dir, name string) bool {
	e, ok := x.entries[dir]
	if !ok {
		return false
	}
	return e.has(name)
}

func (x *index) members(dir string) []string {
	e, ok := x.entries[dir]
	if !ok {
		return nil
	}
	return e.members()
}

func (x *index) seed(dir string, names ...string) {
	e := x.get(dir)
	if e.seeded == nil {
		e.seeded = make(map[string]bool)
	}
	for _, name := range names {
		e.seeded[name] = true
	}
}

// apply stores facts parsed from a Makefile modified at mtime.
// It replaces the names the directory listed or pushed by the previous
// parse. Names pushed by other directories are kept.
func (x *index) apply(f *Facts, mtime time.Time) {
	e := x.get(f.Dir)
	e.mtime = mtime
	e.own = setOf(f.Members)
	e.suppressed = setOf(f.Suppressed)

	for _, dir := range x.fanout[f.Dir] {
		if de, ok := x.entries[dir]; ok {
			delete(de.pushed, f.Dir)
		}
	}
	delete(x.fanout, f.Dir)
	for dir, names := range f.Pushes {
		de := x.get(dir)
		if de.pushed == nil {
			de.pushed = make(map[string]map[string]bool)
		}
		de.pushed[f.Dir] = setOf(names)
		x.fanout[f.Dir] = append(x.fanout[f.Dir], dir)
	}
}

func setOf(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return m
}
