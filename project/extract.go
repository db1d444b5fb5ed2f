// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"path/filepath"
	"strings"

	"go.chromium.org/infra/build/kernelproj/toolsupport/kconfigutil"
	"go.chromium.org/infra/build/kernelproj/toolsupport/makeutil"
)

// Facts are valid files derived from a directory's Makefile.
type Facts struct {
	// Dir is the directory of the Makefile.
	Dir string
	// Members are names listed by active rules, relative to Dir.
	// A name may contain '/' when the rule refers a file in a subdirectory.
	Members []string
	// Suppressed are first path components listed only by inactive rules.
	Suppressed []string
	// Pushes are names added to other directories, keyed by directory.
	// A rule `obj-y += a/b/c.o` in Dir pushes "a" to Dir, "b" to Dir/a
	// and "c.c" to Dir/a/b.
	Pushes map[string][]string
	// MachDirs are mach-*/plat-* directory names enumerated by
	// machine/plat rules.
	MachDirs []string
}

// ExtractFacts resolves Kbuild rules of Makefile in dir with syms for arch.
func ExtractFacts(dir string, rules []makeutil.Rule, syms kconfigutil.Symbols, arch string) *Facts {
	f := &Facts{
		Dir:    dir,
		Pushes: make(map[string][]string),
	}
	members := make(map[string]bool)
	pushed := make(map[string]map[string]bool)
	inactive := make(map[string]bool)
	var inactiveNames []string

	for _, r := range rules {
		active := ruleActive(r, syms)
		var toks []string
		for _, v := range r.Values {
			v, ok := makeutil.ExpandVars(v, syms.Lookup)
			// compiler flags in e.g. ccflags-y are not files.
			if !ok || v == "" || strings.HasPrefix(v, "-") {
				continue
			}
			toks = append(toks, v)
		}
		switch r.Target {
		case "machine", "plat":
			prefix := "mach-"
			if r.Target == "plat" {
				prefix = "plat-"
			}
			for i, tok := range toks {
				mdir := prefix + tok
				if active {
					f.MachDirs = append(f.MachDirs, mdir)
				}
				toks[i] = mdir + "/"
			}
		}
		for _, tok := range toks {
			name := makeutil.NormalizeToken(tok, dir, arch)
			if name == "" || name == "." {
				continue
			}
			if !active {
				first, _, _ := strings.Cut(name, "/")
				if !inactive[first] {
					inactive[first] = true
					inactiveNames = append(inactiveNames, first)
				}
				continue
			}
			if !members[name] {
				members[name] = true
				f.Members = append(f.Members, name)
			}
			if strings.Contains(name, "/") {
				fanOut(dir, name, func(d, n string) {
					m, ok := pushed[d]
					if !ok {
						m = make(map[string]bool)
						pushed[d] = m
					}
					if m[n] {
						return
					}
					m[n] = true
					f.Pushes[d] = append(f.Pushes[d], n)
				})
			}
		}
	}
	for _, name := range inactiveNames {
		if members[name] || pushed[dir][name] {
			continue
		}
		f.Suppressed = append(f.Suppressed, name)
	}
	return f
}

func ruleActive(r makeutil.Rule, syms kconfigutil.Symbols) bool {
	if sym, ok := r.Symbol(); ok {
		return syms.Enabled(sym)
	}
	switch r.Suffix {
	case "y", "objs", "":
		return true
	}
	return false
}

// fanOut calls push for each intermediate directory between dir and
// the parent of name with the next path component, and for the
// parent with the base name of name.
func fanOut(dir, name string, push func(dir, name string)) {
	full := filepath.Join(dir, filepath.FromSlash(name))
	parent := filepath.Dir(full)
	rel, err := filepath.Rel(dir, parent)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// refers outside of dir.
		push(parent, filepath.Base(full))
		return
	}
	for d := parent; d != dir; {
		up := filepath.Dir(d)
		if up == d {
			break
		}
		push(up, filepath.Base(d))
		d = up
	}
	push(parent, filepath.Base(full))
}
