// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make.
//
// It understands the subset of Kbuild used to list objects
// in the Linux kernel tree: `obj-y`, `obj-$(CONFIG_FOO)`, `foo-objs`,
// `machine-y`, `plat-y` and the like.
package makeutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Rule is an assignment of the form `TARGET-SUFFIX [+:]= VALUE...`.
type Rule struct {
	// Target is the part before the last '-' in lhs, e.g. "obj", "machine".
	Target string
	// Suffix is "y", "objs", "" or "$(SYMBOL)".
	// `${SYMBOL}` is rewritten to `$(SYMBOL)`.
	Suffix string
	// Op is one of "=", ":=", "+=", "+:=".
	Op string
	// Values are whitespace separated tokens of the value.
	Values []string
	// Line is 1-based line number where the rule starts.
	Line int
}

// Symbol returns the config symbol referenced by the suffix.
func (r Rule) Symbol() (string, bool) {
	if strings.HasPrefix(r.Suffix, "$(") && strings.HasSuffix(r.Suffix, ")") {
		return r.Suffix[2 : len(r.Suffix)-1], true
	}
	return "", false
}

// ParseRulesFile parses Kbuild rules in fname.
func ParseRulesFile(ctx context.Context, fname string) ([]Rule, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	rules := ParseRules(b)
	if log.GetLevel() <= log.DebugLevel {
		log.Debugf("rules %s => %d", fname, len(rules))
	}
	return rules, nil
}

// ParseRules parses Makefile contents and returns Kbuild object rules.
// Lines that are not such rules are skipped.
func ParseRules(b []byte) []Rule {
	var rules []Rule
	lineno := 1
	for len(b) > 0 {
		var line string
		var n int
		start := lineno
		line, n, b = nextLogicalLine(b)
		lineno += n
		r, ok := parseRule(line)
		if !ok {
			continue
		}
		r.Line = start
		rules = append(rules, r)
	}
	return rules
}

// nextLogicalLine returns the next line in s with '\'+newline joined as space,
// the number of physical lines consumed, and the rest of s.
func nextLogicalLine(s []byte) (string, int, []byte) {
	var sb strings.Builder
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			sb.WriteByte(' ')
			i++
			n++
			continue
		}
		if s[i] == '\\' && i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
			sb.WriteByte(' ')
			i += 2
			n++
			continue
		}
		if s[i] == '\n' {
			return strings.TrimSuffix(sb.String(), "\r"), n, s[i+1:]
		}
		sb.WriteByte(s[i])
	}
	return strings.TrimSuffix(sb.String(), "\r"), n, nil
}

func parseRule(line string) (Rule, bool) {
	// recipes and indented lines are not rules.
	if line == "" || !isLHSChar(line[0]) {
		return Rule{}, false
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	i := strings.IndexAny(line, " \t+:=")
	if i <= 0 {
		return Rule{}, false
	}
	lhs := line[:i]
	rest := strings.TrimLeft(line[i:], " \t")
	var op string
	for _, o := range []string{"+:=", "+=", ":=", "="} {
		if strings.HasPrefix(rest, o) {
			op = o
			break
		}
	}
	if op == "" {
		return Rule{}, false
	}
	target, suffix, ok := splitLHS(lhs)
	if !ok {
		return Rule{}, false
	}
	if strings.HasPrefix(suffix, "${") && strings.HasSuffix(suffix, "}") {
		suffix = "$(" + suffix[2:len(suffix)-1] + ")"
	}
	var values []string
	for _, v := range strings.Fields(rest[len(op):]) {
		if v == `\` {
			continue
		}
		values = append(values, v)
	}
	return Rule{
		Target: target,
		Suffix: suffix,
		Op:     op,
		Values: values,
	}, true
}

// splitLHS splits lhs at the last '-' that follows a [\w-]+ prefix.
func splitLHS(lhs string) (target, suffix string, ok bool) {
	for i := len(lhs) - 1; i > 0; i-- {
		if lhs[i] != '-' {
			continue
		}
		if allLHSChars(lhs[:i]) {
			return lhs[:i], lhs[i+1:], true
		}
	}
	return "", "", false
}

func allLHSChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLHSChar(s[i]) {
			return false
		}
	}
	return true
}

func isLHSChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9', ch == '_', ch == '-':
		return true
	}
	return false
}

// NormalizeToken converts an object name in a rule value of dir
// to the source name: foo.o -> foo.c, foo.dtb -> foo.dts, foo/ -> foo.
// When dir is arch/<arch> and tok is given from the source root
// (arch/<arch>/...), the duplicated prefix is removed.
func NormalizeToken(tok, dir, arch string) string {
	switch {
	case strings.HasSuffix(tok, ".o"):
		tok = strings.TrimSuffix(tok, ".o") + ".c"
	case strings.HasSuffix(tok, ".dtb"):
		tok = strings.TrimSuffix(tok, ".dtb") + ".dts"
	case strings.HasSuffix(tok, "/"):
		tok = strings.TrimSuffix(tok, "/")
	}
	if arch == "" {
		return tok
	}
	archDir := "arch/" + arch + "/"
	d := "/" + strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/"
	if strings.HasSuffix(d, "/"+archDir) && strings.HasPrefix(tok, archDir) {
		tok = strings.TrimPrefix(tok, archDir)
	}
	return tok
}

// ExpandVars substitutes `$(VAR)` and `${VAR}` in tok by lookup.
// It returns false if tok refers to a variable unknown to lookup.
func ExpandVars(tok string, lookup func(string) (string, bool)) (string, bool) {
	if !strings.Contains(tok, "$") {
		return tok, true
	}
	var sb strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '$' {
			sb.WriteByte(tok[i])
			continue
		}
		if i+1 >= len(tok) {
			return "", false
		}
		var closer byte
		switch tok[i+1] {
		case '(':
			closer = ')'
		case '{':
			closer = '}'
		default:
			return "", false
		}
		j := strings.IndexByte(tok[i+2:], closer)
		if j < 0 {
			return "", false
		}
		v, ok := lookup(tok[i+2 : i+2+j])
		if !ok {
			return "", false
		}
		sb.WriteString(v)
		i += 2 + j
	}
	return sb.String(), true
}
