// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package kconfigutil provides utilities for kernel .config files.
package kconfigutil

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Symbols maps a config symbol name to its normalized value.
//
// "y" is stored as "1", "n" as "0" and a double quoted string
// without its quotes. Other values are stored verbatim.
type Symbols map[string]string

// Enabled reports whether the symbol is set to y.
func (s Symbols) Enabled(name string) bool {
	return s[name] == "1"
}

// Lookup returns the value of the symbol.
func (s Symbols) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// ParseFile parses .config file in fname.
func ParseFile(ctx context.Context, fname string) (Symbols, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	syms := Parse(f)
	log.Debugf("kconfig %s => %d symbols", fname, len(syms))
	return syms, nil
}

// Parse parses .config contents in r.
// Lines that are not `NAME=VALUE` are skipped.
func Parse(r io.Reader) Symbols {
	syms := make(Symbols)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if name, value, ok := ParseLine(line); ok {
			syms[name] = value
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warnf("kconfig read: %v", err)
			}
			return syms
		}
	}
}

// ParseLine parses a line `NAME=VALUE` and returns name and normalized value.
func ParseLine(line string) (name, value string, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	name, value, ok = strings.Cut(line, "=")
	if !ok || !isSymbolName(name) || value == "" {
		return "", "", false
	}
	return name, normalize(value), true
}

func normalize(v string) string {
	switch {
	case v == "y":
		return "1"
	case v == "n":
		return "0"
	case len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"':
		return v[1 : len(v)-1]
	}
	return v
}

func isSymbolName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsWordChar(s[i]) {
			return false
		}
	}
	return true
}

// IsWordChar reports whether ch is [A-Za-z0-9_].
func IsWordChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9', ch == '_':
		return true
	}
	return false
}
