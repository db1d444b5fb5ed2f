// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package projconfig provides a project configuration store
// in KDevelop .kdev4 style ini format.
//
//	[Kernel]
//	arch=arm
//	buildDir=/path/to/out
//	crossCompile=arm-linux-gnueabi-
//	defaultConfig=multi_v7
//	validFiles=scripts/dtc/dtc.c,usr/gen_init_cpio.c
//
//	[MakeBuilder]
//	Default Target=zImage modules
package projconfig

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-ini/ini"
)

// File is a project configuration store.
// It is safe for concurrent use.
type File struct {
	mu    sync.Mutex
	fname string
	f     *ini.File
}

// New returns an empty in-memory configuration store.
func New() *File {
	return &File{f: ini.Empty()}
}

// Load loads configuration from fname.
// Missing fname is not an error; the store starts empty and Save
// will create it.
func Load(fname string) (*File, error) {
	f, err := ini.LooseLoad(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to load project config %s: %w", fname, err)
	}
	log.Debugf("load project config %s", fname)
	return &File{fname: fname, f: f}, nil
}

// Filename returns the file name the store was loaded from.
func (c *File) Filename() string {
	return c.fname
}

// Get returns the value of key in group.
// ok is false if the key is not set.
func (c *File) Get(group, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sec, err := c.f.GetSection(group)
	if err != nil {
		return "", false
	}
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// Strings returns comma separated list value of key in group.
func (c *File) Strings(group, key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	sec, err := c.f.GetSection(group)
	if err != nil || !sec.HasKey(key) {
		return nil
	}
	return sec.Key(key).Strings(",")
}

// Set sets key in group to value.
func (c *File) Set(group, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.f.Section(group).Key(key).SetValue(value)
}

// Save writes the configuration to the file it was loaded from.
func (c *File) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fname == "" {
		return fmt.Errorf("project config has no file name")
	}
	err := c.f.SaveTo(c.fname)
	if err != nil {
		return fmt.Errorf("failed to save project config %s: %w", c.fname, err)
	}
	log.Infof("saved project config %s", c.fname)
	return nil
}
