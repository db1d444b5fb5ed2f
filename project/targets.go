// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

// Target is a build target in the host's project model.
// Kbuild has no targets the host can manage, so projects never
// have any.
type Target struct {
	Name string
	Dir  string
}

// CreateTarget always returns nil.
func (p *Project) CreateTarget(name, dir string) *Target { return nil }

// RemoveTarget always returns false.
func (p *Project) RemoveTarget(t *Target) bool { return false }

// Targets always returns nil.
func (p *Project) Targets(dir string) []*Target { return nil }

// AddFilesToTarget always returns false.
func (p *Project) AddFilesToTarget(files []string, t *Target) bool { return false }

// RemoveFilesFromTargets always returns false.
func (p *Project) RemoveFilesFromTargets(files []string) bool { return false }
