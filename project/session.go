// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session is a registry of open projects.
// Projects share no state; each has its own caches.
type Session struct {
	opts Options

	mu       sync.Mutex
	projects map[string]*Project
}

// NewSession creates a session with collaborators in opts.
func NewSession(opts Options) *Session {
	return &Session{
		opts:     opts,
		projects: make(map[string]*Project),
	}
}

// Open opens the kernel tree at root with cfg and imports it.
// Opening the same root again creates a new, independent project.
func (s *Session) Open(ctx context.Context, root string, cfg Config) (*Project, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("failed to open project: %s is not a directory", root)
	}
	p := newProject(uuid.NewString(), root, cfg, s.opts)
	s.mu.Lock()
	s.projects[p.id] = p
	s.mu.Unlock()
	log.Infof("open project %s %s", p.id, root)
	p.Import(ctx)
	return p, nil
}

// Lookup returns the open project with the id.
func (s *Session) Lookup(id string) (*Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	return p, ok
}

// Projects returns open projects ordered by root.
func (s *Session) Projects() []*Project {
	s.mu.Lock()
	ps := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		ps = append(ps, p)
	}
	s.mu.Unlock()
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].root != ps[j].root {
			return ps[i].root < ps[j].root
		}
		return ps[i].id < ps[j].id
	})
	return ps
}

// Close closes p and drops its config symbols, valid files index and
// machine dirs at once.
func (s *Session) Close(p *Project) {
	s.mu.Lock()
	delete(s.projects, p.id)
	s.mu.Unlock()

	p.mu.Lock()
	p.resetLocked()
	p.closed = true
	p.mu.Unlock()
	log.Infof("close project %s %s", p.id, p.root)
}

// CloseAll closes all open projects.
func (s *Session) CloseAll() {
	for _, p := range s.Projects() {
		s.Close(p)
	}
}
