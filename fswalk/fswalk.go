// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package fswalk walks a kernel tree and collects files of a project.
package fswalk

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/kernelproj/osfs"
	"go.chromium.org/infra/build/kernelproj/runtimex"
)

// Oracle decides whether a path belongs to the project.
type Oracle interface {
	IsValid(path string, isDir bool) bool
}

// Entry is a valid file or directory found by Walk.
type Entry struct {
	// Path is a slash separated path relative to the root.
	Path  string
	IsDir bool
}

// Walk walks the tree under root and returns valid entries sorted by path.
// It descends only into valid directories. Symlinks are not followed.
// Unreadable directories are logged and skipped.
func Walk(ctx context.Context, fsys *osfs.OSFS, root string, oracle Oracle) ([]Entry, error) {
	root = filepath.Clean(root)
	w := &walker{
		fsys:   fsys,
		root:   root,
		oracle: oracle,
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtimex.Parallelism())
	w.eg = eg
	eg.Go(func() error {
		return w.walkDir(gctx, root)
	})
	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(w.ents, func(i, j int) bool {
		return w.ents[i].Path < w.ents[j].Path
	})
	return w.ents, nil
}

type walker struct {
	fsys   *osfs.OSFS
	root   string
	oracle Oracle
	eg     *errgroup.Group

	mu   sync.Mutex
	ents []Entry
}

func (w *walker) walkDir(ctx context.Context, dir string) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
	}
	ents, err := w.fsys.ReadDir(ctx, dir)
	if err != nil {
		log.Warnf("failed to read dir %s: %v", dir, err)
		return nil
	}
	var found []Entry
	for _, ent := range ents {
		fullpath := filepath.Join(dir, ent.Name())
		isDir := ent.IsDir()
		if !w.oracle.IsValid(fullpath, isDir) {
			continue
		}
		rel, err := filepath.Rel(w.root, fullpath)
		if err != nil {
			return err
		}
		found = append(found, Entry{Path: filepath.ToSlash(rel), IsDir: isDir})
		if !isDir {
			continue
		}
		subdir := fullpath
		f := func() error {
			return w.walkDir(ctx, subdir)
		}
		// run inline when all workers are busy, since a worker
		// blocked in Go would never release its slot.
		if !w.eg.TryGo(f) {
			err := f()
			if err != nil {
				return err
			}
		}
	}
	w.mu.Lock()
	w.ents = append(w.ents, found...)
	w.mu.Unlock()
	return nil
}
