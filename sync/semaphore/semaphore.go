// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package semaphore provides named semaphores.
package semaphore

import (
	"context"
	"sync"
	"sync/atomic"
)

var (
	mu         sync.Mutex
	semaphores = map[string]*Semaphore{}
)

// Semaphore is a semaphore.
type Semaphore struct {
	name string
	ch   chan struct{}

	waits atomic.Int64
	reqs  atomic.Int64
}

// New creates a new semaphore with name and capacity, and registers it.
// It replaces the semaphore registered with the same name.
func New(name string, n int) *Semaphore {
	s := newSemaphore(name, n)
	mu.Lock()
	semaphores[name] = s
	mu.Unlock()
	return s
}

// Get returns the semaphore registered for the name, or creates
// a new one with capacity n.
func Get(name string, n int) *Semaphore {
	mu.Lock()
	defer mu.Unlock()
	s, ok := semaphores[name]
	if !ok {
		s = newSemaphore(name, n)
		semaphores[name] = s
	}
	return s
}

func newSemaphore(name string, n int) *Semaphore {
	ch := make(chan struct{}, n)
	for range n {
		ch <- struct{}{}
	}
	return &Semaphore{
		name: name,
		ch:   ch,
	}
}

// WaitAcquire acquires a semaphore.
// It returns a context for acquired semaphore and func to release it.
func (s *Semaphore) WaitAcquire(ctx context.Context) (context.Context, func(), error) {
	s.waits.Add(1)
	defer s.waits.Add(-1)
	select {
	case <-s.ch:
		s.reqs.Add(1)
		var once sync.Once
		return ctx, func() {
			once.Do(func() { s.ch <- struct{}{} })
		}, nil
	case <-ctx.Done():
		return ctx, func() {}, context.Cause(ctx)
	}
}

// Name returns name of the semaphore.
func (s *Semaphore) Name() string {
	return s.name
}

// Capacity returns capacity of the semaphore.
func (s *Semaphore) Capacity() int {
	if s == nil {
		return 0
	}
	return cap(s.ch)
}

// NumServs returns number of currently served.
func (s *Semaphore) NumServs() int {
	return cap(s.ch) - len(s.ch)
}

// NumWaits returns number of waiters.
func (s *Semaphore) NumWaits() int {
	return int(s.waits.Load())
}

// NumRequests returns total number of requests.
func (s *Semaphore) NumRequests() int {
	return int(s.reqs.Load())
}

// Do runs f under semaphore.
func (s *Semaphore) Do(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, done, err := s.WaitAcquire(ctx)
	if err != nil {
		return err
	}
	defer done()
	return f(ctx)
}
