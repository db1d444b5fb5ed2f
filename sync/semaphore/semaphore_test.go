// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package semaphore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.chromium.org/infra/build/kernelproj/sync/semaphore"
)

func TestNew(t *testing.T) {
	sema := semaphore.New(t.Name(), 3)
	if name := sema.Name(); name != t.Name() {
		t.Errorf("Name=%q; want %q", name, t.Name())
	}
	if n := sema.Capacity(); n != 3 {
		t.Errorf("Capacity=%d; want %d", n, 3)
	}
	if got := semaphore.Get(t.Name(), 1); got != sema {
		t.Errorf("Get(%q, 1)=%p; want %p registered by New", t.Name(), got, sema)
	}
}

func TestGet(t *testing.T) {
	name := t.Name()
	s1 := semaphore.Get(name, 1)
	s2 := semaphore.Get(name, 5)
	if s1 != s2 {
		t.Errorf("Get(%q) returned %p and %p; want same semaphore", name, s1, s2)
	}
	if n := s2.Capacity(); n != 1 {
		t.Errorf("Capacity=%d; want %d", n, 1)
	}
}

func TestWaitAcquire(t *testing.T) {
	ctx := context.Background()
	sema := semaphore.New(t.Name(), 2)

	var dones []func()
	for i := range 2 {
		_, done, err := sema.WaitAcquire(ctx)
		if err != nil {
			t.Fatalf("WaitAcquire %d: %v", i, err)
		}
		dones = append(dones, done)
		if n := sema.NumServs(); n != i+1 {
			t.Errorf("NumServs=%d; want %d", n, i+1)
		}
		if n := sema.NumRequests(); n != i+1 {
			t.Errorf("NumRequests=%d; want %d", n, i+1)
		}
	}
	func() {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, _, err := sema.WaitAcquire(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("WaitAcquire=%v; want %v", err, context.DeadlineExceeded)
		}
		if n := sema.NumWaits(); n != 0 {
			t.Errorf("NumWaits=%d; want %d", n, 0)
		}
	}()

	dones[0]()
	// release twice doesn't increase capacity.
	dones[0]()
	if n := sema.NumServs(); n != 1 {
		t.Errorf("NumServs=%d; want %d", n, 1)
	}
	dones[1]()
	if n := sema.NumServs(); n != 0 {
		t.Errorf("NumServs=%d; want %d", n, 0)
	}
	if n := sema.NumRequests(); n != 2 {
		t.Errorf("NumRequests=%d; want %d", n, 2)
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()
	const capacity = 3
	sema := semaphore.New(t.Name(), capacity)

	var running, maxRunning, called atomic.Int32
	f := func(ctx context.Context) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		called.Add(1)
		time.Sleep(time.Millisecond)
		return nil
	}

	const count = 50
	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sema.Do(ctx, f)
			if err != nil {
				t.Errorf("Do %d: %v", i, err)
			}
		}()
	}
	wg.Wait()
	if n := called.Load(); n != count {
		t.Errorf("called=%d; want %d", n, count)
	}
	if n := maxRunning.Load(); n > capacity {
		t.Errorf("max running=%d; want <= %d", n, capacity)
	}
	if n := sema.NumServs(); n != 0 {
		t.Errorf("NumServs=%d; want %d", n, 0)
	}
	if n := sema.NumRequests(); n != count {
		t.Errorf("NumRequests=%d; want %d", n, count)
	}
}

func TestDo_err(t *testing.T) {
	ctx := context.Background()
	sema := semaphore.New(t.Name(), 1)
	wantErr := errors.New("error")
	err := sema.Do(ctx, func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do %v; want %v", err, wantErr)
	}
	if n := sema.NumServs(); n != 0 {
		t.Errorf("NumServs=%d; want %d", n, 0)
	}
}

func TestDo_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sema := semaphore.New(t.Name(), 1)
	_, done, err := sema.WaitAcquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer done()
	cancel()
	called := false
	err = sema.Do(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do=%v; want %v", err, context.Canceled)
	}
	if called {
		t.Errorf("f called on canceled context")
	}
}
