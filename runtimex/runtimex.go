// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runtimex reports processor counts usable by the current process.
package runtimex

import "runtime"

var ncpu int

func init() {
	ncpu = getproccount()
	if ncpu <= 0 {
		ncpu = runtime.NumCPU()
	}
}

// NumCPU returns the number of logical CPUs usable by the current process.
// On Windows, runtime.NumCPU() only counts a single Processor Group, so
// GetActiveProcessorCount is used. On Linux, the scheduler affinity mask
// of the process is used.
func NumCPU() int {
	return ncpu
}

// Parallelism returns the number of concurrent workers to use for
// CPU-bound fan-out, bounded by GOMAXPROCS.
func Parallelism() int {
	n := NumCPU()
	if p := runtime.GOMAXPROCS(0); p < n {
		n = p
	}
	if n < 1 {
		n = 1
	}
	return n
}
