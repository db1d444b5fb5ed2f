// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		cmdline string
		want    []string
	}{
		{
			cmdline: "",
			want:    nil,
		},
		{
			cmdline: "make",
			want:    []string{"make"},
		},
		{
			cmdline: `  make   -j8  `,
			want:    []string{"make", "-j8"},
		},
		{
			cmdline: "zImage modules dtbs",
			want:    []string{"zImage", "modules", "dtbs"},
		},
		{
			cmdline: `V=1 KCFLAGS="-O2 -g" bzImage`,
			want:    []string{"V=1", "KCFLAGS=-O2 -g", "bzImage"},
		},
		{
			cmdline: `LOCALVERSION='-my "test"' all`,
			want:    []string{"LOCALVERSION=-my \"test\"", "all"},
		},
		{
			cmdline: `KBUILD_BUILD_HOST=build\ host vmlinux`,
			want:    []string{"KBUILD_BUILD_HOST=build host", "vmlinux"},
		},
		{
			cmdline: `make EXTRA="a \"b\"" ''`,
			want:    []string{"make", `EXTRA=a "b"`, ""},
		},
	} {
		args, err := Split(tc.cmdline)
		if err != nil {
			t.Errorf("Split(%q)=%q, %v; want nil error", tc.cmdline, args, err)
		}
		if diff := cmp.Diff(tc.want, args); diff != "" {
			t.Errorf("Split(%q); diff -want +got:\n%s", tc.cmdline, diff)
		}
	}
}

func TestSplit_Error(t *testing.T) {
	for _, cmdline := range []string{
		`make clean && make`,
		`make 2>/dev/null`,
		`make | tee log`,
		`make O=$(pwd)/out`,
		`make "O=$HOME"`,
		`make "all`,
		`make 'all`,
		`make all\`,
	} {
		args, err := Split(cmdline)
		if err == nil {
			t.Errorf("Split(%q)=%q, %v; want err", cmdline, args, err)
		}
	}
}

func TestJoin(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{
			args: []string{"make", "O=/tmp/out", "ARCH=arm64", "defconfig"},
			want: "make O=/tmp/out ARCH=arm64 defconfig",
		},
		{
			args: []string{"make", "O=/tmp/my out", ""},
			want: `make 'O=/tmp/my out' ''`,
		},
		{
			args: []string{"echo", "it's"},
			want: `echo 'it'\''s'`,
		},
	} {
		got := Join(tc.args)
		if got != tc.want {
			t.Errorf("Join(%q)=%q; want %q", tc.args, got, tc.want)
		}
		args, err := Split(got)
		if err != nil {
			t.Errorf("Split(%q)=%q, %v; want nil error", got, args, err)
			continue
		}
		if diff := cmp.Diff(tc.args, args); diff != "" {
			t.Errorf("Split(Join(%q)) diff -want +got:\n%s", tc.args, diff)
		}
	}
}
