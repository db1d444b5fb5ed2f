// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makecmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeMake writes a make script that echoes its args.
func fakeMake(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	fname := filepath.Join(t.TempDir(), "make")
	err := os.WriteFile(fname, []byte("#!/bin/sh\necho \"$@\"\n"), 0755)
	if err != nil {
		t.Fatal(err)
	}
	return fname
}

func lookup(t *testing.T, name string) actionDef {
	t.Helper()
	for _, a := range actions {
		if a.name == name {
			return a
		}
	}
	t.Fatalf("no action %q", name)
	return actionDef{}
}

func TestActions(t *testing.T) {
	mk := fakeMake(t)
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, ".kernelproj.ini"), []byte(`[Kernel]
arch = arm
crossCompile = arm-linux-gnueabi-
defaultConfig = multi_v7

[MakeBuilder]
Default Target = zImage modules
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(root, ".config"), nil, 0644)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{
			name: "build",
			want: "ARCH=arm CROSS_COMPILE=arm-linux-gnueabi- zImage modules\n",
		},
		{
			name: "build",
			args: []string{"-target", "dtbs"},
			want: "ARCH=arm CROSS_COMPILE=arm-linux-gnueabi- dtbs\n",
		},
		{
			name: "clean",
			want: "ARCH=arm CROSS_COMPILE=arm-linux-gnueabi- clean\n",
		},
		{
			name: "configure",
			want: "ARCH=arm CROSS_COMPILE=arm-linux-gnueabi- xconfig\n",
		},
		{
			name: "prune",
			args: []string{"-arch", "arm64", "-cross_compile", "aarch64-linux-gnu-"},
			want: "ARCH=arm64 CROSS_COMPILE=aarch64-linux-gnu- mrproper\n",
		},
		{
			name: "defconfig",
			args: []string{"-defconfig", "omap2plus"},
			want: "ARCH=arm CROSS_COMPILE=arm-linux-gnueabi- omap2plus_defconfig\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout bytes.Buffer
			c := &run{def: lookup(t, tc.name), stdout: &stdout, stderr: &bytes.Buffer{}}
			c.init()
			err := c.Flags.Parse(append([]string{"-C", root, "-make", mk}, tc.args...))
			if err != nil {
				t.Fatal(err)
			}
			err = c.run(context.Background(), c.Flags.Args())
			if err != nil {
				t.Fatalf("run=%v; want nil", err)
			}
			if diff := cmp.Diff(tc.want, stdout.String()); diff != "" {
				t.Errorf("make args -want +got:\n%s", diff)
			}
		})
	}
}

func TestDefconfigUnset(t *testing.T) {
	c := &run{def: lookup(t, "defconfig"), stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	c.init()
	err := c.Flags.Parse([]string{"-C", t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	err = c.run(context.Background(), c.Flags.Args())
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("run=%v; want %v", err, flag.ErrHelp)
	}
}

func TestCmds(t *testing.T) {
	var names []string
	for _, cmd := range Cmds() {
		names = append(names, cmd.Name())
	}
	want := []string{"build", "clean", "configure", "prune", "defconfig"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Cmds() -want +got:\n%s", diff)
	}
}
