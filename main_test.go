// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplicationCommands(t *testing.T) {
	app := getApplication()
	var got []string
	for _, c := range app.GetCommands() {
		got = append(got, c.Name())
	}
	want := []string{
		"files",
		"check",
		"includes",
		"defines",
		"defconfigs",
		"build",
		"clean",
		"configure",
		"prune",
		"defconfig",
		"version",
		"help",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands -want +got:\n%s", diff)
	}
}

func TestVCSInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "linux"},
		},
	}
	got := vcsInfo(info)
	want := "vcs[revision=abc time=2024-01-02T03:04:05Z modified=true]"
	if got != want {
		t.Errorf("vcsInfo()=%q; want %q", got, want)
	}
}
