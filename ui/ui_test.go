// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui_test

import (
	"testing"

	"go.chromium.org/infra/build/kernelproj/ui"
)

func TestStripANSIEscapeCodes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{
			in:   "foo",
			want: "foo",
		},
		{
			in:   "foo\033",
			want: "foo",
		},
		{
			in:   "foo\033[",
			want: "foo",
		},
		{
			in:   ui.SGR(ui.Red, "failed") + " make",
			want: "failed make",
		},
		{
			in:   "\033[1mdrivers/net/e1000.c:286:15: \033[0m\033[0;1;35mwarning: \033[0m\033[1munused variable\033[0m",
			want: "drivers/net/e1000.c:286:15: warning: unused variable",
		},
	} {
		got := ui.StripANSIEscapeCodes(tc.in)
		if got != tc.want {
			t.Errorf("ui.StripANSIEscapeCodes(%q)=%q; want=%q", tc.in, got, tc.want)
		}
	}
}
