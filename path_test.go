// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"errors"
	"testing"
)

func TestNormalizeArchivePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean", in: "Engine/Content/Foo.uasset", want: "Engine/Content/Foo.uasset"},
		{name: "leading slash", in: "/Engine/Content/Foo.uasset", want: "Engine/Content/Foo.uasset"},
		{name: "backslashes", in: `Engine\Content\Foo.uasset`, want: "Engine/Content/Foo.uasset"},
		{name: "dot segments", in: "./Engine/../Engine/Content/Foo.uasset", want: "Engine/Content/Foo.uasset"},
		{name: "padded", in: "  Engine/Content/Foo.uasset  ", want: "Engine/Content/Foo.uasset"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeArchivePath(tc.in)
			if err != nil {
				t.Fatalf("normalizeArchivePath(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("normalizeArchivePath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeArchivePathInvalid(t *testing.T) {
	t.Parallel()

	testCases := []string{"", "/", "."}

	for _, in := range testCases {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			_, err := normalizeArchivePath(in)
			if !errors.Is(err, ErrInvalidEntryPath) {
				t.Fatalf("normalizeArchivePath(%q): expected ErrInvalidEntryPath, got %v", in, err)
			}
		})
	}
}
