// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSafeExtractPath(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()

	got, err := SafeExtractPath(dest, "Engine/Content/Foo.uasset")
	if err != nil {
		t.Fatalf("SafeExtractPath: %v", err)
	}
	want := filepath.Join(dest, "Engine", "Content", "Foo.uasset")
	if got != want {
		t.Fatalf("SafeExtractPath=%q, want %q", got, want)
	}
}

func TestSafeExtractPathRejectsTraversal(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()

	testCases := []string{
		"../outside.txt",
		"Engine/../../outside.txt",
		"/etc/passwd",
		"",
	}

	for _, in := range testCases {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			_, err := SafeExtractPath(dest, in)
			if !errors.Is(err, ErrExtractPathOutsideRoot) {
				t.Fatalf("SafeExtractPath(%q): expected ErrExtractPathOutsideRoot, got %v", in, err)
			}
		})
	}
}
