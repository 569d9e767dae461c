// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWalkDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "Engine", "Content", "Foo.uasset"), "foo")
	mustWriteFile(t, filepath.Join(root, "Engine", "Content", "Sub", "Bar.uasset"), "bar")

	inputs, err := WalkDir(root)
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}

	paths := make([]string, len(inputs))
	for i, in := range inputs {
		paths[i] = in.Path
	}
	sort.Strings(paths)

	want := []string{"Engine/Content/Foo.uasset", "Engine/Content/Sub/Bar.uasset"}
	if len(paths) != len(want) {
		t.Fatalf("got paths %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("got paths %v, want %v", paths, want)
		}
	}

	for _, in := range inputs {
		rc, err := in.Open()
		if err != nil {
			t.Fatalf("Open %s: %v", in.Path, err)
		}
		buf := make([]byte, in.Size)
		if _, err := rc.Read(buf); err != nil {
			t.Fatalf("Read %s: %v", in.Path, err)
		}
		_ = rc.Close()
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
