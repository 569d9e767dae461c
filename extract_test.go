// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/pathrules"
)

func buildTestArchive(t *testing.T, entries map[string][]byte) *Archive {
	t.Helper()

	a := New("../../../", V11)
	for path, content := range entries {
		if err := a.AddFile(memInput(path, content)); err != nil {
			t.Fatalf("AddFile %s: %v", path, err)
		}
	}

	var buf bytes.Buffer
	if err := a.Write(context.Background(), &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	readBack, err := NewFromReaderAt(bytes.NewReader(buf.Bytes()), int64(buf.Len()), ReaderOptions{})
	if err != nil {
		t.Fatalf("NewFromReaderAt: %v", err)
	}
	return readBack
}

func TestParallelExtract(t *testing.T) {
	t.Parallel()

	entries := map[string][]byte{
		"Engine/Content/Foo.uasset":     []byte("foo"),
		"Engine/Content/Sub/Bar.uasset": []byte("bar, a bit longer"),
	}
	a := buildTestArchive(t, entries)
	defer func() { _ = a.Close() }()

	destDir := t.TempDir()

	var done []string
	err := a.ParallelExtract(context.Background(), destDir, ExtractOptions{
		OnEntryDone: func(path string, written int64, outputPath string) {
			done = append(done, path)
		},
	})
	if err != nil {
		t.Fatalf("ParallelExtract: %v", err)
	}
	if len(done) != len(entries) {
		t.Fatalf("OnEntryDone called %d times, want %d", len(done), len(entries))
	}

	for path, want := range entries {
		got, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(path)))
		if err != nil {
			t.Fatalf("read extracted %s: %v", path, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("extracted %s=%q, want %q", path, got, want)
		}
	}
}

func TestParallelExtractRespectsRules(t *testing.T) {
	t.Parallel()

	entries := map[string][]byte{
		"Engine/Content/Foo.uasset": []byte("foo"),
		"Game/Content/Bar.uasset":   []byte("bar"),
	}
	a := buildTestArchive(t, entries)
	defer func() { _ = a.Close() }()

	destDir := t.TempDir()

	err := a.ParallelExtract(context.Background(), destDir, ExtractOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "Engine/**"}},
		MatcherOptions: pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		},
	})
	if err != nil {
		t.Fatalf("ParallelExtract: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "Engine", "Content", "Foo.uasset")); err != nil {
		t.Fatalf("expected Engine/Content/Foo.uasset to be extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(destDir, "Game", "Content", "Bar.uasset")); !os.IsNotExist(err) {
		t.Fatalf("expected Game/Content/Bar.uasset to be excluded, stat err=%v", err)
	}
}
