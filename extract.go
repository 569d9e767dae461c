// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ParallelExtract writes every entry selected by opts to destDir, using a
// bounded worker pool over the archive's shared io.ReaderAt. io.ReaderAt
// implementations backing an Archive (os.File, a memory-mapped byte
// slice) are safe for concurrent ReadAt calls, so workers need no
// synchronization beyond the channel handoff; each worker only touches
// its own Entry and its own output file.
func (a *Archive) ParallelExtract(ctx context.Context, destDir string, opts ExtractOptions) error {
	opts.applyDefaults()

	entries, err := a.List(ListOptions{Rules: opts.Rules, MatcherOptions: opts.MatcherOptions})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	a.mu.Lock()
	closed := a.closed
	ra := a.ra
	size := a.size
	version := a.version
	key := a.key
	a.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if ra == nil {
		return ErrNilReader
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(destAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outPaths := make(map[string]string, len(entries))
	dirs := map[string]struct{}{}
	for _, e := range entries {
		outPath, err := SafeExtractPath(destAbs, e.Path)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}
		outPaths[e.Path] = outPath
		dirs[filepath.Dir(outPath)] = struct{}{}
	}
	for d := range dirs {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", d, err)
		}
	}

	taskCh := make(chan *Entry, len(entries))
	errCh := make(chan error, len(entries))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Go(func() {
			for entry := range taskCh {
				err := extractEntry(ra, size, version, key, entry, outPaths[entry.Path], opts.OnEntryDone)
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, e := range entries {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return ctx.Err()
		case taskCh <- e:
		}
	}
	close(taskCh)
	wg.Wait()
	close(errCh)

	var first error
	for err := range errCh {
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func extractEntry(
	ra io.ReaderAt, size int64, version Version, key *[32]byte,
	entry *Entry, outPath string,
	onDone func(path string, written int64, outputPath string),
) error {
	payload, err := readPayload(ra, size, version, entry, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", entry.Path, err)
	}

	if err := os.WriteFile(outPath, payload, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	if onDone != nil {
		onDone(entry.Path, int64(len(payload)), outPath)
	}
	return nil
}
