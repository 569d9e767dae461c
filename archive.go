// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"
)

const (
	writeBufferSize = 1 << 20
)

// Archive provides read and incremental-write access to a parsed pak
// archive: the entry set, mount point, and source reader used to resolve
// payloads that have not been staged for change.
type Archive struct {
	ra   io.ReaderAt
	file *os.File
	mm   mmap.MMap
	size int64

	key *[32]byte

	mu           sync.Mutex
	closed       bool
	entries      map[string]*Entry
	staged       map[string]*Input
	order        []string // archive-relative paths in insertion/wire order
	mountPoint   string
	pathHashSeed uint64
	version      Version
}

// addToOrderLocked appends path to the insertion-order list if it is not
// already present. Callers must hold a.mu.
func (a *Archive) addToOrderLocked(path string) {
	if _, ok := a.entries[path]; ok {
		return
	}
	a.order = append(a.order, path)
}

// removeFromOrderLocked drops path from the insertion-order list. Callers
// must hold a.mu.
func (a *Archive) removeFromOrderLocked(path string) {
	for i, p := range a.order {
		if p == path {
			a.order = append(a.order[:i], a.order[i+1:]...)
			return
		}
	}
}

// Open opens the pak archive at path for reading.
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens the pak archive at path using explicit reader
// options. The file is memory-mapped read-only where supported; callers
// on platforms or filesystems where mmap fails fall back transparently to
// ordinary file reads.
func OpenWithOptions(path string, opts ReaderOptions) (*Archive, error) {
	opts.applyDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pak: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat pak: %w", err)
	}

	ra := io.ReaderAt(f)
	var mm mmap.MMap
	if fi.Size() > 0 {
		if m, mmapErr := mmap.Map(f, mmap.RDONLY, 0); mmapErr == nil {
			mm = m
			ra = bytes.NewReader(m)
		}
	}

	a, err := NewFromReaderAt(ra, fi.Size(), opts)
	if err != nil {
		if mm != nil {
			_ = mm.Unmap()
		}
		_ = f.Close()
		return nil, err
	}

	a.file = f
	a.mm = mm
	return a, nil
}

// NewFromReaderAt parses a pak archive spanning size bytes of ra, without
// taking ownership of any underlying file handle.
func NewFromReaderAt(ra io.ReaderAt, size int64, opts ReaderOptions) (*Archive, error) {
	opts.applyDefaults()

	footer, err := readFooter(ra, size)
	if err != nil {
		return nil, err
	}
	if footer.IsEncrypted && opts.Key == nil {
		return nil, ErrDecryptionRequired
	}

	idx, err := readIndex(ra, size, footer, opts.Key)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*Entry, len(idx.Entries))
	for p, e := range idx.Entries {
		entries[p] = e
	}
	order := make([]string, len(idx.Paths))
	copy(order, idx.Paths)

	return &Archive{
		ra:           ra,
		size:         size,
		key:          opts.Key,
		entries:      entries,
		staged:       map[string]*Input{},
		order:        order,
		mountPoint:   idx.MountPoint,
		pathHashSeed: idx.PathHashSeed,
		version:      footer.Version,
	}, nil
}

// New creates an empty archive builder targeting version, ready to accept
// AddFile calls and be serialized with Write/WriteFile.
func New(mountPoint string, version Version) *Archive {
	return &Archive{
		entries:    map[string]*Entry{},
		staged:     map[string]*Input{},
		mountPoint: mountPoint,
		version:    version,
	}
}

// Close releases any file handle or memory mapping this archive owns; for
// archives constructed over a caller-owned io.ReaderAt it releases
// nothing. In every case the archive is marked closed and later calls
// return ErrClosed.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	var err error
	if a.mm != nil {
		err = a.mm.Unmap()
	}
	if a.file != nil {
		if closeErr := a.file.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

// Version reports the archive's on-disk format version.
func (a *Archive) Version() Version { return a.version }

// MountPoint reports the archive's mount point string.
func (a *Archive) MountPoint() string { return a.mountPoint }

// List returns entries matching opts, in insertion order: the order entries
// were added (for a freshly built archive) or the order they appear on the
// wire (for one read from disk).
func (a *Archive) List(opts ListOptions) ([]*Entry, error) {
	opts.applyDefaults()
	matcher, err := newEntryMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	out := make([]*Entry, 0, len(a.order))
	for _, p := range a.order {
		if !matcher.Included(p) {
			continue
		}
		out = append(out, a.entries[p])
	}
	return out, nil
}

// ReadFile returns the decoded payload of one archive entry, whether it
// comes from the underlying source archive or a staged AddFile call.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	norm, err := normalizeArchivePath(path)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	return a.payloadForLocked(norm)
}

// payloadForLocked resolves path's current payload bytes. Callers must
// hold a.mu.
func (a *Archive) payloadForLocked(path string) ([]byte, error) {
	if in, ok := a.staged[path]; ok {
		return readStagedInput(in)
	}

	entry, ok := a.entries[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if a.ra == nil {
		return nil, ErrNilReader
	}
	return readPayload(a.ra, a.size, a.version, entry, a.key)
}

func readStagedInput(in *Input) ([]byte, error) {
	rc, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", in.Path, err)
	}
	defer func() { _ = rc.Close() }()

	buf := make([]byte, in.Size)
	if _, err := io.ReadFull(rc, buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTruncatedData, in.Path, err)
	}
	return buf, nil
}

// AddFile stages in to be written as a new (or replacement) archive entry
// on the next Write/WriteFile call. Staged entries are always written
// uncompressed.
func (a *Archive) AddFile(in Input) error {
	norm, err := normalizeArchivePath(in.Path)
	if err != nil {
		return err
	}
	if in.Open == nil {
		return fmt.Errorf("%w: %s has a nil Open func", ErrInvalidEntryPath, norm)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	in.Path = norm
	a.addToOrderLocked(norm) // no-op if norm already has an entry; overwrites keep their position
	a.staged[norm] = &in
	a.entries[norm] = &Entry{Path: norm, Size: in.Size, CompressedSize: in.Size}
	return nil
}

// RemoveFile drops path from the archive's logical entry set. It takes
// effect on the next Write/WriteFile call.
func (a *Archive) RemoveFile(path string) error {
	norm, err := normalizeArchivePath(path)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if _, ok := a.entries[norm]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, norm)
	}

	delete(a.entries, norm)
	delete(a.staged, norm)
	a.removeFromOrderLocked(norm)
	return nil
}

// Write serializes the archive's current logical entry set (source entries
// plus staged additions, minus removals) to out in full-form, uncompressed
// layout. Entries are processed one at a time and each entry's payload is
// read into memory whole, so Write needs memory for the largest single
// member; ParallelExtract should be preferred for read-only large-archive
// access.
// Staged entries are always written uncompressed; there is no caller-facing
// way to request a compressed write.
func (a *Archive) Write(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		return ErrNilWriter
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	paths := a.order

	w := bufio.NewWriterSize(out, writeBufferSize)

	finalEntries := make(map[string]*Entry, len(paths))
	var offset int64
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := a.payloadForLocked(p)
		if err != nil {
			return fmt.Errorf("entry %s: %w", p, err)
		}

		entry := &Entry{
			Path:           p,
			Offset:         offset,
			Size:           int64(len(payload)),
			CompressedSize: int64(len(payload)),
			Compression:    CompressionNone,
			Hash:           sha1Sum(payload),
		}

		e := &encoder{}
		writeEntryFull(e, a.version, entry)
		if _, err := w.Write(e.Bytes()); err != nil {
			return fmt.Errorf("write header for %s: %w", p, err)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("write payload for %s: %w", p, err)
		}

		offset += int64(e.Len()) + int64(len(payload))
		finalEntries[p] = entry
	}

	indexFileOffset := offset
	built, err := buildIndex(a.version, a.mountPoint, paths, a.pathHashSeed, finalEntries, indexFileOffset)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	for _, region := range [][]byte{built.Primary, built.PathHash, built.FullDirIdx} {
		if len(region) == 0 {
			continue
		}
		if _, err := w.Write(region); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
	}

	footer := &Footer{
		Version:     a.version,
		IndexOffset: indexFileOffset,
		IndexSize:   built.IndexSize,
		IndexHash:   built.IndexHash,
	}
	if err := writeFooter(w, footer); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	return w.Flush()
}

// WriteFile serializes the archive to a temporary file alongside outPath
// and renames it into place atomically on success.
func (a *Archive) WriteFile(ctx context.Context, outPath string) error {
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".pak-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := a.Write(ctx, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename temp archive into place: %w", err)
	}
	return nil
}
