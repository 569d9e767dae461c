// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf16"
)

const fnvOffsetBasis uint64 = 0xCBF29CE484222325
const fnvPrime uint64 = 0x00000100000001B3

// pathHash computes the seed-biased FNV-1a hash of path's UTF-16LE,
// lowercased encoding, matching the path-hash index's lookup key.
func pathHash(path string, seed uint64) uint64 {
	hash := fnvOffsetBasis + seed // wraps modulo 2^64 via uint64 arithmetic

	for _, u := range utf16.Encode([]rune(strings.ToLower(path))) {
		for _, b := range [2]byte{byte(u), byte(u >> 8)} {
			hash ^= uint64(b)
			hash *= fnvPrime
		}
	}

	return hash
}

// readIndex parses the index region described by footer from a full
// archive source spanning archiveSize bytes.
func readIndex(ra io.ReaderAt, archiveSize int64, footer *Footer, key *[32]byte) (*Index, error) {
	region, err := readMaybeEncryptedRegion(ra, archiveSize, footer.IndexOffset, footer.IndexSize, footer.IsEncrypted, key)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	c := newCursorFromBytes(region)

	idx := &Index{Entries: map[string]*Entry{}}

	mountPoint, err := c.str()
	if err != nil {
		return nil, err
	}
	idx.MountPoint = mountPoint

	entryCount, err := c.u32()
	if err != nil {
		return nil, err
	}

	names := compressionTable(footer.CompressionNames)

	if footer.Version < V10 {
		for i := uint32(0); i < entryCount; i++ {
			path, err := c.str()
			if err != nil {
				return nil, err
			}
			entry, err := readEntryFull(c, footer.Version, names)
			if err != nil {
				return nil, err
			}
			entry.Path = path
			idx.Entries[path] = entry
			idx.Paths = append(idx.Paths, path)
		}
		return idx, nil
	}

	pathHashSeed, err := c.u64()
	if err != nil {
		return nil, err
	}
	idx.PathHashSeed = pathHashSeed

	hasPathIndex, err := c.u32()
	if err != nil {
		return nil, err
	}
	idx.HasPathHash = hasPathIndex != 0
	if idx.HasPathHash {
		if _, err := skipRegionDescriptor(c); err != nil {
			return nil, err
		}
	}

	hasFullDirIndex, err := c.u32()
	if err != nil {
		return nil, err
	}
	idx.HasFullDirIdx = hasFullDirIndex != 0

	var directories map[string]map[string]int32
	if idx.HasFullDirIdx {
		fdiOffset, fdiSize, _, err := readRegionDescriptor(c)
		if err != nil {
			return nil, err
		}
		directories, err = readFullDirectoryIndex(ra, archiveSize, fdiOffset, fdiSize, footer.IsEncrypted, key)
		if err != nil {
			return nil, err
		}
	}

	encodedSize, err := c.i32()
	if err != nil {
		return nil, err
	}
	encodedBytes, err := c.read(int(encodedSize))
	if err != nil {
		return nil, err
	}

	notEncodedCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	notEncoded := make([]*Entry, notEncodedCount)
	for i := range notEncoded {
		entry, err := readEntryFull(c, footer.Version, names)
		if err != nil {
			return nil, err
		}
		notEncoded[i] = entry
	}

	if !idx.HasFullDirIdx {
		// Paths are not recoverable from the path-hash index alone
		// (hashes are one-way); without the full directory index the
		// archive's entries cannot be enumerated by path.
		return idx, nil
	}

	encodedCursor := newCursorFromBytes(encodedBytes)
	recovered := make([]pathOffset, 0, len(idx.Entries))
	for dir, files := range directories {
		for file, encodedOffset := range files {
			var entry *Entry
			if encodedOffset >= 0 {
				encodedCursor.Seek(int64(encodedOffset))
				entry, err = readEntryEncoded(encodedCursor, footer.Version, names)
				if err != nil {
					return nil, err
				}
			} else {
				idx2 := -encodedOffset - 1
				if int(idx2) >= len(notEncoded) {
					return nil, fmt.Errorf("%w: not-encoded entry index %d out of range", ErrCorruptEntry, idx2)
				}
				copyEntry := *notEncoded[idx2]
				entry = &copyEntry
			}
			path := strings.TrimLeft(dir, "/") + file
			entry.Path = path
			idx.Entries[path] = entry
			recovered = append(recovered, pathOffset{path: path, offset: int64(encodedOffset)})
		}
	}
	idx.Paths = recoverWireOrder(recovered)

	return idx, nil
}

// recoverWireOrder reconstructs the order entries were serialized in from
// their encoded-entries blob offsets: the blob is written sequentially in
// writer order (see buildIndexV10), so ascending offset is wire order.
// Not-encoded entries (negative offset, an index into the side table) carry
// no recoverable position; this package's own writer never produces them,
// so they are placed after every encoded entry, in their side-table order.
func recoverWireOrder(entries []pathOffset) []string {
	sort.SliceStable(entries, func(i, j int) bool {
		oi, oj := entries[i].offset, entries[j].offset
		iNotEncoded, jNotEncoded := oi < 0, oj < 0
		if iNotEncoded != jNotEncoded {
			return jNotEncoded
		}
		if iNotEncoded {
			return oi > oj // less negative offset -> smaller side-table index
		}
		return oi < oj
	})

	paths := make([]string, len(entries))
	for i, po := range entries {
		paths[i] = po.path
	}
	return paths
}

func readRegionDescriptor(c *cursor) (offset int64, size int64, hash [sha1Size]byte, err error) {
	off, err := c.u64()
	if err != nil {
		return 0, 0, hash, err
	}
	sz, err := c.u64()
	if err != nil {
		return 0, 0, hash, err
	}
	h, err := c.sha1()
	if err != nil {
		return 0, 0, hash, err
	}
	return int64(off), int64(sz), h, nil //nolint:gosec
}

func skipRegionDescriptor(c *cursor) (int64, error) {
	_, _, _, err := readRegionDescriptor(c)
	return 0, err
}

func readMaybeEncryptedRegion(ra io.ReaderAt, archiveSize int64, offset, size int64, encrypted bool, key *[32]byte) ([]byte, error) {
	readLen := size
	if encrypted {
		readLen = align16(size)
	}
	raw, err := readExact(ra, archiveSize, offset, readLen)
	if err != nil {
		return nil, err
	}
	if encrypted {
		return decryptECBTruncated(key, raw, size)
	}
	return raw, nil
}

func readFullDirectoryIndex(ra io.ReaderAt, archiveSize int64, offset, size int64, encrypted bool, key *[32]byte) (map[string]map[string]int32, error) {
	region, err := readMaybeEncryptedRegion(ra, archiveSize, offset, size, encrypted, key)
	if err != nil {
		return nil, fmt.Errorf("full directory index: %w", err)
	}
	c := newCursorFromBytes(region)

	dirCount, err := c.u32()
	if err != nil {
		return nil, err
	}

	dirs := make(map[string]map[string]int32, dirCount)
	for i := uint32(0); i < dirCount; i++ {
		dirName, err := c.str()
		if err != nil {
			return nil, err
		}
		fileCount, err := c.u32()
		if err != nil {
			return nil, err
		}
		files := make(map[string]int32, fileCount)
		for j := uint32(0); j < fileCount; j++ {
			fileName, err := c.str()
			if err != nil {
				return nil, err
			}
			off, err := c.i32()
			if err != nil {
				return nil, err
			}
			files[fileName] = off
		}
		dirs[dirName] = files
	}
	return dirs, nil
}

// writtenIndex holds the bytes to append to an archive for the primary
// index plus, at V10+, its path-hash and full-directory side tables.
type writtenIndex struct {
	Primary    []byte
	PathHash   []byte
	FullDirIdx []byte
	IndexHash  [sha1Size]byte
	IndexSize  int64
}

// pathOffset pairs an archive path with its byte offset into the
// encoded-entries blob.
type pathOffset struct {
	path   string
	offset int64
}

// buildIndex serializes entries, in the order given by paths, into the
// on-disk index layout appropriate for version. paths determines the
// archive's iteration order on read-back, so callers pass entries in the
// order they should round-trip (see Archive.Write). indexFileOffset is the
// absolute file offset the index will be written at, needed to compute the
// path-hash and full-directory index regions' own absolute offsets at V10+.
func buildIndex(version Version, mountPoint string, paths []string, pathHashSeed uint64, entries map[string]*Entry, indexFileOffset int64) (*writtenIndex, error) {
	if version < V10 {
		e := &encoder{}
		e.str(mountPoint)
		e.u32(uint32(len(paths)))
		for _, path := range paths {
			e.str(path)
			writeEntryFull(e, version, entries[path])
		}
		hash := sha1Sum(e.Bytes())
		return &writtenIndex{Primary: e.Bytes(), IndexHash: hash, IndexSize: int64(e.Len())}, nil
	}

	return buildIndexV10(mountPoint, pathHashSeed, paths, entries, indexFileOffset)
}

func buildIndexV10(mountPoint string, pathHashSeed uint64, paths []string, entries map[string]*Entry, indexFileOffset int64) (*writtenIndex, error) {
	encodedEntries := &encoder{}
	offsets := make([]pathOffset, 0, len(paths))
	for _, path := range paths {
		offsets = append(offsets, pathOffset{path: path, offset: int64(encodedEntries.Len())})
		writeEntryEncoded(encodedEntries, entries[path], 0) // AddFile always stages CompressionNone
	}

	phi := &encoder{}
	phi.u32(uint32(len(offsets)))
	for _, po := range offsets {
		phi.u64(pathHash(po.path, pathHashSeed))
		phi.u32(uint32(po.offset))
	}
	phi.u32(0)

	fdi := buildFullDirectoryIndex(offsets)

	phiHash := sha1Sum(phi.Bytes())
	fdiHash := sha1Sum(fdi.Bytes())

	const indexFixedOverhead = 105 // mount-point string + primary header + phi/fdi descriptors + trailer, minus mount point length and encoded-entries length
	bytesBeforePHI := int64(indexFixedOverhead) + int64(len(mountPoint)) + int64(encodedEntries.Len())
	phiOffset := indexFileOffset + bytesBeforePHI
	fdiOffset := phiOffset + int64(phi.Len())

	primary := &encoder{}
	primary.str(mountPoint)
	primary.u32(uint32(len(paths)))
	primary.u64(pathHashSeed)

	primary.u32(1)
	primary.u64(uint64(phiOffset)) //nolint:gosec
	primary.u64(uint64(phi.Len()))
	primary.sha1(phiHash)

	primary.u32(1)
	primary.u64(uint64(fdiOffset)) //nolint:gosec
	primary.u64(uint64(fdi.Len()))
	primary.sha1(fdiHash)

	primary.u32(uint32(encodedEntries.Len()))
	primary.write(encodedEntries.Bytes())
	primary.u32(0) // not-encoded entry count; AddFile only produces encodable entries

	hash := sha1Sum(primary.Bytes())

	return &writtenIndex{
		Primary:    primary.Bytes(),
		PathHash:   phi.Bytes(),
		FullDirIdx: fdi.Bytes(),
		IndexHash:  hash,
		IndexSize:  int64(primary.Len()),
	}, nil
}

// buildFullDirectoryIndex groups encoded entry offsets by parent
// directory, matching the on-disk full-directory-index tree: every
// ancestor directory gets an entry, even ones with no direct files.
func buildFullDirectoryIndex(offsets []pathOffset) *encoder {
	type dirEntry struct {
		files map[string]int32
		order []string
	}
	dirs := map[string]*dirEntry{}
	ensureDir := func(dir string) *dirEntry {
		d, ok := dirs[dir]
		if !ok {
			d = &dirEntry{files: map[string]int32{}}
			dirs[dir] = d
		}
		return d
	}

	for _, po := range offsets {
		dir, file := splitPathChild(po.path)
		ensureDir("/")
		for i := 0; i < len(dir)-1; i++ {
			if dir[i] == '/' {
				ensureDir(dir[:i+1])
			}
		}
		ensureDir(dir)
		d := dirs[dir]
		if _, exists := d.files[file]; !exists {
			d.order = append(d.order, file)
		}
		d.files[file] = int32(po.offset) //nolint:gosec // encoded-entries blob never exceeds int32 range
	}

	dirNames := make([]string, 0, len(dirs))
	for name := range dirs {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)

	e := &encoder{}
	e.u32(uint32(len(dirs)))
	for _, name := range dirNames {
		d := dirs[name]
		e.str(name)
		e.u32(uint32(len(d.order)))
		for _, file := range d.order {
			e.str(file)
			e.i32(d.files[file])
		}
	}
	return e
}

// splitPathChild splits an archive path into its parent directory
// (trailing-slash-terminated) and final path component.
func splitPathChild(path string) (dir, file string) {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "/", path
	}
	return path[:idx+1], path[idx+1:]
}

