// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"fmt"
	"io"
)

// footer probe distances, in bytes counted back from end of file, at
// which the magic/version pair can be located for each version family.
// Versions V1-V7 all end in the same 44-byte tail (magic, version, index
// offset, index size, index hash) regardless of what optional fields
// precede it, so a single probe covers all seven.
const (
	footerProbeV1toV7 = 44
	footerProbeV8A    = 172
	footerProbeLate   = 204 // V8B, V10, V11 share a raw-version-minus-one encoding
	footerProbeV9     = 205
)

// footerFixedSize returns the total byte length of the footer region for
// the given version, i.e. the distance from end of file to its first byte.
func footerFixedSize(v Version) int64 {
	switch v {
	case V1, V2, V3:
		return 44
	case V4, V5, V6:
		return 45
	case V7:
		return 65
	case V8A:
		return 193
	case V9:
		return 226
	default: // V8B, V10, V11
		return 225
	}
}

// numCompressionSlots returns how many fixed 32-byte compression-name
// slots trail the footer for the given version.
func numCompressionSlots(v Version) int {
	switch {
	case v == V8A:
		return 4
	case v >= V8B:
		return 5
	default:
		return 0
	}
}

// probeVersion locates the footer magic and returns the archive version.
// It tries, in order, the four known tail distances; the first one whose
// leading four bytes equal the magic constant wins.
func probeVersion(c *cursor) (Version, error) {
	c.SeekFromEnd(footerProbeV1toV7)
	if magic, err := c.u32(); err == nil && magic == footerMagic {
		raw, err := c.u32()
		if err != nil {
			return VersionInvalid, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}
		return Version(raw), nil
	}

	c.SeekFromEnd(footerProbeV8A)
	if magic, err := c.u32(); err == nil && magic == footerMagic {
		return V8A, nil
	}

	c.SeekFromEnd(footerProbeLate)
	if magic, err := c.u32(); err == nil && magic == footerMagic {
		raw, err := c.u32()
		if err != nil {
			return VersionInvalid, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}
		return Version(raw + 1), nil
	}

	c.SeekFromEnd(footerProbeV9)
	if magic, err := c.u32(); err == nil && magic == footerMagic {
		return V9, nil
	}

	return VersionInvalid, ErrInvalidArchive
}

// readFooter locates and parses the archive footer from ra, which spans
// exactly size bytes.
func readFooter(ra io.ReaderAt, size int64) (*Footer, error) {
	probe := newCursor(ra, size)
	version, err := probeVersion(probe)
	if err != nil {
		return nil, err
	}
	if !version.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}

	c := newCursor(ra, size)
	c.SeekFromEnd(footerFixedSize(version))

	f := &Footer{Version: version}

	if version >= V7 {
		keyID, err := c.read(sha1Size)
		if err != nil {
			return nil, err
		}
		copy(f.EncryptionKeyGUID[:], keyID)
	}
	if version >= V4 {
		b, err := c.u8()
		if err != nil {
			return nil, err
		}
		f.IsEncrypted = b != 0
	}

	magic, err := c.u32()
	if err != nil {
		return nil, err
	}
	if magic != footerMagic {
		return nil, fmt.Errorf("%w: got %#x at offset %d", ErrInvalidArchive, magic, c.Pos()-4)
	}

	if _, err := c.u32(); err != nil { // raw version, already resolved by probeVersion
		return nil, err
	}

	indexOffset, err := c.u64()
	if err != nil {
		return nil, err
	}
	indexSize, err := c.u64()
	if err != nil {
		return nil, err
	}
	indexHash, err := c.sha1()
	if err != nil {
		return nil, err
	}

	f.IndexOffset = int64(indexOffset) //nolint:gosec // archive offsets fit well within int64
	f.IndexSize = int64(indexSize)     //nolint:gosec // archive sizes fit well within int64
	f.IndexHash = indexHash

	if version == V9 {
		b, err := c.u8()
		if err != nil {
			return nil, err
		}
		f.IsFrozen = b != 0
	}

	for i := range numCompressionSlots(version) {
		name, err := c.fixedASCII(compressNameLen)
		if err != nil {
			return nil, err
		}
		f.CompressionNames[i] = name
	}

	return f, nil
}

// writeFooter serializes f's fixed trailer, including the compression
// name table implied by f.Version, to w.
func writeFooter(w io.Writer, f *Footer) error {
	e := &encoder{}

	if f.Version >= V7 {
		e.write(f.EncryptionKeyGUID[:])
	}
	if f.Version >= V4 {
		if f.IsEncrypted {
			e.u8(1)
		} else {
			e.u8(0)
		}
	}

	e.u32(footerMagic)
	e.u32(rawVersionOnWire(f.Version))
	e.u64(uint64(f.IndexOffset)) //nolint:gosec // archive offsets are never negative
	e.u64(uint64(f.IndexSize))   //nolint:gosec // archive sizes are never negative
	e.sha1(f.IndexHash)

	if f.Version == V9 {
		if f.IsFrozen {
			e.u8(1)
		} else {
			e.u8(0)
		}
	}

	for i := range numCompressionSlots(f.Version) {
		e.fixedASCII(f.CompressionNames[i], compressNameLen)
	}

	_, err := w.Write(e.Bytes())
	return err
}

// rawVersionOnWire applies the historical off-by-one encoding: versions
// from V8B onward store version-1 on disk, which probeVersion's late-tail
// probe compensates for by adding 1 back.
func rawVersionOnWire(v Version) uint32 {
	if v >= V8B {
		return uint32(v) - 1
	}
	return uint32(v)
}
