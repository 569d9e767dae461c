// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"crypto/sha1" //nolint:gosec // format-mandated digest, not used for security
	"fmt"
	"io"
)

const maxUint32 = 0xFFFFFFFF

// entrySerializedSize returns the byte length of an entry's full-form
// on-disk header for the given version, compression method, and block
// count, used to locate where an entry's payload begins relative to its
// header and, for single-block entries, to reconstruct the implicit
// block range.
func entrySerializedSize(version Version, compression CompressionMethod, blockCount int) int64 {
	size := int64(24) // offset + compressed_size + size, all u64

	if version == V8A {
		size++
	} else {
		size += 4
	}

	if version == V1 {
		size += 8 // timestamp
	}

	size += sha1Size

	if version >= V3 {
		if compression != CompressionNone {
			size += 4 + 16*int64(blockCount)
		}
		size++    // is_encrypted
		size += 4 // compression_block_size
	}

	return size
}

// readEntryFull decodes one entry in its full (non bit-packed) wire form
// from c, resolving its compression method against names, the footer's
// compression-name table with an implicit "None" at index 0.
func readEntryFull(c *cursor, version Version, names [maxCompressNames + 1]CompressionMethod) (*Entry, error) {
	e := &Entry{}

	offset, err := c.u64()
	if err != nil {
		return nil, err
	}
	compressedSize, err := c.u64()
	if err != nil {
		return nil, err
	}
	size, err := c.u64()
	if err != nil {
		return nil, err
	}
	e.Offset = int64(offset)         //nolint:gosec // archive offsets fit well within int64
	e.CompressedSize = int64(compressedSize) //nolint:gosec // archive sizes fit well within int64
	e.Size = int64(size)             //nolint:gosec // archive sizes fit well within int64

	var compressionIdx uint32
	if version == V8A {
		v, err := c.u8()
		if err != nil {
			return nil, err
		}
		compressionIdx = uint32(v)
	} else {
		v, err := c.u32()
		if err != nil {
			return nil, err
		}
		compressionIdx = v
	}
	if int(compressionIdx) >= len(names) {
		return nil, fmt.Errorf("%w: compression index %d out of range", ErrCorruptEntry, compressionIdx)
	}
	e.Compression = names[compressionIdx]

	if version == V1 {
		if _, err := c.u64(); err != nil { // timestamp, unused
			return nil, err
		}
	}

	hash, err := c.sha1()
	if err != nil {
		return nil, err
	}
	e.Hash = hash

	if version >= V3 {
		if e.Compression != CompressionNone {
			count, err := c.u32()
			if err != nil {
				return nil, err
			}
			e.Blocks = make([]Block, count)
			for i := range e.Blocks {
				start, err := c.u64()
				if err != nil {
					return nil, err
				}
				end, err := c.u64()
				if err != nil {
					return nil, err
				}
				e.Blocks[i] = Block{Start: int64(start), End: int64(end)} //nolint:gosec
			}
		}

		encByte, err := c.u8()
		if err != nil {
			return nil, err
		}
		e.IsEncrypted = encByte != 0

		blockSize, err := c.u32()
		if err != nil {
			return nil, err
		}
		e.CompressionBlockSize = blockSize
	}

	return e, nil
}

// writeEntryFull serializes e's full-form header. Writing always targets
// CompressionNone entries with zero blocks; callers never stage
// compressed or encrypted output.
func writeEntryFull(e *encoder, version Version, entry *Entry) {
	e.u64(uint64(entry.Offset))         //nolint:gosec
	e.u64(uint64(entry.CompressedSize)) //nolint:gosec
	e.u64(uint64(entry.Size))           //nolint:gosec

	if version == V8A {
		e.u8(0)
	} else {
		e.u32(0)
	}

	if version == V1 {
		e.u64(0)
	}

	e.sha1(entry.Hash)

	if version >= V3 {
		// entry.Compression is always CompressionNone on write, so the
		// block-list slot is omitted per entrySerializedSize's formula.
		e.u8(0) // is_encrypted
		e.u32(0)
	}
}

// readEntryEncoded decodes one entry from its bit-packed 32-bit form.
func readEntryEncoded(c *cursor, version Version, names [maxCompressNames + 1]CompressionMethod) (*Entry, error) {
	data, err := c.u32()
	if err != nil {
		return nil, err
	}

	e := &Entry{}

	compressionIdx := (data >> 23) & 0x3F
	if int(compressionIdx) >= len(names) {
		return nil, fmt.Errorf("%w: compression index %d out of range", ErrCorruptEntry, compressionIdx)
	}
	e.Compression = names[compressionIdx]
	e.IsEncrypted = data&(1<<22) != 0
	blockCount := (data >> 6) & 0xFFFF

	blockSizeField := data & 0x3F
	if blockSizeField == 0x3F {
		blockSize, err := c.u32()
		if err != nil {
			return nil, err
		}
		e.CompressionBlockSize = blockSize
	} else {
		e.CompressionBlockSize = blockSizeField << 11
	}

	readVarint := func(bit uint) (int64, error) {
		if data&(1<<bit) != 0 {
			v, err := c.u32()
			return int64(v), err
		}
		v, err := c.u64()
		return int64(v), err //nolint:gosec
	}

	offset, err := readVarint(31)
	if err != nil {
		return nil, err
	}
	size, err := readVarint(30)
	if err != nil {
		return nil, err
	}
	e.Offset = offset
	e.Size = size

	if e.Compression != CompressionNone {
		compressedSize, err := readVarint(29)
		if err != nil {
			return nil, err
		}
		e.CompressedSize = compressedSize
	} else {
		e.CompressedSize = e.Size
	}

	offsetBase := entrySerializedSize(version, e.Compression, int(blockCount))

	switch {
	case blockCount == 1 && !e.IsEncrypted:
		e.Blocks = []Block{{Start: offsetBase, End: offsetBase + e.CompressedSize}}
	case blockCount > 0:
		e.Blocks = make([]Block, blockCount)
		index := offsetBase
		for i := range e.Blocks {
			blockSize, err := c.u32()
			if err != nil {
				return nil, err
			}
			e.Blocks[i] = Block{Start: index, End: index + int64(blockSize)}
			advance := int64(blockSize)
			if e.IsEncrypted {
				advance = align16(advance)
			}
			index += advance
		}
	}

	return e, nil
}

// writeEntryEncoded serializes e in the bit-packed encoded form, used
// only by the index writer's encoded-entries blob for entries whose
// fields fit the 32-bit-safe flags.
func writeEntryEncoded(e *encoder, entry *Entry, compressionIndex uint32) {
	blockSizeField := (entry.CompressionBlockSize >> 11) & 0x3F
	literalBlockSize := blockSizeField == 0x3F || blockSizeField<<11 != entry.CompressionBlockSize

	offsetSafe := entry.Offset <= maxUint32
	sizeSafe := entry.Size <= maxUint32
	compressedSizeSafe := entry.CompressedSize <= maxUint32

	flags := uint32(0)
	if literalBlockSize {
		flags |= 0x3F
	} else {
		flags |= blockSizeField
	}
	flags |= uint32(len(entry.Blocks)&0xFFFF) << 6
	if entry.IsEncrypted {
		flags |= 1 << 22
	}
	flags |= compressionIndex << 23
	if compressedSizeSafe {
		flags |= 1 << 29
	}
	if sizeSafe {
		flags |= 1 << 30
	}
	if offsetSafe {
		flags |= 1 << 31
	}

	e.u32(flags)

	if literalBlockSize {
		e.u32(entry.CompressionBlockSize)
	}

	if offsetSafe {
		e.u32(uint32(entry.Offset)) //nolint:gosec
	} else {
		e.u64(uint64(entry.Offset)) //nolint:gosec
	}
	if sizeSafe {
		e.u32(uint32(entry.Size)) //nolint:gosec
	} else {
		e.u64(uint64(entry.Size)) //nolint:gosec
	}
	if entry.Compression != CompressionNone {
		if compressedSizeSafe {
			e.u32(uint32(entry.CompressedSize)) //nolint:gosec
		} else {
			e.u64(uint64(entry.CompressedSize)) //nolint:gosec
		}
	}
}

// readPayload seeks to entry.Offset, discards its full-form header, and
// returns the entry's decoded (decrypted and decompressed) content.
func readPayload(ra io.ReaderAt, size int64, version Version, entry *Entry, key *[32]byte) ([]byte, error) {
	headerSize := entrySerializedSize(version, entry.Compression, len(entry.Blocks))
	dataOffset := entry.Offset + headerSize

	if entry.Compression == CompressionNone {
		return readUncompressedPayload(ra, size, dataOffset, entry, key)
	}
	return readCompressedPayload(ra, size, dataOffset, version, entry, key)
}

func readUncompressedPayload(ra io.ReaderAt, size int64, dataOffset int64, entry *Entry, key *[32]byte) ([]byte, error) {
	readLen := entry.CompressedSize
	if entry.IsEncrypted {
		readLen = align16(readLen)
	}

	raw, err := readExact(ra, size, dataOffset, readLen)
	if err != nil {
		return nil, err
	}

	if entry.IsEncrypted {
		return decryptECBTruncated(key, raw, entry.Size)
	}
	return raw, nil
}

func readCompressedPayload(ra io.ReaderAt, size int64, dataOffset int64, version Version, entry *Entry, key *[32]byte) ([]byte, error) {
	codec, err := compressorFor(entry.Compression)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, entry.Size)

	// No explicit block list: a single implicit block spanning the whole
	// compressed payload, read directly from the data region.
	if len(entry.Blocks) == 0 {
		raw, err := readExact(ra, size, dataOffset, entry.CompressedSize)
		if err != nil {
			return nil, err
		}
		if entry.IsEncrypted {
			raw, err = decryptECB(key, raw)
			if err != nil {
				return nil, err
			}
		}
		return codec.Decompress(raw, entry.Size)
	}

	var written int64
	for _, b := range entry.Blocks {
		start, end := blockOrigin(version, entry.Offset, b)
		expected := min(int64(entry.CompressionBlockSize), entry.Size-written)

		raw, err := readExact(ra, size, start, end-start)
		if err != nil {
			return nil, err
		}

		if entry.IsEncrypted {
			raw, err = decryptECB(key, raw)
			if err != nil {
				return nil, err
			}
		}

		chunk, err := codec.Decompress(raw, expected)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		written += int64(len(chunk))
	}

	return out, nil
}

// blockOrigin resolves a block's [start,end) range to absolute file
// offsets. At V5+ (RelativeChunkOffsets) block bounds are recorded
// relative to the entry's own header start; before V5 they are already
// absolute file offsets.
func blockOrigin(version Version, entryOffset int64, b Block) (int64, int64) {
	if version >= V5 {
		return entryOffset + b.Start, entryOffset + b.End
	}
	return b.Start, b.End
}

func readExact(ra io.ReaderAt, size int64, offset int64, n int64) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > size {
		return nil, fmt.Errorf("%w: read %d bytes at %d (size %d)", ErrTruncatedData, n, offset, size)
	}
	buf := make([]byte, n)
	if _, err := ra.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return buf, nil
}

// sha1Sum computes the SHA-1 digest used for both per-entry hashes and
// the index's own integrity hash.
func sha1Sum(data []byte) [sha1Size]byte {
	return sha1.Sum(data)
}
