// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// cursor reads little-endian primitives from a random-access byte source
// bounded to [0, size). It is the shared decode surface for the footer,
// entry, and index codecs.
type cursor struct {
	ra   io.ReaderAt
	pos  int64
	size int64
}

// newCursor returns a cursor over ra bounded to size bytes, starting at
// position 0.
func newCursor(ra io.ReaderAt, size int64) *cursor {
	return &cursor{ra: ra, size: size}
}

// newCursorFromBytes returns a cursor over an in-memory buffer.
func newCursorFromBytes(data []byte) *cursor {
	return newCursor(bytes.NewReader(data), int64(len(data)))
}

// Pos returns the current read offset.
func (c *cursor) Pos() int64 { return c.pos }

// Seek moves the cursor to an absolute offset.
func (c *cursor) Seek(pos int64) { c.pos = pos }

// SeekFromEnd moves the cursor to size-distance.
func (c *cursor) SeekFromEnd(distance int64) { c.pos = c.size - distance }

// read reads exactly n bytes at the current position and advances it.
func (c *cursor) read(n int) ([]byte, error) {
	if n < 0 || c.pos < 0 || c.pos+int64(n) > c.size {
		return nil, fmt.Errorf("%w: read %d bytes at %d (size %d)", ErrTruncatedData, n, c.pos, c.size)
	}

	buf := make([]byte, n)
	if _, err := c.ra.ReadAt(buf, c.pos); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}

	c.pos += int64(n)
	return buf, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err //nolint:gosec // bit-identical reinterpretation
}

func (c *cursor) sha1() ([sha1Size]byte, error) {
	var out [sha1Size]byte
	b, err := c.read(sha1Size)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// fixedASCII reads n bytes and trims a trailing NUL-padded ASCII string.
func (c *cursor) fixedASCII(n int) (string, error) {
	b, err := c.read(n)
	if err != nil {
		return "", err
	}
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		b = b[:idx]
	}
	return string(b), nil
}

// str reads a length-prefixed string: a signed i32 length prefix followed
// by NUL-terminated ASCII (positive length) or UTF-16LE (negative length,
// code-unit count) content, or an empty string when the prefix is zero.
func (c *cursor) str() (string, error) {
	length, err := c.i32()
	if err != nil {
		return "", err
	}

	switch {
	case length > 0:
		b, err := c.read(int(length))
		if err != nil {
			return "", err
		}
		return string(bytes.TrimRight(b, "\x00")), nil
	case length < 0:
		units := -int(length)
		b, err := c.read(units * 2)
		if err != nil {
			return "", err
		}
		codeUnits := make([]uint16, units)
		for i := range codeUnits {
			codeUnits[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
		}
		decoded := utf16.Decode(codeUnits)
		return string(bytes.TrimRight([]byte(string(decoded)), "\x00")), nil
	default:
		return "", nil
	}
}

// section returns a new cursor over a byte range of the same underlying
// source, used to scope parsing of index sub-regions.
func (c *cursor) section(offset int64, size int64) *cursor {
	return newCursor(io.NewSectionReader(c.ra, offset, size), size)
}

// buffer copies offset..offset+size into memory and returns a cursor over it.
func (c *cursor) buffer(offset int64, size int64) (*cursor, error) {
	b := make([]byte, size)
	if _, err := c.ra.ReadAt(b, offset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return newCursorFromBytes(b), nil
}

// encoder accumulates little-endian primitives into a growable buffer for
// the index/entry write paths.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) Bytes() []byte { return e.buf.Bytes() }
func (e *encoder) Len() int      { return e.buf.Len() }

func (e *encoder) write(b []byte) { e.buf.Write(b) }

func (e *encoder) u8(v uint8) { e.buf.WriteByte(v) }

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) i32(v int32) { e.u32(uint32(v)) } //nolint:gosec // bit-identical reinterpretation

func (e *encoder) sha1(v [sha1Size]byte) { e.buf.Write(v[:]) }

func (e *encoder) fixedASCII(value string, n int) {
	b := make([]byte, n)
	copy(b, value)
	e.buf.Write(b)
}

// str writes a length-prefixed string using ASCII when the value is pure
// ASCII and UTF-16LE otherwise, matching cursor.str's wire contract.
func (e *encoder) str(value string) {
	value += "\x00"
	if isASCII(value) {
		e.i32(int32(len(value))) //nolint:gosec // archive path lengths fit well within int32
		e.buf.WriteString(value)
		return
	}

	units := utf16.Encode([]rune(value))
	e.i32(-int32(len(units))) //nolint:gosec // archive path lengths fit well within int32
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		e.buf.Write(b[:])
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
