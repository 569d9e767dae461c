// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bytes"
	"compress/gzip"
	"errors"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func TestZlibDecompressor(t *testing.T) {
	t.Parallel()

	plain := []byte("the quick brown fox jumps over the lazy dog")

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	got, err := (zlibDecompressor{}).Decompress(buf.Bytes(), int64(len(plain)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("Decompress=%q, want %q", got, plain)
	}
}

func TestGzipDecompressor(t *testing.T) {
	t.Parallel()

	plain := []byte("the quick brown fox jumps over the lazy dog")

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	got, err := (gzipDecompressor{}).Decompress(buf.Bytes(), int64(len(plain)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("Decompress=%q, want %q", got, plain)
	}
}

func TestCompressorForUnsupported(t *testing.T) {
	t.Parallel()

	_, err := compressorFor(compressionUnknown)
	if !errors.Is(err, ErrCompressionUnsupported) {
		t.Fatalf("expected ErrCompressionUnsupported, got %v", err)
	}
}

func TestOodleDecompressorUnavailable(t *testing.T) {
	t.Parallel()

	d := oodleDecompressor{codec: nil}
	_, err := d.Decompress([]byte{1, 2, 3}, 10)
	if !errors.Is(err, ErrOodleUnavailable) {
		t.Fatalf("expected ErrOodleUnavailable, got %v", err)
	}
}

type fakeOodleCodec struct {
	out []byte
	err error
}

func (f fakeOodleCodec) Decompress(compressed []byte, expectedSize int64) ([]byte, error) {
	return f.out, f.err
}

func TestOodleDecompressorDelegates(t *testing.T) {
	t.Parallel()

	want := []byte("decompressed")
	d := oodleDecompressor{codec: fakeOodleCodec{out: want}}

	got, err := d.Decompress([]byte{0xDE, 0xAD}, int64(len(want)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Decompress=%q, want %q", got, want)
	}
}

func TestCompressionTable(t *testing.T) {
	t.Parallel()

	names := [maxCompressNames]string{"Zlib", "Gzip", "Oodle", "", ""}
	table := compressionTable(names)

	if table[0] != CompressionNone {
		t.Fatalf("table[0]=%v, want CompressionNone", table[0])
	}
	if table[1] != CompressionZlib {
		t.Fatalf("table[1]=%v, want CompressionZlib", table[1])
	}
	if table[2] != CompressionGzip {
		t.Fatalf("table[2]=%v, want CompressionGzip", table[2])
	}
	if table[3] != CompressionOodle {
		t.Fatalf("table[3]=%v, want CompressionOodle", table[3])
	}
	if table[4] != CompressionNone {
		t.Fatalf("table[4]=%v, want CompressionNone for an empty slot", table[4])
	}
}
