// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// decompressor decodes one block of compressed payload, given the exact
// uncompressed length expected for that block.
type decompressor interface {
	Decompress(compressed []byte, expectedSize int64) ([]byte, error)
}

// compressorFor returns the decoder for method, or ErrCompressionUnsupported.
func compressorFor(method CompressionMethod) (decompressor, error) {
	switch method {
	case CompressionZlib:
		return zlibDecompressor{}, nil
	case CompressionGzip:
		return gzipDecompressor{}, nil
	case CompressionOodle:
		return oodleDecompressor{codec: defaultOodleCodec()}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrCompressionUnsupported, method)
	}
}

type zlibDecompressor struct{}

func (zlibDecompressor) Decompress(compressed []byte, expectedSize int64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCorruptEntry, err)
	}
	defer r.Close()

	out := make([]byte, expectedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", ErrCorruptEntry, err)
	}
	return out, nil
}

type gzipDecompressor struct{}

func (gzipDecompressor) Decompress(compressed []byte, expectedSize int64) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrCorruptEntry, err)
	}
	defer r.Close()

	out := make([]byte, expectedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrCorruptEntry, err)
	}
	return out, nil
}

// oodleDecompressor adapts an OodleCodec, which operates on whole buffers
// with an explicit output size, to the decompressor interface.
type oodleDecompressor struct {
	codec OodleCodec
}

func (d oodleDecompressor) Decompress(compressed []byte, expectedSize int64) ([]byte, error) {
	if d.codec == nil {
		return nil, ErrOodleUnavailable
	}
	return d.codec.Decompress(compressed, expectedSize)
}

// OodleCodec is the native Oodle decompress surface. The default
// implementation (see oodle.go) lazily loads the vendor shared library.
// compressorFor always uses that default; Archive and ReaderOptions offer
// no way to supply another implementation, so only code inside this
// package (such as tests) can wrap its own OodleCodec in an
// oodleDecompressor.
type OodleCodec interface {
	Decompress(compressed []byte, expectedSize int64) ([]byte, error)
}

// compressionTable builds the footer's implicit "index 0 = None" plus the
// up-to-five named compression method slots into a fixed lookup array
// used by both the full-form and encoded entry decoders.
func compressionTable(names [maxCompressNames]string) [maxCompressNames + 1]CompressionMethod {
	var table [maxCompressNames + 1]CompressionMethod
	table[0] = CompressionNone
	for i, name := range names {
		table[i+1] = compressionFromName(name)
	}
	return table
}
