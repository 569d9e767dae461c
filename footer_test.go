// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"bytes"
	"testing"
)

func TestFooterRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		version Version
	}{
		{name: "V1", version: V1},
		{name: "V7", version: V7},
		{name: "V8A", version: V8A},
		{name: "V8B", version: V8B},
		{name: "V9", version: V9},
		{name: "V10", version: V10},
		{name: "V11", version: V11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := &Footer{
				Version:     tc.version,
				IndexOffset: 0x1234,
				IndexSize:   0x5678,
				IsEncrypted: tc.version >= V4,
				IsFrozen:    tc.version == V9,
			}
			for i := range numCompressionSlots(tc.version) {
				in.CompressionNames[i] = "Zlib"
			}
			for i := range in.IndexHash {
				in.IndexHash[i] = byte(i)
			}
			for i := range in.EncryptionKeyGUID {
				in.EncryptionKeyGUID[i] = byte(i + 1)
			}

			var buf bytes.Buffer
			if err := writeFooter(&buf, in); err != nil {
				t.Fatalf("writeFooter: %v", err)
			}

			got, err := readFooter(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			if err != nil {
				t.Fatalf("readFooter: %v", err)
			}

			if got.Version != in.Version {
				t.Fatalf("Version=%v, want %v", got.Version, in.Version)
			}
			if got.IndexOffset != in.IndexOffset {
				t.Fatalf("IndexOffset=%v, want %v", got.IndexOffset, in.IndexOffset)
			}
			if got.IndexSize != in.IndexSize {
				t.Fatalf("IndexSize=%v, want %v", got.IndexSize, in.IndexSize)
			}
			if got.IndexHash != in.IndexHash {
				t.Fatalf("IndexHash=%v, want %v", got.IndexHash, in.IndexHash)
			}
			if got.IsEncrypted != in.IsEncrypted {
				t.Fatalf("IsEncrypted=%v, want %v", got.IsEncrypted, in.IsEncrypted)
			}
			if tc.version == V9 && got.IsFrozen != in.IsFrozen {
				t.Fatalf("IsFrozen=%v, want %v", got.IsFrozen, in.IsFrozen)
			}
			if tc.version >= V7 && got.EncryptionKeyGUID != in.EncryptionKeyGUID {
				t.Fatalf("EncryptionKeyGUID=%v, want %v", got.EncryptionKeyGUID, in.EncryptionKeyGUID)
			}
			for i := range numCompressionSlots(tc.version) {
				if got.CompressionNames[i] != in.CompressionNames[i] {
					t.Fatalf("CompressionNames[%d]=%q, want %q", i, got.CompressionNames[i], in.CompressionNames[i])
				}
			}
		})
	}
}

func TestReadFooterRejectsGarbage(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{0xAA}, 64)
	_, err := readFooter(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatalf("expected error reading a footer with no valid magic")
	}
}
