// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import "testing"

func TestVerifyOodleHash(t *testing.T) {
	t.Parallel()

	data := []byte("pretend shared library bytes")
	// sha256("pretend shared library bytes")
	const want = "0127d5e822907fb9a8e59f2bc339e8fd63778bdbc19207c9a1fcd1c75e2b811c"

	if err := verifyOodleHash(data, want); err != nil {
		t.Fatalf("verifyOodleHash: %v", err)
	}
}

func TestVerifyOodleHashMismatch(t *testing.T) {
	t.Parallel()

	err := verifyOodleHash([]byte("anything"), "0000000000000000000000000000000000000000000000000000000000000000")
	if err == nil {
		t.Fatalf("expected hash mismatch error")
	}
}

func TestOodleDecompressEmptyExpectedSize(t *testing.T) {
	t.Parallel()

	n := &nativeOodle{}
	got, err := n.Decompress([]byte{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decompress with expectedSize=0 should return empty, got %v", got)
	}
}
