// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"errors"
	"testing"
)

func TestVersionStringRoundTrip(t *testing.T) {
	t.Parallel()

	for v := V1; v <= V11; v++ {
		v := v
		t.Run(v.String(), func(t *testing.T) {
			t.Parallel()

			got, err := ParseVersion(v.String())
			if err != nil {
				t.Fatalf("ParseVersion(%q): %v", v.String(), err)
			}
			if got != v {
				t.Fatalf("ParseVersion(%q)=%v, want %v", v.String(), got, v)
			}
		})
	}
}

func TestParseVersionCaseInsensitive(t *testing.T) {
	t.Parallel()

	got, err := ParseVersion("v11")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if got != V11 {
		t.Fatalf("ParseVersion(\"v11\")=%v, want V11", got)
	}
}

func TestParseVersionUnknown(t *testing.T) {
	t.Parallel()

	_, err := ParseVersion("V99")
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestVersionAtLeast(t *testing.T) {
	t.Parallel()

	if !V10.AtLeast(V9) {
		t.Fatalf("V10.AtLeast(V9) = false, want true")
	}
	if V9.AtLeast(V10) {
		t.Fatalf("V9.AtLeast(V10) = true, want false")
	}
}
