// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"fmt"
	"strings"
)

// Version identifies the on-disk layout of a pak archive footer, entry, and
// index records. Ordering follows historical release order; V8A and V8B
// are the two historical sub-variants of the version-8 footer layout.
// V8A orders directly before V8B, but the two are distinct layouts, so
// callers needing an exact match should compare equality, not AtLeast.
type Version uint32

// Known archive versions.
const (
	VersionInvalid Version = iota
	V1
	V2
	V3
	V4
	V5
	V6
	V7
	V8A
	V8B
	V9
	V10
	V11
)

// String returns the canonical version name (e.g. "V8A").
func (v Version) String() string {
	switch v {
	case V1:
		return "V1"
	case V2:
		return "V2"
	case V3:
		return "V3"
	case V4:
		return "V4"
	case V5:
		return "V5"
	case V6:
		return "V6"
	case V7:
		return "V7"
	case V8A:
		return "V8A"
	case V8B:
		return "V8B"
	case V9:
		return "V9"
	case V10:
		return "V10"
	case V11:
		return "V11"
	default:
		return fmt.Sprintf("Version(%d)", uint32(v))
	}
}

// AtLeast reports whether v is the same version or a later one than other,
// by declaration order. V8A and V8B are adjacent in this order but are
// distinct layouts, so code that branches specifically on V8A/V8B should
// use == rather than AtLeast.
func (v Version) AtLeast(other Version) bool {
	return v >= other
}

// Valid reports whether v is one of the known archive versions.
func (v Version) Valid() bool {
	return v >= V1 && v <= V11
}

// ParseVersion parses a version name such as "V11" or "v11" (case
// insensitive) into its Version value.
func ParseVersion(s string) (Version, error) {
	for v := V1; v <= V11; v++ {
		if v.String() == strings.ToUpper(s) {
			return v, nil
		}
	}
	return VersionInvalid, fmt.Errorf("%w: unknown version %q", ErrUnsupportedVersion, s)
}
