// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import "errors"

// Sentinel errors for pak operations. Use errors.Is in callers.
var (
	// ErrInvalidArchive means the footer magic could not be located at any known offset.
	ErrInvalidArchive = errors.New("invalid pak archive: magic not found")
	// ErrUnsupportedVersion means the archive declares a version this package cannot parse.
	ErrUnsupportedVersion = errors.New("unsupported pak version")
	// ErrTruncatedData means a read ran past the end of the source.
	ErrTruncatedData = errors.New("truncated pak data")
	// ErrDecryptionRequired means the archive index or an entry is encrypted and no key was supplied.
	ErrDecryptionRequired = errors.New("archive is encrypted: key required")
	// ErrInvalidKey means the supplied key is not a 32-byte AES-256 key.
	ErrInvalidKey = errors.New("invalid encryption key: expected 32 bytes")
	// ErrCompressionUnsupported means an entry uses a compression method this package cannot decode.
	ErrCompressionUnsupported = errors.New("unsupported compression method")
	// ErrCorruptEntry means entry metadata is internally inconsistent (bad block count, bad size, etc).
	ErrCorruptEntry = errors.New("corrupt entry record")
	// ErrNotFound means the requested entry path does not exist in the archive.
	ErrNotFound = errors.New("entry not found")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrClosed means the archive was already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrInvalidEntryPath means an entry path is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrExtractPathOutsideRoot means a resolved extraction path escapes the destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrOodleUnavailable means the Oodle native library could not be loaded.
	ErrOodleUnavailable = errors.New("oodle native library unavailable")
)
