// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"time"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	footerMagic      = 0x5A6F12E1
	sha1Size         = 20
	maxCompressNames = 5
	compressNameLen  = 32
)

// CompressionMethod identifies how an entry's payload is stored on disk.
type CompressionMethod uint8

// Supported compression methods.
const (
	CompressionNone CompressionMethod = iota
	CompressionZlib
	CompressionGzip
	CompressionOodle
	compressionUnknown
)

// String returns a human-readable compression method name.
func (c CompressionMethod) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionGzip:
		return "Gzip"
	case CompressionOodle:
		return "Oodle"
	default:
		return "Unknown"
	}
}

// compressionFromName maps a footer compression-name slot to a method tag.
func compressionFromName(name string) CompressionMethod {
	switch name {
	case "", "None":
		return CompressionNone
	case "Zlib":
		return CompressionZlib
	case "Gzip":
		return CompressionGzip
	case "Oodle":
		return CompressionOodle
	default:
		return compressionUnknown
	}
}

// Block is a half-open byte range [Start, End) within an entry's compressed payload.
type Block struct {
	Start int64
	End   int64
}

// Entry describes one archive member: its location, size, and how its
// payload is encoded on disk. Entry carries no reference to the archive it
// came from; version, key, and compression table are passed explicitly at
// call sites.
type Entry struct {
	// Hash is SHA-1 of uncompressed content, recomputed on write.
	Hash [sha1Size]byte
	// Path is the entry's archive-relative path.
	Path string
	// Blocks lists compressed-payload block ranges; empty when uncompressed
	// and read via the full form with a single implicit block.
	Blocks []Block
	// Offset is the absolute byte offset of the entry's on-disk header.
	Offset int64
	// Size is the uncompressed payload length.
	Size int64
	// CompressedSize is the compressed payload length; equals Size when
	// Compression is CompressionNone.
	CompressedSize int64
	// CompressionBlockSize is the nominal uncompressed byte count per block;
	// zero when uncompressed.
	CompressionBlockSize uint32
	// Compression is the payload's compression method.
	Compression CompressionMethod
	// IsEncrypted reports whether the payload bytes are AES-256-ECB encrypted.
	IsEncrypted bool
}

// Footer is the archive's fixed trailer, located via a version-dependent
// magic probe at one of a few known distances from end of file.
type Footer struct {
	// EncryptionKeyGUID identifies the encryption key in use; present at V7+.
	// It is read and written as a 20-byte field at the start of the footer
	// rather than a conventional 16-byte GUID.
	EncryptionKeyGUID [sha1Size]byte
	// IndexHash is SHA-1 of the serialized index region.
	IndexHash [sha1Size]byte
	// CompressionNames lists up to five 32-byte ASCII compression method
	// names; index 0 in an entry's wire compression field always means
	// None, non-zero values index into this table (1-based).
	CompressionNames [maxCompressNames]string
	// IndexOffset is the absolute byte offset of the index region.
	IndexOffset int64
	// IndexSize is the byte length of the index region.
	IndexSize int64
	// Version is the archive format version.
	Version Version
	// IsEncrypted reports whether the index region is AES-256-ECB encrypted.
	IsEncrypted bool
	// IsFrozen is an informational flag present at V9.
	IsFrozen bool
}

// Index is the parsed archive index: mount point plus every entry keyed by
// archive-relative path. Paths records the same entries in the order they
// appear on the wire, which for an archive this package wrote is the
// caller's original insertion order.
type Index struct {
	Entries       map[string]*Entry
	Paths         []string
	MountPoint    string
	PathHashSeed  uint64
	HasPathHash   bool
	HasFullDirIdx bool
}

// Input describes one caller-provided source stream to be written as an
// archive entry. AddFile always produces CompressionNone entries.
type Input struct {
	// Open returns the raw source stream for this entry.
	Open func() (ReadAtCloser, error)
	// Path is the destination path inside the archive.
	Path string
	// Size is the exact payload size in bytes.
	Size int64
	// ModTime is recorded only for caller bookkeeping; the wire format has
	// no per-entry timestamp field at V2+ and V1 always writes zero.
	ModTime time.Time
}

// ReadAtCloser is a closable sequential reader (Read plus Close), satisfied
// by *os.File and by an in-memory byte source.
type ReadAtCloser interface {
	ReadAtCloserReader
	Close() error
}

// ReadAtCloserReader is the read surface required from an Input's source.
type ReadAtCloserReader interface {
	Read(p []byte) (int, error)
}

// ReaderOptions configures how Open/OpenWithOptions parses an archive.
type ReaderOptions struct {
	// Key decrypts the index and any encrypted entry payloads. Required
	// when the archive reports IsEncrypted.
	Key *[32]byte
}

// ListOptions narrows List/entry enumeration to a subset of paths.
type ListOptions struct {
	// Rules, when non-empty, selects entries whose path is included by the
	// compiled rule set.
	Rules []pathrules.Rule
	// MatcherOptions controls rule matching (case sensitivity, default action).
	MatcherOptions pathrules.MatcherOptions
}

// ExtractOptions configures ParallelExtract.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(path string, written int64, outputPath string)
	// Rules, when non-empty, restricts extraction to matching entries.
	Rules []pathrules.Rule
	// MatcherOptions controls rule matching (case sensitivity, default action).
	MatcherOptions pathrules.MatcherOptions
	// MaxWorkers bounds concurrent extraction workers; zero means GOMAXPROCS.
	MaxWorkers int
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}
}

// applyDefaults fills zero-valued list options with defaults.
func (opts *ListOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}
}
