// pkg/archive/archive.go

// Package archive decodes PostgreSQL custom-format (pg_dump -Fc) archives.
//
// Parse reads the header and table of contents from a forward-only stream
// and returns an Archive that is never modified afterwards. Table data is streamed on demand with
// OpenData, which needs a seekable handle on the same archive bytes.
package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// Re-exported format types
type (
	TocEntry          = format.TocEntry
	ID                = format.ID
	Oid               = format.Oid
	Section           = format.Section
	Offset            = format.Offset
	OffsetKind        = format.OffsetKind
	Version           = format.Version
	Compression       = format.Compression
	CompressionMethod = format.CompressionMethod
	BlockReader       = format.BlockReader
	BlockState        = format.BlockState
	Config            = format.Config
)

const (
	SectionNone     = format.SectionNone
	SectionPreData  = format.SectionPreData
	SectionData     = format.SectionData
	SectionPostData = format.SectionPostData

	CompressionNone = format.CompressionNone
	CompressionGzip = format.CompressionGzip
	CompressionLZ4  = format.CompressionLZ4
	CompressionZSTD = format.CompressionZSTD

	OffsetUnknown   = format.OffsetUnknown
	OffsetPosNotSet = format.OffsetPosNotSet
	OffsetPosSet    = format.OffsetPosSet
	OffsetNoData    = format.OffsetNoData
)

// SupportedVersions returns the oldest and newest archive format versions
// this package decodes.
func SupportedVersions() (oldest, newest Version) {
	return format.SupportedVersions()
}

// Object kinds used for lookups
const (
	DescTable     = "TABLE"
	DescTableData = "TABLE DATA"
)

// ParseSection parses a section name such as "data" or "post-data"
func ParseSection(s string) (Section, error) {
	return format.ParseSection(s)
}

// Archive is a decoded archive header plus its table of contents.
// It holds no file resources and is safe for concurrent reads as long as
// callers treat it as read-only: Entries, and the pointers FindTocEntry,
// FindQualified and Filter return into it, must not be modified. Use
// TocEntries for a copy that may be changed.
type Archive struct {
	Version       Version
	Compression   CompressionMethod
	CreatedAt     time.Time
	DatabaseName  string
	ServerVersion string
	DumpVersion   string
	Entries       []TocEntry // read-only, in TOC order

	config format.Config
}

// Parse decodes the header and TOC from r. It either returns a complete
// Archive or an error; r is left positioned somewhere after the TOC.
func Parse(r io.Reader) (*Archive, error) {
	switch r.(type) {
	case *bufio.Reader, *bytes.Reader, *bytes.Buffer:
	default:
		// Fields are read a few bytes at a time
		r = bufio.NewReaderSize(r, 64<<10)
	}

	h, err := format.ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	entries, err := format.ReadToc(h.Config, r, h.Version)
	if err != nil {
		return nil, fmt.Errorf("read toc: %w", err)
	}

	return &Archive{
		Version:       h.Version,
		Compression:   h.Compression,
		CreatedAt:     h.CreatedAt,
		DatabaseName:  h.DatabaseName,
		ServerVersion: h.ServerVersion,
		DumpVersion:   h.DumpVersion,
		Entries:       entries,
		config:        h.Config,
	}, nil
}

// Config returns the integer and offset widths announced by the header
func (a *Archive) Config() Config {
	return a.config
}

func (a *Archive) String() string {
	return fmt.Sprintf("version=%s compression=%s", a.Version, a.Compression)
}

// TocEntries returns a deep copy of Entries
func (a *Archive) TocEntries() []TocEntry {
	out := slices.Clone(a.Entries)
	for i := range out {
		out[i].Dependencies = slices.Clone(out[i].Dependencies)
	}
	return out
}

// FindTocEntry returns the first entry matching section, desc and tag.
// The returned entry points into Entries and must not be modified.
func (a *Archive) FindTocEntry(section Section, desc, tag string) (*TocEntry, bool) {
	for i := range a.Entries {
		e := &a.Entries[i]
		if e.Section == section && e.Desc == desc && e.Tag == tag {
			return e, true
		}
	}
	return nil, false
}

// FindQualified is FindTocEntry restricted to one namespace. An empty
// namespace matches any.
func (a *Archive) FindQualified(section Section, desc, namespace, tag string) (*TocEntry, bool) {
	for i := range a.Entries {
		e := &a.Entries[i]
		if e.Section == section && e.Desc == desc && e.Tag == tag &&
			(namespace == "" || e.Namespace == namespace) {
			return e, true
		}
	}
	return nil, false
}

// Filter returns the entries for which keep returns true, in TOC order
func (a *Archive) Filter(keep func(e *TocEntry) bool) []*TocEntry {
	var out []*TocEntry
	for i := range a.Entries {
		if keep(&a.Entries[i]) {
			out = append(out, &a.Entries[i])
		}
	}
	return out
}

// DataEntries returns the table data entries in TOC order
func (a *Archive) DataEntries() []*TocEntry {
	return a.Filter(func(e *TocEntry) bool {
		return e.Section == SectionData && e.Desc == DescTableData
	})
}

// OpenData streams the decompressed data of e from rs, which must hold the
// same archive bytes Parse decoded. The reader owns the cursor of rs until
// it is closed or exhausted.
func (a *Archive) OpenData(rs io.ReadSeeker, e *TocEntry) (io.ReadCloser, error) {
	// Checked before touching rs
	if a.Compression.Algorithm == CompressionLZ4 {
		return nil, fmt.Errorf("toc entry %d: %w: %s", e.ID, ErrCompressionMethodNotSupported, a.Compression)
	}

	block, err := format.OpenBlock(rs, a.config, e.Offset)
	if err != nil {
		return nil, fmt.Errorf("toc entry %d: open data: %w", e.ID, err)
	}
	rc, err := newDecompressor(a.Compression, block)
	if err != nil {
		return nil, fmt.Errorf("toc entry %d: %w", e.ID, err)
	}
	return rc, nil
}

// Decompress decodes a raw chunk stream, as returned by OpenBlock, with the
// archive's compression method.
func (a *Archive) Decompress(block io.Reader) (io.ReadCloser, error) {
	if a.Compression.Algorithm == CompressionLZ4 {
		return nil, fmt.Errorf("%w: %s", ErrCompressionMethodNotSupported, a.Compression)
	}
	return newDecompressor(a.Compression, block)
}

// OpenBlock returns the raw, still compressed chunk stream of e
func (a *Archive) OpenBlock(rs io.ReadSeeker, e *TocEntry) (*BlockReader, error) {
	block, err := format.OpenBlock(rs, a.config, e.Offset)
	if err != nil {
		return nil, fmt.Errorf("toc entry %d: open data: %w", e.ID, err)
	}
	return block, nil
}
