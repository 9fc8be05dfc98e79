// internal/format/header.go
package format

import (
	"fmt"
	"io"
	"time"
)

const (
	// Magic signature at the start of every pg_dump archive
	ArchiveMagic = "PGDMP"
	MagicSize    = 5

	// FormatCustom is the only archive format byte this package decodes
	FormatCustom byte = 1
)

// Header is the decoded archive header
type Header struct {
	Version      Version
	Config       Config
	Format       byte
	Compression  CompressionMethod
	CreatedAt    time.Time
	DatabaseName string
	// ServerVersion is the version string of the server that was dumped
	ServerVersion string
	// DumpVersion is the version string of the pg_dump binary that wrote the archive
	DumpVersion string
}

// ReadHeader reads the signature and header fields from the start of r.
// The returned Config is the one every later read must use.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	magic := make([]byte, MagicSize)
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, &FieldError{Field: "magic", Err: truncated(err)}
	}
	if string(magic) != ArchiveMagic {
		return h, fmt.Errorf("%w: bad signature %q", ErrNotAnArchive, magic)
	}

	// The version and width bytes come before the widths are known, so they
	// are read with an unconfigured codec.
	var cfg Config
	var vb [3]byte
	for i := range vb {
		b, err := cfg.ReadUint8(r)
		if err != nil {
			return h, &FieldError{Field: "version", Err: err}
		}
		vb[i] = b
	}
	h.Version = Version{vb[0], vb[1], vb[2]}
	if !SupportedVersion(h.Version) {
		return h, &UnsupportedVersionError{Version: h.Version}
	}

	intSize, err := cfg.ReadUint8(r)
	if err != nil {
		return h, &FieldError{Field: "int size", Err: err}
	}
	offsetSize, err := cfg.ReadUint8(r)
	if err != nil {
		return h, &FieldError{Field: "offset size", Err: err}
	}
	cfg = Config{IntSize: int(intSize), OffsetSize: int(offsetSize)}
	h.Config = cfg

	if h.Format, err = cfg.ReadUint8(r); err != nil {
		return h, &FieldError{Field: "format", Err: err}
	}
	if h.Format != FormatCustom {
		return h, fmt.Errorf("%w: format byte %d", ErrWrongFormat, h.Format)
	}

	if h.Compression, err = decodeCompression(cfg, r, h.Version); err != nil {
		return h, &FieldError{Field: "compression", Err: err}
	}
	if h.CreatedAt, err = decodeTimestamp(cfg, r); err != nil {
		return h, &FieldError{Field: "creation date", Err: err}
	}
	if h.DatabaseName, err = cfg.ReadString(r); err != nil {
		return h, &FieldError{Field: "database name", Err: err}
	}
	if h.ServerVersion, err = cfg.ReadString(r); err != nil {
		return h, &FieldError{Field: "server version", Err: err}
	}
	if h.DumpVersion, err = cfg.ReadString(r); err != nil {
		return h, &FieldError{Field: "pg_dump version", Err: err}
	}

	return h, nil
}
