// internal/format/detect.go
package format

import "bytes"

// ContainerFormat is the detected outer layout of a dump file
type ContainerFormat int

const (
	ContainerUnknown ContainerFormat = iota
	ContainerPGDump                  // plain custom-format archive
	ContainerGzip                    // archive wrapped in gzip
	ContainerXZ                      // archive wrapped in xz
	ContainerZstd                    // archive wrapped in zstd
	ContainerPlainSQL                // plain-text pg_dump output, not an archive
)

// DetectSize is the number of leading bytes DetectFormat needs
const DetectSize = 8

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	sqlMagic  = []byte("--\n-- PostgreSQL database dump")
)

// String returns the string representation of the format
func (f ContainerFormat) String() string {
	switch f {
	case ContainerPGDump:
		return "PGDMP"
	case ContainerGzip:
		return "GZIP"
	case ContainerXZ:
		return "XZ"
	case ContainerZstd:
		return "ZSTD"
	case ContainerPlainSQL:
		return "SQL"
	default:
		return "UNKNOWN"
	}
}

// DetectFormat detects the container format from magic bytes
func DetectFormat(magic []byte) ContainerFormat {
	switch {
	case bytes.HasPrefix(magic, []byte(ArchiveMagic)):
		return ContainerPGDump
	case IsGzip(magic):
		return ContainerGzip
	case IsXZ(magic):
		return ContainerXZ
	case IsZstd(magic):
		return ContainerZstd
	case len(magic) >= 2 && bytes.HasPrefix(sqlMagic, magic[:min(len(magic), len(sqlMagic))]):
		return ContainerPlainSQL
	default:
		return ContainerUnknown
	}
}

// IsGzip returns true if the magic bytes start a gzip member
func IsGzip(magic []byte) bool {
	return bytes.HasPrefix(magic, gzipMagic)
}

// IsXZ returns true if the magic bytes indicate an XZ file
func IsXZ(magic []byte) bool {
	return bytes.HasPrefix(magic, xzMagic)
}

// IsZstd returns true if the magic bytes start a zstd frame
func IsZstd(magic []byte) bool {
	return bytes.HasPrefix(magic, zstdMagic)
}
