// pkg/archive/open.go
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// ContainerFormat is the outer layout OpenFile found
type ContainerFormat = format.ContainerFormat

const (
	ContainerUnknown  = format.ContainerUnknown
	ContainerPGDump   = format.ContainerPGDump
	ContainerGzip     = format.ContainerGzip
	ContainerXZ       = format.ContainerXZ
	ContainerZstd     = format.ContainerZstd
	ContainerPlainSQL = format.ContainerPlainSQL
)

// DefaultMemoryLimit is the largest unwrapped archive kept in memory before
// OpenFile spills it to a temporary file
const DefaultMemoryLimit = 256 << 20

type openConfig struct {
	memoryLimit int64
	tempDir     string
}

// OpenOption configures OpenFile
type OpenOption func(*openConfig)

// WithMemoryLimit sets how many bytes of a decompressed wrapper may be held
// in memory. Zero or negative always spools to a temporary file.
func WithMemoryLimit(n int64) OpenOption {
	return func(c *openConfig) { c.memoryLimit = n }
}

// WithTempDir sets the directory for spool files (default os.TempDir)
func WithTempDir(dir string) OpenOption {
	return func(c *openConfig) { c.tempDir = dir }
}

// File is an archive opened from disk together with the handle its data
// blocks are read from.
type File struct {
	*Archive

	Path      string
	Container ContainerFormat
	// Size is the size of the archive bytes, after unwrapping
	Size int64
	// Spooled reports whether the unwrapped archive went to a temporary file
	Spooled bool

	src     io.ReaderAt
	cleanup []func() error
}

// OpenFile opens and parses the archive at path. A gzip, xz or zstd wrapper
// around the archive (as produced by piping pg_dump through a compressor)
// is decompressed first so data blocks stay addressable by offset.
func OpenFile(path string, opts ...OpenOption) (*File, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	cfg := openConfig{memoryLimit: DefaultMemoryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	f := &File{Path: path}
	f.cleanup = append(f.cleanup, fh.Close)

	if err := f.init(fh, cfg); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) init(fh *os.File, cfg openConfig) error {
	magic := make([]byte, format.DetectSize)
	n, err := io.ReadFull(fh, magic)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty file", ErrNotAnArchive)
		}
		return fmt.Errorf("read magic: %w", err)
	}
	magic = magic[:n]
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}

	f.Container = format.DetectFormat(magic)
	switch f.Container {
	case format.ContainerPGDump:
		st, err := fh.Stat()
		if err != nil {
			return fmt.Errorf("stat archive: %w", err)
		}
		f.src, f.Size = fh, st.Size()

	case format.ContainerGzip:
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return fmt.Errorf("gzip wrapper: %w", err)
		}
		defer gz.Close()
		if err := f.spool(gz, cfg); err != nil {
			return fmt.Errorf("gzip wrapper: %w", err)
		}

	case format.ContainerXZ:
		xr, err := xz.NewReader(fh)
		if err != nil {
			return fmt.Errorf("xz wrapper: %w", err)
		}
		if err := f.spool(xr, cfg); err != nil {
			return fmt.Errorf("xz wrapper: %w", err)
		}

	case format.ContainerZstd:
		dec, err := zstd.NewReader(fh)
		if err != nil {
			return fmt.Errorf("zstd wrapper: %w", err)
		}
		defer dec.Close()
		if err := f.spool(dec, cfg); err != nil {
			return fmt.Errorf("zstd wrapper: %w", err)
		}

	case format.ContainerPlainSQL:
		return fmt.Errorf("%s: %w", f.Path, ErrPlainSQL)

	default:
		return fmt.Errorf("%w: unrecognized signature %q", ErrNotAnArchive, magic)
	}

	a, err := Parse(io.NewSectionReader(f.src, 0, f.Size))
	if err != nil {
		return err
	}
	f.Archive = a
	return nil
}

// spool copies the unwrapped archive into memory, or into a temporary file
// once it grows past the memory limit.
func (f *File) spool(r io.Reader, cfg openConfig) error {
	var buf bytes.Buffer
	limit := max(cfg.memoryLimit, 0)
	n, err := io.CopyN(&buf, r, limit+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if n <= limit {
		f.src, f.Size = bytes.NewReader(buf.Bytes()), n
		return nil
	}

	tmp, err := os.CreateTemp(cfg.tempDir, "pgarchive-*.spool")
	if err != nil {
		return fmt.Errorf("create spool file: %w", err)
	}
	f.cleanup = append(f.cleanup, func() error {
		tmp.Close()
		return os.Remove(tmp.Name())
	})

	if _, err := buf.WriteTo(tmp); err != nil {
		return fmt.Errorf("write spool file: %w", err)
	}
	rest, err := io.Copy(tmp, r)
	if err != nil {
		return fmt.Errorf("write spool file: %w", err)
	}
	f.src, f.Size, f.Spooled = tmp, n+rest, true
	return nil
}

// Reader returns an independent seekable view of the archive bytes. Views
// do not share a cursor, so each concurrent data reader needs its own.
func (f *File) Reader() io.ReadSeeker {
	return io.NewSectionReader(f.src, 0, f.Size)
}

// OpenData streams the decompressed data of e through a fresh view of the
// archive; readers returned by separate calls may be used concurrently.
func (f *File) OpenData(e *TocEntry) (io.ReadCloser, error) {
	return f.Archive.OpenData(f.Reader(), e)
}

// OpenBlock returns the raw chunk stream of e through a fresh view
func (f *File) OpenBlock(e *TocEntry) (*BlockReader, error) {
	return f.Archive.OpenBlock(f.Reader(), e)
}

// Close releases the file handle and removes any spool file
func (f *File) Close() error {
	var errs []error
	for i := len(f.cleanup) - 1; i >= 0; i-- {
		if err := f.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	f.cleanup = nil
	return errors.Join(errs...)
}
