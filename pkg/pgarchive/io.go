// pkg/pgarchive/io.go
package pgarchive

import "io"

// ProgressReader wraps an io.Reader with progress tracking
type ProgressReader struct {
	Reader io.Reader
	OnRead func(n int)
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	if n > 0 && pr.OnRead != nil {
		pr.OnRead(n)
	}
	return n, err
}

// CountingReader wraps an io.Reader and counts bytes read
type CountingReader struct {
	Reader io.Reader
	Count  uint64
}

func (cr *CountingReader) Read(p []byte) (n int, err error) {
	n, err = cr.Reader.Read(p)
	cr.Count += uint64(n)
	return n, err
}

// CountingWriter wraps an io.Writer and counts bytes written
type CountingWriter struct {
	Writer io.Writer
	Count  uint64
}

func (cw *CountingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.Writer.Write(p)
	cw.Count += uint64(n)
	return n, err
}

// PathTracker tracks seen output paths and detects duplicates
type PathTracker struct {
	seen map[string]bool
}

// NewPathTracker creates a new PathTracker
func NewPathTracker() *PathTracker {
	return &PathTracker{
		seen: make(map[string]bool),
	}
}

// CheckDuplicate returns true if the path was already seen, otherwise marks it as seen
func (pt *PathTracker) CheckDuplicate(path string) bool {
	if pt.seen[path] {
		return true
	}
	pt.seen[path] = true
	return false
}
