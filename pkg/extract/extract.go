// pkg/extract/extract.go

// Package extract writes the table data of an archive out to files, one
// per table, under <output>/<namespace>/<table>.<format>.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
	"github.com/creativeyann17/go-pgarchive/pkg/tabledata"
)

// ProgressEvent contains progress information
type ProgressEvent = pgarchive.ProgressEvent

// ProgressCallback is called for various progress events.
// It may be called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

type task struct {
	index   int
	entry   *archive.TocEntry
	name    string
	outPath string
	err     error
}

type outcome struct {
	skipped bool
	rows    uint64
	stored  uint64
	written uint64
	chunks  int
	err     error
}

// Extract writes every selected TABLE DATA entry of the archive at
// opts.InputPath to its own file.
func Extract(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	filter, err := pgarchive.NewEntryFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	f, err := archive.OpenFile(opts.InputPath, archive.WithMemoryLimit(opts.MemoryLimit))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if f.Compression.Algorithm == archive.CompressionLZ4 {
		return nil, fmt.Errorf("%w: %s", archive.ErrCompressionMethodNotSupported, f.Compression)
	}

	entries := f.Filter(func(e *archive.TocEntry) bool {
		return e.Desc == archive.DescTableData && filter.Match(e)
	})
	result.EntriesTotal = len(entries)

	// Output paths are assigned up front so duplicates resolve the same way every run
	tracker := pgarchive.NewPathTracker()
	tasks := make(chan task, len(entries))
	for i, e := range entries {
		t := task{index: i, entry: e, name: pgarchive.EntryPath(e)}
		rel := pgarchive.OutputPath(e)
		if tracker.CheckDuplicate(rel) {
			rel = fmt.Sprintf("%s_%d", rel, e.ID)
		}
		rel = filepath.FromSlash(rel) + opts.Format.Extension()
		if filepath.IsLocal(rel) {
			t.outPath = filepath.Join(opts.OutputPath, rel)
		} else {
			t.err = fmt.Errorf("%w: %q", ErrUnsafePath, rel)
		}
		tasks <- t
	}
	close(tasks)

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:  pgarchive.EventStart,
			Total: int64(len(entries)),
		})
	}

	outcomes := make([]outcome, len(entries))
	files := make([]string, len(entries))

	var wg sync.WaitGroup
	workers := min(opts.MaxThreads, max(len(entries), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if progressCb != nil {
					progressCb(ProgressEvent{
						Type:      pgarchive.EventEntryStart,
						EntryName: t.name,
						Total:     spanOf(f, t.entry),
					})
				}

				out := extractEntry(f, t, opts, progressCb)
				outcomes[t.index] = out
				if out.err == nil && !out.skipped {
					files[t.index] = t.outPath
				}

				if progressCb != nil {
					evt := ProgressEvent{
						Type:         pgarchive.EventEntryComplete,
						EntryName:    t.name,
						Total:        int64(out.stored),
						CurrentBytes: out.written,
						TotalBytes:   out.written,
						Chunks:       out.chunks,
					}
					if out.err != nil {
						evt.Type = pgarchive.EventError
					}
					progressCb(evt)
				}
			}
		}()
	}
	wg.Wait()

	for i, out := range outcomes {
		result.StoredSize += out.stored
		result.WrittenSize += out.written
		result.RowsWritten += out.rows
		switch {
		case out.err != nil:
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", pgarchive.EntryPath(entries[i]), out.err))
		case out.skipped:
			result.EntriesSkipped++
		default:
			result.EntriesProcessed++
			result.Files = append(result.Files, files[i])
		}
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    pgarchive.EventComplete,
			Current: int64(result.EntriesProcessed),
			Total:   int64(result.EntriesTotal),
		})
	}

	// Per-table failures are reported through result.Errors
	return result, nil
}

// extractEntry streams one table's data block into its output file
func extractEntry(f *archive.File, t task, opts *Options, progressCb ProgressCallback) (out outcome) {
	if t.err != nil {
		out.err = t.err
		return out
	}
	if !t.entry.Offset.HasData() {
		out.skipped = true
		return out
	}

	// Check if file exists
	if !opts.Overwrite {
		if _, err := os.Stat(t.outPath); err == nil {
			out.err = ErrFileExists
			return out
		}
	}

	block, err := f.OpenBlock(t.entry)
	if err != nil {
		out.err = err
		return out
	}
	stored := &pgarchive.CountingReader{Reader: block}
	defer func() {
		out.stored = stored.Count
		out.chunks = block.ChunksRead()
	}()

	rc, err := f.Decompress(&pgarchive.ProgressReader{
		Reader: stored,
		OnRead: func(int) {
			if progressCb != nil {
				progressCb(ProgressEvent{
					Type:      pgarchive.EventEntryProgress,
					EntryName: t.name,
					Current:   int64(stored.Count),
					Chunks:    block.ChunksRead(),
				})
			}
		},
	})
	if err != nil {
		out.err = err
		return out
	}
	defer rc.Close()

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(t.outPath), 0755); err != nil {
		out.err = fmt.Errorf("create directories: %w", err)
		return out
	}

	outFile, err := os.Create(t.outPath)
	if err != nil {
		out.err = fmt.Errorf("create output file: %w", err)
		return out
	}
	counter := &pgarchive.CountingWriter{Writer: outFile}

	switch opts.Format {
	case FormatCopy:
		_, err = io.Copy(counter, rc)
	default:
		out.rows, err = writeTSV(counter, t.entry, rc, opts)
	}
	out.written = counter.Count

	if cerr := outFile.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output file: %w", cerr)
	}
	if err != nil {
		os.Remove(t.outPath)
		out.err = err
	}
	return out
}

// writeTSV decodes COPY rows and writes them tab separated
func writeTSV(w io.Writer, e *archive.TocEntry, data io.Reader, opts *Options) (uint64, error) {
	columns, err := tabledata.CopyColumns(e.CopyStmt)
	if err != nil && !errors.Is(err, tabledata.ErrNoColumnList) {
		return 0, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if opts.Header && len(columns) > 0 {
		if err := cw.Write(columns); err != nil {
			return 0, err
		}
	}

	rows := uint64(0)
	r := tabledata.NewReader(data, columns)
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		if err := cw.Write(row.Strings(opts.Null)); err != nil {
			return rows, err
		}
		rows++
	}
	cw.Flush()
	return rows, cw.Error()
}

// spanOf estimates the stored size of e's block for progress display
func spanOf(f *archive.File, e *archive.TocEntry) int64 {
	if !e.Offset.HasData() {
		return 0
	}
	end := uint64(f.Size)
	for _, other := range f.Entries {
		if other.Offset.HasData() && other.Offset.Pos > e.Offset.Pos && other.Offset.Pos < end {
			end = other.Offset.Pos
		}
	}
	return int64(end - e.Offset.Pos)
}
