// pkg/verify/verify.go
package verify

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

// ProgressEvent contains progress information
type ProgressEvent = pgarchive.ProgressEvent

// ProgressCallback is called for progress updates during verification.
// It may be called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Verify decodes every selected data block of an archive and returns
// comprehensive results. Per-entry failures are collected in Result.Errors;
// the returned error is reserved for archives that cannot be opened at all.
func Verify(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		ArchivePath: opts.InputPath,
		Digest:      opts.Digest,
	}

	filter, err := pgarchive.NewEntryFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	f, err := archive.OpenFile(opts.InputPath, archive.WithMemoryLimit(opts.MemoryLimit))
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, err
	}
	defer f.Close()

	result.Container = f.Container
	result.ArchiveSize = uint64(f.Size)
	result.Spooled = f.Spooled
	result.Version = f.Version
	result.Compression = f.Compression
	result.CreatedAt = f.CreatedAt
	result.DatabaseName = f.DatabaseName
	result.ServerVersion = f.ServerVersion
	result.DumpVersion = f.DumpVersion
	result.TocEntries = len(f.Entries)

	entries := f.Filter(func(e *archive.TocEntry) bool {
		return (e.HadDumper || e.Offset.HasData()) && filter.Match(e)
	})
	result.DataEntries = len(entries)
	result.Entries = make([]EntryInfo, len(entries))

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:  pgarchive.EventStart,
			Total: int64(len(entries)),
		})
	}

	spans := blockSpans(f)

	// Each worker reads through its own view of the archive
	tasks := make(chan int, len(entries))
	for i := range entries {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	workers := min(opts.MaxThreads, max(len(entries), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				e := entries[i]
				name := pgarchive.EntryPath(e)
				if progressCb != nil {
					progressCb(ProgressEvent{
						Type:      pgarchive.EventEntryStart,
						EntryName: name,
						Total:     spans[e.ID],
					})
				}

				info := verifyEntry(f, e, opts.Digest, func(stored uint64, chunks int) {
					if progressCb != nil {
						progressCb(ProgressEvent{
							Type:      pgarchive.EventEntryProgress,
							EntryName: name,
							Current:   int64(stored),
							Chunks:    chunks,
						})
					}
				})
				result.Entries[i] = info

				if progressCb != nil {
					evt := ProgressEvent{
						Type:         pgarchive.EventEntryComplete,
						EntryName:    name,
						Total:        int64(info.StoredSize),
						CurrentBytes: info.StoredSize,
						TotalBytes:   info.DataSize,
						Chunks:       info.Chunks,
					}
					if info.Error != nil {
						evt.Type = pgarchive.EventError
					}
					progressCb(evt)
				}
			}
		}()
	}
	wg.Wait()

	for _, info := range result.Entries {
		result.StoredSize += info.StoredSize
		result.DataSize += info.DataSize
		switch {
		case info.Error != nil:
			result.CorruptEntries++
			result.Errors = append(result.Errors, fmt.Errorf("%s (id %d): %w", info.Name, info.ID, info.Error))
		case info.Skipped != "":
			result.EntriesSkipped++
		default:
			result.EntriesVerified++
		}
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    pgarchive.EventComplete,
			Current: int64(result.EntriesVerified),
			Total:   int64(result.DataEntries),
		})
	}

	return result, nil
}

// verifyEntry walks one data block to its terminator, decompressing and
// hashing the payload on the way.
func verifyEntry(f *archive.File, e *archive.TocEntry, digest Digest, onRead func(stored uint64, chunks int)) (info EntryInfo) {
	info = EntryInfo{
		ID:     e.ID,
		Name:   pgarchive.EntryPath(e),
		Desc:   e.Desc,
		Offset: e.Offset,
	}

	switch e.Offset.Kind {
	case archive.OffsetNoData:
		info.Skipped = "no data"
		return info
	case archive.OffsetPosSet:
	default:
		info.Skipped = "data position not recorded"
		return info
	}

	block, err := f.OpenBlock(e)
	if err != nil {
		if errors.Is(err, archive.ErrBlobNotSupported) {
			info.Skipped = "large object data"
			return info
		}
		info.Error = err
		return info
	}

	stored := &pgarchive.CountingReader{Reader: block}
	tracked := &pgarchive.ProgressReader{
		Reader: stored,
		OnRead: func(int) { onRead(stored.Count, block.ChunksRead()) },
	}
	defer func() {
		info.StoredSize = stored.Count
		info.Chunks = block.ChunksRead()
	}()

	// LZ4 payloads are walked for structure only
	if f.Compression.Algorithm == archive.CompressionLZ4 {
		if _, err := io.Copy(io.Discard, tracked); err != nil {
			info.Error = err
			return info
		}
		info.Skipped = "lz4 payload not decoded"
		return info
	}

	rc, err := f.Decompress(tracked)
	if err != nil {
		info.Error = err
		return info
	}
	defer rc.Close()

	h := newHash(digest)
	var w io.Writer = io.Discard
	if h != nil {
		w = h
	}
	n, err := io.Copy(w, rc)
	info.DataSize = uint64(n)
	if err != nil {
		info.Error = fmt.Errorf("decompress: %w", err)
		return info
	}

	// Decoders may stop at the end of their stream before the chunk terminator
	if _, err := io.Copy(io.Discard, tracked); err != nil {
		info.Error = err
		return info
	}

	if h != nil {
		info.Digest = hex.EncodeToString(h.Sum(nil))
	}
	return info
}

func newHash(d Digest) hash.Hash {
	switch d {
	case DigestXXHash:
		return xxhash.New()
	case DigestNone:
		return nil
	default:
		return blake3.New()
	}
}

// blockSpans estimates the stored size of each block from the distance to
// the next recorded offset. Used only to size progress bars.
func blockSpans(f *archive.File) map[archive.ID]int64 {
	type span struct {
		id  archive.ID
		pos uint64
	}
	var positions []span
	for _, e := range f.Entries {
		if e.Offset.HasData() {
			positions = append(positions, span{e.ID, e.Offset.Pos})
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].pos < positions[j].pos })

	spans := make(map[archive.ID]int64, len(positions))
	for i, p := range positions {
		end := uint64(f.Size)
		if i+1 < len(positions) {
			end = positions[i+1].pos
		}
		if end > p.pos {
			spans[p.id] = int64(end - p.pos)
		}
	}
	return spans
}
