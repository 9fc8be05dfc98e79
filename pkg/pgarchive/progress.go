// pkg/pgarchive/progress.go
package pgarchive

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressBarCallback creates a progress callback drawing one bar per data
// block being read, sized by its stored bytes, under an overall entry bar.
// Returns the callback and the progress container (call Wait() after the walk).
func ProgressBarCallback() (func(ProgressEvent), *mpb.Progress) {
	bars := newBlockBars(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	return bars.handle, bars.progress
}

type blockBar struct {
	bar    *mpb.Bar
	chunks atomic.Int64
}

type blockBars struct {
	progress *mpb.Progress
	overall  *mpb.Bar
	stored   atomic.Uint64 // stored bytes of finished blocks

	mu     sync.Mutex
	blocks map[string]*blockBar
}

func newBlockBars(opts ...mpb.ContainerOption) *blockBars {
	return &blockBars{
		progress: mpb.New(opts...),
		blocks:   make(map[string]*blockBar),
	}
}

func (b *blockBars) handle(event ProgressEvent) {
	switch event.Type {
	case EventStart:
		b.overall = b.progress.AddBar(event.Total,
			mpb.PrependDecorators(
				decor.Name("Total", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
				decor.CountersNoUnit("%d / %d entries", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Any(func(decor.Statistics) string {
					return FormatSize(b.stored.Load()) + " read"
				}, decor.WC{W: 14}),
			),
			mpb.BarPriority(1000),
		)

	case EventEntryStart:
		b.open(event)

	case EventEntryProgress:
		b.mu.Lock()
		bb := b.blocks[event.EntryName]
		b.mu.Unlock()
		if bb != nil {
			bb.chunks.Store(int64(event.Chunks))
			bb.bar.SetCurrent(event.Current)
		}

	case EventEntryComplete, EventError:
		b.close(event)

	case EventComplete:
		if b.overall != nil {
			b.overall.SetTotal(-1, true)
		}
	}
}

// open adds a bar for a block. Entries without stored data get none.
func (b *blockBars) open(event ProgressEvent) {
	if event.Total <= 0 {
		return
	}
	bb := &blockBar{}
	bb.bar = b.progress.AddBar(event.Total,
		mpb.PrependDecorators(
			decor.Name(TruncateLeft(event.EntryName, 30), decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return fmt.Sprintf("%d chunks", bb.chunks.Load())
			}, decor.WC{W: 12}),
			decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
		),
		mpb.BarRemoveOnComplete(),
	)

	b.mu.Lock()
	b.blocks[event.EntryName] = bb
	b.mu.Unlock()
}

// close finishes a block bar. The span estimate is replaced by the bytes
// actually read so the bar completes even when the block was shorter.
func (b *blockBars) close(event ProgressEvent) {
	b.mu.Lock()
	bb := b.blocks[event.EntryName]
	delete(b.blocks, event.EntryName)
	b.mu.Unlock()

	if event.Type == EventEntryComplete && event.Total > 0 {
		b.stored.Add(uint64(event.Total))
	}
	if bb != nil {
		bb.chunks.Store(int64(event.Chunks))
		if event.Type == EventEntryComplete && event.Total > 0 {
			bb.bar.SetTotal(event.Total, true)
		} else {
			bb.bar.Abort(true)
		}
	}
	if b.overall != nil {
		b.overall.Increment()
	}
}
