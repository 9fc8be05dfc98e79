// pkg/pgarchive/progress_test.go
package pgarchive

import (
	"io"
	"testing"

	"github.com/vbauerster/mpb/v8"
)

func TestBlockBars(t *testing.T) {
	bars := newBlockBars(mpb.WithOutput(io.Discard))

	bars.handle(ProgressEvent{Type: EventStart, Total: 3})
	bars.handle(ProgressEvent{Type: EventEntryStart, EntryName: "public/pizza", Total: 120})
	bars.handle(ProgressEvent{Type: EventEntryStart, EntryName: "public/topping", Total: 80})
	bars.handle(ProgressEvent{Type: EventEntryStart, EntryName: "public/empty"})

	pizza := bars.blocks["public/pizza"]
	topping := bars.blocks["public/topping"]
	if pizza == nil || topping == nil {
		t.Fatalf("Expected bars for blocks with stored data, got %v", bars.blocks)
	}
	if _, ok := bars.blocks["public/empty"]; ok {
		t.Error("Block without stored data should get no bar")
	}

	bars.handle(ProgressEvent{Type: EventEntryProgress, EntryName: "public/pizza", Current: 40, Chunks: 2})
	if got := pizza.chunks.Load(); got != 2 {
		t.Errorf("Expected 2 chunks, got %d", got)
	}

	// Completes on the bytes read, not the span estimate
	bars.handle(ProgressEvent{Type: EventEntryComplete, EntryName: "public/pizza", Total: 100, Chunks: 5})
	if !pizza.bar.Completed() {
		t.Error("Pizza bar should be complete")
	}
	if got := pizza.chunks.Load(); got != 5 {
		t.Errorf("Expected 5 chunks, got %d", got)
	}

	bars.handle(ProgressEvent{Type: EventError, EntryName: "public/topping", Total: 30})
	if !topping.bar.Aborted() {
		t.Error("Topping bar should be aborted")
	}

	bars.handle(ProgressEvent{Type: EventEntryComplete, EntryName: "public/empty"})
	bars.handle(ProgressEvent{Type: EventComplete, Current: 2, Total: 3})

	if len(bars.blocks) != 0 {
		t.Errorf("Expected no open bars, got %d", len(bars.blocks))
	}
	// Failed blocks do not count as read
	if got := bars.stored.Load(); got != 100 {
		t.Errorf("Expected 100 stored bytes, got %d", got)
	}
	if !bars.overall.Completed() {
		t.Error("Overall bar should be complete")
	}
	bars.progress.Wait()
}
