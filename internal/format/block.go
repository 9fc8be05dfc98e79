// internal/format/block.go
package format

import (
	"errors"
	"fmt"
	"io"
)

// Block type tags written in front of every data block
const (
	BlockData byte = 1
	BlockBlob byte = 3
)

// BlockState is the position of a BlockReader in its lifecycle
type BlockState uint8

const (
	BlockLocated     BlockState = iota // source positioned at the block
	BlockValidated                     // block type tag accepted
	BlockStreaming                     // chunk bytes are being produced
	BlockExhausted                     // end-of-block marker seen, or no data
	BlockUnavailable                   // offset cannot be opened, or a read failed
)

func (s BlockState) String() string {
	switch s {
	case BlockLocated:
		return "located"
	case BlockValidated:
		return "validated"
	case BlockStreaming:
		return "streaming"
	case BlockExhausted:
		return "exhausted"
	case BlockUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("BlockState(%d)", uint8(s))
	}
}

// BlockReader streams the raw (still compressed) bytes of one data block.
// It reads forward only from the source it was opened on and decodes each
// chunk length lazily, so a block is never held in memory as a whole.
//
// The reader owns the source cursor until it is exhausted; callers that
// share a handle between blocks must serialize access.
type BlockReader struct {
	r         io.Reader
	cfg       Config
	state     BlockState
	remaining int64 // bytes left in the current chunk
	chunks    int
	err       error
}

// OpenBlock positions rs at the data block addressed by off and validates
// its header. Offsets without a recorded position fail with
// ErrNoDataPresent and NoData offsets yield an empty reader; neither seeks.
func OpenBlock(rs io.ReadSeeker, cfg Config, off Offset) (*BlockReader, error) {
	switch off.Kind {
	case OffsetUnknown, OffsetPosNotSet:
		return nil, fmt.Errorf("%w: offset %s", ErrNoDataPresent, off)
	case OffsetNoData:
		return &BlockReader{cfg: cfg, state: BlockExhausted}, nil
	case OffsetPosSet:
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidTag, uint8(off.Kind))
	}

	if off.Pos > 1<<63-1 {
		return nil, fmt.Errorf("%w: block position %d", ErrInvalidLength, off.Pos)
	}
	if _, err := rs.Seek(int64(off.Pos), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to block at %d: %w", off.Pos, err)
	}
	tag, err := cfg.ReadUint8(rs)
	if err != nil {
		return nil, &FieldError{Field: "block type", Err: err}
	}
	if tag != BlockData && tag != BlockBlob {
		return nil, fmt.Errorf("%w: 0x%02x at %d", ErrInvalidBlockType, tag, off.Pos)
	}
	// The block repeats the entry's dump id; the TOC already has it
	if _, err := cfg.ReadInt(rs); err != nil {
		return nil, &FieldError{Field: "block id", Err: err}
	}
	if tag == BlockBlob {
		return nil, ErrBlobNotSupported
	}

	// Validated; chunk bytes follow immediately
	return &BlockReader{r: rs, cfg: cfg, state: BlockStreaming}, nil
}

// Read implements io.Reader. It returns bytes of the current chunk and
// crosses into the next chunk by decoding its length prefix on demand.
// Once the zero-length terminator has been read every call returns 0, io.EOF.
// Any decode error is sticky.
func (b *BlockReader) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if b.state == BlockExhausted {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	for b.remaining == 0 {
		length, err := b.cfg.ReadInt(b.r)
		if err != nil {
			return 0, b.fail(&FieldError{Field: "chunk length", Err: err})
		}
		if length < 0 {
			return 0, b.fail(fmt.Errorf("%w: chunk length %d", ErrInvalidLength, length))
		}
		if length == 0 {
			b.state = BlockExhausted
			return 0, io.EOF
		}
		b.remaining = length
		b.chunks++
	}

	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.r.Read(p)
	b.remaining -= int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if n > 0 && b.remaining == 0 {
				// Chunk complete; the terminator is read on the next call
				return n, nil
			}
			err = truncated(io.ErrUnexpectedEOF)
		}
		return n, b.fail(err)
	}
	return n, nil
}

func (b *BlockReader) fail(err error) error {
	b.state = BlockUnavailable
	b.err = err
	return err
}

// State returns the current lifecycle state
func (b *BlockReader) State() BlockState {
	return b.state
}

// ChunksRead returns the number of data-bearing chunks started so far
func (b *BlockReader) ChunksRead() int {
	return b.chunks
}
