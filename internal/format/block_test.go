// internal/format/block_test.go
package format_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/go-pgarchive/internal/format"
	"github.com/creativeyann17/go-pgarchive/internal/pgdumptest"
)

// seekCounter records how often the block reader repositions the source
type seekCounter struct {
	*bytes.Reader
	seeks int
}

func (s *seekCounter) Seek(offset int64, whence int) (int64, error) {
	s.seeks++
	return s.Reader.Seek(offset, whence)
}

func newSource(b []byte) *seekCounter {
	return &seekCounter{Reader: bytes.NewReader(b)}
}

// blockAt returns a source with padding bytes in front of a data block
func blockAt(pad int, tag byte, build func(e *pgdumptest.Encoder)) (*seekCounter, format.Offset) {
	e := pgdumptest.NewEncoder(4, 8)
	e.Raw(bytes.Repeat([]byte{0xaa}, pad))
	e.Byte(tag)
	e.Int(0x118a)
	build(e)
	return newSource(e.Bytes()), format.PosSet(uint64(pad))
}

func TestBlockReaderSingleChunk(t *testing.T) {
	src, off := blockAt(7, format.BlockData, func(e *pgdumptest.Encoder) {
		e.Chunks([]byte("abc"), 0)
	})

	br, err := format.OpenBlock(src, cfg44, off)
	require.NoError(t, err)
	require.Equal(t, format.BlockStreaming, br.State())
	require.Equal(t, 1, src.seeks)

	data, err := io.ReadAll(br)
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))
	require.Equal(t, format.BlockExhausted, br.State())
	require.Equal(t, 1, br.ChunksRead())

	n, err := br.Read(make([]byte, 8))
	require.Zero(t, n)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 1, src.seeks, "never seeks again")
}

func TestBlockReaderCrossesChunks(t *testing.T) {
	payload := []byte("The Classic\nAll Cheese\nVeggie\nThe Everything\nVegan\n")
	src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
		e.Chunks(payload, 5)
	})

	br, err := format.OpenBlock(src, cfg44, off)
	require.NoError(t, err)

	// Small reads must still cross chunk boundaries transparently
	var out bytes.Buffer
	buf := make([]byte, 3)
	for {
		n, err := br.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.LessOrEqual(t, n, 3)
	}
	require.Equal(t, payload, out.Bytes())
	require.Equal(t, (len(payload)+4)/5, br.ChunksRead())
}

func TestBlockReaderStopsAtTerminator(t *testing.T) {
	src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
		e.Chunks([]byte("abc"), 0)
		e.Raw([]byte("next block"))
	})

	br, err := format.OpenBlock(src, cfg44, off)
	require.NoError(t, err)
	data, err := io.ReadAll(br)
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))
	require.Equal(t, len("next block"), src.Len())
}

func TestBlockReaderEmptyBlock(t *testing.T) {
	src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
		e.Int(0)
	})

	br, err := format.OpenBlock(src, cfg44, off)
	require.NoError(t, err)
	data, err := io.ReadAll(br)
	require.NoError(t, err)
	require.Empty(t, data)
	require.Zero(t, br.ChunksRead())
}

func TestOpenBlockWithoutPosition(t *testing.T) {
	t.Run("NoData", func(t *testing.T) {
		src := newSource([]byte("irrelevant"))
		br, err := format.OpenBlock(src, cfg44, format.Offset{Kind: format.OffsetNoData})
		require.NoError(t, err)
		require.Equal(t, format.BlockExhausted, br.State())

		data, err := io.ReadAll(br)
		require.NoError(t, err)
		require.Empty(t, data)
		require.Zero(t, src.seeks)
	})

	for _, kind := range []format.OffsetKind{format.OffsetPosNotSet, format.OffsetUnknown} {
		t.Run(format.Offset{Kind: kind}.String(), func(t *testing.T) {
			src := newSource([]byte("irrelevant"))
			_, err := format.OpenBlock(src, cfg44, format.Offset{Kind: kind})
			require.ErrorIs(t, err, format.ErrNoDataPresent)
			require.Zero(t, src.seeks)
		})
	}
}

func TestOpenBlockErrors(t *testing.T) {
	t.Run("Blob", func(t *testing.T) {
		src, off := blockAt(3, format.BlockBlob, func(e *pgdumptest.Encoder) {
			e.Chunks([]byte("large object"), 0)
		})
		remaining := src.Len() - 3 - 1 - 5

		_, err := format.OpenBlock(src, cfg44, off)
		require.ErrorIs(t, err, format.ErrBlobNotSupported)
		require.Equal(t, remaining, src.Len(), "no chunk data consumed")
	})

	t.Run("InvalidBlockType", func(t *testing.T) {
		src, off := blockAt(0, 2, func(e *pgdumptest.Encoder) {
			e.Chunks([]byte("abc"), 0)
		})
		_, err := format.OpenBlock(src, cfg44, off)
		require.ErrorIs(t, err, format.ErrInvalidBlockType)
	})

	t.Run("PositionPastEnd", func(t *testing.T) {
		_, err := format.OpenBlock(newSource([]byte{1, 0}), cfg44, format.PosSet(100))
		require.ErrorIs(t, err, format.ErrTruncated)
	})

	t.Run("ConfigUnset", func(t *testing.T) {
		src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
			e.Int(0)
		})
		_, err := format.OpenBlock(src, format.Config{}, off)
		require.ErrorIs(t, err, format.ErrConfigUnset)
	})
}

func TestBlockReaderErrors(t *testing.T) {
	t.Run("NegativeLength", func(t *testing.T) {
		src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
			e.Int(-4)
		})
		br, err := format.OpenBlock(src, cfg44, off)
		require.NoError(t, err)

		_, err = io.ReadAll(br)
		require.ErrorIs(t, err, format.ErrInvalidLength)
		require.Equal(t, format.BlockUnavailable, br.State())

		// Errors are sticky
		_, err = br.Read(make([]byte, 1))
		require.ErrorIs(t, err, format.ErrInvalidLength)
	})

	t.Run("TruncatedChunk", func(t *testing.T) {
		src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
			e.Int(10)
			e.Raw([]byte("abc"))
		})
		br, err := format.OpenBlock(src, cfg44, off)
		require.NoError(t, err)

		data, err := io.ReadAll(br)
		require.ErrorIs(t, err, format.ErrTruncated)
		require.Equal(t, "abc", string(data))
	})

	t.Run("MissingTerminator", func(t *testing.T) {
		src, off := blockAt(0, format.BlockData, func(e *pgdumptest.Encoder) {
			e.Int(3)
			e.Raw([]byte("abc"))
		})
		br, err := format.OpenBlock(src, cfg44, off)
		require.NoError(t, err)

		_, err = io.ReadAll(br)
		require.ErrorIs(t, err, format.ErrTruncated)
	})
}
