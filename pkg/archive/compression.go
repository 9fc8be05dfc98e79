// pkg/archive/compression.go
package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// decompressor wraps a decoder over a block stream
type decompressor struct {
	io.Reader
	close func() error
}

func (d *decompressor) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// newDecompressor selects the decoder for the archive-wide compression.
// pg_dump's "gzip" blocks are zlib streams; real gzip members are accepted
// as well and told apart by their magic bytes.
func newDecompressor(method CompressionMethod, block io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(block)

	// An empty block stays empty whatever the algorithm
	head, err := br.Peek(2)
	if len(head) == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return io.NopCloser(br), nil
	}

	switch method.Algorithm {
	case CompressionNone:
		return io.NopCloser(br), nil

	case CompressionGzip:
		if format.IsGzip(head) {
			gz, err := gzip.NewReader(br)
			if err != nil {
				return nil, fmt.Errorf("gzip stream: %w", err)
			}
			return gz, nil
		}
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zlib stream: %w", err)
		}
		return zr, nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd stream: %w", err)
		}
		return &decompressor{Reader: dec, close: func() error {
			dec.Close()
			return nil
		}}, nil

	case CompressionLZ4:
		return nil, fmt.Errorf("%w: %s", ErrCompressionMethodNotSupported, method)

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompressionMethod, method.Algorithm)
	}
}
