// internal/format/codec.go
package format

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// Oid is a PostgreSQL object identifier stored as decimal text.
type Oid = uint64

// Config holds the integer and offset widths announced in the archive header.
// Every integer and offset after the version bytes is decoded with these
// widths, including later data block reads. The zero value means the widths
// are not known yet.
type Config struct {
	IntSize    int
	OffsetSize int
}

// preallocLimit bounds the buffer allocated up front for a string body.
// Longer strings grow as bytes actually arrive, so a corrupt length cannot
// force a huge allocation.
const preallocLimit = 64 << 10

// ReadUint8 reads exactly one byte.
func (c Config) ReadUint8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, truncated(err)
	}
	return buf[0], nil
}

// ReadInt reads a sign byte followed by IntSize little-endian magnitude bytes.
func (c Config) ReadInt(r io.Reader) (int64, error) {
	if c.IntSize <= 0 {
		return 0, ErrConfigUnset
	}

	buf := make([]byte, c.IntSize+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, truncated(err)
	}

	var magnitude uint64
	for i, b := range buf[1:] {
		if i >= 8 {
			// Widths above 8 bytes only fit when the high bytes are zero
			if b != 0 {
				return 0, fmt.Errorf("%w: integer exceeds 64 bits", ErrInvalidLength)
			}
			continue
		}
		magnitude |= uint64(b) << (8 * i)
	}
	if magnitude > 1<<63 || (magnitude == 1<<63 && buf[0] == 0) {
		return 0, fmt.Errorf("%w: integer exceeds 64 bits", ErrInvalidLength)
	}

	value := int64(magnitude)
	if buf[0] != 0 {
		value = -value
	}
	return value, nil
}

// ReadString reads a length-prefixed UTF-8 string. A length of -1 is the
// format's "no value" marker and yields an empty string.
func (c Config) ReadString(r io.Reader) (string, error) {
	length, err := c.ReadInt(r)
	if err != nil {
		return "", err
	}
	if length == -1 {
		return "", nil
	}
	if length < 0 {
		return "", fmt.Errorf("%w: string length %d", ErrInvalidLength, length)
	}

	var buf []byte
	if length <= preallocLimit {
		buf = make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", truncated(err)
		}
	} else {
		b, err := io.ReadAll(io.LimitReader(r, length))
		if err != nil {
			return "", truncated(err)
		}
		if int64(len(b)) != length {
			return "", truncated(io.ErrUnexpectedEOF)
		}
		buf = b
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidEncoding
	}
	return string(buf), nil
}

// ReadIntBool reads an integer and reports whether it is non-zero.
func (c Config) ReadIntBool(r io.Reader) (bool, error) {
	v, err := c.ReadInt(r)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadStringBool reads a string and reports whether it is exactly "true".
func (c Config) ReadStringBool(r io.Reader) (bool, error) {
	s, err := c.ReadString(r)
	if err != nil {
		return false, err
	}
	return s == "true", nil
}

// ReadOid reads a decimal string and parses it as a non-negative integer.
func (c Config) ReadOid(r io.Reader) (Oid, error) {
	s, err := c.ReadString(r)
	if err != nil {
		return 0, err
	}
	return parseOid(s)
}

func parseOid(s string) (Oid, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return v, nil
}

// ReadOffset reads a tag byte plus OffsetSize magnitude bytes. The magnitude
// is always consumed, whatever the tag.
func (c Config) ReadOffset(r io.Reader) (Offset, error) {
	if c.OffsetSize <= 0 {
		return Offset{}, ErrConfigUnset
	}

	buf := make([]byte, c.OffsetSize+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Offset{}, truncated(err)
	}

	switch OffsetKind(buf[0]) {
	case OffsetUnknown:
		return Offset{Kind: OffsetUnknown}, nil
	case OffsetPosNotSet:
		return Offset{Kind: OffsetPosNotSet}, nil
	case OffsetPosSet:
		var pos uint64
		for i, b := range buf[1:] {
			if i >= 8 {
				if b != 0 {
					return Offset{}, fmt.Errorf("%w: offset exceeds 64 bits", ErrInvalidLength)
				}
				continue
			}
			pos |= uint64(b) << (8 * i)
		}
		return PosSet(pos), nil
	case OffsetNoData:
		return Offset{Kind: OffsetNoData}, nil
	default:
		return Offset{}, fmt.Errorf("%w: 0x%02x", ErrInvalidTag, buf[0])
	}
}
