// internal/format/codec_test.go
package format_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// unhex decodes a fixture written as space separated hex bytes
func unhex(t *testing.T, parts ...string) []byte {
	t.Helper()
	s := strings.Join(strings.Fields(strings.Join(parts, " ")), "")
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

var cfg44 = format.Config{IntSize: 4, OffsetSize: 8}

func TestReadUint8(t *testing.T) {
	var cfg format.Config

	b, err := cfg.ReadUint8(bytes.NewReader([]byte{0x42}))
	require.NoError(t, err)
	require.Equal(t, byte(0x42), b)

	_, err = cfg.ReadUint8(bytes.NewReader(nil))
	require.ErrorIs(t, err, format.ErrTruncated)
}

func TestReadInt(t *testing.T) {
	tests := []struct {
		name    string
		intSize int
		input   []byte
		want    int64
	}{
		{"positive", 2, []byte{0x00, 0x01, 0x02}, 0x0201},
		{"negative", 2, []byte{0x01, 0x01, 0x02}, -0x0201},
		{"zero", 4, []byte{0x00, 0, 0, 0, 0}, 0},
		{"negative zero", 4, []byte{0x01, 0, 0, 0, 0}, 0},
		{"minus one", 4, []byte{0x01, 0x01, 0, 0, 0}, -1},
		{"one byte", 1, []byte{0x00, 0xff}, 255},
		{"eight bytes", 8, []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, 1<<63 - 1},
		{"wide with zero high bytes", 10, []byte{0x00, 0x07, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := format.Config{IntSize: tt.intSize}
			r := bytes.NewReader(tt.input)
			got, err := cfg.ReadInt(r)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Zero(t, r.Len(), "all bytes consumed")
		})
	}
}

func TestReadIntErrors(t *testing.T) {
	t.Run("ConfigUnset", func(t *testing.T) {
		var cfg format.Config
		_, err := cfg.ReadInt(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
		require.ErrorIs(t, err, format.ErrConfigUnset)
	})

	t.Run("Truncated", func(t *testing.T) {
		cfg := format.Config{IntSize: 4}
		_, err := cfg.ReadInt(bytes.NewReader([]byte{0x00, 0x01}))
		require.ErrorIs(t, err, format.ErrTruncated)
	})

	t.Run("HighBytesSet", func(t *testing.T) {
		cfg := format.Config{IntSize: 9}
		_, err := cfg.ReadInt(bytes.NewReader([]byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0x01}))
		require.ErrorIs(t, err, format.ErrInvalidLength)
	})

	t.Run("MagnitudeOverflow", func(t *testing.T) {
		cfg := format.Config{IntSize: 8}
		_, err := cfg.ReadInt(bytes.NewReader([]byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0x80}))
		require.ErrorIs(t, err, format.ErrInvalidLength)
	})
}

func TestReadString(t *testing.T) {
	t.Run("Value", func(t *testing.T) {
		r := bytes.NewReader(unhex(t, "00 07 00 00 00 77 69 63 68 65 72 74"))
		s, err := cfg44.ReadString(r)
		require.NoError(t, err)
		require.Equal(t, "wichert", s)
		require.Zero(t, r.Len())
	})

	t.Run("NoValueConsumesNoBody", func(t *testing.T) {
		r := bytes.NewReader(unhex(t, "01 01 00 00 00 41 42"))
		s, err := cfg44.ReadString(r)
		require.NoError(t, err)
		require.Empty(t, s)
		require.Equal(t, 2, r.Len())
	})

	t.Run("ZeroLength", func(t *testing.T) {
		s, err := cfg44.ReadString(bytes.NewReader(unhex(t, "00 00 00 00 00")))
		require.NoError(t, err)
		require.Empty(t, s)
	})

	t.Run("MinusTwo", func(t *testing.T) {
		_, err := cfg44.ReadString(bytes.NewReader(unhex(t, "01 02 00 00 00")))
		require.ErrorIs(t, err, format.ErrInvalidLength)
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		_, err := cfg44.ReadString(bytes.NewReader(unhex(t, "00 02 00 00 00 c3 28")))
		require.ErrorIs(t, err, format.ErrInvalidEncoding)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := cfg44.ReadString(bytes.NewReader(unhex(t, "00 05 00 00 00 61 62")))
		require.ErrorIs(t, err, format.ErrTruncated)
	})

	t.Run("LongLengthTruncated", func(t *testing.T) {
		// A length far beyond the input must fail without allocating it
		_, err := cfg44.ReadString(bytes.NewReader(unhex(t, "00 ff ff ff 7f 61 62 63")))
		require.ErrorIs(t, err, format.ErrTruncated)
	})

	t.Run("LongValue", func(t *testing.T) {
		body := strings.Repeat("x", 100_000)
		var buf bytes.Buffer
		buf.Write([]byte{0x00, 0xa0, 0x86, 0x01, 0x00})
		buf.WriteString(body)
		s, err := cfg44.ReadString(&buf)
		require.NoError(t, err)
		require.Equal(t, body, s)
	})
}

func TestReadBools(t *testing.T) {
	b, err := cfg44.ReadIntBool(bytes.NewReader(unhex(t, "00 01 00 00 00")))
	require.NoError(t, err)
	require.True(t, b)

	b, err = cfg44.ReadIntBool(bytes.NewReader(unhex(t, "01 00 00 00 00")))
	require.NoError(t, err)
	require.False(t, b)

	b, err = cfg44.ReadStringBool(bytes.NewReader(unhex(t, "00 04 00 00 00 74 72 75 65")))
	require.NoError(t, err)
	require.True(t, b)

	for _, in := range []string{
		"00 05 00 00 00 66 61 6c 73 65", // false
		"00 04 00 00 00 54 52 55 45",    // TRUE
		"01 01 00 00 00",                // no value
	} {
		b, err = cfg44.ReadStringBool(bytes.NewReader(unhex(t, in)))
		require.NoError(t, err)
		require.False(t, b, in)
	}
}

func TestReadOid(t *testing.T) {
	oid, err := cfg44.ReadOid(bytes.NewReader(unhex(t, "00 05 00 00 00 33 33 37 30 38")))
	require.NoError(t, err)
	require.Equal(t, format.Oid(33708), oid)

	for _, in := range []string{
		"00 02 00 00 00 2d 31", // -1
		"00 03 00 00 00 61 62 63",
		"01 01 00 00 00", // empty
	} {
		_, err := cfg44.ReadOid(bytes.NewReader(unhex(t, in)))
		require.ErrorIs(t, err, format.ErrInvalidID, in)
	}
}

func TestReadOffset(t *testing.T) {
	tests := []struct {
		tag  byte
		want format.Offset
	}{
		{0, format.Offset{Kind: format.OffsetUnknown}},
		{1, format.Offset{Kind: format.OffsetPosNotSet}},
		{2, format.PosSet(0x16d7)},
		{3, format.Offset{Kind: format.OffsetNoData}},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			input := append([]byte{tt.tag}, 0xd7, 0x16, 0, 0, 0, 0, 0, 0, 0xee)
			r := bytes.NewReader(input)
			got, err := cfg44.ReadOffset(r)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, 1, r.Len(), "consumes exactly 1+offset_size bytes")
		})
	}

	t.Run("InvalidTag", func(t *testing.T) {
		_, err := cfg44.ReadOffset(bytes.NewReader([]byte{4, 0, 0, 0, 0, 0, 0, 0, 0}))
		require.ErrorIs(t, err, format.ErrInvalidTag)
	})

	t.Run("ConfigUnset", func(t *testing.T) {
		cfg := format.Config{IntSize: 4}
		_, err := cfg.ReadOffset(bytes.NewReader([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0}))
		require.ErrorIs(t, err, format.ErrConfigUnset)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := cfg44.ReadOffset(bytes.NewReader([]byte{2, 0, 0}))
		require.ErrorIs(t, err, format.ErrTruncated)
	})
}
