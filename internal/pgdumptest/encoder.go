// internal/pgdumptest/encoder.go

// Package pgdumptest builds custom-format archives in memory for tests.
package pgdumptest

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// Encoder writes the primitive encodings using fixed integer and offset widths
type Encoder struct {
	buf    bytes.Buffer
	Config format.Config
}

// NewEncoder returns an encoder for the given widths
func NewEncoder(intSize, offsetSize int) *Encoder {
	return &Encoder{Config: format.Config{IntSize: intSize, OffsetSize: offsetSize}}
}

// Byte writes one raw byte
func (e *Encoder) Byte(b byte) {
	e.buf.WriteByte(b)
}

// Raw writes bytes without a length prefix
func (e *Encoder) Raw(b []byte) {
	e.buf.Write(b)
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes written so far
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Int writes a sign byte followed by the magnitude in IntSize bytes
func (e *Encoder) Int(v int64) {
	var sign byte
	mag := uint64(v)
	if v < 0 {
		sign = 1
		mag = uint64(-v)
	}
	e.Byte(sign)
	e.magnitude(mag, e.Config.IntSize)
}

// Bool writes 1 or 0 as an integer
func (e *Encoder) Bool(v bool) {
	if v {
		e.Int(1)
		return
	}
	e.Int(0)
}

// String writes a length-prefixed string. The empty string is written as
// the -1 "no value" marker, as pg_dump does for unset fields.
func (e *Encoder) String(s string) {
	if s == "" {
		e.Int(-1)
		return
	}
	e.Int(int64(len(s)))
	e.Raw([]byte(s))
}

// Oid writes v as a decimal string
func (e *Encoder) Oid(v uint64) {
	e.String(strconv.FormatUint(v, 10))
}

// Offset writes a tag byte followed by OffsetSize position bytes
func (e *Encoder) Offset(o format.Offset) {
	e.Byte(byte(o.Kind))
	e.magnitude(o.Pos, e.Config.OffsetSize)
}

func (e *Encoder) magnitude(v uint64, width int) {
	for i := 0; i < width; i++ {
		if i < 8 {
			e.Byte(byte(v >> (8 * i)))
		} else {
			e.Byte(0)
		}
	}
}

// Chunks writes payload as a sequence of length-prefixed chunks of at most
// size bytes, followed by the zero-length terminator.
func (e *Encoder) Chunks(payload []byte, size int) {
	if size <= 0 {
		size = len(payload)
	}
	for len(payload) > 0 {
		n := min(size, len(payload))
		e.Int(int64(n))
		e.Raw(payload[:n])
		payload = payload[n:]
	}
	e.Int(0)
}

// Entry is one TOC entry plus the payload of its data block. When Data is
// nil the entry's Offset is written as given; otherwise a data block is
// appended and the offset points at it.
type Entry struct {
	format.TocEntry
	Data []byte
	Blob bool
}

// Archive describes a complete archive to encode
type Archive struct {
	Version       format.Version
	IntSize       int
	OffsetSize    int
	Compression   format.CompressionMethod
	CreatedAt     time.Time
	DatabaseName  string
	ServerVersion string
	DumpVersion   string
	Entries       []Entry
	ChunkSize     int
}

// NewArchive returns a 1.14 archive description with pg_dump's usual widths
// and gzip at the default level.
func NewArchive(entries ...Entry) *Archive {
	return &Archive{
		Version:       format.Version1_14,
		IntSize:       4,
		OffsetSize:    8,
		Compression:   format.CompressionMethod{Algorithm: format.CompressionGzip, Level: -1},
		CreatedAt:     time.Date(2022, time.October, 24, 7, 53, 20, 0, time.UTC),
		DatabaseName:  "pizza",
		ServerVersion: "14.6",
		DumpVersion:   "14.6",
		Entries:       entries,
		ChunkSize:     4096,
	}
}

// Bytes encodes the archive. The TOC is encoded twice: offsets have a fixed
// width, so the first pass gives the position where data blocks start.
func (a *Archive) Bytes() ([]byte, error) {
	blocks := make([][]byte, len(a.Entries))
	for i, ent := range a.Entries {
		if ent.Data == nil {
			continue
		}
		block, err := a.block(ent)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", ent.ID, err)
		}
		blocks[i] = block
	}

	head := a.encodeTOC(nil)
	positions := make([]uint64, len(a.Entries))
	pos := uint64(len(head))
	for i, block := range blocks {
		if block == nil {
			continue
		}
		positions[i] = pos
		pos += uint64(len(block))
	}

	out := a.encodeTOC(positions)
	for _, block := range blocks {
		out = append(out, block...)
	}
	return out, nil
}

// MustBytes is Bytes for test setup that cannot fail
func (a *Archive) MustBytes() []byte {
	b, err := a.Bytes()
	if err != nil {
		panic(err)
	}
	return b
}

func (a *Archive) encodeTOC(positions []uint64) []byte {
	e := NewEncoder(a.IntSize, a.OffsetSize)
	a.writeHeader(e)
	e.Int(int64(len(a.Entries)))
	for i, ent := range a.Entries {
		off := ent.Offset
		if ent.Data != nil {
			off = format.PosSet(0)
			if positions != nil {
				off = format.PosSet(positions[i])
			}
		}
		a.writeEntry(e, ent.TocEntry, off)
	}
	return bytes.Clone(e.Bytes())
}

func (a *Archive) writeHeader(e *Encoder) {
	e.Raw([]byte(format.ArchiveMagic))
	e.Byte(a.Version.Major)
	e.Byte(a.Version.Minor)
	e.Byte(a.Version.Patch)
	e.Byte(byte(a.IntSize))
	e.Byte(byte(a.OffsetSize))
	e.Byte(format.FormatCustom)

	if a.Version.AtLeast(format.Version1_15) {
		e.Byte(byte(a.Compression.Algorithm))
	} else {
		switch a.Compression.Algorithm {
		case format.CompressionNone:
			e.Int(0)
		default:
			e.Int(a.Compression.Level)
		}
	}

	t := a.CreatedAt
	e.Int(int64(t.Second()))
	e.Int(int64(t.Minute()))
	e.Int(int64(t.Hour()))
	e.Int(int64(t.Day()))
	e.Int(int64(t.Month()) - 1)
	e.Int(int64(t.Year()) - 1900)
	e.Int(0)

	e.String(a.DatabaseName)
	e.String(a.ServerVersion)
	e.String(a.DumpVersion)
}

// WriteEntry encodes one TOC entry in the layout of version v
func WriteEntry(e *Encoder, v format.Version, ent format.TocEntry) {
	(&Archive{Version: v}).writeEntry(e, ent, ent.Offset)
}

func (a *Archive) writeEntry(e *Encoder, ent format.TocEntry, off format.Offset) {
	e.Int(ent.ID)
	e.Bool(ent.HadDumper)
	e.Oid(ent.TableOid)
	e.Oid(ent.Oid)
	e.String(ent.Tag)
	e.String(ent.Desc)
	if a.Version.AtLeast(format.Version1_11) {
		e.Int(int64(ent.Section))
	}
	e.String(ent.Defn)
	e.String(ent.DropStmt)
	e.String(ent.CopyStmt)
	e.String(ent.Namespace)
	e.String(ent.Tablespace)
	if a.Version.AtLeast(format.Version1_14) {
		e.String(ent.TableAccessMethod)
	}
	e.String(ent.Owner)
	e.String("false")
	for _, dep := range ent.Dependencies {
		e.String(strconv.FormatInt(dep, 10))
	}
	e.String("")
	e.Offset(off)
}

func (a *Archive) block(ent Entry) ([]byte, error) {
	payload, err := Compress(a.Compression.Algorithm, ent.Data)
	if err != nil {
		return nil, err
	}
	e := NewEncoder(a.IntSize, a.OffsetSize)
	if ent.Blob {
		e.Byte(format.BlockBlob)
	} else {
		e.Byte(format.BlockData)
	}
	e.Int(ent.ID)
	e.Chunks(payload, a.ChunkSize)
	return e.Bytes(), nil
}

// Compress encodes data the way pg_dump does for the given algorithm.
// Gzip archives actually carry zlib streams. LZ4 payloads are stored as is
// since nothing decodes them.
func Compress(alg format.Compression, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch alg {
	case format.CompressionGzip:
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case format.CompressionZSTD:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return bytes.Clone(data), nil
	}
}
