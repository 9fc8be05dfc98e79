// internal/format/offset.go
package format

import "fmt"

// OffsetKind is the tag byte in front of every stored file offset
type OffsetKind uint8

const (
	OffsetUnknown   OffsetKind = 0 // position was never recorded
	OffsetPosNotSet OffsetKind = 1 // data exists but the writer could not seek back to record it
	OffsetPosSet    OffsetKind = 2 // data starts at Pos
	OffsetNoData    OffsetKind = 3 // entry intentionally has no data
)

// Offset locates a TOC entry's data block in the archive file
type Offset struct {
	Kind OffsetKind
	Pos  uint64 // only meaningful for OffsetPosSet
}

// PosSet returns an offset pointing at pos
func PosSet(pos uint64) Offset {
	return Offset{Kind: OffsetPosSet, Pos: pos}
}

// HasData reports whether the offset points at a data block
func (o Offset) HasData() bool {
	return o.Kind == OffsetPosSet
}

func (o Offset) String() string {
	switch o.Kind {
	case OffsetUnknown:
		return "unknown"
	case OffsetPosNotSet:
		return "pos-not-set"
	case OffsetPosSet:
		return fmt.Sprintf("pos(%d)", o.Pos)
	case OffsetNoData:
		return "no-data"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(o.Kind))
	}
}
