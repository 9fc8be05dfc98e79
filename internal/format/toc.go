// internal/format/toc.go
package format

import (
	"fmt"
	"io"
	"strings"
)

// ID is a TOC entry's dump id
type ID = int64

// Section is the restore phase an entry belongs to
type Section uint8

const (
	SectionNone Section = iota + 1
	SectionPreData
	SectionData
	SectionPostData
)

func (s Section) String() string {
	switch s {
	case SectionNone:
		return "None"
	case SectionPreData:
		return "PreData"
	case SectionData:
		return "Data"
	case SectionPostData:
		return "PostData"
	default:
		return fmt.Sprintf("Section(%d)", uint8(s))
	}
}

// ParseSection accepts the names printed by String, case-insensitively,
// plus the pg_dump spellings "pre-data", "data" and "post-data".
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SectionNone, nil
	case "predata", "pre-data":
		return SectionPreData, nil
	case "data":
		return SectionData, nil
	case "postdata", "post-data":
		return SectionPostData, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSection, s)
	}
}

// TocEntry describes one schema object or data payload of the archive
type TocEntry struct {
	ID                ID
	HadDumper         bool
	TableOid          Oid
	Oid               Oid
	Tag               string // object name
	Desc              string // object kind, e.g. "TABLE" or "TABLE DATA"
	Section           Section
	Defn              string
	DropStmt          string
	CopyStmt          string
	Namespace         string
	Tablespace        string
	TableAccessMethod string
	Owner             string
	Dependencies      []ID
	Offset            Offset
}

// tocReader decodes the fields of one entry and tags errors with the field
// name and, once known, the entry id.
type tocReader struct {
	cfg   Config
	r     io.Reader
	v     Version
	id    ID
	hasID bool
}

func (t *tocReader) fail(field string, err error) error {
	return &FieldError{Field: field, EntryID: t.id, HasID: t.hasID, Err: err}
}

func (t *tocReader) str(field string, dst *string) error {
	s, err := t.cfg.ReadString(t.r)
	if err != nil {
		return t.fail(field, err)
	}
	*dst = s
	return nil
}

func (t *tocReader) oid(field string, dst *Oid) error {
	v, err := t.cfg.ReadOid(t.r)
	if err != nil {
		return t.fail(field, err)
	}
	*dst = v
	return nil
}

// ReadTocEntry decodes one TOC entry laid out for archive version v.
func ReadTocEntry(cfg Config, r io.Reader, v Version) (TocEntry, error) {
	var e TocEntry
	t := &tocReader{cfg: cfg, r: r, v: v}

	id, err := cfg.ReadInt(r)
	if err != nil {
		return e, t.fail("id", err)
	}
	if id < 0 {
		return e, t.fail("id", fmt.Errorf("%w: negative id %d", ErrInvalidID, id))
	}
	e.ID, t.id, t.hasID = id, id, true

	if e.HadDumper, err = cfg.ReadIntBool(r); err != nil {
		return e, t.fail("had dumper", err)
	}
	if err := t.oid("table oid", &e.TableOid); err != nil {
		return e, err
	}
	if err := t.oid("oid", &e.Oid); err != nil {
		return e, err
	}
	if err := t.str("tag", &e.Tag); err != nil {
		return e, err
	}
	if err := t.str("desc", &e.Desc); err != nil {
		return e, err
	}
	if e.Section, err = readSection(cfg, r, v, e.Desc); err != nil {
		return e, t.fail("section", err)
	}
	if err := t.str("defn", &e.Defn); err != nil {
		return e, err
	}
	if err := t.str("drop statement", &e.DropStmt); err != nil {
		return e, err
	}
	if err := t.str("copy statement", &e.CopyStmt); err != nil {
		return e, err
	}
	if err := t.str("namespace", &e.Namespace); err != nil {
		return e, err
	}
	if err := t.str("tablespace", &e.Tablespace); err != nil {
		return e, err
	}
	if e.TableAccessMethod, err = readTableAccessMethod(cfg, r, v); err != nil {
		return e, t.fail("table access method", err)
	}
	if err := t.str("owner", &e.Owner); err != nil {
		return e, err
	}

	// Historically "with oids"; must always be false
	reserved, err := cfg.ReadStringBool(r)
	if err != nil {
		return e, t.fail("reserved flag", err)
	}
	if reserved {
		return e, t.fail("reserved flag", ErrReservedFlag)
	}

	if e.Dependencies, err = readDependencies(cfg, r); err != nil {
		return e, t.fail("dependencies", err)
	}
	if e.Offset, err = cfg.ReadOffset(r); err != nil {
		return e, t.fail("offset", err)
	}

	return e, nil
}

// readSection decodes the section code stored since 1.11. Older archives
// have no section field and the section follows from the object kind.
func readSection(cfg Config, r io.Reader, v Version, desc string) (Section, error) {
	if !v.AtLeast(Version1_11) {
		return sectionFromDesc(desc), nil
	}
	code, err := cfg.ReadInt(r)
	if err != nil {
		return 0, err
	}
	if code < int64(SectionNone) || code > int64(SectionPostData) {
		return 0, fmt.Errorf("%w: code %d", ErrInvalidSection, code)
	}
	return Section(code), nil
}

func sectionFromDesc(desc string) Section {
	switch desc {
	case "COMMENT", "ACL", "ACL LANGUAGE":
		return SectionNone
	case "TABLE DATA", "BLOBS", "BLOB COMMENTS":
		return SectionData
	case "CONSTRAINT", "CHECK CONSTRAINT", "FK CONSTRAINT", "INDEX", "RULE", "TRIGGER":
		return SectionPostData
	default:
		return SectionPreData
	}
}

// readTableAccessMethod decodes the access method string stored since 1.14
func readTableAccessMethod(cfg Config, r io.Reader, v Version) (string, error) {
	if !v.AtLeast(Version1_14) {
		return "", nil
	}
	return cfg.ReadString(r)
}

// readDependencies reads decimal dump ids until the empty-string terminator
func readDependencies(cfg Config, r io.Reader) ([]ID, error) {
	var deps []ID
	for {
		s, err := cfg.ReadString(r)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return deps, nil
		}
		id, err := parseOid(s)
		if err != nil {
			return nil, err
		}
		if id > 1<<63-1 {
			return nil, fmt.Errorf("%w: dependency %s out of range", ErrInvalidID, s)
		}
		deps = append(deps, ID(id))
	}
}

// maxTocPrealloc caps the capacity reserved from the entry count, which is
// only an upper bound until the entries have actually been read.
const maxTocPrealloc = 4096

// ReadToc reads the entry count followed by exactly that many entries
func ReadToc(cfg Config, r io.Reader, v Version) ([]TocEntry, error) {
	count, err := cfg.ReadInt(r)
	if err != nil {
		return nil, &FieldError{Field: "toc count", Err: err}
	}
	if count < 0 {
		return nil, &FieldError{Field: "toc count", Err: fmt.Errorf("%w: %d entries", ErrInvalidLength, count)}
	}

	entries := make([]TocEntry, 0, min(count, maxTocPrealloc))
	for i := int64(0); i < count; i++ {
		e, err := ReadTocEntry(cfg, r, v)
		if err != nil {
			return nil, fmt.Errorf("toc entry %d of %d: %w", i+1, count, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
