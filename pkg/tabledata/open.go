// pkg/tabledata/open.go
package tabledata

import (
	"fmt"
	"strings"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
)

type openConfig struct {
	parser ColumnParser
}

// Option configures Open
type Option func(*openConfig)

// WithColumnParser labels rows from the table's CREATE TABLE statement
// instead of the COPY column list.
func WithColumnParser(p ColumnParser) Option {
	return func(c *openConfig) { c.parser = p }
}

// SplitQualified splits "schema.table" into its parts. A name without a
// dot has an empty schema, matching any.
func SplitQualified(name string) (namespace, table string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Open locates the data of table, optionally schema qualified, and returns
// a Reader over its rows. The caller must Close the reader.
func Open(f *archive.File, table string, opts ...Option) (*Reader, error) {
	if table == "" {
		return nil, ErrTableRequired
	}
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	namespace, tag := SplitQualified(table)
	data, ok := f.FindQualified(archive.SectionData, archive.DescTableData, namespace, tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	r, err := openEntry(f, data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	return r, nil
}

// OpenEntry returns a Reader over the rows of a TABLE DATA entry of f
func OpenEntry(f *archive.File, data *archive.TocEntry, opts ...Option) (*Reader, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return openEntry(f, data, cfg)
}

func openEntry(f *archive.File, data *archive.TocEntry, cfg openConfig) (*Reader, error) {
	columns, err := resolveColumns(f.Archive, data, cfg)
	if err != nil {
		return nil, err
	}
	rc, err := f.OpenData(data)
	if err != nil {
		return nil, err
	}
	return NewReader(rc, columns), nil
}

// resolveColumns asks the parser about the matching TABLE entry when one is
// configured, and reads the COPY statement otherwise.
func resolveColumns(a *archive.Archive, data *archive.TocEntry, cfg openConfig) ([]string, error) {
	if cfg.parser != nil {
		def, ok := a.FindQualified(archive.SectionPreData, archive.DescTable, data.Namespace, data.Tag)
		if ok {
			cols, err := cfg.parser.ColumnNames(def.Defn)
			if err != nil {
				return nil, fmt.Errorf("parse table definition: %w", err)
			}
			return cols, nil
		}
	}
	return CopyColumns(data.CopyStmt)
}
