// pkg/pgarchive/filter.go

// Package pgarchive holds helpers shared by the archive walking packages
// and the CLI: progress reporting, summaries, entry filters and counting io.
package pgarchive

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
)

// EntryPath is the name entries are matched by: "namespace/tag", or just
// the tag for objects outside a schema.
func EntryPath(e *archive.TocEntry) string {
	tag := strings.ReplaceAll(e.Tag, "/", "_")
	if e.Namespace == "" {
		return tag
	}
	return e.Namespace + "/" + tag
}

// OutputPath is EntryPath with every component made safe to use below an
// output directory. Separators inside names become "_" and names that
// would step out of the directory are escaped.
func OutputPath(e *archive.TocEntry) string {
	tag := safeComponent(e.Tag)
	if e.Namespace == "" {
		return tag
	}
	return safeComponent(e.Namespace) + "/" + tag
}

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

func safeComponent(name string) string {
	name = separatorReplacer.Replace(name)
	switch name {
	case "", ".":
		return "_"
	case "..":
		return "__"
	}
	return name
}

// EntryFilter selects TOC entries with gitignore-style patterns over
// EntryPath, e.g. "public/*" or "!public/audit_*".
type EntryFilter struct {
	include  *ignore.GitIgnore
	exclude  *ignore.GitIgnore
	sections map[archive.Section]bool
	descs    map[string]bool
}

// FilterOptions configures NewEntryFilter. Empty fields do not restrict.
type FilterOptions struct {
	Include     []string
	Exclude     []string
	ExcludeFile string // file of exclude patterns, one per line
	Sections    []archive.Section
	Descs       []string // object kinds such as "TABLE DATA", case-insensitive
}

// NewEntryFilter compiles the patterns. A nil filter matches everything.
func NewEntryFilter(opts FilterOptions) (*EntryFilter, error) {
	f := &EntryFilter{}
	if len(opts.Include) > 0 {
		f.include = ignore.CompileIgnoreLines(opts.Include...)
	}
	switch {
	case opts.ExcludeFile != "":
		gi, err := ignore.CompileIgnoreFileAndLines(opts.ExcludeFile, opts.Exclude...)
		if err != nil {
			return nil, err
		}
		f.exclude = gi
	case len(opts.Exclude) > 0:
		f.exclude = ignore.CompileIgnoreLines(opts.Exclude...)
	}
	if len(opts.Sections) > 0 {
		f.sections = make(map[archive.Section]bool, len(opts.Sections))
		for _, s := range opts.Sections {
			f.sections[s] = true
		}
	}
	if len(opts.Descs) > 0 {
		f.descs = make(map[string]bool, len(opts.Descs))
		for _, d := range opts.Descs {
			f.descs[strings.ToUpper(strings.TrimSpace(d))] = true
		}
	}
	return f, nil
}

// Match reports whether e passes the filter
func (f *EntryFilter) Match(e *archive.TocEntry) bool {
	if f == nil {
		return true
	}
	if f.sections != nil && !f.sections[e.Section] {
		return false
	}
	if f.descs != nil && !f.descs[strings.ToUpper(e.Desc)] {
		return false
	}
	path := EntryPath(e)
	if f.include != nil && !f.include.MatchesPath(path) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchesPath(path) {
		return false
	}
	return true
}
