// pkg/pgarchive/filter_test.go
package pgarchive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
)

func entry(namespace, tag, desc string, section archive.Section) *archive.TocEntry {
	return &archive.TocEntry{Namespace: namespace, Tag: tag, Desc: desc, Section: section}
}

func TestEntryPath(t *testing.T) {
	tests := []struct {
		e    *archive.TocEntry
		want string
	}{
		{entry("public", "pizza", "TABLE DATA", archive.SectionData), "public/pizza"},
		{entry("", "ENCODING", "ENCODING", archive.SectionPreData), "ENCODING"},
		{entry("sales", "a/b", "TABLE DATA", archive.SectionData), "sales/a_b"},
	}
	for _, tc := range tests {
		if got := EntryPath(tc.e); got != tc.want {
			t.Errorf("EntryPath() = %q, want %q", got, tc.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		e    *archive.TocEntry
		want string
	}{
		{entry("public", "pizza", "TABLE DATA", archive.SectionData), "public/pizza"},
		{entry("", "ENCODING", "ENCODING", archive.SectionPreData), "ENCODING"},
		{entry("../escaped", "pizza", "TABLE DATA", archive.SectionData), ".._escaped/pizza"},
		{entry("..", "..", "TABLE DATA", archive.SectionData), "__/__"},
		{entry(".", "", "TABLE DATA", archive.SectionData), "_/_"},
		{entry(`a\..\x`, "/etc/passwd", "TABLE DATA", archive.SectionData), "a_.._x/_etc_passwd"},
	}
	for _, tc := range tests {
		got := OutputPath(tc.e)
		if got != tc.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tc.e.Namespace, tc.e.Tag, got, tc.want)
		}
		if !filepath.IsLocal(filepath.FromSlash(got)) {
			t.Errorf("OutputPath(%q, %q) = %q is not local", tc.e.Namespace, tc.e.Tag, got)
		}
	}
}

func TestEntryFilter_Patterns(t *testing.T) {
	f, err := NewEntryFilter(FilterOptions{
		Include: []string{"public/*", "audit/events"},
		Exclude: []string{"*_tmp"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		e        *archive.TocEntry
		expected bool
	}{
		{entry("public", "pizza", "TABLE DATA", archive.SectionData), true},
		{entry("public", "pizza_tmp", "TABLE DATA", archive.SectionData), false},
		{entry("audit", "events", "TABLE DATA", archive.SectionData), true},
		{entry("audit", "logins", "TABLE DATA", archive.SectionData), false},
		{entry("private", "pizza", "TABLE DATA", archive.SectionData), false},
	}

	for _, tc := range tests {
		t.Run(EntryPath(tc.e), func(t *testing.T) {
			if got := f.Match(tc.e); got != tc.expected {
				t.Errorf("Match(%q) = %v, want %v", EntryPath(tc.e), got, tc.expected)
			}
		})
	}
}

func TestEntryFilter_SectionsAndDescs(t *testing.T) {
	f, err := NewEntryFilter(FilterOptions{
		Sections: []archive.Section{archive.SectionPreData},
		Descs:    []string{"table", " SEQUENCE "},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !f.Match(entry("public", "pizza", "TABLE", archive.SectionPreData)) {
		t.Error("TABLE in pre-data should match")
	}
	if !f.Match(entry("public", "pizza_id_seq", "SEQUENCE", archive.SectionPreData)) {
		t.Error("SEQUENCE in pre-data should match")
	}
	if f.Match(entry("public", "pizza", "TABLE DATA", archive.SectionData)) {
		t.Error("TABLE DATA should not match")
	}
	if f.Match(entry("public", "pizza_pkey", "CONSTRAINT", archive.SectionPreData)) {
		t.Error("CONSTRAINT should not match")
	}
}

func TestEntryFilter_ExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pgarchiveignore")
	content := "# scratch tables\nscratch/*\n!scratch/keep\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := NewEntryFilter(FilterOptions{ExcludeFile: path, Exclude: []string{"public/big"}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		e        *archive.TocEntry
		expected bool
	}{
		{entry("scratch", "t1", "TABLE DATA", archive.SectionData), false},
		{entry("scratch", "keep", "TABLE DATA", archive.SectionData), true},
		{entry("public", "big", "TABLE DATA", archive.SectionData), false},
		{entry("public", "pizza", "TABLE DATA", archive.SectionData), true},
	}
	for _, tc := range tests {
		if got := f.Match(tc.e); got != tc.expected {
			t.Errorf("Match(%q) = %v, want %v", EntryPath(tc.e), got, tc.expected)
		}
	}

	if _, err := NewEntryFilter(FilterOptions{ExcludeFile: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing exclude file")
	}
}

func TestEntryFilter_Nil(t *testing.T) {
	var f *EntryFilter
	if !f.Match(entry("public", "pizza", "TABLE DATA", archive.SectionData)) {
		t.Error("nil filter should match everything")
	}

	empty, err := NewEntryFilter(FilterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Match(entry("", "ENCODING", "ENCODING", archive.SectionPreData)) {
		t.Error("empty filter should match everything")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tc := range tests {
		if got := FormatSize(tc.bytes); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestTruncateLeft(t *testing.T) {
	if got := TruncateLeft("public/pizza", 30); got != "public/pizza" {
		t.Errorf("short name changed: %q", got)
	}
	got := TruncateLeft("warehouse/order_line_items_archive_2023", 20)
	if len(got) != 20 || got[:3] != "..." {
		t.Errorf("TruncateLeft() = %q", got)
	}
}
