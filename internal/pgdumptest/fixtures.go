// internal/pgdumptest/fixtures.go
package pgdumptest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// Table data of the pizza fixture, as pg_dump writes it
const (
	PizzaData        = "1\tThe Classic\n2\tAll Cheese\n3\tVeggie\n4\tThe Everything\n5\tVegan\n\\.\n\n\n"
	ToppingData      = "1\tMozzarella\n2\tTomato\n3\tBasil\\tfresh\n4\t\\N\n\\.\n\n\n"
	PizzaToppingData = "1\t1\n1\t2\n2\t1\n3\t3\n\\.\n\n\n"
)

func table(id format.ID, name, columns string) Entry {
	return Entry{TocEntry: format.TocEntry{
		ID:        id,
		Tag:       name,
		Desc:      "TABLE",
		Section:   format.SectionPreData,
		Defn:      "CREATE TABLE public." + name + " (\n" + columns + "\n);\n",
		DropStmt:  "DROP TABLE public." + name + ";\n",
		Namespace: "public",
		Owner:     "wichert",
		Offset:    format.Offset{Kind: format.OffsetNoData},
	}}
}

func tableData(id, dep format.ID, name, columns, data string) Entry {
	return Entry{
		TocEntry: format.TocEntry{
			ID:           id,
			HadDumper:    true,
			Tag:          name,
			Desc:         "TABLE DATA",
			Section:      format.SectionData,
			CopyStmt:     "COPY public." + name + " (" + columns + ") FROM stdin;\n",
			Namespace:    "public",
			Owner:        "wichert",
			Dependencies: []format.ID{dep},
		},
		Data: []byte(data),
	}
}

// Pizza returns a small archive with three tables and their data, encoded
// with the given compression.
func Pizza(alg format.Compression) *Archive {
	a := NewArchive(
		Entry{TocEntry: format.TocEntry{
			ID:      4494,
			Tag:     "ENCODING",
			Desc:    "ENCODING",
			Section: format.SectionPreData,
			Defn:    "SET client_encoding = 'UTF8';\n",
			Offset:  format.Offset{Kind: format.OffsetNoData},
		}},
		table(210, "pizza", "    pizza_id integer NOT NULL,\n    name text NOT NULL"),
		table(211, "topping", "    topping_id integer NOT NULL,\n    name text"),
		table(212, "pizza_topping", "    pizza_id integer NOT NULL,\n    topping_id integer NOT NULL"),
		tableData(4490, 210, "pizza", "pizza_id, name", PizzaData),
		tableData(4491, 212, "pizza_topping", "pizza_id, topping_id", PizzaToppingData),
		tableData(4492, 211, "topping", "topping_id, name", ToppingData),
		Entry{TocEntry: format.TocEntry{
			ID:           4493,
			Tag:          "pizza pizza_pkey",
			Desc:         "CONSTRAINT",
			Section:      format.SectionPostData,
			Defn:         "ALTER TABLE ONLY public.pizza\n    ADD CONSTRAINT pizza_pkey PRIMARY KEY (pizza_id);\n",
			Namespace:    "public",
			Owner:        "wichert",
			Dependencies: []format.ID{210},
			Offset:       format.Offset{Kind: format.OffsetNoData},
		}},
	)
	a.Compression = format.CompressionMethod{Algorithm: alg}
	switch alg {
	case format.CompressionGzip:
		a.Compression.Level = -1
	case format.CompressionLZ4, format.CompressionZSTD:
		// Only the single-byte encoding can name these
		a.Version = format.Version1_15
	}
	// Several chunks per block
	a.ChunkSize = 16
	return a
}

// WriteFile encodes a into a file under a fresh temporary directory and
// returns its path.
func WriteFile(t testing.TB, a *Archive, name string) string {
	t.Helper()
	b, err := a.Bytes()
	if err != nil {
		t.Fatalf("encode archive: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}
