// pkg/tabledata/tabledata_test.go
package tabledata_test

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/go-pgarchive/internal/format"
	"github.com/creativeyann17/go-pgarchive/internal/pgdumptest"
	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/tabledata"
)

func readAll(t *testing.T, r *tabledata.Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row.Strings("NULL"))
	}
}

func TestCopyColumns(t *testing.T) {
	tests := []struct {
		stmt string
		want []string
	}{
		{"COPY public.pizza (pizza_id, name) FROM stdin;\n", []string{"pizza_id", "name"}},
		{`COPY "Sales"."Order Lines" ("Line No", qty, "say ""hi""") FROM stdin;`, []string{"Line No", "qty", `say "hi"`}},
		{`copy public.t (a) from stdin;`, []string{"a"}},
		{`COPY public."odd(name" (x, y) FROM stdin;`, []string{"x", "y"}},
	}

	for _, tt := range tests {
		got, err := tabledata.CopyColumns(tt.stmt)
		require.NoError(t, err, tt.stmt)
		require.Equal(t, tt.want, got)
	}

	_, err := tabledata.CopyColumns("SELECT 1")
	require.ErrorIs(t, err, tabledata.ErrNotCopyStatement)

	_, err = tabledata.CopyColumns("COPY public.t FROM stdin;")
	require.ErrorIs(t, err, tabledata.ErrNoColumnList)

	_, err = tabledata.CopyColumns("COPY public.t (a, ")
	require.ErrorIs(t, err, tabledata.ErrNoColumnList)
}

func TestReaderEscapes(t *testing.T) {
	input := strings.Join([]string{
		"1\tplain",
		`2` + "\t" + `tab\there`,
		`3` + "\t" + `line\nbreak\r`,
		`4` + "\t" + `back\\slash`,
		`5` + "\t" + `\N`,
		`6` + "\t" + `\101\x42\x4a3`,
		`7` + "\t" + `\b\f\v`,
		`8` + "\t" + `\q\xZ`,
		`9` + "\t" + ``,
		`\.`,
		"",
		"",
	}, "\n")

	r := tabledata.NewReader(strings.NewReader(input), []string{"id", "value"})
	var values []sql.NullString
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		v, ok := row.Get("value")
		require.True(t, ok)
		values = append(values, v)
	}

	require.Equal(t, []sql.NullString{
		{String: "plain", Valid: true},
		{String: "tab\there", Valid: true},
		{String: "line\nbreak\r", Valid: true},
		{String: `back\slash`, Valid: true},
		{},
		{String: "ABJ3", Valid: true},
		{String: "\b\f\v", Valid: true},
		{String: "qxZ", Valid: true},
		{String: "", Valid: true},
	}, values)

	// Exhausted readers keep returning io.EOF
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderErrors(t *testing.T) {
	t.Run("ColumnCount", func(t *testing.T) {
		r := tabledata.NewReader(strings.NewReader("1\ta\n2\n"), []string{"id", "name"})
		_, err := r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		require.ErrorIs(t, err, tabledata.ErrColumnCount)
		require.Contains(t, err.Error(), "line 2")
	})

	t.Run("TrailingBackslash", func(t *testing.T) {
		r := tabledata.NewReader(strings.NewReader("1\tbad\\\n"), nil)
		_, err := r.Next()
		require.ErrorIs(t, err, tabledata.ErrInvalidEscape)
	})

	t.Run("NoEndMarker", func(t *testing.T) {
		r := tabledata.NewReader(strings.NewReader("1\ta\n2\tb"), nil)
		require.Equal(t, [][]string{{"1", "a"}, {"2", "b"}}, readAll(t, r))
	})
}

func TestOpen(t *testing.T) {
	path := pgdumptest.WriteFile(t, pgdumptest.Pizza(format.CompressionGzip), "pizza.dump")
	f, err := archive.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("Pizza", func(t *testing.T) {
		r, err := tabledata.Open(f, "pizza")
		require.NoError(t, err)
		defer r.Close()

		require.Equal(t, []string{"pizza_id", "name"}, r.Columns())
		require.Equal(t, [][]string{
			{"1", "The Classic"},
			{"2", "All Cheese"},
			{"3", "Veggie"},
			{"4", "The Everything"},
			{"5", "Vegan"},
		}, readAll(t, r))
	})

	t.Run("QualifiedWithNulls", func(t *testing.T) {
		r, err := tabledata.Open(f, "public.topping")
		require.NoError(t, err)
		defer r.Close()

		require.Equal(t, [][]string{
			{"1", "Mozzarella"},
			{"2", "Tomato"},
			{"3", "Basil\tfresh"},
			{"4", "NULL"},
		}, readAll(t, r))
	})

	t.Run("ColumnParser", func(t *testing.T) {
		var seen string
		parser := tabledata.ColumnParserFunc(func(stmt string) ([]string, error) {
			seen = stmt
			return []string{"pid", "tid"}, nil
		})

		r, err := tabledata.Open(f, "pizza_topping", tabledata.WithColumnParser(parser))
		require.NoError(t, err)
		defer r.Close()

		require.True(t, strings.HasPrefix(seen, "CREATE TABLE public.pizza_topping"))
		row, err := r.Next()
		require.NoError(t, err)
		v, ok := row.Get("tid")
		require.True(t, ok)
		require.Equal(t, sql.NullString{String: "1", Valid: true}, v)
	})

	t.Run("ColumnParserError", func(t *testing.T) {
		parser := tabledata.ColumnParserFunc(func(string) ([]string, error) {
			return nil, errors.New("not a create statement")
		})
		_, err := tabledata.Open(f, "pizza", tabledata.WithColumnParser(parser))
		require.ErrorContains(t, err, "not a create statement")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := tabledata.Open(f, "calzone")
		require.ErrorIs(t, err, tabledata.ErrTableNotFound)

		_, err = tabledata.Open(f, "private.pizza")
		require.ErrorIs(t, err, tabledata.ErrTableNotFound)

		_, err = tabledata.Open(f, "")
		require.ErrorIs(t, err, tabledata.ErrTableRequired)
	})
}
