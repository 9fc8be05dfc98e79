// pkg/tabledata/columns.go
package tabledata

import (
	"fmt"
	"strings"
)

// ColumnParser extracts ordered column names from a CREATE TABLE statement.
// Implementations live outside this module; Open falls back to the column
// list of the COPY statement when none is given.
type ColumnParser interface {
	ColumnNames(createStmt string) ([]string, error)
}

// ColumnParserFunc adapts a function to ColumnParser
type ColumnParserFunc func(createStmt string) ([]string, error)

// ColumnNames calls fn
func (fn ColumnParserFunc) ColumnNames(createStmt string) ([]string, error) {
	return fn(createStmt)
}

// CopyColumns returns the column list of a statement such as
//
//	COPY public.pizza (pizza_id, name) FROM stdin;
//
// Quoted identifiers are unquoted; pg_dump writes unquoted ones already folded.
func CopyColumns(copyStmt string) ([]string, error) {
	s := strings.TrimSpace(copyStmt)
	if len(s) < 5 || !strings.EqualFold(s[:5], "COPY ") {
		return nil, fmt.Errorf("%w: %q", ErrNotCopyStatement, copyStmt)
	}

	open := indexUnquoted(s, '(')
	if open < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumnList, copyStmt)
	}

	var (
		cols    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for i := open + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '"':
			if i+1 < len(s) && s[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			quoted = false
		case quoted:
			cur.WriteByte(c)
		case c == '"':
			quoted, started = true, true
		case c == ',' || c == ')':
			if !started {
				return nil, fmt.Errorf("%w: empty column name in %q", ErrNoColumnList, copyStmt)
			}
			cols = append(cols, cur.String())
			cur.Reset()
			started = false
			if c == ')' {
				return cols, nil
			}
		case c == ' ' || c == '\t' || c == '\n':
		default:
			cur.WriteByte(c)
			started = true
		}
	}
	return nil, fmt.Errorf("%w: unterminated column list in %q", ErrNoColumnList, copyStmt)
}

// indexUnquoted returns the index of the first c outside double quotes
func indexUnquoted(s string, c byte) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case c:
			if !quoted {
				return i
			}
		}
	}
	return -1
}
