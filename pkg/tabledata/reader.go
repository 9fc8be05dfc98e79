// pkg/tabledata/reader.go

// Package tabledata reads the rows of a table data entry. pg_dump stores
// table contents in COPY text format: one line per row, tab separated
// fields, \N for NULL and backslash escapes for control characters.
package tabledata

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// endOfData is the line that terminates COPY data
const endOfData = `\.`

// Row is one decoded row. Values line up with Columns.
type Row struct {
	Columns []string
	Values  []sql.NullString
}

// Get returns the value of the named column
func (r Row) Get(column string) (sql.NullString, bool) {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return sql.NullString{}, false
}

// Strings returns the values with NULL rendered as null
func (r Row) Strings(null string) []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		if v.Valid {
			out[i] = v.String
		} else {
			out[i] = null
		}
	}
	return out
}

// Reader decodes COPY text rows
type Reader struct {
	br      *bufio.Reader
	closer  io.Closer
	columns []string
	line    int
	done    bool
}

// NewReader returns a Reader over COPY text. When columns is empty the
// field count of rows is not checked.
func NewReader(r io.Reader, columns []string) *Reader {
	rd := &Reader{br: bufio.NewReaderSize(r, 64<<10), columns: columns}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// Columns returns the column names rows are labeled with
func (r *Reader) Columns() []string {
	return r.columns
}

// Next returns the next row, or io.EOF after the last one
func (r *Reader) Next() (Row, error) {
	if r.done {
		return Row{}, io.EOF
	}

	line, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Row{}, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		// Data without the end marker
		r.done = true
		return Row{}, io.EOF
	}
	r.line++
	line = strings.TrimSuffix(line, "\n")

	if line == endOfData {
		r.done = true
		return Row{}, io.EOF
	}

	fields := strings.Split(line, "\t")
	if len(r.columns) > 0 && len(fields) != len(r.columns) {
		return Row{}, fmt.Errorf("line %d: %w: %d fields, %d columns", r.line, ErrColumnCount, len(fields), len(r.columns))
	}

	values := make([]sql.NullString, len(fields))
	for i, f := range fields {
		if f == `\N` {
			continue
		}
		s, err := unescape(f)
		if err != nil {
			return Row{}, fmt.Errorf("line %d field %d: %w", r.line, i+1, err)
		}
		values[i] = sql.NullString{String: s, Valid: true}
	}
	return Row{Columns: r.columns, Values: values}, nil
}

// Close closes the underlying data stream when it has a Close method
func (r *Reader) Close() error {
	r.done = true
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// unescape decodes the backslash sequences of one COPY text field
func unescape(f string) (string, error) {
	if strings.IndexByte(f, '\\') < 0 {
		return f, nil
	}

	var sb strings.Builder
	sb.Grow(len(f))
	for i := 0; i < len(f); i++ {
		c := f[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(f) {
			return "", ErrInvalidEscape
		}
		switch c = f[i]; c {
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'x':
			// One or two hex digits; a bare \x is a literal x
			j := i + 1
			for j < len(f) && j < i+3 && isHex(f[j]) {
				j++
			}
			if j == i+1 {
				sb.WriteByte('x')
				continue
			}
			v, _ := strconv.ParseUint(f[i+1:j], 16, 8)
			sb.WriteByte(byte(v))
			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// One to three octal digits
			j := i
			for j < len(f) && j < i+3 && f[j] >= '0' && f[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(f[i:j], 8, 16)
			sb.WriteByte(byte(v))
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
