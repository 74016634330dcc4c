package catio

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/phil-mansfield/table"
)

type textReader struct {
	data []byte
	config TextConfig
	header []string
	// rows are the data lines with comments removed and fields joined by
	// single spaces. lineNum[i] is the line number of rows[i].
	rows [][]byte
	lineNum []int
	cols int
}

func newTextReader(data []byte, config TextConfig) *textReader {
	return &textReader{ data: data, config: config }
}

// fields splits a line into its columns. A ' ' separator treats any run of
// whitespace as one separator.
func (t *textReader) fields(line []byte) [][]byte {
	if t.config.Separator == ' ' { return bytes.Fields(line) }

	tok := bytes.Split(line, []byte{ t.config.Separator })
	for i := range tok { tok[i] = bytes.TrimSpace(tok[i]) }
	return tok
}

func (t *textReader) read() (*Table, error) {
	if err := t.scan(); err != nil { return nil, err }

	tab := &Table{
		Columns: make([][]float64, t.cols), Names: make([]string, t.cols),
		Uint64s: map[string][]uint64{ },
	}
	if len(t.header) == t.cols && t.cols > 0 {
		copy(tab.Names, t.header)
		tab.Named = true
	} else {
		for i := range tab.Names { tab.Names[i] = strconv.Itoa(i) }
	}

	if len(t.rows) == 0 {
		for i := range tab.Columns { tab.Columns[i] = []float64{ } }
		return tab, nil
	}

	cols, err := t.readFloat64s()
	if err != nil { return nil, err }
	tab.Columns = cols

	if !tab.Named { return tab, nil }
	for _, name := range t.config.Uint64Columns {
		for i := range tab.Names {
			if tab.Names[i] != name { continue }
			x, err := t.readUint64s(i)
			if err != nil { return nil, err }
			tab.Uint64s[name] = x
		}
	}

	return tab, nil
}

// scan finds the header and the data lines and checks that every data line
// has the same number of columns.
func (t *textReader) scan() error {
	lines := bytes.Split(t.data, []byte{ '\n' })
	for i, line := range lines {
		if i < t.config.SkipLines { continue }
		if len(line) > t.config.MaxLineSize {
			return fmt.Errorf("Line %d has %d characters, but the longest " +
				"allowed line has %d.", i + 1, len(line),
				t.config.MaxLineSize)
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 { continue }
		if line[0] == t.config.Comment {
			// Only comments before the first row can be headers.
			if len(t.rows) == 0 {
				t.header = t.header[:0]
				for _, tok := range t.fields(line[1:]) {
					t.header = append(t.header, string(tok))
				}
			}
			continue
		}
		if idx := bytes.IndexByte(line, t.config.Comment); idx >= 0 {
			line = line[:idx]
		}

		tok := t.fields(line)
		if len(t.rows) == 0 {
			t.cols = len(tok)
		} else if len(tok) != t.cols {
			return fmt.Errorf("Line %d has %d columns, but earlier " +
				"lines have %d.", i + 1, len(tok), t.cols)
		}
		for j := range tok {
			if len(tok[j]) == 0 {
				return fmt.Errorf("Column %d of line %d is empty.", j, i + 1)
			}
		}

		t.rows = append(t.rows, bytes.Join(tok, []byte{ ' ' }))
		t.lineNum = append(t.lineNum, i + 1)
	}

	if len(t.rows) == 0 { t.cols = len(t.header) }
	return nil
}

// readFloat64s parses every column of the data lines.
func (t *textReader) readFloat64s() (cols [][]float64, err error) {
	// Rows are already uncommented and space-separated.
	config := table.DefaultConfig
	config.Separator = ' '
	config.SkipLines = 0
	config.MaxLineSize = t.config.MaxLineSize

	idx := make([]int, t.cols)
	for i := range idx { idx[i] = i }

	// table reports malformed data by panicking.
	defer func() {
		if r := recover(); r != nil {
			cols, err = nil, fmt.Errorf("Could not parse catalog: %v", r)
		}
	}()

	text := bytes.Join(t.rows, []byte{ '\n' })
	return table.Text(text, config).ReadFloat64s(idx), nil
}

// readUint64s parses column i of the data lines as unsigned integers.
func (t *textReader) readUint64s(i int) ([]uint64, error) {
	x := make([]uint64, len(t.rows))
	for j := range t.rows {
		tok := bytes.Fields(t.rows[j])[i]
		n, err := strconv.ParseUint(string(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Column %d of line %d, '%s', is not an " +
				"unsigned integer.", i, t.lineNum[j], tok)
		}
		x[j] = n
	}
	return x, nil
}
