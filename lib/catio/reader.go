/*package catio reads and writes whitespace-separated text catalogs of
particles. Each line is one particle and each column is one variable.
Comment lines start with '#'. If the last comment line before the first
particle has one name for each column, e.g.

    # id x_x x_y m
    0 0.25 0.5 1e-3
    1 0.75 0.5 1e-3

those names are used for the columns. Columns are float64s, except for named
columns listed in TextConfig.Uint64Columns, which are also kept as exact
uint64s.
*/
package catio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// TextConfig contains information neccessary for parsing catalogs.
type TextConfig struct {
	Separator byte // Character used to separated fields. ' ' also allows tabs.
	Comment byte // Character used to start comments.
	SkipLines int // Number of lines to skip at the start of file.
	MaxLineSize int // Largest possible line size.
	// Uint64Columns are the names of columns which hold unsigned integers.
	Uint64Columns []string
}

// DefaultConfig is a TextConfig instance which can read the catalogs written
// by Write.
var DefaultConfig = TextConfig{
	Separator: ' ',
	Comment: '#',
	SkipLines: 0,
	MaxLineSize: 1<<20,
}

// Table is a catalog. Columns[i] holds the values of the column named
// Names[i].
type Table struct {
	Names []string
	Columns [][]float64
	// Uint64s holds the exact values of integer columns by name. These
	// columns are also in Columns, rounded to the nearest float64.
	Uint64s map[string][]uint64
	// Named is true if the names came from a header line and false if they
	// are the default names "0", "1", etc.
	Named bool
}

// NewTable creates a table with the given column names and values.
func NewTable(names []string, columns [][]float64) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%d column names were given for %d columns.",
			len(names), len(columns))
	}
	for i := range columns {
		if len(columns[i]) != len(columns[0]) {
			return nil, fmt.Errorf("Column '%s' has %d rows, but column " +
				"'%s' has %d.", names[i], len(columns[i]), names[0],
				len(columns[0]))
		}
	}
	return &Table{
		Names: names, Columns: columns, Uint64s: map[string][]uint64{ },
		Named: true,
	}, nil
}

// AddUint64 appends an integer column to the table.
func (t *Table) AddUint64(name string, x []uint64) error {
	if len(t.Columns) > 0 && len(x) != t.Len() {
		return fmt.Errorf("Column '%s' has %d rows, but the table has %d.",
			name, len(x), t.Len())
	} else if _, ok := t.Uint64s[name]; ok {
		return fmt.Errorf("The table already has a column named '%s'.", name)
	}

	col := make([]float64, len(x))
	for i := range x { col[i] = float64(x[i]) }
	t.Names = append(t.Names, name)
	t.Columns = append(t.Columns, col)
	if t.Uint64s == nil { t.Uint64s = map[string][]uint64{ } }
	t.Uint64s[name] = x
	return nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if len(t.Columns) == 0 { return 0 }
	return len(t.Columns[0])
}

// Column returns the named column.
func (t *Table) Column(name string) ([]float64, error) {
	for i := range t.Names {
		if t.Names[i] == name { return t.Columns[i], nil }
	}
	return nil, fmt.Errorf("The catalog has no column named '%s'.", name)
}

// Read reads a catalog from r. An optional config can be provided,
// otherwise DefaultConfig will be used.
func Read(r io.Reader, config ...TextConfig) (*Table, error) {
	c := DefaultConfig
	if len(config) > 0 { c = config[0] }
	if c.MaxLineSize <= 0 { c.MaxLineSize = DefaultConfig.MaxLineSize }

	data, err := io.ReadAll(r)
	if err != nil { return nil, err }
	return newTextReader(data, c).read()
}

// ReadFile reads the named catalog.
func ReadFile(fname string, config ...TextConfig) (*Table, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, err }
	defer f.Close()

	t, err := Read(f, config...)
	if err != nil { return nil, fmt.Errorf("%s: %s", fname, err.Error()) }
	return t, nil
}

// Write writes t to w with a header line giving the column names. Values are
// written with enough digits to be read back exactly.
func Write(w io.Writer, t *Table, config ...TextConfig) error {
	c := DefaultConfig
	if len(config) > 0 { c = config[0] }
	bw := bufio.NewWriter(w)

	if len(t.Names) > 0 {
		bw.WriteByte(c.Comment)
		for i := range t.Names {
			bw.WriteByte(' ')
			bw.WriteString(t.Names[i])
		}
		bw.WriteByte('\n')
	}

	uints := make([][]uint64, len(t.Names))
	for i := range t.Names { uints[i] = t.Uint64s[t.Names[i]] }

	buf := []byte{ }
	for j := 0; j < t.Len(); j++ {
		buf = buf[:0]
		for i := range t.Columns {
			if i > 0 { buf = append(buf, c.Separator) }
			if uints[i] != nil {
				buf = strconv.AppendUint(buf, uints[i][j], 10)
			} else {
				buf = strconv.AppendFloat(buf, t.Columns[i][j], 'g', -1, 64)
			}
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil { return err }
	}

	return bw.Flush()
}

// WriteFile writes t to the named file.
func WriteFile(fname string, t *Table, config ...TextConfig) error {
	f, err := os.Create(fname)
	if err != nil { return err }
	if err := Write(f, t, config...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
