package lib

/* io.go reads and writes particle files in whichever format their names
imply. */

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/catio"
	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/particles"
	"github.com/phil-mansfield/nbfmm/lib/snapio"
)

// TextExtension marks files which are text catalogs rather than snapshots.
const TextExtension = ".txt"

// Default column layout of text catalogs without a header line.
var textColumns = []string{ "x_x", "x_y", "m", "v_x", "v_y" }

func isText(fname string) bool {
	return strings.ToLower(filepath.Ext(fname)) == TextExtension
}

// ReadParticles reads a snapshot or, if fname ends in TextExtension, a text
// catalog. Text catalogs have no header, so their header is empty.
func ReadParticles(fname string) (snapio.Header, particles.Particles, error) {
	if !isText(fname) { return snapio.ReadFile(fname) }

	config := catio.DefaultConfig
	config.Uint64Columns = []string{ model.IDField }
	tab, err := catio.ReadFile(fname, config)
	if err != nil { return snapio.Header{ }, nil, err }
	p, err := tableParticles(tab)
	if err != nil {
		return snapio.Header{ }, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return snapio.Header{ }, p, nil
}

// WriteParticles writes a snapshot or, if fname ends in TextExtension, a
// text catalog. Text catalogs don't store hd.
func WriteParticles(
	fname string, hd snapio.Header, p particles.Particles,
) error {
	if !isText(fname) { return snapio.WriteFile(fname, hd, p) }

	tab, err := particlesTable(p)
	if err != nil { return err }
	return catio.WriteFile(fname, tab)
}

// particlesTable flattens p into columns. Vector fields are split into
// "<name>_x" and "<name>_y" columns and integer fields go last.
func particlesTable(p particles.Particles) (*catio.Table, error) {
	if _, err := p.Len(); err != nil { return nil, err }

	names, cols := []string{ }, [][]float64{ }
	uints := []string{ }
	for _, name := range p.Names() {
		switch x := p[name].Data().(type) {
		case []uint64:
			uints = append(uints, name)
		case []float64:
			names, cols = append(names, name), append(cols, x)
		case []r2.Vec:
			cx, cy := make([]float64, len(x)), make([]float64, len(x))
			for i := range x { cx[i], cy[i] = x[i].X, x[i].Y }
			names = append(names, name + "_x", name + "_y")
			cols = append(cols, cx, cy)
		default:
			return nil, fmt.Errorf("Field '%s' has type %T, which can't " +
				"be written to a text catalog.", name, x)
		}
	}

	tab, err := catio.NewTable(names, cols)
	if err != nil { return nil, err }
	for _, name := range uints {
		err := tab.AddUint64(name, p[name].Data().([]uint64))
		if err != nil { return nil, err }
	}
	return tab, nil
}

// tableParticles is the inverse of particlesTable. Unnamed columns follow
// textColumns.
func tableParticles(tab *catio.Table) (particles.Particles, error) {
	names := tab.Names
	if !tab.Named {
		if len(names) < 3 || len(names) > len(textColumns) {
			return nil, fmt.Errorf("A catalog without a header line must " +
				"have between 3 and %d columns (%s), but it has %d.",
				len(textColumns), strings.Join(textColumns, ", "),
				len(names))
		}
		names = textColumns[:len(names)]
	}

	n := tab.Len()
	p := particles.Particles{ }
	vec := map[string][2][]float64{ }
	for i, name := range names {
		col := tab.Columns[i]
		switch {
		case name == model.IDField:
			if id, ok := tab.Uint64s[name]; ok {
				p[name] = particles.NewUint64(name, id)
				continue
			}
			id := make([]uint64, n)
			for j := range col {
				if col[j] < 0 || col[j] != float64(uint64(col[j])) {
					return nil, fmt.Errorf("Row %d has the ID %g, which " +
						"isn't a non-negative integer.", j, col[j])
				}
				id[j] = uint64(col[j])
			}
			p[name] = particles.NewUint64(name, id)
		case strings.HasSuffix(name, "_x"), strings.HasSuffix(name, "_y"):
			base := name[:len(name) - 2]
			pair := vec[base]
			if name[len(name) - 1] == 'x' {
				pair[0] = col
			} else {
				pair[1] = col
			}
			vec[base] = pair
		default:
			p[name] = particles.NewFloat64(name, col)
		}
	}

	bases := []string{ }
	for base := range vec { bases = append(bases, base) }
	sort.Strings(bases)
	for _, base := range bases {
		pair := vec[base]
		if pair[0] == nil || pair[1] == nil {
			return nil, fmt.Errorf("The catalog only has one of the " +
				"columns '%s_x' and '%s_y'.", base, base)
		} else if _, ok := p[base]; ok {
			return nil, fmt.Errorf("The catalog has both a '%s' column " +
				"and '%s_x'/'%s_y' columns.", base, base, base)
		}
		x := make([]r2.Vec, n)
		for j := range x { x[j] = r2.Vec{ X: pair[0][j], Y: pair[1][j] } }
		p[base] = particles.NewVec2(base, x)
	}

	return p, nil
}
