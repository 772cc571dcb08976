package fieldmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/paraxial/internal/beam"
)

var (
	// ErrNoData indicates a file with no numeric rows.
	ErrNoData = errors.New("fieldmap: no data rows")

	// ErrColumns indicates a row without 2 or 3 numeric columns.
	ErrColumns = errors.New("fieldmap: expected columns z, Ez [, Bz]")
)

// Map is a tabulated on-axis field, sorted by z.
type Map struct {
	Z  []float64
	Ez []float64
	Bz []float64
}

func (m *Map) Len() int { return len(m.Z) }

func (m *Map) Less(i, j int) bool { return m.Z[i] < m.Z[j] }

func (m *Map) Swap(i, j int) {
	m.Z[i], m.Z[j] = m.Z[j], m.Z[i]
	m.Ez[i], m.Ez[j] = m.Ez[j], m.Ez[i]
	m.Bz[i], m.Bz[j] = m.Bz[j], m.Bz[i]
}

// Range returns the first and last tabulated z.
func (m *Map) Range() (float64, float64) {
	return m.Z[0], m.Z[len(m.Z)-1]
}

func splitRow(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
}

// Load parses a field map table.
func Load(r io.Reader) (*Map, error) {
	m := &Map{}
	sc := bufio.NewScanner(r)

	lineNo := 0
	headerSeen := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := splitRow(line)
		vals := make([]float64, 0, 3)
		var parseErr error
		for _, col := range cols {
			v, err := strconv.ParseFloat(col, 64)
			if err != nil {
				parseErr = err
				break
			}
			vals = append(vals, v)
		}

		if parseErr != nil {
			if m.Len() == 0 && !headerSeen {
				headerSeen = true
				continue
			}
			return nil, fmt.Errorf("fieldmap: line %d: %w", lineNo, parseErr)
		}
		if len(vals) < 2 || len(vals) > 3 {
			return nil, fmt.Errorf("%w: line %d has %d", ErrColumns, lineNo, len(vals))
		}

		m.Z = append(m.Z, vals[0])
		m.Ez = append(m.Ez, vals[1])
		bz := 0.0
		if len(vals) == 3 {
			bz = vals[2]
		}
		m.Bz = append(m.Bz, bz)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m.Len() == 0 {
		return nil, ErrNoData
	}

	if !sort.IsSorted(m) {
		sort.Stable(m)
	}
	return m, nil
}

// LoadFile opens and parses a field map.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Sample interpolates the map onto a uniform grid and scales each component.
// The map needs at least two rows with strictly increasing z.
func (m *Map) Sample(z []float64, dz, ezScale, bzScale float64) (beam.Field, error) {
	ez, err := NewLinear(m.Z, m.Ez)
	if err != nil {
		return beam.Field{}, fmt.Errorf("ez: %w", err)
	}
	bz, err := NewLinear(m.Z, m.Bz)
	if err != nil {
		return beam.Field{}, fmt.Errorf("bz: %w", err)
	}

	f := beam.Field{
		Ez: make([]float64, len(z)),
		Bz: make([]float64, len(z)),
		Dz: dz,
	}
	if len(z) > 0 {
		f.Z0 = z[0]
	}
	for i, zi := range z {
		f.Ez[i] = ezScale * ez.At(zi)
		f.Bz[i] = bzScale * bz.At(zi)
	}
	return f, nil
}
