// Package lossmat loads and transforms loss matrices sampled over a 2D
// direction grid. A matrix is read from a plain text table, zero entries
// are substituted with half the smallest non-zero magnitude, and the
// result is log-transformed before rendering.
package lossmat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/landscape.report/internal/fsutil"
	"github.com/banshee-data/landscape.report/internal/monitoring"
)

// Matrix wraps a dense loss matrix loaded from a delimited text table.
type Matrix struct {
	data *mat.Dense
}

// New wraps row-major values in a Matrix. Rows must be rectangular.
func New(rows, cols int, values []float64) *Matrix {
	return &Matrix{data: mat.NewDense(rows, cols, values)}
}

// Load reads a numeric table from path and parses it into a Matrix.
// A missing or unreadable file surfaces the underlying filesystem error;
// malformed content surfaces a *ParseError.
func Load(fsys fsutil.FileSystem, path string) (*Matrix, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read loss matrix %s: %w", path, err)
	}
	m, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse loss matrix %s: %w", path, err)
	}
	return m, nil
}

// Parse converts a text table into a Matrix. Values are separated by
// whitespace or commas, one row per line. Blank lines are skipped.
func Parse(content string) (*Matrix, error) {
	var (
		values []float64
		rows   int
		cols   int
	)

	for i, line := range strings.Split(content, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}

		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, &ParseError{
				Line: i + 1,
				Err:  fmt.Errorf("row has %d values, expected %d", len(fields), cols),
			}
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Token: field, Err: err}
			}
			values = append(values, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("table contains no rows")}
	}

	return &Matrix{data: mat.NewDense(rows, cols, values)}, nil
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (rows, cols int) {
	return m.data.Dims()
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Dense exposes the underlying gonum matrix.
func (m *Matrix) Dense() *mat.Dense {
	return m.data
}

// HalfRows returns the midpoint row index of the matrix. The value is not
// consumed by the rendering pipeline; it is retained as a derived quantity
// for callers that split the grid into halves.
func (m *Matrix) HalfRows() int {
	rows, _ := m.data.Dims()
	return rows / 2
}

// MinAbsNonZero returns the smallest absolute value among non-zero entries.
// Returns ErrAllZeros if every entry is exactly zero.
func (m *Matrix) MinAbsNonZero() (float64, error) {
	min := math.Inf(1)
	rows, cols := m.data.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := math.Abs(m.data.At(i, j))
			if v != 0 && v < min {
				min = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 0, ErrAllZeros
	}
	return min, nil
}

// SubstituteZeros replaces every exact-zero entry with half the smallest
// non-zero magnitude, making a subsequent logarithm well-defined. It
// returns the substitute value used. Returns ErrAllZeros when the matrix
// has no non-zero entry to derive a substitute from.
func (m *Matrix) SubstituteZeros() (float64, error) {
	min, err := m.MinAbsNonZero()
	if err != nil {
		return 0, err
	}

	sub := min / 2
	rows, cols := m.data.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.data.At(i, j) == 0 {
				m.data.Set(i, j, sub)
			}
		}
	}
	return sub, nil
}

// LogTransform replaces every entry with its natural logarithm in place.
// Negative entries produce NaN and are counted rather than rejected; the
// count of non-finite results is returned and logged as a warning.
func (m *Matrix) LogTransform() int {
	nonFinite := 0
	rows, cols := m.data.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := math.Log(m.data.At(i, j))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				nonFinite++
			}
			m.data.Set(i, j, v)
		}
	}
	if nonFinite > 0 {
		monitoring.Logf("log transform produced %d non-finite values", nonFinite)
	}
	return nonFinite
}

// FrobeniusNorm returns the Frobenius norm of the matrix.
func (m *Matrix) FrobeniusNorm() float64 {
	return mat.Norm(m.data, 2)
}
