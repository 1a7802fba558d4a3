// Package surface renders loss landscapes as 3D surface charts and
// heatmaps. The pipeline loads a numeric table, substitutes zeros so the
// logarithm is defined, builds a symmetric coordinate grid, and hands the
// result to a rendering backend as an explicit Figure.
package surface

import (
	"github.com/banshee-data/landscape.report/internal/fsutil"
	"github.com/banshee-data/landscape.report/internal/lossgrid"
	"github.com/banshee-data/landscape.report/internal/lossmat"
)

// Renderer turns a loss matrix file into a Figure. The filesystem is
// injectable so IO failure paths are testable.
type Renderer struct {
	fs fsutil.FileSystem
}

// NewRenderer creates a Renderer. A nil filesystem defaults to the OS.
func NewRenderer(fs fsutil.FileSystem) *Renderer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &Renderer{fs: fs}
}

// Render loads the numeric table at path and produces a Figure ready for
// drawing. It is a single pass: any error aborts the render with no
// partial figure.
//
// Error cases: a missing or unreadable file surfaces the filesystem error;
// a malformed table surfaces *lossmat.ParseError; a matrix with no
// non-zero entry surfaces lossmat.ErrAllZeros. A negative loss value does
// not fail the render; its logarithm is non-finite and only logged.
func (r *Renderer) Render(path string) (*Figure, error) {
	m, err := lossmat.Load(r.fs, path)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	midRow := m.HalfRows()

	ys, err := lossgrid.Linspace(rows)
	if err != nil {
		return nil, err
	}
	// Square input reuses the row coordinates for both axes. Rectangular
	// input keeps the grid shape aligned with the matrix.
	xs := ys
	if cols != rows {
		if xs, err = lossgrid.Linspace(cols); err != nil {
			return nil, err
		}
	}

	sub, err := m.SubstituteZeros()
	if err != nil {
		return nil, err
	}

	grid := lossgrid.Meshgrid(xs, ys)
	nonFinite := m.LogTransform()

	return &Figure{
		Grid:       grid,
		Z:          m.Dense(),
		MinNonZero: sub * 2,
		NonFinite:  nonFinite,
		MidRow:     midRow,
		SourcePath: path,
	}, nil
}
