package surface

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/landscape.report/internal/lossgrid"
)

// Axis labels for the rendered landscape. The X and Y axes span the two
// random Gaussian directions the loss was sampled along; the Z axis holds
// the log-transformed loss.
const (
	XAxisLabel = "Random Gaussian Vector"
	YAxisLabel = "Random Gaussian Vector"
	ZAxisLabel = "Logarithmic Loss"
)

// Figure is an explicit rendering target for one loss landscape. It holds
// the coordinate grid and log-loss heights so backends can draw it and
// tests can assert on the data without a display.
type Figure struct {
	// Grid pairs each matrix cell with an (x, y) coordinate in [-1, 1].
	Grid *lossgrid.Grid

	// Z holds the log-transformed loss values, same shape as the grid.
	Z *mat.Dense

	// MinNonZero is the smallest non-zero magnitude found before
	// zero-substitution; zeros were replaced with half this value.
	MinNonZero float64

	// NonFinite counts log results that came out NaN or infinite.
	NonFinite int

	// MidRow is the midpoint row index of the source matrix. It is not
	// consumed by any rendering backend.
	MidRow int

	// SourcePath is the file the loss matrix was loaded from.
	SourcePath string
}

// Dims returns the row and column counts of the figure's height data.
func (f *Figure) Dims() (rows, cols int) {
	return f.Z.Dims()
}

// ZRange returns the minimum and maximum finite height values. When every
// value is non-finite both returns are zero.
func (f *Figure) ZRange() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	rows, cols := f.Z.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := f.Z.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if min > max {
		return 0, 0
	}
	return min, max
}
