// Package direction generates the random Gaussian direction vectors a loss
// landscape is sampled along. Each vector is drawn from a standard normal
// distribution, standardised, normalised to unit length, and scaled to the
// norm of the model it perturbs.
package direction

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian returns vectorCount direction vectors of paramCount samples
// each, one per row. Every row is drawn from N(0, 1) and then standardised
// (mean subtracted, divided by the population standard deviation when it
// is non-zero).
func Gaussian(paramCount, vectorCount int, seed uint64) (*mat.Dense, error) {
	if paramCount <= 0 || vectorCount <= 0 {
		return nil, fmt.Errorf("need positive dimensions, got %dx%d", vectorCount, paramCount)
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed)}

	vectors := mat.NewDense(vectorCount, paramCount, nil)
	row := make([]float64, paramCount)
	for i := 0; i < vectorCount; i++ {
		for j := range row {
			row[j] = normal.Rand()
		}

		mean := stat.Mean(row, nil)
		std := stat.PopStdDev(row, nil)
		for j := range row {
			row[j] -= mean
			if std != 0 {
				row[j] /= std
			}
		}
		vectors.SetRow(i, row)
	}
	return vectors, nil
}

// RowNorms returns the Euclidean norm of each row.
func RowNorms(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}
	return norms
}

// NormalizeRows scales each row to unit Euclidean norm in place. Rows with
// zero norm are left untouched.
func NormalizeRows(m *mat.Dense) {
	rows, cols := m.Dims()
	norms := RowNorms(m)
	for i := 0; i < rows; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			m.Set(i, j, m.At(i, j)/norms[i])
		}
	}
}

// ScaleRows multiplies every entry by scale in place. Used to match the
// direction vectors to the Frobenius norm of the model being perturbed.
func ScaleRows(m *mat.Dense, scale float64) {
	m.Scale(scale, m)
}

// InterpGrid linearly interpolates from v to its negation in steps rows.
// Row 0 equals v, row steps-1 equals -v. The result has steps rows and
// len(v) columns.
func InterpGrid(v []float64, steps int) (*mat.Dense, error) {
	if steps < 2 {
		return nil, fmt.Errorf("interpolation needs at least 2 steps, got %d", steps)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("interpolation needs a non-empty vector")
	}

	grid := mat.NewDense(steps, len(v), nil)
	for k := 0; k < steps; k++ {
		t := float64(k) / float64(steps-1)
		for j, val := range v {
			grid.Set(k, j, val*(1-2*t))
		}
	}
	return grid, nil
}
