// Package lossgrid builds the symmetric coordinate grid a loss surface is
// rendered over. The grid spans [-1, 1] along both axes with one sample
// per matrix row.
package lossgrid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Span is the half-width of the coordinate grid along each axis.
const Span = 1.0

// Linspace returns n evenly spaced values from -Span to Span inclusive.
func Linspace(n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("grid needs at least 2 samples, got %d", n)
	}
	return floats.Span(make([]float64, n), -Span, Span), nil
}

// Grid holds the paired coordinate matrices for a surface plot. XX varies
// along columns and YY along rows, so cell (i, j) of a loss matrix sits at
// (XX.At(i, j), YY.At(i, j)).
type Grid struct {
	XX *mat.Dense
	YY *mat.Dense
}

// Meshgrid expands x and y coordinate vectors into a Grid.
func Meshgrid(x, y []float64) *Grid {
	rows, cols := len(y), len(x)
	xx := mat.NewDense(rows, cols, nil)
	yy := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xx.Set(i, j, x[j])
			yy.Set(i, j, y[i])
		}
	}
	return &Grid{XX: xx, YY: yy}
}

// Square builds an n-by-n grid spanning [-Span, Span] in both axes.
func Square(n int) (*Grid, error) {
	values, err := Linspace(n)
	if err != nil {
		return nil, err
	}
	return Meshgrid(values, values), nil
}
