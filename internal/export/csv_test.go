package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/landscape.report/internal/fsutil"
	"github.com/banshee-data/landscape.report/internal/lossmat"
)

func TestWriteMatrix(t *testing.T) {
	t.Parallel()

	m := mat.NewDense(2, 3, []float64{0.5, 1, 2, -0.25, 3, 4})

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))
	assert.Equal(t, "0.5,1,2\n-0.25,3,4\n", buf.String())
}

func TestSaveMatrix_RoundTrip(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, SaveMatrix(mfs, "out/loss.csv", m))

	// The exported table parses back through the loader.
	got, err := lossmat.Load(mfs, "out/loss.csv")
	require.NoError(t, err)
	rows, cols := got.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 4.0, got.At(1, 1))
}
