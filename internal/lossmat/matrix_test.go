package lossmat

import (
	"errors"
	"io/fs"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/landscape.report/internal/fsutil"
	"github.com/banshee-data/landscape.report/internal/monitoring"
)

func rowsOf(m *Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("whitespace separated", func(t *testing.T) {
		t.Parallel()
		m, err := Parse("1 2\n3 4\n")
		require.NoError(t, err)

		want := [][]float64{{1, 2}, {3, 4}}
		if diff := cmp.Diff(want, rowsOf(m)); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("comma separated", func(t *testing.T) {
		t.Parallel()
		m, err := Parse("0.5,1.5\n2.5,3.5")
		require.NoError(t, err)

		want := [][]float64{{0.5, 1.5}, {2.5, 3.5}}
		if diff := cmp.Diff(want, rowsOf(m)); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()
		m, err := Parse("\n1 2\n\n3 4\n\n")
		require.NoError(t, err)
		rows, cols := m.Dims()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 2, cols)
	})

	t.Run("non-numeric token", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("1 2\n3 oops\n")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, "oops", pe.Token)
	})

	t.Run("ragged rows", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("1 2 3\n4 5\n")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Line)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("\n\n")
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads table from filesystem", func(t *testing.T) {
		t.Parallel()
		mfs := fsutil.NewMemoryFileSystem()
		require.NoError(t, mfs.WriteFile("loss.txt", []byte("2 2\n2 2\n"), 0644))

		m, err := Load(mfs, "loss.txt")
		require.NoError(t, err)
		rows, cols := m.Dims()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 2, cols)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		mfs := fsutil.NewMemoryFileSystem()
		_, err := Load(mfs, "missing.txt")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestMinAbsNonZero(t *testing.T) {
	t.Parallel()

	t.Run("picks smallest magnitude", func(t *testing.T) {
		t.Parallel()
		m := New(2, 2, []float64{0, -0.25, 1, 4})
		min, err := m.MinAbsNonZero()
		require.NoError(t, err)
		assert.Equal(t, 0.25, min)
	})

	t.Run("all zeros", func(t *testing.T) {
		t.Parallel()
		m := New(2, 2, []float64{0, 0, 0, 0})
		_, err := m.MinAbsNonZero()
		assert.ErrorIs(t, err, ErrAllZeros)
	})
}

func TestSubstituteZeros(t *testing.T) {
	t.Parallel()

	t.Run("replaces zeros with half min", func(t *testing.T) {
		t.Parallel()
		m := New(2, 2, []float64{0, 1, 1, 0})
		sub, err := m.SubstituteZeros()
		require.NoError(t, err)
		assert.Equal(t, 0.5, sub)

		want := [][]float64{{0.5, 1}, {1, 0.5}}
		if diff := cmp.Diff(want, rowsOf(m)); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s", diff)
		}

		// No exact zero survives substitution.
		rows, cols := m.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				assert.NotZero(t, m.At(i, j))
			}
		}
	})

	t.Run("no-op without zeros", func(t *testing.T) {
		t.Parallel()
		m := New(2, 2, []float64{2, 2, 2, 2})
		sub, err := m.SubstituteZeros()
		require.NoError(t, err)
		assert.Equal(t, 1.0, sub)

		want := [][]float64{{2, 2}, {2, 2}}
		if diff := cmp.Diff(want, rowsOf(m)); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("all-zero matrix fails", func(t *testing.T) {
		t.Parallel()
		m := New(3, 3, make([]float64, 9))
		_, err := m.SubstituteZeros()
		assert.ErrorIs(t, err, ErrAllZeros)
	})
}

func TestLogTransform(t *testing.T) {
	t.Run("flat matrix", func(t *testing.T) {
		m := New(2, 2, []float64{2, 2, 2, 2})
		nonFinite := m.LogTransform()
		assert.Zero(t, nonFinite)

		rows, cols := m.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				assert.InDelta(t, math.Log(2), m.At(i, j), 1e-12)
			}
		}
	})

	t.Run("substituted checkerboard", func(t *testing.T) {
		m := New(2, 2, []float64{0, 1, 1, 0})
		_, err := m.SubstituteZeros()
		require.NoError(t, err)

		nonFinite := m.LogTransform()
		assert.Zero(t, nonFinite)
		assert.InDelta(t, -0.693, m.At(0, 0), 1e-3)
		assert.InDelta(t, 0, m.At(0, 1), 1e-12)
		assert.InDelta(t, 0, m.At(1, 0), 1e-12)
		assert.InDelta(t, -0.693, m.At(1, 1), 1e-3)
	})

	t.Run("negative values warn instead of fail", func(t *testing.T) {
		orig := monitoring.Logf
		defer monitoring.SetLogger(orig)

		var warned bool
		monitoring.SetLogger(func(string, ...interface{}) { warned = true })

		m := New(1, 2, []float64{-1, 1})
		nonFinite := m.LogTransform()
		assert.Equal(t, 1, nonFinite)
		assert.True(t, math.IsNaN(m.At(0, 0)))
		assert.True(t, warned)
	})
}

func TestHalfRows(t *testing.T) {
	t.Parallel()

	m := New(5, 5, make25())
	assert.Equal(t, 2, m.HalfRows())

	m = New(4, 4, []float64{
		1, 1, 1, 1,
		1, 1, 1, 1,
		1, 1, 1, 1,
		1, 1, 1, 1,
	})
	assert.Equal(t, 2, m.HalfRows())
}

func make25() []float64 {
	v := make([]float64, 25)
	for i := range v {
		v[i] = 1
	}
	return v
}

func TestFrobeniusNorm(t *testing.T) {
	t.Parallel()

	m := New(2, 2, []float64{3, 4, 0, 0})
	assert.InDelta(t, 5.0, m.FrobeniusNorm(), 1e-12)
}
