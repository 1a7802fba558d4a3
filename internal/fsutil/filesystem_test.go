package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_ReadWrite(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	require.NoError(t, m.WriteFile("data/loss.txt", []byte("1 2\n3 4\n"), 0644))

	got, err := m.ReadFile("data/loss.txt")
	require.NoError(t, err)
	assert.Equal(t, "1 2\n3 4\n", string(got))
	assert.True(t, m.Exists("data/loss.txt"))
	assert.False(t, m.Exists("data/missing.txt"))
}

func TestMemoryFileSystem_MissingFile(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()

	_, err := m.ReadFile("nope.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Open("nope.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Stat("nope.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_OpenReadsContents(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	require.NoError(t, m.WriteFile("surface.html", []byte("<html></html>"), 0644))

	f, err := m.Open("surface.html")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(13), fi.Size())
}

func TestMemoryFileSystem_CreateCommitsOnClose(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	w, err := m.Create("plots/heatmap.png")
	require.NoError(t, err)

	_, err = w.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := m.ReadFile("plots/heatmap.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	t.Parallel()

	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("plots/run-01/out", 0755))

	assert.True(t, m.Exists("plots/run-01/out"))
	assert.True(t, m.Exists("plots/run-01"))
	assert.True(t, m.Exists("plots"))

	fi, err := m.Stat("plots/run-01")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestOSFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var osfs OSFileSystem

	path := dir + "/matrix.txt"
	require.NoError(t, osfs.WriteFile(path, []byte("0.5 1.0\n"), 0644))
	assert.True(t, osfs.Exists(path))

	got, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.5 1.0\n", string(got))
}
