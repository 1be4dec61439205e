package storage_test

import (
	"io"
	"os"
	"testing"

	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) storage.Backend {
	t.Helper()

	workspace, err := os.MkdirTemp(os.TempDir(), "fileflow.storage.")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(workspace) })

	return storage.NewFileSystem(workspace, "http://localhost:5000")
}

func TestFileSystemRoundTrip(t *testing.T) {
	backend := setup(t)

	wc, err := backend.Writer("uploads/cafe42_report.pdf", "application/pdf")
	require.NoError(t, err)
	_, err = wc.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := backend.Reader("uploads/cafe42_report.pdf")
	require.NoError(t, err)
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(payload))
}

func TestFileSystemRemoveIsIdempotent(t *testing.T) {
	backend := setup(t)

	wc, err := backend.Writer("uploads/cafe42_a.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	assert.NoError(t, backend.Remove("uploads/cafe42_a.txt"))
	assert.NoError(t, backend.Remove("uploads/cafe42_a.txt"))
	assert.NoError(t, backend.Remove("uploads/never-stored"))
}

func TestFileSystemKeys(t *testing.T) {
	backend := setup(t)

	keys, err := backend.Keys("uploads")
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, key := range []string{"uploads/cafe42_a.txt", "uploads/beef00_b.txt"} {
		wc, err := backend.Writer(key, "text/plain")
		require.NoError(t, err)
		require.NoError(t, wc.Close())
	}

	keys, err = backend.Keys("uploads")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uploads/cafe42_a.txt", "uploads/beef00_b.txt"}, keys)
}

func TestFileSystemURL(t *testing.T) {
	backend := setup(t)

	assert.Equal(t,
		"http://localhost:5000/files/uploads/cafe42_a.txt",
		backend.URL("uploads/cafe42_a.txt"),
	)
}

func TestFileSystemPing(t *testing.T) {
	backend := setup(t)
	assert.NoError(t, backend.Ping())
}
