package service_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (database.Client, storage.Backend, logger.Logger) {
	t.Helper()

	workspace, err := os.MkdirTemp(os.TempDir(), "fileflow.service.")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(workspace) })

	db, err := database.StormOpen(filepath.Join(workspace, "fileflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	backend := storage.NewFileSystem(filepath.Join(workspace, "storage"), "http://localhost:5000")

	log := logrus.New()
	log.SetOutput(io.Discard)

	return db, backend, logger.WrapLogrus(log)
}

// multipartFiles crafts real multipart file headers the way a request would.
func multipartFiles(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for filename, content := range files {
		fw, err := w.CreateFormFile("files", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := multipart.NewReader(&body, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["files"]
}

//
// Failure injection
//

// brokenwriter is a backend whose writes fail for keys matching a fragment.
type brokenwriter struct {
	storage.Backend
	fragment string
}

func (b *brokenwriter) Writer(key, contentType string) (io.WriteCloser, error) {
	if strings.Contains(key, b.fragment) {
		return nil, errors.New("quota exceeded")
	}
	return b.Backend.Writer(key, contentType)
}

// brokenremove is a backend whose removes always fail.
type brokenremove struct {
	storage.Backend
}

func (b *brokenremove) Remove(key string) error {
	return errors.New("backend unavailable")
}

// brokenregistry is a database client that rejects share registrations.
type brokenregistry struct {
	database.Client
}

func (c *brokenregistry) Save(m model.Model) error {
	if _, ok := m.(*model.Share); ok {
		return errors.New("registry unavailable")
	}
	return c.Client.Save(m)
}
