package webserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/validator"
	"github.com/Lucid-Synth/fileflow/internal/webserver"
	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type world struct {
	url     string
	client  *http.Client
	db      database.Client
	backend storage.Backend
}

func setup(t *testing.T) *world {
	return setupWith(t, func(b storage.Backend) storage.Backend { return b })
}

func setupWith(t *testing.T, wrap func(storage.Backend) storage.Backend) *world {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	//

	workspace, err := os.MkdirTemp(os.TempDir(), "fileflow.")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(workspace) })

	db, err := database.StormOpen(filepath.Join(workspace, "fileflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	//

	ctrl := webserver.Controller{
		Version:  "test",
		Logger:   logger.WrapLogrus(log),
		Database: db,
		// Small limits keep the over-limit cases cheap.
		Validator: validator.Validator{MaxFileSize: 1024, MaxBatchFiles: 5},
	}

	server := httptest.NewUnstartedServer(nil)
	ctrl.PublicURL = "http://" + server.Listener.Addr().String()
	ctrl.Storage = wrap(storage.NewFileSystem(filepath.Join(workspace, "storage"), ctrl.PublicURL))

	server.Config.Handler = webserver.EchoEngine(ctrl)
	server.Config.ReadTimeout = 20 * time.Second
	server.Config.WriteTimeout = 20 * time.Second
	server.Start()
	t.Cleanup(server.Close)

	return &world{
		url: server.URL,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		db:      db,
		backend: ctrl.Storage,
	}
}

//
// Request helpers
//

func (w *world) upload(t *testing.T, route, field string, files map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for filename, content := range files {
		fw, err := form.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	res, err := w.client.Post(w.url+route, form.FormDataContentType(), &body)
	require.NoError(t, err)
	return w.payload(t, res)
}

func (w *world) get(t *testing.T, route string) (int, map[string]interface{}) {
	t.Helper()

	res, err := w.client.Get(w.url + route)
	require.NoError(t, err)
	return w.payload(t, res)
}

func (w *world) delete(t *testing.T, route string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, w.url+route, nil)
	require.NoError(t, err)
	res, err := w.client.Do(req)
	require.NoError(t, err)
	return w.payload(t, res)
}

func (w *world) payload(t *testing.T, res *http.Response) (int, map[string]interface{}) {
	t.Helper()
	defer res.Body.Close()

	payload := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return res.StatusCode, payload
}

//
// Failure injection
//

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
