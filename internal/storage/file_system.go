package storage

import (
	"io"
	fspkg "io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type fs struct {
	workspace string
	baseurl   string
}

// NewFileSystem returns a new File System backend. Public URLs are built on
// baseurl and served by the webserver's download route.
func NewFileSystem(workspace, baseurl string) Backend {
	return &fs{
		workspace: workspace,
		baseurl:   strings.TrimRight(baseurl, "/"),
	}
}

func (b *fs) Name() string {
	return "file_system"
}

func (b *fs) Writer(key, _ string) (io.WriteCloser, error) {
	b.mkdirAll(filepath.Dir(key))

	wc, err := os.Create(filepath.Join(b.workspace, key))
	if err != nil {
		return wc, errors.Wrap(err, "could not create file")
	}
	return wc, err
}

func (b *fs) Reader(key string) (io.ReadCloser, error) {
	rc, err := os.Open(filepath.Join(b.workspace, key))
	if err != nil {
		return rc, errors.Wrap(err, "could not open file")
	}
	return rc, err
}

func (b *fs) Remove(key string) error {
	err := os.RemoveAll(filepath.Join(b.workspace, key))
	if err != nil {
		return errors.Wrap(err, "could not delete file")
	}
	return nil
}

func (b *fs) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.workspace, prefix))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not list keys")
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		keys = append(keys, path.Join(prefix, entry.Name()))
	}

	return keys, nil
}

func (b *fs) URL(key string) string {
	return b.baseurl + "/files/" + key
}

func (b *fs) Ping() error {
	b.mkdirAll("")

	_, err := os.Stat(b.workspace)
	return errors.Wrap(err, "could not stat workspace")
}

func (b *fs) Cleanup() error {
	// Find empty directories.
	//
	stats := map[string]int{}
	err := filepath.Walk(b.workspace, func(path string, info fspkg.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == b.workspace {
				return nil
			}
			stats[path] = 0
			return nil
		}

		trimmedpath := strings.Replace(path, b.workspace, "", 1)
		base := b.workspace

		for _, segment := range strings.Split(filepath.Dir(trimmedpath), string(os.PathSeparator)) {
			base = filepath.Join(base, segment)
			if !strings.HasPrefix(base, b.workspace) {
				continue
			}
			stats[base]++
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "cleanup")
	}

	// Remove empty directories.
	//
	for dirname, count := range stats {
		if count == 0 {
			os.RemoveAll(dirname)
		}
	}
	return nil
}

func (b *fs) exist(key string) bool {
	_, err := os.Stat(filepath.Join(b.workspace, key))
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	return true // ignoring error
}

func (b *fs) mkdirAll(key string) {
	if !b.exist(key) {
		os.MkdirAll(filepath.Join(b.workspace, key), 0755)
	}
}
