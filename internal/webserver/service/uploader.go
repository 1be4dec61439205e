package service

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/token"
	"github.com/Lucid-Synth/fileflow/internal/xkey"
	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
)

// An Uploader stores a blob and registers its share.
// The blob and the share record are kept consistent: a failed store registers
// nothing, a failed registration triggers a compensating delete of the blob.
type Uploader struct {
	logger   logger.Logger
	database database.Client
	storage  storage.Backend
}

// NewUploader returns a new Uploader.
func NewUploader(l logger.Logger, database database.Client, storage storage.Backend) *Uploader {
	return &Uploader{
		logger:   l,
		database: database,
		storage:  storage,
	}
}

// Upload streams r to storage under a fresh token-scoped key and registers
// the share. It returns the registered share on success.
func (s *Uploader) Upload(filename, contentType string, r io.Reader) (*model.Share, error) {
	tok := token.New()
	key := xkey.Craft(tok, filename)

	wc, err := s.storage.Writer(key, contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: %s", filename)
	}

	h := md5.New()
	n, err := io.Copy(io.MultiWriter(h, wc), r)
	if err != nil {
		wc.Close()
		s.compensate(key, "write aborted")
		return nil, errors.Wrapf(err, "storage: %s", filename)
	}
	if err = wc.Close(); err != nil {
		s.compensate(key, "write not durable")
		return nil, errors.Wrapf(err, "storage: %s", filename)
	}

	share := &model.Share{
		Token:       tok,
		StorageKey:  key,
		Filename:    filename,
		Size:        n,
		ContentType: contentType,
		Checksum:    hex.EncodeToString(h.Sum(nil)),
	}
	if err = s.database.Save(share); err != nil {
		s.compensate(key, "registration failed")
		return nil, errors.Wrapf(err, "registry: %s", filename)
	}

	return share, nil
}

// compensate removes a stored blob whose share never came to exist. When the
// removal fails too, the blob is recorded as an orphan for the scheduler.
func (s *Uploader) compensate(key, reason string) {
	err := s.storage.Remove(key)
	if err == nil {
		return
	}

	log := s.logger.WithPrefix("[reconciliation]")
	log.Errorf("compensating delete of %s failed: %s", key, err)

	err = s.database.Save(&model.Orphan{StorageKey: key, Reason: reason})
	if err != nil {
		log.Errorf("could not record orphan %s: %s", key, err)
	}
}
