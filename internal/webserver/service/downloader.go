package service

import (
	"io"

	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/storage"
)

// A Downloader streams a share's blob.
type Downloader struct {
	storage storage.Backend
	share   *model.Share
}

// NewDownloader returns a new Downloader.
func NewDownloader(storage storage.Backend, share *model.Share) *Downloader {
	return &Downloader{
		storage: storage,
		share:   share,
	}
}

// Stream returns a reader over the blob.
func (s *Downloader) Stream() (io.ReadCloser, error) {
	return s.storage.Reader(s.share.StorageKey)
}

// ContentType returns the blob's content type.
func (s *Downloader) ContentType() string {
	return s.share.ContentType
}

// Size returns the blob's byte size.
func (s *Downloader) Size() int64 {
	return s.share.Size
}

// Checksum returns the blob's MD5 checksum.
func (s *Downloader) Checksum() string {
	return s.share.Checksum
}
