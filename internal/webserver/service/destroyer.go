package service

import (
	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/pkg/errors"
)

// A Destroyer removes a share and its blob together.
type Destroyer struct {
	database database.Client
	storage  storage.Backend
	share    *model.Share
}

// NewDestroyer returns a new Destroyer.
func NewDestroyer(database database.Client, storage storage.Backend, share *model.Share) *Destroyer {
	return &Destroyer{
		database: database,
		storage:  storage,
		share:    share,
	}
}

// Destroy removes the blob then the record. The record stays authoritative
// until it is deleted, so a crash in between leaves a dangling record that
// still resolves to NotFound on download, never an unreachable blob.
// Blob removal is idempotent; under concurrent destroys only the first record
// delete succeeds, the loser observes a not found error.
func (s *Destroyer) Destroy() error {
	err := s.storage.Remove(s.share.StorageKey)
	if err != nil {
		return errors.Wrap(err, "destroyer storage")
	}

	err = s.database.DeleteShare(s.share.ID)
	return errors.Wrap(err, "destroyer share")
}
