package database

import (
	"github.com/Lucid-Synth/fileflow/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		ShareInteraction
		OrphanInteraction
	}

	// A ShareInteraction defines all the methods used to interact with a share record.
	ShareInteraction interface {
		AllShares() ([]*model.Share, error)
		FindShareByToken(token string) (*model.Share, error)
		FindShareByStorageKey(key string) (*model.Share, error)
		DeleteShare(id string) error
	}

	// An OrphanInteraction defines all the methods used to interact with an orphan record.
	OrphanInteraction interface {
		AllOrphans() ([]*model.Orphan, error)
		DeleteOrphan(id string) error
	}
)
