package database

import (
	"time"

	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(json.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.Share{}); err != nil {
		return errors.Wrap(err, "could not init share index")
	}

	err = db.Init(&model.Orphan{})
	return errors.Wrap(err, "could not init orphan index")
}

// StormReIndex rebuilds the indexes of the Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.ReIndex(&model.Share{}); err != nil {
		return errors.Wrap(err, "could not ReIndex shares")
	}

	err = db.ReIndex(&model.Orphan{})
	return errors.Wrap(err, "could not ReIndex orphans")
}

// StormOpen opens the Storm database and returns a Client.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

func (c *strm) Close() error {
	return c.db.Close()
}

func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

//
// Share
//

func (c *strm) AllShares() ([]*model.Share, error) {
	shares := make([]*model.Share, 0)
	err := c.db.All(&shares)
	return shares, errors.Wrap(err, "could not get all shares")
}

func (c *strm) FindShareByToken(token string) (*model.Share, error) {
	var share model.Share
	err := c.db.One("Token", token, &share)
	return &share, errors.Wrap(err, "could not find share")
}

func (c *strm) FindShareByStorageKey(key string) (*model.Share, error) {
	var share model.Share
	err := c.db.One("StorageKey", key, &share)
	return &share, errors.Wrap(err, "could not find share")
}

func (c *strm) DeleteShare(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Share{})
	return errors.Wrap(err, "could not delete share")
}

//
// Orphan
//

func (c *strm) AllOrphans() ([]*model.Orphan, error) {
	orphans := make([]*model.Orphan, 0)
	err := c.db.All(&orphans)
	return orphans, errors.Wrap(err, "could not get all orphans")
}

func (c *strm) DeleteOrphan(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Orphan{})
	return errors.Wrap(err, "could not delete orphan")
}
