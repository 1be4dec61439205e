package model

import "time"

type (
	// A Model is a generic database entry.
	Model interface {
		GetID() string
		SetID(id string)
		SetCreatedAt(t time.Time)
		SetUpdatedAt(t time.Time)
	}

	// Base holds the attributes shared by all the models.
	Base struct {
		ID        string    `json:"id"         storm:"id"`
		CreatedAt time.Time `json:"created_at" storm:"index"`
		UpdatedAt time.Time `json:"updated_at" storm:"index"`
	}
)

// GetID returns the primary key of the model.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the primary key of the model.
func (m *Base) SetID(id string) {
	m.ID = id
}

// SetCreatedAt defines the creation time of the model.
func (m *Base) SetCreatedAt(t time.Time) {
	m.CreatedAt = t
}

// SetUpdatedAt defines the update time of the model.
func (m *Base) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = t
}
