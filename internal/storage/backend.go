package storage

import "io"

// Backend is the interface that wraps the blob operations of an object store.
type Backend interface {
	// Name returns the name of the backend implementation.
	Name() string

	// Writer returns a WriteCloser storing the blob under the given key.
	// The write is only durable once Close returned without error.
	Writer(key, contentType string) (io.WriteCloser, error)
	// Reader returns a ReadCloser of the blob.
	Reader(key string) (io.ReadCloser, error)

	// Remove deletes the blob. Removing an absent key is not an error.
	Remove(key string) error

	// Keys lists the stored keys under the given prefix.
	Keys(prefix string) ([]string, error)

	// URL returns the public URL resolving to the blob.
	URL(key string) string

	// Ping reports whether the backend is reachable.
	Ping() error

	// Cleanup cleans useless artifacts in storage.
	Cleanup() error
}
