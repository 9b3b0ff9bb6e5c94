package repository

import "errors"

var (
	// ErrCatalogNotFound is returned when the catalog has no such show, season or episode.
	ErrCatalogNotFound = errors.New("catalog entity not found")

	// ErrUserNotFound is returned when a user profile cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrObjectNotFound is returned when an object does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured storage bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
