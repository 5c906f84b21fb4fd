package database

import "errors"

var (
	// ErrSlugExists is returned when an attempt is made to store a link
	// with a slug that already exists.
	ErrSlugExists = errors.New("slug exists")
	// ErrLinkNotFound is returned when an attempt is made to retrieve
	// a link using a slug that doesn't exist.
	ErrLinkNotFound = errors.New("link not found")
)
