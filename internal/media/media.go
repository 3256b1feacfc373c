// Package media defines the storage contract for uploaded registration media.
// Implementations persist a photo or video durably and return a retrievable URL.
package media

import (
	"context"
	"io"
)

// Kind distinguishes the two media slots on a registration.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// File is an in-flight upload handed to a Store. Content is consumed once.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Store durably persists uploaded media.
//
// Error Contract:
// - Save returns the final URL on success
// - Failures are wrapped errors; the service layer translates them into
//   upload-failure domain errors
type Store interface {
	Save(ctx context.Context, kind Kind, file *File) (string, error)
}
