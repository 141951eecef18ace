package ports

import (
	"context"
	"io"
)

// PhotoUpload is an avatar file received at registration.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PhotoStore persists avatar files and returns a path relative to its root.
type PhotoStore interface {
	Save(ctx context.Context, upload PhotoUpload) (string, error)
	Remove(ctx context.Context, path string) error
}
