package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

const (
	photosDir = "photos"
	// MaxPhotoSize is the largest avatar accepted at registration.
	MaxPhotoSize = 2 << 20
)

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalPhotoStore keeps avatars on the local filesystem under root/photos.
type LocalPhotoStore struct {
	root string
}

func NewLocalPhotoStore(root string) *LocalPhotoStore {
	return &LocalPhotoStore{root: root}
}

// Save writes the upload under a random name and returns "photos/<name>".
func (s *LocalPhotoStore) Save(_ context.Context, upload ports.PhotoUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(upload.ContentType, ";", 2)[0]))
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", domain.NewValidationError("photo must be an image")
	}
	if upload.Size > MaxPhotoSize {
		return "", domain.NewValidationError("photo must not be larger than %d kilobytes", MaxPhotoSize>>10)
	}

	dir := filepath.Join(s.root, photosDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	name := uuid.NewString() + ext
	full := filepath.Join(dir, name)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	// Size can be absent or wrong, so cap what is actually read.
	n, copyErr := io.Copy(f, io.LimitReader(upload.Content, MaxPhotoSize+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("save photo: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("save photo: %w", closeErr)
	case n > MaxPhotoSize:
		_ = os.Remove(full)
		return "", domain.NewValidationError("photo must not be larger than %d kilobytes", MaxPhotoSize>>10)
	}

	return photosDir + "/" + name, nil
}

// Remove deletes a previously saved photo. Missing files are ignored.
func (s *LocalPhotoStore) Remove(_ context.Context, path string) error {
	clean := filepath.Clean("/" + path)
	if !strings.HasPrefix(clean, "/"+photosDir+"/") {
		return fmt.Errorf("remove photo: path %q outside photo directory", path)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
