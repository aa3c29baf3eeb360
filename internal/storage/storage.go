package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrDisabled is returned by the storage used when no bucket is configured.
var ErrDisabled = errors.New("object storage is not configured")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error

	// URLExpiry is the lifetime callers should request for presigned URLs.
	URLExpiry() time.Duration
}

// SessionMediaKey builds the object key for a file attached to a logged
// session: sessions/<client>/<session>/<uuid><ext>.
func SessionMediaKey(clientID, sessionID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	return path.Join("sessions", clientID, sessionID, uuid.NewString()+ext)
}

type disabledStorage struct{}

// Disabled returns a FileStorage whose every call fails with ErrDisabled.
func Disabled() FileStorage { return disabledStorage{} }

func (disabledStorage) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (disabledStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (disabledStorage) DeleteObject(context.Context, string) error { return ErrDisabled }

func (disabledStorage) URLExpiry() time.Duration { return DefaultPresignedURLExpiry }
