package storage

import (
	"alcyxob/fitcoach/internal/config"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMediaKey(t *testing.T) {
	key := SessionMediaKey("client-1", "session-9", "Squat Form.MP4")

	assert.True(t, strings.HasPrefix(key, "sessions/client-1/session-9/"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)
	assert.NotEqual(t, key, SessionMediaKey("client-1", "session-9", "Squat Form.MP4"))
}

func TestSessionMediaKey_StripsDirectories(t *testing.T) {
	key := SessionMediaKey("c", "s", "../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "sessions/c/s/"), key)
	assert.NotContains(t, key, "..")
}

func TestDisabledStorage(t *testing.T) {
	s := Disabled()
	_, err := s.GeneratePresignedUploadURL(context.Background(), "k", "video/mp4", 0)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = s.GeneratePresignedDownloadURL(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, s.DeleteObject(context.Background(), "k"), ErrDisabled)
	assert.Equal(t, DefaultPresignedURLExpiry, s.URLExpiry())
}

func TestS3Storage_PresignsWithoutNetwork(t *testing.T) {
	s, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "fitcoach",
	})
	require.NoError(t, err)

	url, err := s.GeneratePresignedUploadURL(context.Background(), "sessions/c/s/x.mp4", "video/mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/fitcoach/sessions/c/s/x.mp4")
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = s.GeneratePresignedDownloadURL(context.Background(), "sessions/c/s/x.mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Equal(t, DefaultPresignedURLExpiry, s.URLExpiry())
}

func TestS3Storage_ConfiguredExpiry(t *testing.T) {
	s, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "fitcoach",
		URLExpiry:       5 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.URLExpiry())

	url, err := s.GeneratePresignedDownloadURL(context.Background(), "sessions/c/s/x.mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=300")
}
