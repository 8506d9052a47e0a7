package uploads

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoresFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	s := NewImageStore(filepath.Join(dir, "uploads"), "https://shop.example/")

	url, err := s.Upload(context.Background(), "Photo.PNG", 4, strings.NewReader("data"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://shop.example/public/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "https://shop.example/public/uploads/")
	content, err := os.ReadFile(filepath.Join(dir, "uploads", name))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, s.Delete(url))
	_, err = os.Stat(filepath.Join(dir, "uploads", name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(url))
}

func TestUploadRejectsBadFiles(t *testing.T) {
	s := NewImageStore(t.TempDir(), "")
	ctx := context.Background()

	_, err := s.Upload(ctx, "noext", 1, strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrMissingExtension))

	_, err = s.Upload(ctx, "evil.exe", 1, strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.True(t, IsClientError(err))

	_, err = s.Upload(ctx, "big.jpg", MaxImageSize+1, strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrTooLarge))

	_, err = s.Upload(ctx, "sneaky.jpg", 10, bytes.NewReader(make([]byte, MaxImageSize+10)))
	assert.True(t, errors.Is(err, ErrTooLarge))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRelativeURL(t *testing.T) {
	s := NewImageStore(t.TempDir(), "")
	url, err := s.Upload(context.Background(), "a.webp", 1, strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, PublicPrefix))
}

func TestDeleteRefusesOutsidePaths(t *testing.T) {
	dir := t.TempDir()
	s := NewImageStore(filepath.Join(dir, "uploads"), "")

	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o600))

	assert.Error(t, s.Delete("/public/uploads/../secret.txt"))
	assert.Error(t, s.Delete("/etc/passwd"))
	assert.Error(t, s.Delete("/public/uploads/"))
	assert.NoError(t, s.Delete(""))

	_, err := os.Stat(secret)
	assert.NoError(t, err)
}
