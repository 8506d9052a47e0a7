// Package uploads stores admin-uploaded images on local disk and hands back
// the public URL the catalog records.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxImageSize = 5 << 20
	PublicPrefix = "/public/uploads/"
)

var (
	ErrMissingExtension = errors.New("image file extension is required")
	ErrUnsupportedType  = errors.New("unsupported image type")
	ErrTooLarge         = errors.New("image file too large (max 5MB)")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// IsClientError reports whether err came from a bad upload rather than the
// disk.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingExtension) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrTooLarge)
}

type ImageStore struct {
	dir     string
	baseURL string
}

// NewImageStore writes files under dir. URLs are baseURL + PublicPrefix +
// file name; an empty baseURL yields root-relative URLs.
func NewImageStore(dir, baseURL string) *ImageStore {
	return &ImageStore{
		dir:     filepath.Clean(dir),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Upload copies r to a fresh randomly named file and returns its URL. size is
// the declared size; the copy is also cut off past MaxImageSize.
func (s *ImageStore) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return "", ErrMissingExtension
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, extension)
	}
	if size > MaxImageSize {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("[UPLOAD] [ERROR] create directory %s: %v", s.dir, err)
		return "", err
	}

	name := primitive.NewObjectID().Hex() + extension
	fullPath := filepath.Join(s.dir, name)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] create file %s: %v", fullPath, err)
		return "", err
	}

	written, err := io.Copy(out, io.LimitReader(r, MaxImageSize+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > MaxImageSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(fullPath)
		if !errors.Is(err, ErrTooLarge) {
			log.Printf("[UPLOAD] [ERROR] save file %s: %v", fullPath, err)
		}
		return "", err
	}

	log.Printf("[UPLOAD] [INFO] stored %s (%d bytes)", name, written)
	return s.baseURL + PublicPrefix + name, nil
}

// Delete removes the file behind a URL returned by Upload. URLs that do not
// point into the upload directory are refused; a missing file is not an
// error.
func (s *ImageStore) Delete(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}
	if s.baseURL != "" {
		trimmed = strings.TrimPrefix(trimmed, s.baseURL)
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	if !strings.HasPrefix(cleanRel, PublicPrefix) {
		return fmt.Errorf("refusing to delete non-upload path: %s", rawURL)
	}
	name := strings.TrimPrefix(cleanRel, PublicPrefix)
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", rawURL)
	}

	target := filepath.Join(s.dir, name)
	if filepath.Dir(target) != s.dir {
		return fmt.Errorf("refusing to delete path outside upload dir: %s", rawURL)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	log.Printf("[UPLOAD] [INFO] deleted %s", name)
	return nil
}

// Replace deletes the previous image when an entity moves to a new one. A
// failed delete is only logged.
func (s *ImageStore) Replace(previous, next string) {
	if previous == "" || previous == next {
		return
	}
	if err := s.Delete(previous); err != nil {
		log.Printf("[UPLOAD] [WARN] delete previous image %s: %v", previous, err)
	}
}
