package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/google/uuid"
)

// AllowedExtensions lists the file types accepted for document uploads.
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx", ".xls", ".xlsx"}

// FileStore persists uploaded files and returns the public locator.
type FileStore interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Remove(ctx context.Context, url string) error
}

// LocalStorage keeps uploads in a directory served under PublicPath.
type LocalStorage struct {
	Dir        string
	PublicPath string
	MaxBytes   int64
}

func NewLocalStorage(dir, publicPath string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStorage{
		Dir:        dir,
		PublicPath: "/" + strings.Trim(publicPath, "/"),
		MaxBytes:   maxBytes,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtension(ext) {
		return "", errors.NewValidationFieldError("archivo",
			fmt.Sprintf("file type %q is not allowed, use one of: %s", ext, strings.Join(AllowedExtensions, ", ")),
			errors.ErrCodeInvalidUpload)
	}
	if upload.Size > s.MaxBytes {
		return "", s.tooLarge()
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// the declared size can lie; never write more than the limit
	n, err := io.Copy(dst, io.LimitReader(upload.Content, s.MaxBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if n > s.MaxBytes {
		os.Remove(dst.Name())
		return "", s.tooLarge()
	}

	return path.Join(s.PublicPath, name), nil
}

// Remove deletes a file previously returned by Save. Locators outside
// PublicPath are external links and are left alone.
func (s *LocalStorage) Remove(ctx context.Context, url string) error {
	prefix := s.PublicPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

func (s *LocalStorage) tooLarge() error {
	return errors.NewValidationFieldError("archivo",
		fmt.Sprintf("file exceeds the %d MB limit", s.MaxBytes>>20), errors.ErrCodeInvalidUpload)
}

func allowedExtension(ext string) bool {
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
