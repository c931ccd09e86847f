package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file too large")
)

// allowedExtensions are the image types accepted for keyboard photos.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Store saves keyboard images under a single directory with generated
// names. Stored names are opaque; callers keep them on the keyboard
// record and hand them back for deletion.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates an image store rooted at dir. maxSizeMB bounds a
// single upload; the directory is created on demand.
func NewStore(dir string, maxSizeMB int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
	}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and persists an uploaded image, returning the stored
// filename. The original filename only contributes its extension; the
// stored name is a fresh UUID.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrFileTypeNotAllowed
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	// Copy one byte past the cap so oversized uploads are detectable.
	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if n > s.maxSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return name, nil
}

// Remove deletes a stored image. Missing files are not an error; the
// record is the source of truth, not the file.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}
