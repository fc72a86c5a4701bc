// Package imagestore keeps uploaded complaint photos on the local disk.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves files under Dir with short random names.
type Store struct {
	Dir string
}

// New creates the upload directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes r to a new file named after the original extension and returns
// the generated name and its path. An existing file is never overwritten.
func (s *Store) Save(originalName string, r io.Reader) (filename, path string, err error) {
	var f *os.File
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		filename = newName(originalName)
		path = filepath.Join(s.Dir, filename)
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write %s: %w", filename, err)
	}
	return filename, path, nil
}

// Read loads a previously saved image.
func (s *Store) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

const maxNameAttempts = 5

var newName = func(originalName string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	return id + ext
}
