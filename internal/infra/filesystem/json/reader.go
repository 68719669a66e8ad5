package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Reader handles file reading operations
type Reader struct{}

// NewReader creates a new filesystem reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadJSON reads and unmarshals JSON from a file. A missing file keeps
// os.ErrNotExist in the error chain.
func (r *Reader) ReadJSON(path string, target any) error {
	data, err := r.ReadBytes(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	return nil
}

// ReadBytes reads a file as is
func (r *Reader) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// ListFiles returns the names of the regular files in dir that end with ext.
// A missing directory yields no names.
func (r *Reader) ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}
