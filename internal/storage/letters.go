package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskLetterStore persists formation-letter blobs as files under a base
// directory. Keys are generated upstream and never contain path separators.
type DiskLetterStore struct {
	baseDir string
}

func NewDiskLetterStore(baseDir string) (*DiskLetterStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("letter store: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("letter store: create base directory: %w", err)
	}
	return &DiskLetterStore{baseDir: baseDir}, nil
}

func (s *DiskLetterStore) Save(key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("letter store: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("letter store: finalize %s: %w", key, err)
	}
	return nil
}

func (s *DiskLetterStore) Open(key string) (io.ReadCloser, int64, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("letter store: open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("letter store: stat %s: %w", key, err)
	}
	return f, info.Size(), nil
}

func (s *DiskLetterStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("letter store: remove %s: %w", key, err)
	}
	return nil
}

func (s *DiskLetterStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("letter store: invalid key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}
