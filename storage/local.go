package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs as plain files under a single directory. Used
// when storage.type is set to local and by the test suite.
type LocalStore struct {
	dir string
}

func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

func (l *LocalStore) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create blob file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write blob file, %w", err)
	}

	return nil
}

func (l *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read blob file, %w", err)
	}

	return b, nil
}

func (l *LocalStore) DeleteIfExists(_ context.Context, key string) (bool, error) {
	path, err := l.path(key)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to delete blob file, %w", err)
	}

	return true, nil
}

// path rejects anything that could escape the storage directory. Keys are
// server-generated so this should never trigger outside of a bug.
func (l *LocalStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	return filepath.Join(l.dir, key), nil
}
