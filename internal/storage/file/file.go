// Package file реализует слот хранения в JSON-файле на диске.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fdg312/fueltrack/internal/storage"
)

// SlotStorage persists the profile store as a single JSON file. Writes
// go through a temp file plus rename so a crash mid-write never leaves
// a half-written slot behind.
type SlotStorage struct {
	path string
}

func NewSlotStorage(path string) (*SlotStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file storage: create dir: %w", err)
	}
	return &SlotStorage{path: path}, nil
}

func (s *SlotStorage) Load(ctx context.Context) (*storage.ProfileStore, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.EmptyStore(), nil
		}
		return nil, fmt.Errorf("file storage: read: %w", err)
	}
	return storage.DecodeStore(raw), nil
}

func (s *SlotStorage) Save(ctx context.Context, store *storage.ProfileStore) error {
	raw, err := storage.EncodeStore(store)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("file storage: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("file storage: rename: %w", err)
	}
	return nil
}

func (s *SlotStorage) Close() error { return nil }
