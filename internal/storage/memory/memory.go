// Package memory реализует слот хранения в памяти процесса.
// Используется в тестах и как fallback, когда Postgres не настроен.
package memory

import (
	"context"
	"sync"

	"github.com/fdg312/fueltrack/internal/storage"
)

// SlotStorage держит сериализованное значение слота в памяти. Хранение
// именно байтов (а не структуры) гоняет каждый Load/Save через тот же
// кодек, что и настоящие бэкенды.
type SlotStorage struct {
	mu  sync.Mutex
	raw []byte
}

func NewSlotStorage() *SlotStorage {
	return &SlotStorage{}
}

func (s *SlotStorage) Load(ctx context.Context) (*storage.ProfileStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.DecodeStore(s.raw), nil
}

func (s *SlotStorage) Save(ctx context.Context, store *storage.ProfileStore) error {
	raw, err := storage.EncodeStore(store)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}

func (s *SlotStorage) Close() error { return nil }

// Corrupt overwrites the stored value with arbitrary bytes. Only tests
// use it, to exercise the reset-on-corrupt path.
func (s *SlotStorage) Corrupt(raw []byte) {
	s.mu.Lock()
	s.raw = append([]byte(nil), raw...)
	s.mu.Unlock()
}
