// Package postgres реализует слот хранения в Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdg312/fueltrack/internal/storage"
)

// SlotStorage хранит весь ProfileStore одной JSONB-строкой в таблице
// store_slots, по ключу слота. Save — upsert целиком, как и у остальных
// бэкендов.
type SlotStorage struct {
	pool *pgxpool.Pool
	key  string
}

// New подключает пул и проверяет соединение.
func New(ctx context.Context, databaseURL, slotKey string) (*SlotStorage, error) {
	if slotKey == "" {
		slotKey = storage.DefaultSlotKey
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres storage: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres storage: ping: %w", err)
	}

	return &SlotStorage{pool: pool, key: slotKey}, nil
}

func (s *SlotStorage) Load(ctx context.Context) (*storage.ProfileStore, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM store_slots WHERE key = $1`,
		s.key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.EmptyStore(), nil
		}
		return nil, fmt.Errorf("postgres storage: load slot: %w", err)
	}
	return storage.DecodeStore(raw), nil
}

func (s *SlotStorage) Save(ctx context.Context, store *storage.ProfileStore) error {
	raw, err := storage.EncodeStore(store)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO store_slots (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.key, raw,
	)
	if err != nil {
		return fmt.Errorf("postgres storage: save slot: %w", err)
	}
	return nil
}

func (s *SlotStorage) Close() error {
	s.pool.Close()
	return nil
}
