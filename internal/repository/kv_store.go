package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/AgusMolinaCode/cryptotracker/internal/config"
)

// KVStore es el almacenamiento persistente de blobs por clave. No hay transacciones entre claves.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SQLStore guarda los blobs en la tabla kv_store de SQLite o PostgreSQL
type SQLStore struct {
	db       *sql.DB
	getQuery string
	setQuery string
}

// NewSQLStore crea un almacenamiento sobre una base de datos ya migrada
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	s := &SQLStore{
		db:       db,
		getQuery: `SELECT value FROM kv_store WHERE key = ?`,
		setQuery: `
			INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	}

	// PostgreSQL usa placeholders numerados
	if driver == config.DriverPostgres {
		s.getQuery = `SELECT value FROM kv_store WHERE key = $1`
		s.setQuery = `
			INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	}

	return s
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error al leer la clave %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value); err != nil {
		return fmt.Errorf("error al guardar la clave %s: %w", key, err)
	}
	return nil
}

// MemoryStore es un KVStore en memoria, usado con STORE_DRIVER=memory y en tests
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}
