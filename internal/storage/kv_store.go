package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KVStore implements domain.KVStore on the kv_store table of a SQL database.
type KVStore struct {
	db *DB
}

func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// DB returns the wrapped database.
func (s *KVStore) DB() *DB { return s.db }

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.Conn().QueryRowContext(ctx, s.rebind(`SELECT payload FROM kv_store WHERE store_key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	var q string
	switch s.db.Driver() {
	case DriverMySQL:
		q = `INSERT INTO kv_store (store_key, payload) VALUES (?, ?)
			 ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = CURRENT_TIMESTAMP`
	default:
		q = `INSERT INTO kv_store (store_key, payload) VALUES (?, ?)
			 ON CONFLICT(store_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	}
	if _, err := s.db.Conn().ExecContext(ctx, s.rebind(q), key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.Conn().ExecContext(ctx, s.rebind(`DELETE FROM kv_store WHERE store_key = ?`), key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *KVStore) rebind(q string) string {
	if s.db.Driver() != DriverPostgres {
		return q
	}
	out := make([]byte, 0, len(q)+8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, q[i])
	}
	return string(out)
}
