package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/weftlabs/weft/pkg/api"
)

// SQLiteStore is a CacheStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
//
// Values are gob-encoded; custom struct types need gob.Register.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.CacheStore = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value BLOB,
			expires_at_ns INTEGER NOT NULL
		);`,
	)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (api.Entry, bool, error) {
	var (
		blob        []byte
		expiresAtNS int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT value, expires_at_ns FROM cache_entries WHERE key = ?`,
		key,
	).Scan(&blob, &expiresAtNS)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Entry{}, false, nil
	}
	if err != nil {
		return api.Entry{}, false, err
	}

	value, err := DecodeValue(blob)
	if err != nil {
		return api.Entry{}, false, err
	}
	return api.Entry{
		Value:     value,
		ExpiresAt: time.Unix(0, expiresAtNS),
	}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, e api.Entry) error {
	blob, err := EncodeValue(e.Value)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at_ns)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at_ns = excluded.expires_at_ns`,
		key,
		blob,
		e.ExpiresAt.UnixNano(),
	)
	return err
}
