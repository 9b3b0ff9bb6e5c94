package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

const webCacheSchema = `
CREATE TABLE web_cache (
	cache_key TEXT PRIMARY KEY,
	tmdb_data TEXT NOT NULL,
	cached_at TEXT,
	last_fetched_from TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_web_cache_cached_at ON web_cache(cached_at);
`

// webCacheMigrations holds incremental schema changes applied by user_version.
// webCacheMigrations[0] is empty because version 0 uses the base schema.
var webCacheMigrations = []string{
	"",
}

// SQLiteEntryStore implements repository.EntryStore on a local SQLite file.
// Suited to single-instance deployments without Redis.
type SQLiteEntryStore struct {
	db       *sql.DB
	lock     sync.RWMutex
	squirrel sq.StatementBuilderType
}

// Compile-time verification that SQLiteEntryStore implements repository.EntryStore.
var _ repository.EntryStore = (*SQLiteEntryStore)(nil)

// NewSQLiteEntryStore opens (creating if needed) the cache database in dir.
func NewSQLiteEntryStore(dir string) (*SQLiteEntryStore, error) {
	dsn := filepath.Join(dir, "nextup-cache.db") + "?_pragma=busy_timeout%3d1000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = wal;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteEntryStore{
		db:       db,
		squirrel: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteEntryStore) migrate() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("query schema version: %w", err)
	}

	if version == len(webCacheMigrations) {
		return nil
	} else if version > len(webCacheMigrations) {
		return fmt.Errorf("cache schema version (%d) is newer than supported (%d)", version, len(webCacheMigrations))
	}

	slog.Info("upgrading cache schema", "from", version, "to", len(webCacheMigrations))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if version == 0 {
		if _, err := tx.Exec(webCacheSchema); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	} else {
		for i := version; i < len(webCacheMigrations); i++ {
			if webCacheMigrations[i] == "" {
				continue
			}
			if _, err := tx.Exec(webCacheMigrations[i]); err != nil {
				return fmt.Errorf("execute migration #%d: %w", i, err)
			}
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(webCacheMigrations))); err != nil {
		return fmt.Errorf("bump schema version: %w", err)
	}

	return tx.Commit()
}

// Get retrieves an entry by key.
// Returns nil, nil on cache miss.
func (s *SQLiteEntryStore) Get(ctx context.Context, key string) (*repository.CacheEntry, error) {
	query, args, err := s.squirrel.
		Select("tmdb_data", "cached_at", "last_fetched_from").
		From("web_cache").
		Where(sq.Eq{"cache_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	var (
		payload         string
		cachedAt        sql.NullString
		lastFetchedFrom string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload, &cachedAt, &lastFetchedFrom)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("sqlite get: %w", err)
	}

	entry := &repository.CacheEntry{LastFetchedFrom: lastFetchedFrom}
	if err := json.Unmarshal([]byte(payload), &entry.Payload); err != nil {
		return nil, fmt.Errorf("deserialize entry %s: %w", key, err)
	}
	if cachedAt.Valid && cachedAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, cachedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse cached_at for %s: %w", key, err)
		}
		entry.CachedAt = t
	}

	return entry, nil
}

// Set creates or replaces the entry stored under key.
func (s *SQLiteEntryStore) Set(ctx context.Context, key string, entry *repository.CacheEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("serialize entry %s: %w", key, err)
	}

	var cachedAt any
	if !entry.CachedAt.IsZero() {
		cachedAt = entry.CachedAt.UTC().Format(time.RFC3339Nano)
	}

	query, args, err := s.squirrel.
		Replace("web_cache").
		Columns("cache_key", "tmdb_data", "cached_at", "last_fetched_from", "updated_at").
		Values(key, string(payload), cachedAt, entry.LastFetchedFrom, time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}

	return nil
}

// Ping verifies the database handle is usable.
func (s *SQLiteEntryStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close optimizes and closes the database.
func (s *SQLiteEntryStore) Close() error {
	if _, err := s.db.Exec(`PRAGMA optimize;`); err != nil {
		return fmt.Errorf("query planner optimization: %w", err)
	}
	return s.db.Close()
}
