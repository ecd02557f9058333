package registry

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"musicgenie/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; a mismatched cache database is
// discarded and recreated (it only holds re-fetchable lookups).
const schemaVersion = 1

// Cache persists registry lookups in SQLite, keyed by the lowercased
// (artist, title) pair.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenCache initializes or connects to the lookup cache database.
func OpenCache(path string, logger *slog.Logger) (*Cache, error) {
	logger = logging.WithComponent(logger, "lookupcache")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, logger: logger}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		c.logger.Debug("lookup cache schema changed, recreating", "have", version, "want", schemaVersion)
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS lookups; DROP TABLE IF EXISTS schema_version"); err != nil {
			return fmt.Errorf("drop stale schema: %w", err)
		}
		return c.createSchema(ctx)
	}
	return nil
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func queryKey(artist, title string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(title))
}

// Get returns the cached release for the query, if present.
func (c *Cache) Get(ctx context.Context, artist, title string) (*Release, bool, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT artist, title, album, year, release_id FROM lookups WHERE query_key = ?",
		queryKey(artist, title))

	var release Release
	err := row.Scan(&release.Artist, &release.Title, &release.Album, &release.Year, &release.ReleaseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached lookup: %w", err)
	}
	return &release, true, nil
}

// Put stores a release for the query, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, artist, title string, release *Release) error {
	if release == nil {
		return nil
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lookups (query_key, artist, title, album, year, release_id, cached_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		queryKey(artist, title),
		release.Artist,
		release.Title,
		release.Album,
		release.Year,
		release.ReleaseID,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store lookup: %w", err)
	}
	return nil
}

// CachedClient consults the cache before delegating to the wrapped client.
// Cache failures are logged and ignored; they never fail a lookup.
type CachedClient struct {
	inner  Client
	cache  *Cache
	logger *slog.Logger
}

// NewCachedClient wraps inner with the given cache. A nil cache returns
// inner unchanged.
func NewCachedClient(inner Client, cache *Cache, logger *slog.Logger) Client {
	if cache == nil {
		return inner
	}
	return &CachedClient{
		inner:  inner,
		cache:  cache,
		logger: logging.WithComponent(logger, "lookupcache"),
	}
}

// Lookup implements Client.
func (c *CachedClient) Lookup(ctx context.Context, artist, title string) (*Release, error) {
	if release, ok, err := c.cache.Get(ctx, artist, title); err != nil {
		c.logger.Debug("cache read failed", "error", err)
	} else if ok {
		c.logger.Debug("cache hit", "artist", artist, "title", title)
		return release, nil
	}

	release, err := c.inner.Lookup(ctx, artist, title)
	if err != nil || release == nil {
		return release, err
	}
	if err := c.cache.Put(ctx, artist, title, release); err != nil {
		c.logger.Debug("cache write failed", "error", err)
	}
	return release, nil
}
