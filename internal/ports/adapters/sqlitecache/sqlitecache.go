package sqlitecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/forPelevin/beatcut/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS durations (
	path          TEXT    NOT NULL PRIMARY KEY,
	size          INTEGER NOT NULL,
	mod_unix_nano INTEGER NOT NULL,
	nanos         INTEGER NOT NULL
)`

// Cache stores probed clip durations. An entry is only valid while the
// file's size and modification time are unchanged.
type Cache struct {
	db *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duration cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init duration cache: %w", err)
		}
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) Get(ctx context.Context, key ports.FileKey) (time.Duration, bool, error) {
	var (
		size, mod int64
		nanos     int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT size, mod_unix_nano, nanos FROM durations WHERE path = ?`, key.Path,
	).Scan(&size, &mod, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read duration cache: %w", err)
	}
	if size != key.Size || mod != key.ModTime.UnixNano() {
		return 0, false, nil
	}
	return time.Duration(nanos), true, nil
}

func (c *Cache) Put(ctx context.Context, key ports.FileKey, d time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO durations (path, size, mod_unix_nano, nanos) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size = excluded.size, mod_unix_nano = excluded.mod_unix_nano, nanos = excluded.nanos`,
		key.Path, key.Size, key.ModTime.UnixNano(), int64(d),
	)
	if err != nil {
		return fmt.Errorf("write duration cache: %w", err)
	}
	return nil
}
