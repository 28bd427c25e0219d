// Package catalog keeps a SQLite record of every snapshot the editor saves, so
// recent worlds can be listed without scanning the filesystem.
package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"wireworld/internal/core"
)

// Entry describes one saved snapshot.
type Entry struct {
	ID         int64
	Path       string
	Size       core.Size
	Generation uint64
	Census     [core.NumCells]int
	SavedAt    time.Time
}

// Catalog is a handle on the snapshot database.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalogue database at path.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("[Open] empty catalog path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "[Open] failed to create directory for: %+v", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Open] failed to open catalog: %+v", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "[Open] failed to initialise catalog: %+v", path)
	}
	return &Catalog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			empty INTEGER NOT NULL,
			conductor INTEGER NOT NULL,
			tail INTEGER NOT NULL,
			head INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS snapshots_path ON snapshots(path);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (c *Catalog) Close() error { return c.db.Close() }

// Record appends e to the catalogue. A zero SavedAt is replaced by the
// current time.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now()
	}
	path := e.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO snapshots (path, width, height, generation, empty, conductor, tail, head, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path, e.Size.W, e.Size.H, int64(e.Generation),
		e.Census[core.Empty], e.Census[core.Conductor], e.Census[core.ElectronTail], e.Census[core.ElectronHead],
		e.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrapf(err, "[Record] failed to insert snapshot: %+v", path)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, path, width, height, generation, empty, conductor, tail, head, saved_at
		 FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[Recent] failed to query snapshots")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			gen     int64
			savedAt string
		)
		if err := rows.Scan(&e.ID, &e.Path, &e.Size.W, &e.Size.H, &gen,
			&e.Census[core.Empty], &e.Census[core.Conductor], &e.Census[core.ElectronTail], &e.Census[core.ElectronHead],
			&savedAt); err != nil {
			return nil, errors.Wrap(err, "[Recent] failed to scan snapshot row")
		}
		e.Generation = uint64(gen)
		if ts, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
			e.SavedAt = ts
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[Recent] failed to read snapshots")
	}
	return out, nil
}
