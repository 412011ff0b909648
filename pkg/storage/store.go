// Package storage keeps a local history of saved snapshots in SQLite.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("storage: snapshot not found")

// Config holds history store configuration.
type Config struct {
	// Path is the database file. Its directory is created if missing.
	Path string
	// MaxEntries bounds the history; older entries are pruned on save.
	// Zero or a negative value keeps everything.
	MaxEntries int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Path:       filepath.Join(".mjop", "history.db"),
		MaxEntries: 200,
	}
}

// Entry describes one saved snapshot without its content.
type Entry struct {
	ID       int64                     `json:"id"`
	SavedAt  time.Time                 `json:"saved_at"`
	Elements int                       `json:"elements"`
	Reports  int                       `json:"reports"`
	Worst    interfaces.ConditionScore `json:"worst"`
	Digest   string                    `json:"digest"`
}

// Store is the SQLite-backed snapshot history. It implements
// interfaces.SnapshotSaver.
type Store struct {
	db  *sql.DB
	cfg Config
	now func() time.Time
}

var _ interfaces.SnapshotSaver = (*Store)(nil)

// New opens (or creates) the history database and migrates its schema.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			saved_at  TEXT    NOT NULL,
			elements  INTEGER NOT NULL,
			reports   INTEGER NOT NULL,
			worst     INTEGER NOT NULL,
			digest    TEXT    NOT NULL,
			content   TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_digest ON snapshots(digest);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save appends snap to the history. Saving content identical to the latest
// entry is a no-op.
func (s *Store) Save(ctx context.Context, snap *interfaces.Snapshot) error {
	if snap == nil {
		snap = &interfaces.Snapshot{Version: interfaces.SnapshotVersion}
	}
	content, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: marshaling snapshot: %w", err)
	}
	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	var latest string
	err = s.db.QueryRowContext(ctx, `SELECT digest FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage: reading latest digest: %w", err)
	}
	if latest == digest {
		return nil
	}

	reports, worst := tally(snap)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (saved_at, elements, reports, worst, digest, content) VALUES (?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339Nano), len(snap.Elements), reports, int(worst), digest, string(content),
	)
	if err != nil {
		return fmt.Errorf("storage: inserting snapshot: %w", err)
	}

	if s.cfg.MaxEntries > 0 {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
			s.cfg.MaxEntries,
		)
		if err != nil {
			return fmt.Errorf("storage: pruning history: %w", err)
		}
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, saved_at, elements, reports, worst, digest FROM snapshots ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			savedAt string
			worst   int
		)
		if err := rows.Scan(&e.ID, &savedAt, &e.Elements, &e.Reports, &worst, &e.Digest); err != nil {
			return nil, fmt.Errorf("storage: scanning entry: %w", err)
		}
		e.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, fmt.Errorf("storage: entry %d: %w", e.ID, err)
		}
		e.Worst = interfaces.ConditionScore(worst)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the snapshot saved under id.
func (s *Store) Get(ctx context.Context, id int64) (*interfaces.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT content FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (*interfaces.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT content FROM snapshots ORDER BY id DESC LIMIT 1`)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*interfaces.Snapshot, error) {
	var content string
	if err := row.Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: reading snapshot: %w", err)
	}

	snap := &interfaces.Snapshot{}
	if err := json.Unmarshal([]byte(content), snap); err != nil {
		return nil, fmt.Errorf("storage: decoding snapshot: %w", err)
	}
	return snap, nil
}

// tally counts reports and finds the worst stored report score.
func tally(snap *interfaces.Snapshot) (int, interfaces.ConditionScore) {
	var (
		reports int
		worst   interfaces.ConditionScore
	)
	for _, el := range snap.Elements {
		reports += len(el.Reports)
		for _, r := range el.Reports {
			if r.Condition > worst {
				worst = r.Condition
			}
		}
	}
	return reports, worst
}
