package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

// Store persists library entries in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the database at path and runs migrations.
func NewStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; the UI and the sync goroutine share it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		source TEXT NOT NULL CHECK(source IN ('local', 'jellyfin')),
		location TEXT NOT NULL,
		current_episode INTEGER NOT NULL DEFAULT 1,
		episode_count INTEGER NOT NULL DEFAULT 0,
		volume INTEGER NOT NULL DEFAULT 50 CHECK(volume BETWEEN 0 AND 100),
		updated_at TEXT NOT NULL,
		UNIQUE (source, location)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert inserts e, or refreshes title and episode count of the entry with
// the same source and location. The stored volume and current episode win
// over e's, so a rescan never resets what the user chose. e is updated with
// the stored row.
func (s *Store) Upsert(ctx context.Context, e *Entry) error {
	if e.CurrentEpisode < 1 {
		e.CurrentEpisode = 1
	}
	query := `
	INSERT INTO entries (title, source, location, current_episode, episode_count, volume, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(source, location) DO UPDATE SET
		title = excluded.title,
		episode_count = excluded.episode_count,
		current_episode = MIN(MAX(entries.current_episode, 1), MAX(excluded.episode_count, 1)),
		updated_at = excluded.updated_at
	RETURNING id, current_episode, volume, updated_at
	`
	var updated string
	row := s.db.QueryRowContext(ctx, query,
		e.Title, string(e.Source), e.Location, e.CurrentEpisode, e.EpisodeCount,
		ClampVolume(e.Volume), s.now().UTC().Format(time.RFC3339))
	if err := row.Scan(&e.ID, &e.CurrentEpisode, &e.Volume, &updated); err != nil {
		return fmt.Errorf("upsert entry %q: %w", e.Title, err)
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return nil
}

// Update writes the mutable fields (episode, volume) of an existing entry.
func (s *Store) Update(ctx context.Context, e *Entry) error {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
	UPDATE entries SET current_episode = ?, volume = ?, updated_at = ?
	WHERE id = ?
	`, e.CurrentEpisode, ClampVolume(e.Volume), now.Format(time.RFC3339), e.ID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update entry %d: %w", e.ID, ErrNotFound)
	}
	e.UpdatedAt = now.Truncate(time.Second)
	return nil
}

// Get loads a single entry.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, title, source, location, current_episode, episode_count, volume, updated_at
	FROM entries WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

// List returns all entries ordered by title.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, title, source, location, current_episode, episode_count, volume, updated_at
	FROM entries ORDER BY title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*Entry, error) {
	var (
		e       Entry
		source  string
		updated string
	)
	if err := r.Scan(&e.ID, &e.Title, &source, &e.Location, &e.CurrentEpisode, &e.EpisodeCount, &e.Volume, &updated); err != nil {
		return nil, err
	}
	e.Source = Source(source)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &e, nil
}
