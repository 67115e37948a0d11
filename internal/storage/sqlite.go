// Package storage provides SQLite-based persistence for level progress and
// score history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies; the schema is managed with golang-migrate from embedded
// migration files.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-bounce/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store manages the SQLite database connection.
type Store struct {
	db *sqlx.DB
}

// Progress is the best result on one level.
type Progress struct {
	LevelID   int        `db:"level_id" json:"levelId"`
	BestScore int        `db:"best_score" json:"bestScore"`
	BestStars int        `db:"best_stars" json:"bestStars"`
	Unlocked  bool       `db:"unlocked" json:"unlocked"`
	Completed bool       `db:"completed" json:"completed"`
	UpdatedAt sqliteTime `db:"updated_at" json:"updatedAt"`
}

// ScoreEntry is one recorded win.
type ScoreEntry struct {
	ID        int64      `db:"id" json:"id"`
	LevelID   int        `db:"level_id" json:"levelId"`
	Score     int        `db:"score" json:"score"`
	Stars     int        `db:"stars" json:"stars"`
	CreatedAt sqliteTime `db:"created_at" json:"createdAt"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Concurrent SSH sessions share the file; wait for the writer lock
	// instead of failing with SQLITE_BUSY.
	db, err := sqlx.Connect("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate applies the embedded migrations. The migrate instance is not
// closed: closing its sqlite driver would close the shared *sql.DB.
func (s *Store) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("cannot read migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("cannot create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordWin stores a win on levelID. The level's best score and best stars
// only ever grow; a worse run never replaces a better one. The win is also
// appended to the score history. If unlock is non-zero that level is
// unlocked in the same transaction.
func (s *Store) RecordWin(levelID, score, stars, unlock int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO level_progress (level_id, best_score, best_stars, unlocked, completed, updated_at)
		 VALUES (?, ?, ?, 1, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(level_id) DO UPDATE SET
		   best_score = MAX(best_score, excluded.best_score),
		   best_stars = MAX(best_stars, excluded.best_stars),
		   unlocked = 1,
		   completed = 1,
		   updated_at = CURRENT_TIMESTAMP`,
		levelID, score, stars,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO scores (level_id, score, stars) VALUES (?, ?, ?)",
		levelID, score, stars,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if unlock != 0 {
		if err := unlockLevel(tx, unlock); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// Unlock marks a level as playable.
func (s *Store) Unlock(levelID int) error {
	return unlockLevel(s.db, levelID)
}

func unlockLevel(e sqlx.Execer, levelID int) error {
	_, err := e.Exec(
		`INSERT INTO level_progress (level_id, unlocked) VALUES (?, 1)
		 ON CONFLICT(level_id) DO UPDATE SET unlocked = 1`,
		levelID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot unlock level %d: %w", levelID, err)
	}
	return nil
}

// Progress returns the progress on one level. A level never played has
// zero progress and is locked.
func (s *Store) Progress(levelID int) (Progress, error) {
	var p Progress
	err := s.db.Get(&p,
		`SELECT level_id, best_score, best_stars, unlocked, completed, updated_at
		 FROM level_progress WHERE level_id = ?`,
		levelID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{LevelID: levelID}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	return p, nil
}

// AllProgress returns every level with stored progress, by level ID.
func (s *Store) AllProgress() ([]Progress, error) {
	var all []Progress
	err := s.db.Select(&all,
		`SELECT level_id, best_score, best_stars, unlocked, completed, updated_at
		 FROM level_progress ORDER BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	return all, nil
}

// TopScores retrieves the top N wins for the given level.
// Results are ordered by score descending.
func (s *Store) TopScores(levelID, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []ScoreEntry
	err := s.db.Select(&entries,
		`SELECT id, level_id, score, stars, created_at
		 FROM scores
		 WHERE level_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return entries, nil
}

// Reset deletes all progress and score history.
func (s *Store) Reset() error {
	if _, err := s.db.Exec("DELETE FROM scores; DELETE FROM level_progress;"); err != nil {
		return fmt.Errorf("storage: cannot reset: %w", err)
	}
	return nil
}

// sqliteTime scans DATETIME columns, which the driver may hand back either
// as time.Time or as text.
type sqliteTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *sqliteTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("storage: cannot scan %T into time", src)
	}
	return nil
}

func (t *sqliteTime) parse(s string) error {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("storage: cannot parse time %q", s)
}
