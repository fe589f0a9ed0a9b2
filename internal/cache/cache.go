// Package cache keeps a local SQLite mirror of the last successfully fetched
// habits and records, so listing commands keep working when the backend is
// unreachable. The backend stays the source of truth; the mirror is replaced
// wholesale on every sync and never written back.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitctl/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	reminder_date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS records (
	id INTEGER NOT NULL,
	habit_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (habit_id, id)
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates the cache file and schema if needed.
func (s *Store) Open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ReplaceHabits swaps the mirrored habit list. Records for habits that no
// longer exist are dropped in the same transaction.
func (s *Store) ReplaceHabits(habits []models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}
	for _, h := range habits {
		if _, err := tx.Exec(
			"INSERT INTO habits (id, title, description, reminder_date) VALUES (?, ?, ?, ?)",
			h.ID, h.Title, h.Description, h.ReminderDate); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM records WHERE habit_id NOT IN (SELECT id FROM habits)"); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceRecords swaps the mirrored record list for one habit.
func (s *Store) ReplaceRecords(habitID int, records []models.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE habit_id = ?", habitID); err != nil {
		return err
	}
	for _, r := range records {
		completed := 0
		if r.Completed {
			completed = 1
		}
		if _, err := tx.Exec(
			"INSERT INTO records (id, habit_id, date, completed) VALUES (?, ?, ?, ?)",
			r.ID, habitID, r.Date, completed); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Habits() ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT id, title, description, reminder_date FROM habits ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.ReminderDate); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) Records(habitID int) ([]models.Record, error) {
	rows, err := s.db.Query("SELECT id, date, completed FROM records WHERE habit_id = ? ORDER BY id", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var completed int
		if err := rows.Scan(&r.ID, &r.Date, &completed); err != nil {
			return nil, err
		}
		r.Completed = completed != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// SetLastSync stamps a successful refresh.
func (s *Store) SetLastSync(t time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES ('last_sync', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		t.Format(time.RFC3339))
	return err
}

// LastSync returns the time of the last successful refresh, zero if never.
func (s *Store) LastSync() (time.Time, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'last_sync'").Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

// Clear wipes the mirror, used on logout so one account's data never shows
// under another.
func (s *Store) Clear() error {
	for _, table := range []string{"habits", "records", "meta"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}
