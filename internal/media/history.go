package media

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded download.
type Entry struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Mode      string    `json:"mode"` // video or audio
	OutputDir string    `json:"output_dir"`
	CreatedAt time.Time `json:"created_at"`
}

// History stores download records in SQLite.
type History struct {
	db *sql.DB
}

// DefaultHistoryPath returns ~/.local/share/dk/history.db.
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "dk", "history.db"), nil
}

// OpenHistory opens (and if needed creates) the history database.
func OpenHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	h := &History{db: db}
	if err := h.init(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		mode TEXT NOT NULL,
		output_dir TEXT,
		created_at DATETIME NOT NULL
	);`
	if _, err := h.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create downloads table: %w", err)
	}
	return nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record stores a completed download.
func (h *History) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO downloads (url, mode, output_dir, created_at) VALUES (?, ?, ?, ?)`,
		e.URL, e.Mode, e.OutputDir, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}
	return nil
}

// Recent returns the most recent downloads, newest first.
func (h *History) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, url, mode, output_dir, created_at FROM downloads ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.URL, &e.Mode, &e.OutputDir, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
