// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/recite/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store errors.
var (
	ErrNotFound     = errors.New("text not found")
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrEmptyContent = errors.New("content must not be empty")
)

// Order selects the sort order of ListTexts.
type Order int

// List orders.
const (
	// OrderUpdated lists the most recently updated texts first.
	OrderUpdated Order = iota
	// OrderTitle lists texts by title.
	OrderTitle
)

// Store wraps SQLite access for texts and practice attempts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps the foreign_keys pragma in effect for every statement.
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS texts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			text_id TEXT NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
			mode TEXT NOT NULL,
			ignore_punct INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			matches INTEGER NOT NULL,
			mismatches INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			extra INTEGER NOT NULL,
			perfect INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_char_stats (
			attempt_id INTEGER NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			char TEXT NOT NULL,
			matches INTEGER NOT NULL,
			mismatches INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_text_id ON attempts(text_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func validateText(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", "", ErrEmptyTitle
	}
	if content == "" {
		return "", "", ErrEmptyContent
	}
	return title, content, nil
}

// CreateText stores a new text with a fresh id.
func (s *Store) CreateText(ctx context.Context, title, content string) (model.Text, error) {
	title, content, err := validateText(title, content)
	if err != nil {
		return model.Text{}, err
	}
	now := s.now().UTC()
	text := model.Text{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO texts (id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		text.ID, text.Title, text.Content, formatTime(text.CreatedAt), formatTime(text.UpdatedAt),
	); err != nil {
		return model.Text{}, err
	}
	return text, nil
}

// GetText returns the text with the given id.
func (s *Store) GetText(ctx context.Context, id string) (model.Text, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM texts WHERE id = ?`, id)
	text, err := scanText(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Text{}, ErrNotFound
	}
	return text, err
}

// FindText resolves a text by id or, failing that, by exact title.
func (s *Store) FindText(ctx context.Context, ref string) (model.Text, error) {
	text, err := s.GetText(ctx, ref)
	if !errors.Is(err, ErrNotFound) {
		return text, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM texts WHERE title = ?
		 ORDER BY updated_at DESC LIMIT 1`, strings.TrimSpace(ref))
	text, err = scanText(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Text{}, ErrNotFound
	}
	return text, err
}

// UpdateText replaces title and content, keeping the creation time.
func (s *Store) UpdateText(ctx context.Context, id, title, content string) (model.Text, error) {
	title, content, err := validateText(title, content)
	if err != nil {
		return model.Text{}, err
	}
	existing, err := s.GetText(ctx, id)
	if err != nil {
		return model.Text{}, err
	}
	existing.Title = title
	existing.Content = content
	existing.UpdatedAt = s.now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE texts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		existing.Title, existing.Content, formatTime(existing.UpdatedAt), existing.ID,
	); err != nil {
		return model.Text{}, err
	}
	return existing, nil
}

// DeleteText removes a text and its attempts.
func (s *Store) DeleteText(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM texts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTexts returns all texts in the requested order.
func (s *Store) ListTexts(ctx context.Context, order Order) ([]model.Text, error) {
	orderBy := "updated_at DESC, title ASC"
	if order == OrderTitle {
		orderBy = "title ASC, updated_at DESC"
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, title, content, created_at, updated_at FROM texts ORDER BY %s`, orderBy))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var texts []model.Text
	for rows.Next() {
		text, err := scanText(rows)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return texts, nil
}

// UpsertTexts inserts texts or replaces existing ones with the same id.
func (s *Store) UpsertTexts(ctx context.Context, texts []model.Text) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO texts (id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, content = excluded.content,
		 created_at = excluded.created_at, updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, t := range texts {
		if _, err = stmt.ExecContext(ctx, t.ID, t.Title, t.Content, formatTime(t.CreatedAt), formatTime(t.LastModified())); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanText(row rowScanner) (model.Text, error) {
	var text model.Text
	var createdAt, updatedAt string
	if err := row.Scan(&text.ID, &text.Title, &text.Content, &createdAt, &updatedAt); err != nil {
		return model.Text{}, err
	}
	var err error
	if text.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Text{}, err
	}
	if text.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Text{}, err
	}
	return text, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
