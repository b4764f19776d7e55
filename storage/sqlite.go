package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps comments and like counters in a SQLite database.
// Passwords are stored as bcrypt hashes.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" gives
// a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		tool_id TEXT NOT NULL,
		nickname TEXT NOT NULL,
		content TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_tool ON comments(tool_id, created_at);

	CREATE TABLE IF NOT EXISTS likes (
		tool_id TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ListComments(ctx context.Context, toolID string) ([]Comment, error) {
	query := `
	SELECT id, tool_id, nickname, content, created_at
	FROM comments
	WHERE tool_id = ?
	ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ToolID, &c.Nickname, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (s *SQLiteStore) CountComments(ctx context.Context, toolID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE tool_id = ?`, toolID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) AddComment(ctx context.Context, in NewComment) (Comment, error) {
	if strings.TrimSpace(in.ToolID) == "" || strings.TrimSpace(in.Body) == "" || in.Password == "" {
		return Comment{}, fmt.Errorf("%w: tool id, content and password are required", ErrInvalid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Comment{}, fmt.Errorf("failed to hash password: %w", err)
	}

	c := Comment{
		ID:        uuid.New().String(),
		ToolID:    in.ToolID,
		Nickname:  NormalizeNickname(in.Nickname),
		Body:      in.Body,
		CreatedAt: time.Now().UTC(),
	}

	query := `
	INSERT INTO comments (id, tool_id, nickname, content, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.ToolID, c.Nickname, c.Body, string(hash), c.CreatedAt); err != nil {
		return Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	return c, nil
}

func (s *SQLiteStore) DeleteComment(ctx context.Context, id, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM comments WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) GetLikes(ctx context.Context, toolID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count FROM likes WHERE tool_id = ?`, toolID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load likes: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) SetLikes(ctx context.Context, toolID string, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: like count must not be negative: %d", ErrInvalid, count)
	}

	query := `
	INSERT INTO likes (tool_id, count) VALUES (?, ?)
	ON CONFLICT(tool_id) DO UPDATE SET count = excluded.count
	`
	if _, err := s.db.ExecContext(ctx, query, toolID, count); err != nil {
		return fmt.Errorf("failed to save likes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
