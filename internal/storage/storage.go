package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"post-bot/internal/draft"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("storage: record not found")

type Storage struct {
	db *sql.DB
}

func NewStorage(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	s := &Storage{db: db}
	if err = s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize database schema: %w", err)
	}
	log.Println("Database connection successful and schema initialized.")
	return s, nil
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL,
			author_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			place TEXT NOT NULL,
			author TEXT NOT NULL,
			body TEXT NOT NULL,
			confirmed_by INTEGER NOT NULL,
			confirmed_at DATETIME NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS post_addresses (
			post_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			address TEXT NOT NULL,
			PRIMARY KEY (post_id, position),
			FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
		);`,

		`CREATE INDEX IF NOT EXISTS idx_posts_confirmed_at ON posts(confirmed_at);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("schema execution failed for query '%s': %w", query, err)
		}
	}
	return nil
}

// SavePost stores a confirmed post and its addresses in one transaction.
func (s *Storage) SavePost(ctx context.Context, post *draft.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (id, chat_id, author_id, title, place, author, body, confirmed_by, confirmed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		post.ID,
		post.ChatID,
		post.AuthorID,
		post.Title,
		post.Place,
		post.Author,
		post.Body,
		post.ConfirmedBy,
		post.ConfirmedAt.UTC(),
	); err != nil {
		return fmt.Errorf("could not insert post %s: %w", post.ID, err)
	}

	addrQuery := `INSERT INTO post_addresses (post_id, position, address) VALUES (?, ?, ?)`
	for i, address := range post.Addresses {
		if _, err := tx.ExecContext(ctx, addrQuery, post.ID, i, address); err != nil {
			return fmt.Errorf("could not insert address for post %s: %w", post.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) GetPost(ctx context.Context, id string) (*draft.Post, error) {
	query := `SELECT id, chat_id, author_id, title, place, author, body, confirmed_by, confirmed_at FROM posts WHERE id = ?`
	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Addresses, err = s.getAddresses(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns up to limit posts, most recently confirmed first.
func (s *Storage) ListPosts(ctx context.Context, limit int) ([]*draft.Post, error) {
	query := `SELECT id, chat_id, author_id, title, place, author, body, confirmed_by, confirmed_at FROM posts ORDER BY confirmed_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*draft.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, post := range posts {
		if post.Addresses, err = s.getAddresses(ctx, post.ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *Storage) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

func (s *Storage) getAddresses(ctx context.Context, postID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address FROM post_addresses WHERE post_id = ? ORDER BY position`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []string{}
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*draft.Post, error) {
	var post draft.Post
	var confirmedAt time.Time
	if err := row.Scan(
		&post.ID,
		&post.ChatID,
		&post.AuthorID,
		&post.Title,
		&post.Place,
		&post.Author,
		&post.Body,
		&post.ConfirmedBy,
		&confirmedAt,
	); err != nil {
		return nil, err
	}
	post.ConfirmedAt = confirmedAt.UTC()
	return &post, nil
}

func (s *Storage) Close() {
	s.db.Close()
}
