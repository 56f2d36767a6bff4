package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/config"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)
`

// SQLStore keeps one row per document in a SQLite or Postgres database.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (or creates) the database file at cfg.Path.
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig) (*SQLStore, error) {
	journal := cfg.JournalMode
	if journal == "" {
		journal = "WAL"
	}
	dsn := fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=5000", cfg.Path, journal)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, domain.IOError("failed to open sqlite database", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return newSQLStore(ctx, db, config.StoreDriverSQLite)
}

// OpenPostgres connects to cfg.DSN.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*SQLStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, domain.IOError("failed to open postgres database", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return newSQLStore(ctx, db, config.StoreDriverPostgres)
}

func newSQLStore(ctx context.Context, db *sql.DB, driver string) (*SQLStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, domain.IOError(fmt.Sprintf("%s ping failed", driver), err)
	}
	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		db.Close()
		return nil, domain.IOError("failed to create documents table", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// Get retrieves a document by id.
func (s *SQLStore) Get(ctx context.Context, documentID string) (*domain.Record, error) {
	query := `SELECT filename, content FROM documents WHERE id = $1`

	var (
		rec     domain.Record
		content string
	)
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(&rec.Filename, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(documentID)
	}
	if err != nil {
		return nil, domain.IOError("failed to read document", err)
	}

	if err := json.Unmarshal([]byte(content), &rec.Content); err != nil {
		return nil, domain.IOError("stored content is corrupt", err)
	}
	return &rec, nil
}

// Put upserts the document row in a single statement.
func (s *SQLStore) Put(ctx context.Context, documentID string, record domain.Record) error {
	content, err := json.Marshal(record.Content)
	if err != nil {
		return domain.IOError("failed to encode content", err)
	}

	query := `
		INSERT INTO documents (id, filename, content, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET filename = excluded.filename, content = excluded.content
	`
	if _, err := s.db.ExecContext(ctx, query, documentID, record.Filename, string(content), time.Now().UTC()); err != nil {
		return domain.IOError("failed to store document", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
