package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jusunglee/indicate/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements db.Repository using SQLite
type Repository struct {
	db *sql.DB
	q  querier
}

// New creates a new SQLite repository
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}

	// In-memory databases are per connection.
	if dbPath == ":memory:" {
		sqliteDB.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	slog.Debug("opened SQLite database", "path", dbPath)

	return &Repository{db: sqliteDB, q: sqliteDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Repository{db: r.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *Repository) ListLearnedExceptions(ctx context.Context, language string) ([]db.LearnedException, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT language, word, romanization, updated_at
		FROM learned_exceptions
		WHERE language = ?
		ORDER BY word
	`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []db.LearnedException
	for rows.Next() {
		var e db.LearnedException
		if err := rows.Scan(&e.Language, &e.Word, &e.Romanization, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertLearnedException(ctx context.Context, arg db.UpsertLearnedExceptionParams) (db.LearnedException, error) {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO learned_exceptions (language, word, romanization, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (language, word) DO UPDATE SET
			romanization = excluded.romanization,
			updated_at = excluded.updated_at
	`, arg.Language, arg.Word, arg.Romanization, now)
	if err != nil {
		return db.LearnedException{}, err
	}
	return db.LearnedException{
		Language:     arg.Language,
		Word:         arg.Word,
		Romanization: arg.Romanization,
		UpdatedAt:    now,
	}, nil
}

func (r *Repository) DeleteLearnedException(ctx context.Context, language, word string) error {
	result, err := r.q.ExecContext(ctx, `
		DELETE FROM learned_exceptions WHERE language = ? AND word = ?
	`, language, word)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNoRows
	}
	return nil
}

func (r *Repository) CountLearnedExceptions(ctx context.Context, language string) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM learned_exceptions WHERE language = ?
	`, language).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
