package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/indicate/internal/db"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// New creates a new PostgreSQL repository and applies the schema.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Repository{pool: pool, q: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// Pool exposes the underlying pool for the job queue driver.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// PoolStats returns the current pool statistics.
func (r *Repository) PoolStats() *pgxpool.Stat {
	return r.pool.Stat()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	// If fn() panics, the normal err-check rollback below won't run.
	// recover() catches the panic so we can roll back the tx (releasing the db connection), then re-panic.
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
	}()

	err = fn(&Repository{pool: r.pool, q: tx})
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r *Repository) ListLearnedExceptions(ctx context.Context, language string) ([]db.LearnedException, error) {
	rows, err := r.q.Query(ctx, `
		SELECT language, word, romanization, updated_at
		FROM learned_exceptions
		WHERE language = $1
		ORDER BY word
	`, language)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.LearnedException, error) {
		var e db.LearnedException
		err := row.Scan(&e.Language, &e.Word, &e.Romanization, &e.UpdatedAt)
		return e, err
	})
}

func (r *Repository) UpsertLearnedException(ctx context.Context, arg db.UpsertLearnedExceptionParams) (db.LearnedException, error) {
	var e db.LearnedException
	err := r.q.QueryRow(ctx, `
		INSERT INTO learned_exceptions (language, word, romanization)
		VALUES ($1, $2, $3)
		ON CONFLICT (language, word) DO UPDATE SET
			romanization = EXCLUDED.romanization,
			updated_at = now()
		RETURNING language, word, romanization, updated_at
	`, arg.Language, arg.Word, arg.Romanization).Scan(&e.Language, &e.Word, &e.Romanization, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.LearnedException{}, db.ErrNoRows
		}
		return db.LearnedException{}, err
	}
	return e, nil
}

func (r *Repository) DeleteLearnedException(ctx context.Context, language, word string) error {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM learned_exceptions WHERE language = $1 AND word = $2
	`, language, word)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNoRows
	}
	return nil
}

func (r *Repository) CountLearnedExceptions(ctx context.Context, language string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM learned_exceptions WHERE language = $1
	`, language).Scan(&n)
	return n, err
}
