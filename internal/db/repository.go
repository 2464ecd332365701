package db

import (
	"context"
	"time"
)

// LearnedException is one persisted correction in the learned tier.
type LearnedException struct {
	Language     string
	Word         string
	Romanization string
	UpdatedAt    time.Time
}

type UpsertLearnedExceptionParams struct {
	Language     string
	Word         string
	Romanization string
}

// Repository defines the interface for learned-exception storage. Each
// backend keys entries by (language, word).
type Repository interface {
	ListLearnedExceptions(ctx context.Context, language string) ([]LearnedException, error)
	UpsertLearnedException(ctx context.Context, arg UpsertLearnedExceptionParams) (LearnedException, error)
	// DeleteLearnedException returns ErrNoRows when the word is not stored.
	DeleteLearnedException(ctx context.Context, language, word string) error
	CountLearnedExceptions(ctx context.Context, language string) (int64, error)

	// WithTx runs fn against a repository whose writes commit together.
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	Close() error
}
