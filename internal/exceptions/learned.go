package exceptions

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/jusunglee/indicate/internal/db"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/tokenizer"
)

// LearnedStore owns the learned tier for one language. It is the only
// writer of its backing repository rows.
type LearnedStore struct {
	language lang.Language
	repo     db.Repository
	log      *slog.Logger

	mu      sync.RWMutex
	entries map[string]string

	// writeMu serializes read-merge-write cycles.
	writeMu sync.Mutex
}

func NewLearnedStore(l lang.Language, repo db.Repository, log *slog.Logger) *LearnedStore {
	if log == nil {
		log = slog.Default()
	}
	return &LearnedStore{
		language: l,
		repo:     repo,
		log:      log,
		entries:  map[string]string{},
	}
}

func (s *LearnedStore) Language() lang.Language {
	return s.language
}

// Load replaces the in-memory entries with the repository contents. On
// failure the store is left empty and the error is returned for logging.
func (s *LearnedStore) Load(ctx context.Context) error {
	entries, err := s.fetch(ctx, s.repo)
	if err != nil {
		s.mu.Lock()
		s.entries = map[string]string{}
		s.mu.Unlock()
		return fmt.Errorf("loading %s learned exceptions: %w", s.language, err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.log.Debug("loaded learned exceptions", "language", s.language, "count", len(entries))
	return nil
}

func (s *LearnedStore) fetch(ctx context.Context, repo db.Repository) (map[string]string, error) {
	rows, err := repo.ListLearnedExceptions(ctx, string(s.language))
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string, len(rows))
	for _, row := range rows {
		entries[tokenizer.Normalize(row.Word)] = row.Romanization
	}
	return entries, nil
}

func (s *LearnedStore) Get(word string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.entries[word]
	return r, ok
}

func (s *LearnedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the current entries.
func (s *LearnedStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// Upsert merges entries into the store in one transaction and returns the
// subset that actually changed a stored value. The repository is re-read
// inside the transaction, so rows written by another process since Load are
// kept.
func (s *LearnedStore) Upsert(ctx context.Context, entries map[string]string) (map[string]string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	changed := map[string]string{}
	var merged map[string]string
	err := s.repo.WithTx(ctx, func(tx db.Repository) error {
		current, err := s.fetch(ctx, tx)
		if err != nil {
			return err
		}
		for word, roman := range entries {
			word = tokenizer.Normalize(word)
			if word == "" || roman == "" || current[word] == roman {
				continue
			}
			if _, err := tx.UpsertLearnedException(ctx, db.UpsertLearnedExceptionParams{
				Language:     string(s.language),
				Word:         word,
				Romanization: roman,
			}); err != nil {
				return fmt.Errorf("upserting %q: %w", word, err)
			}
			current[word] = roman
			changed[word] = roman
		}
		merged = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving %s learned exceptions: %w", s.language, err)
	}

	s.mu.Lock()
	s.entries = merged
	s.mu.Unlock()
	return changed, nil
}

// Delete removes a learned word. Missing words return db.ErrNoRows.
func (s *LearnedStore) Delete(ctx context.Context, word string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	word = tokenizer.Normalize(word)
	if err := s.repo.DeleteLearnedException(ctx, string(s.language), word); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, word)
	s.mu.Unlock()
	return nil
}
