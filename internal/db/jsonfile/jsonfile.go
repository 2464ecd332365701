// Package jsonfile stores learned exceptions as one JSON object per language,
// mapping source word to romanization:
//
//	<dir>/hindi_exceptions.json
//	<dir>/marathi_exceptions.json
//
// Every write rewrites the whole file through a temp file and rename.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jusunglee/indicate/internal/db"
)

// Repository implements db.Repository on top of a directory of JSON files.
type Repository struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating exception dir: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// Path returns the backing file for a language.
func (r *Repository) Path(language string) string {
	return filepath.Join(r.dir, language+"_exceptions.json")
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) ListLearnedExceptions(ctx context.Context, language string) ([]db.LearnedException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, modTime, err := r.read(language)
	if err != nil {
		return nil, err
	}
	return toRows(language, entries, modTime), nil
}

func (r *Repository) UpsertLearnedException(ctx context.Context, arg db.UpsertLearnedExceptionParams) (db.LearnedException, error) {
	var row db.LearnedException
	err := r.WithTx(ctx, func(tx db.Repository) error {
		var err error
		row, err = tx.UpsertLearnedException(ctx, arg)
		return err
	})
	return row, err
}

func (r *Repository) DeleteLearnedException(ctx context.Context, language, word string) error {
	return r.WithTx(ctx, func(tx db.Repository) error {
		return tx.DeleteLearnedException(ctx, language, word)
	})
}

func (r *Repository) CountLearnedExceptions(ctx context.Context, language string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, _, err := r.read(language)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

// WithTx holds the directory lock for the duration of fn. Files touched by
// fn are read once, edited in memory, and written back only if fn succeeds.
func (r *Repository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &txRepository{
		parent: r,
		files:  make(map[string]map[string]string),
		dirty:  make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for language := range tx.dirty {
		if err := r.write(language, tx.files[language]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) read(language string) (map[string]string, time.Time, error) {
	path := r.Path(language)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading %s: %w", path, err)
	}

	entries := map[string]string{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, time.Time{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	return entries, modTime, nil
}

func (r *Repository) write(language string, entries map[string]string) error {
	path := r.Path(language)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(r.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// txRepository edits in-memory copies of the files while the parent's lock
// is held.
type txRepository struct {
	parent *Repository
	files  map[string]map[string]string
	dirty  map[string]bool
}

func (t *txRepository) load(language string) (map[string]string, error) {
	if entries, ok := t.files[language]; ok {
		return entries, nil
	}
	entries, _, err := t.parent.read(language)
	if err != nil {
		return nil, err
	}
	t.files[language] = entries
	return entries, nil
}

func (t *txRepository) ListLearnedExceptions(ctx context.Context, language string) ([]db.LearnedException, error) {
	entries, err := t.load(language)
	if err != nil {
		return nil, err
	}
	return toRows(language, entries, time.Time{}), nil
}

func (t *txRepository) UpsertLearnedException(ctx context.Context, arg db.UpsertLearnedExceptionParams) (db.LearnedException, error) {
	entries, err := t.load(arg.Language)
	if err != nil {
		return db.LearnedException{}, err
	}
	entries[arg.Word] = arg.Romanization
	t.dirty[arg.Language] = true
	return db.LearnedException{
		Language:     arg.Language,
		Word:         arg.Word,
		Romanization: arg.Romanization,
		UpdatedAt:    time.Now(),
	}, nil
}

func (t *txRepository) DeleteLearnedException(ctx context.Context, language, word string) error {
	entries, err := t.load(language)
	if err != nil {
		return err
	}
	if _, ok := entries[word]; !ok {
		return db.ErrNoRows
	}
	delete(entries, word)
	t.dirty[language] = true
	return nil
}

func (t *txRepository) CountLearnedExceptions(ctx context.Context, language string) (int64, error) {
	entries, err := t.load(language)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

func (t *txRepository) WithTx(ctx context.Context, fn func(repo db.Repository) error) error {
	return fn(t)
}

func (t *txRepository) Close() error {
	return nil
}

func toRows(language string, entries map[string]string, updated time.Time) []db.LearnedException {
	rows := make([]db.LearnedException, 0, len(entries))
	for word, roman := range entries {
		rows = append(rows, db.LearnedException{
			Language:     language,
			Word:         word,
			Romanization: roman,
			UpdatedAt:    updated,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Word < rows[j].Word })
	return rows
}
