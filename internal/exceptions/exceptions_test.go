package exceptions

import (
	"context"
	"errors"
	"testing"

	"github.com/jusunglee/indicate/internal/db"
	"github.com/jusunglee/indicate/internal/db/jsonfile"
	"github.com/jusunglee/indicate/internal/db/sqlite"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *LearnedStore) {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)

	repo, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	learned := NewLearnedStore(lang.Hindi, repo, nil)
	require.NoError(t, learned.Load(context.Background()))

	return NewStore(tables, map[lang.Language]*LearnedStore{lang.Hindi: learned}), learned
}

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Equal(t, "accha", tables.Static[lang.Hindi]["अच्छा"])
	// Marathi inherits the Hindi table.
	assert.Equal(t, "accha", tables.Static[lang.Marathi]["अच्छा"])
	assert.Equal(t, "kay", tables.Static[lang.Marathi]["काय"])
	_, ok := tables.Static[lang.Hindi]["काय"]
	assert.False(t, ok)

	assert.Contains(t, tables.Nukta, "verbs")
	assert.Equal(t, "Bharat", tables.NamedEntities["भारत"])
}

func TestGetTierPrecedence(t *testing.T) {
	store, learned := newTestStore(t)
	ctx := context.Background()

	entry, ok := store.Get("अच्छा", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, Static, entry.Tier)
	assert.Equal(t, "accha", entry.Romanization)

	entry, ok = store.Get("बाज़ार", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, Static, entry.Tier)
	assert.Equal(t, "bazar", entry.Romanization)

	// Precomposed nukta input resolves to the same entry.
	entry, ok = store.Get("\u095Bरूर", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, "zaroor", entry.Romanization)

	entry, ok = store.Get("भारत", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, NamedEntity, entry.Tier)

	// A learned entry never shadows a static one.
	_, err := learned.Upsert(ctx, map[string]string{"अच्छा": "achchha", "अभि": "abhee"})
	require.NoError(t, err)

	entry, ok = store.Get("अच्छा", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, "accha", entry.Romanization)

	entry, ok = store.Get("अभि", lang.Hindi)
	require.True(t, ok)
	assert.Equal(t, Learned, entry.Tier)
	assert.Equal(t, "abhee", entry.Romanization)

	// No learned store for Marathi in this fixture.
	_, ok = store.Get("अभि", lang.Marathi)
	assert.False(t, ok)
}

func TestNamedEntityForms(t *testing.T) {
	store, _ := newTestStore(t)
	forms := store.NamedEntityForms()
	assert.Contains(t, forms, "Mumbai")
	assert.Contains(t, forms, "Mahabharata")
}

func TestStaticWordsIncludesAllTiers(t *testing.T) {
	store, _ := newTestStore(t)
	words := store.StaticWords(lang.Marathi)
	assert.Contains(t, words, "काय")
	assert.Contains(t, words, "भारत")
	assert.Contains(t, words, "पढ़ना")
}

func TestLearnedUpsertReportsOnlyChanges(t *testing.T) {
	_, learned := newTestStore(t)
	ctx := context.Background()

	changed, err := learned.Upsert(ctx, map[string]string{"अभि": "abhee"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"अभि": "abhee"}, changed)

	changed, err = learned.Upsert(ctx, map[string]string{"अभि": "abhee"})
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, 1, learned.Len())
}

func TestLearnedUpsertMergesConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	learned := NewLearnedStore(lang.Hindi, repo, nil)
	require.NoError(t, learned.Load(ctx))

	// Another owner writes behind this store's back.
	_, err = repo.UpsertLearnedException(ctx, db.UpsertLearnedExceptionParams{
		Language: "hindi", Word: "घर", Romanization: "ghar",
	})
	require.NoError(t, err)

	_, err = learned.Upsert(ctx, map[string]string{"अभि": "abhee"})
	require.NoError(t, err)

	snap := learned.Snapshot()
	assert.Equal(t, "ghar", snap["घर"])
	assert.Equal(t, "abhee", snap["अभि"])
}

func TestLearnedPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	repo, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)

	first := NewLearnedStore(lang.Marathi, repo, nil)
	require.NoError(t, first.Load(ctx))
	_, err = first.Upsert(ctx, map[string]string{"पाणी": "paani"})
	require.NoError(t, err)

	second := NewLearnedStore(lang.Marathi, repo, nil)
	require.NoError(t, second.Load(ctx))
	got, ok := second.Get("पाणी")
	require.True(t, ok)
	assert.Equal(t, "paani", got)

	require.NoError(t, second.Delete(ctx, "पाणी"))
	_, ok = second.Get("पाणी")
	assert.False(t, ok)
	assert.True(t, db.IsNoRows(second.Delete(ctx, "पाणी")))
}

type failingRepo struct {
	db.Repository
}

var errDisk = errors.New("disk gone")

func (failingRepo) ListLearnedExceptions(context.Context, string) ([]db.LearnedException, error) {
	return nil, errDisk
}

func (failingRepo) WithTx(ctx context.Context, fn func(db.Repository) error) error {
	return errDisk
}

func TestLearnedLoadFailureLeavesStoreEmpty(t *testing.T) {
	learned := NewLearnedStore(lang.Hindi, failingRepo{}, nil)
	err := learned.Load(context.Background())
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 0, learned.Len())

	_, err = learned.Upsert(context.Background(), map[string]string{"अभि": "abhee"})
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 0, learned.Len())
}
