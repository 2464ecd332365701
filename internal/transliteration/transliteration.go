// Package transliteration runs the Devanagari to Roman pipeline: exception
// lookup, tokenization and schwa deletion per word, then context rules and
// capitalization over the joined text. It also owns learning from user
// corrections.
package transliteration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jusunglee/indicate/internal/capitalize"
	"github.com/jusunglee/indicate/internal/charmap"
	"github.com/jusunglee/indicate/internal/contextual"
	"github.com/jusunglee/indicate/internal/db"
	"github.com/jusunglee/indicate/internal/db/sqlite"
	"github.com/jusunglee/indicate/internal/detector"
	"github.com/jusunglee/indicate/internal/exceptions"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/metrics"
	"github.com/jusunglee/indicate/internal/schwa"
	"github.com/jusunglee/indicate/internal/tokenizer"
	"golang.org/x/sync/errgroup"
)

const DefaultCacheSize = 4096

// Title detection limits for the capitalizer.
const (
	titleMaxRunes = 100
	titleMaxWords = 10
)

type Config struct {
	// Repository backs the learned tier. When nil an in-memory SQLite
	// database is used and learned entries last for the engine's lifetime.
	Repository db.Repository
	// Defaults holds per-language feature defaults. Missing languages use
	// AllEnabled.
	Defaults map[lang.Language]FeatureFlags
	// CacheSize bounds the per-word memo cache. Zero means DefaultCacheSize.
	CacheSize int
	// DetectorOptions tune promotion during LearnFromCorrections.
	DetectorOptions []detector.Option
	Logger          *slog.Logger
}

type cacheKey struct {
	language lang.Language
	word     string
	schwa    bool
}

// Engine is safe for concurrent use.
type Engine struct {
	log      *slog.Logger
	defaults map[lang.Language]FeatureFlags
	detOpts  []detector.Option

	store      *exceptions.Store
	schwa      *schwa.Engine
	capitalize *capitalize.Capitalizer
	cache      *lru.Cache[cacheKey, string]

	repo     db.Repository
	ownsRepo bool
}

// New loads the reference tables and every language's learned tier. A
// learned tier that fails to load is logged and starts empty.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	tables, err := exceptions.DefaultTables()
	if err != nil {
		return nil, fmt.Errorf("loading exception tables: %w", err)
	}

	repo, owns := cfg.Repository, false
	if repo == nil {
		mem, err := sqlite.New(ctx, ":memory:")
		if err != nil {
			return nil, fmt.Errorf("opening in-memory learned store: %w", err)
		}
		repo, owns = mem, true
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating word cache: %w", err)
	}

	learned := make(map[lang.Language]*exceptions.LearnedStore, len(lang.Devanagari))
	for _, l := range lang.Devanagari {
		learned[l] = exceptions.NewLearnedStore(l, repo, log)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ls := range learned {
		g.Go(func() error {
			if err := ls.Load(gctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Error("learned exceptions unavailable", "language", ls.Language(), "error", err)
			}
			metrics.LearnedStoreSize.WithLabelValues(string(ls.Language())).Set(float64(ls.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if owns {
			repo.Close()
		}
		return nil, err
	}

	store := exceptions.NewStore(tables, learned)
	return &Engine{
		log:        log,
		defaults:   cfg.Defaults,
		detOpts:    cfg.DetectorOptions,
		store:      store,
		schwa:      schwa.New(),
		capitalize: capitalize.New(store.NamedEntityForms()),
		cache:      cache,
		repo:       repo,
		ownsRepo:   owns,
	}, nil
}

// Close releases the learned-tier repository if the engine opened it.
func (e *Engine) Close() error {
	if e.ownsRepo {
		return e.repo.Close()
	}
	return nil
}

// Flags resolves the effective feature flags for a call.
func (e *Engine) Flags(l lang.Language, overrides map[Feature]bool) FeatureFlags {
	base, ok := e.defaults[l]
	if !ok {
		base = AllEnabled
	}
	return base.With(overrides)
}

// Transliterate romanizes text. English text is returned unchanged. The
// only error is a *ValidationError for an unsupported language; failures
// inside the pipeline fall back to the source word.
func (e *Engine) Transliterate(text string, l lang.Language, overrides map[Feature]bool) (string, error) {
	if err := validateLanguage(l, true); err != nil {
		return "", err
	}
	if text == "" {
		return "", nil
	}
	if l == lang.English {
		return text, nil
	}

	start := time.Now()
	defer func() {
		metrics.TransliterationsTotal.WithLabelValues(string(l)).Inc()
		metrics.TransliterationDuration.WithLabelValues(string(l)).Observe(time.Since(start).Seconds())
	}()

	flags := e.Flags(l, overrides)
	analyzer := contextual.New(func(w string, l lang.Language) string {
		return e.word(w, l, flags)
	}, contextual.WithLogger(e.log))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		source := strings.Fields(line)
		out := make([]string, len(source))
		for j, w := range source {
			out[j] = e.word(w, l, flags)
		}
		joined := strings.Join(out, " ")
		if flags.ContextAware {
			joined = analyzer.Apply(line, joined, l)
		}
		lines[i] = joined
	}
	result := strings.Join(lines, "\n")

	if flags.AutoCapitalization {
		result = e.capitalize.Text(result, isTitle(result))
	}
	return capitalize.UpperFirst(result), nil
}

// word romanizes one whitespace-delimited token. A panic anywhere in the
// per-word pipeline yields the token unchanged.
func (e *Engine) word(raw string, l lang.Language, flags FeatureFlags) (out string) {
	defer func() {
		if r := recover(); r != nil {
			metrics.WordFailures.Inc()
			e.log.Warn("word transliteration failed", "word", raw, "language", l, "panic", r)
			out = raw
		}
	}()

	prefix, core, suffix := tokenizer.SplitPunct(raw)
	if core == "" {
		return e.romanize(raw, l, false)
	}
	prefix, suffix = e.romanize(prefix, l, false), e.romanize(suffix, l, false)

	if flags.AutoExceptions {
		if entry, ok := e.store.Get(core, l); ok {
			metrics.ExceptionHits.WithLabelValues(entry.Tier.String()).Inc()
			return prefix + entry.Romanization + suffix
		}
	}
	return prefix + e.romanize(core, l, flags.StatisticalSchwa) + suffix
}

// romanize is the memoized tokenizer and schwa stage.
func (e *Engine) romanize(word string, l lang.Language, deleteSchwa bool) string {
	if word == "" {
		return ""
	}
	key := cacheKey{language: l, word: word, schwa: deleteSchwa}
	if v, ok := e.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return v
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	out := tokenizer.Segment(word, charmap.For(l))
	if deleteSchwa {
		out = e.schwa.Delete(out, word)
	}
	e.cache.Add(key, out)
	return out
}

// isTitle treats short output with no sentence punctuation as a title.
func isTitle(text string) bool {
	return !strings.ContainsAny(text, ".!?") &&
		utf8.RuneCountInString(text) < titleMaxRunes &&
		len(strings.Fields(text)) <= titleMaxWords
}

// LearnFromCorrections records user corrections for l and returns the
// learned entries that changed the store. Inputs are aligned by index;
// corrected may be shorter than originals. Statistics are scoped to the
// batch, so replaying a batch converges. Persistence errors are returned
// and leave the learned tier as it was.
func (e *Engine) LearnFromCorrections(ctx context.Context, originals, autos, corrected []string, l lang.Language) (map[string]string, error) {
	if err := validateLanguage(l, false); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.LearnDuration.Observe(time.Since(start).Seconds()) }()

	n := min(len(originals), len(autos))
	if n != len(originals) || n != len(autos) {
		e.log.Warn("correction inputs differ in length", "originals", len(originals), "autos", len(autos))
	}
	batch := make([]detector.Correction, 0, n)
	for i := 0; i < n; i++ {
		c := detector.Correction{Original: originals[i], Auto: autos[i]}
		if i < len(corrected) {
			c.Corrected = corrected[i]
		}
		batch = append(batch, c)
	}

	table := charmap.For(l)
	opts := append([]detector.Option{
		detector.WithLogger(e.log),
		detector.WithKnownWords(func(w string) bool {
			_, ok := e.store.Get(w, l)
			return ok
		}),
	}, e.detOpts...)
	det := detector.New(func(w string) string { return tokenizer.Segment(w, table) }, e.schwa, opts...)

	candidates := det.Learn(batch)
	for word := range candidates {
		// Static and named-entity words always win over learned ones.
		if entry, ok := e.store.Get(word, l); ok && entry.Tier != exceptions.Learned {
			e.log.Debug("ignoring correction for reference word", "word", word, "tier", entry.Tier)
			delete(candidates, word)
		}
	}

	learned := e.store.Learned(l)
	changed, err := learned.Upsert(ctx, candidates)
	if err != nil {
		metrics.CorrectionBatches.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CorrectionBatches.WithLabelValues("ok").Inc()
	metrics.LearnedEntries.WithLabelValues(string(l)).Add(float64(len(changed)))
	metrics.LearnedStoreSize.WithLabelValues(string(l)).Set(float64(learned.Len()))
	e.log.Info("learned from corrections", "language", l, "records", len(batch), "candidates", len(candidates), "changed", len(changed))
	return changed, nil
}

// AddException stores a manual learned entry.
func (e *Engine) AddException(ctx context.Context, word, romanization string, l lang.Language) error {
	if err := validateLanguage(l, false); err != nil {
		return err
	}
	word = tokenizer.Normalize(strings.TrimSpace(word))
	romanization = strings.TrimSpace(romanization)
	if word == "" {
		return &ValidationError{Field: "word", Value: word}
	}
	if romanization == "" {
		return &ValidationError{Field: "romanization", Value: romanization}
	}
	learned := e.store.Learned(l)
	if _, err := learned.Upsert(ctx, map[string]string{word: romanization}); err != nil {
		return err
	}
	metrics.LearnedStoreSize.WithLabelValues(string(l)).Set(float64(learned.Len()))
	return nil
}

// RemoveException deletes a learned entry. Missing words return an error
// matching db.IsNoRows.
func (e *Engine) RemoveException(ctx context.Context, word string, l lang.Language) error {
	if err := validateLanguage(l, false); err != nil {
		return err
	}
	learned := e.store.Learned(l)
	if err := learned.Delete(ctx, word); err != nil {
		return fmt.Errorf("removing %q: %w", word, err)
	}
	metrics.LearnedStoreSize.WithLabelValues(string(l)).Set(float64(learned.Len()))
	return nil
}

// Learned returns a copy of the learned tier for l.
func (e *Engine) Learned(l lang.Language) map[string]string {
	ls := e.store.Learned(l)
	if ls == nil {
		return map[string]string{}
	}
	return ls.Snapshot()
}

// Lookup resolves word against the exception tiers only.
func (e *Engine) Lookup(word string, l lang.Language) (exceptions.Entry, bool) {
	return e.store.Get(word, l)
}

// StaticWords lists the reference-table words for l.
func (e *Engine) StaticWords(l lang.Language) []string {
	return e.store.StaticWords(l)
}
