// Package exceptions resolves whole-word romanizations that bypass the
// tokenizer. Lookups go through three tiers in fixed order: static tables,
// named entities, then corrections learned at runtime.
package exceptions

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/tokenizer"
	"github.com/samber/lo"
)

//go:embed data/*.json
var dataFS embed.FS

type Tier int

const (
	Static Tier = iota
	NamedEntity
	Learned
)

func (t Tier) String() string {
	switch t {
	case Static:
		return "static"
	case NamedEntity:
		return "named_entity"
	case Learned:
		return "learned"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Entry is a resolved exception.
type Entry struct {
	Word         string
	Romanization string
	Tier         Tier
	Language     lang.Language
}

// Tables is the read-only reference data behind the static and named-entity
// tiers.
type Tables struct {
	Static map[lang.Language]map[string]string
	// Nukta holds loanword spellings by category and applies to every language.
	Nukta         map[string]map[string]string
	NamedEntities map[string]string

	nuktaFlat map[string]string
}

var (
	tablesOnce sync.Once
	tables     *Tables
	tablesErr  error
)

// DefaultTables parses the embedded data files once.
func DefaultTables() (*Tables, error) {
	tablesOnce.Do(func() {
		tables, tablesErr = loadTables()
	})
	return tables, tablesErr
}

func loadTables() (*Tables, error) {
	hindi, err := readFlat("data/static_hindi.json")
	if err != nil {
		return nil, err
	}
	marathiOnly, err := readFlat("data/static_marathi.json")
	if err != nil {
		return nil, err
	}
	named, err := readFlat("data/named_entities.json")
	if err != nil {
		return nil, err
	}

	var nukta map[string]map[string]string
	if err := readJSON("data/nukta_exceptions.json", &nukta); err != nil {
		return nil, err
	}

	marathi := maps.Clone(hindi)
	maps.Copy(marathi, marathiOnly)

	return NewTables(map[lang.Language]map[string]string{
		lang.Hindi:   hindi,
		lang.Marathi: marathi,
	}, nukta, named), nil
}

// NewTables builds reference tables from explicit data. Keys are normalized
// to NFC.
func NewTables(static map[lang.Language]map[string]string, nukta map[string]map[string]string, named map[string]string) *Tables {
	t := &Tables{
		Static:        make(map[lang.Language]map[string]string, len(static)),
		Nukta:         make(map[string]map[string]string, len(nukta)),
		NamedEntities: normalizeKeys(named),
		nuktaFlat:     map[string]string{},
	}
	for l, words := range static {
		t.Static[l] = normalizeKeys(words)
	}

	// On duplicate words the category that sorts first wins.
	categories := lo.Keys(nukta)
	sort.Strings(categories)
	for _, category := range categories {
		words := normalizeKeys(nukta[category])
		t.Nukta[category] = words
		for w, r := range words {
			if _, ok := t.nuktaFlat[w]; !ok {
				t.nuktaFlat[w] = r
			}
		}
	}
	return t
}

func readFlat(name string) (map[string]string, error) {
	var m map[string]string
	if err := readJSON(name, &m); err != nil {
		return nil, err
	}
	return normalizeKeys(m), nil
}

func readJSON(name string, v any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func normalizeKeys(m map[string]string) map[string]string {
	return lo.MapKeys(m, func(_ string, k string) string {
		return tokenizer.Normalize(k)
	})
}

// Store layers the reference tables over the per-language learned stores.
type Store struct {
	tables  *Tables
	learned map[lang.Language]*LearnedStore
}

func NewStore(tables *Tables, learned map[lang.Language]*LearnedStore) *Store {
	if learned == nil {
		learned = map[lang.Language]*LearnedStore{}
	}
	return &Store{tables: tables, learned: learned}
}

// Get resolves word in strict tier order: static (language table, then the
// shared nukta table), named entity, learned.
func (s *Store) Get(word string, l lang.Language) (Entry, bool) {
	word = tokenizer.Normalize(word)
	entry := Entry{Word: word, Language: l}

	if r, ok := s.tables.Static[l][word]; ok {
		entry.Romanization, entry.Tier = r, Static
		return entry, true
	}
	if r, ok := s.tables.nuktaFlat[word]; ok {
		entry.Romanization, entry.Tier = r, Static
		return entry, true
	}
	if r, ok := s.tables.NamedEntities[word]; ok {
		entry.Romanization, entry.Tier = r, NamedEntity
		return entry, true
	}
	if ls, ok := s.learned[l]; ok {
		if r, ok := ls.Get(word); ok {
			entry.Romanization, entry.Tier = r, Learned
			return entry, true
		}
	}
	return Entry{}, false
}

// Learned returns the learned store for a language, or nil.
func (s *Store) Learned(l lang.Language) *LearnedStore {
	return s.learned[l]
}

// NamedEntityForms returns the canonical capitalized named-entity values.
func (s *Store) NamedEntityForms() []string {
	forms := lo.Uniq(lo.Values(s.tables.NamedEntities))
	sort.Strings(forms)
	return forms
}

// StaticWords lists every word in the static and named-entity tiers for a
// language.
func (s *Store) StaticWords(l lang.Language) []string {
	words := lo.Keys(s.tables.Static[l])
	words = append(words, lo.Keys(s.tables.nuktaFlat)...)
	words = append(words, lo.Keys(s.tables.NamedEntities)...)
	words = lo.Uniq(words)
	sort.Strings(words)
	return words
}
