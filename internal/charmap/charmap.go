// Package charmap holds the Devanagari grapheme tables used by the tokenizer.
//
// Tables are composed from small row definitions (consonant stems, vowel
// signs, conjunct stems) instead of a hand-enumerated grid, so every
// consonant and conjunct gets the same set of derived keys:
//
//	stem        -> stem + "a"
//	stem+matra  -> stem + matra romanization
//	stem+virama -> stem
package charmap

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/jusunglee/indicate/internal/lang"
)

// MaxKeyLen is the longest key, in runes, that the tokenizer will try.
const MaxKeyLen = 6

// Table maps grapheme sequences to romanizations. Immutable after build.
type Table struct {
	entries map[string]string
	maxLen  int
}

// Lookup returns the romanization for an exact key.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// MaxKeyLen returns the longest key length present in the table, in runes.
func (t *Table) MaxKeyLen() int {
	return t.maxLen
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// FromEntries builds a table from an explicit key set. Keys longer than
// MaxKeyLen runes are rejected.
func FromEntries(entries map[string]string) (*Table, error) {
	t := &Table{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		if err := t.add(k, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(key, roman string) error {
	n := utf8.RuneCountInString(key)
	if n == 0 || n > MaxKeyLen {
		return fmt.Errorf("charmap key %q has %d runes, want 1..%d", key, n, MaxKeyLen)
	}
	t.entries[key] = roman
	if n > t.maxLen {
		t.maxLen = n
	}
	return nil
}

var (
	once   sync.Once
	tables map[lang.Language]*Table
)

// For returns the process-wide table for a language. Unknown languages
// return nil.
func For(l lang.Language) *Table {
	once.Do(func() {
		hindi := build(nil)
		marathi := build(marathiOverrides)
		tables = map[lang.Language]*Table{lang.Hindi: hindi, lang.Marathi: marathi}
	})
	return tables[l]
}

func build(overrides []consonant) *Table {
	t := &Table{entries: make(map[string]string, 4096)}
	must := func(k, v string) {
		if err := t.add(k, v); err != nil {
			panic(err)
		}
	}

	for _, v := range independentVowels {
		must(v.key, v.roman)
	}
	for _, m := range vowelSigns {
		must(m.key, m.roman)
	}
	for _, s := range signs {
		must(s.key, s.roman)
	}
	for i := range 10 {
		must(string(rune('०'+i)), string(rune('0'+i)))
	}

	rows := make([]consonant, 0, len(consonants)+len(nuktaConsonants)+len(conjuncts)+len(overrides))
	rows = append(rows, consonants...)
	rows = append(rows, nuktaConsonants...)
	rows = append(rows, conjuncts...)
	rows = append(rows, overrides...)
	for _, c := range rows {
		must(c.key, c.stem+"a")
		must(c.key+string(Virama), c.half())
		for _, m := range vowelSigns {
			must(c.key+m.key, c.stem+m.attached)
		}
	}

	// Two-vowel combinations like अं and अः.
	must("अं", "an")
	must("अः", "ah")

	return t
}
