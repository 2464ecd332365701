// Package tokenizer segments Devanagari words against a charmap table using
// greedy longest match.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/jusunglee/indicate/internal/charmap"
	"golang.org/x/text/unicode/norm"
)

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// Normalize puts text in the form table keys are written in: NFC, which
// splits the precomposed nukta letters into base + U+093C, with zero-width
// characters removed.
func Normalize(text string) string {
	return norm.NFC.String(invisible.Replace(text))
}

// Segment romanizes a single word. Runes with no table entry are copied
// through unchanged. An empty word yields an empty string.
func Segment(word string, table *charmap.Table) string {
	if word == "" {
		return ""
	}
	rs := []rune(Normalize(word))
	n := len(rs)

	var b strings.Builder
	b.Grow(n * 2)

	for i := 0; i < n; {
		if i+1 < n && rs[i+1] == charmap.Nukta {
			if roman, size, ok := longest(rs, i, table, 2); ok {
				b.WriteString(roman)
				i += size
				continue
			}
			// No nukta entry: keep the base and drop the modifier.
			if roman, ok := table.Lookup(string(rs[i])); ok {
				b.WriteString(roman)
				i += 2
				continue
			}
		}

		if roman, size, ok := longest(rs, i, table, 2); ok {
			b.WriteString(roman)
			i += size
			continue
		}

		if i+1 < n && rs[i+1] == charmap.Virama {
			if roman, ok := halfForm(rs, i, table); ok {
				b.WriteString(roman)
				i += 2
				continue
			}
		}

		if roman, ok := table.Lookup(string(rs[i])); ok {
			b.WriteString(roman)
		} else {
			b.WriteRune(rs[i])
		}
		i++
	}
	return b.String()
}

// longest tries keys starting at i from the table's longest key length down
// to minLen runes and returns the first hit.
func longest(rs []rune, i int, table *charmap.Table, minLen int) (string, int, bool) {
	maxLen := min(table.MaxKeyLen(), len(rs)-i)
	for size := maxLen; size >= minLen; size-- {
		if roman, ok := table.Lookup(string(rs[i : i+size])); ok {
			return roman, size, true
		}
	}
	return "", 0, false
}

// halfForm handles consonant+virama pairs the table has no entry for. When
// at least one consonant follows before the next vowel, the consonant's
// inherent "a" is dropped.
func halfForm(rs []rune, i int, table *charmap.Table) (string, bool) {
	start := i + 2
	end := start
	for end < len(rs) && !charmap.IsVowelBoundary(rs[end]) {
		end++
	}
	if start >= end {
		return "", false
	}
	roman, ok := table.Lookup(string(rs[i]))
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(roman, "a"), true
}

// SplitPunct separates leading and trailing punctuation (including the
// danda marks) from the core of a whitespace-delimited word.
func SplitPunct(word string) (prefix, core, suffix string) {
	rs := []rune(word)
	start, end := 0, len(rs)
	for start < end && unicode.IsPunct(rs[start]) {
		start++
	}
	for end > start && unicode.IsPunct(rs[end-1]) {
		end--
	}
	return string(rs[:start]), string(rs[start:end]), string(rs[end:])
}
