// Package schwa removes the inherent "a" vowel from romanized Devanagari
// words where it is not pronounced.
package schwa

import (
	"regexp"
	"strings"

	"github.com/jusunglee/indicate/internal/charmap"
	"github.com/jusunglee/indicate/internal/tokenizer"
)

// consonantSound matches one romanized consonant. Longer digraphs come first
// so alternation prefers them.
const consonantSound = `(?:shtr|shch|bhr|ktr|ntr|str|ksh|ddh|dbh|ndh|sth|sph|chh|` +
	`kh|gh|ch|jh|ny|th|dh|ph|bh|sh|ng|tr|gy|hr|hn|hm|hl|hv|hy|ll|sn|sm|tn|nn|` +
	`[kgcjtdnpbmyrlvsh])`

// Rule is one ordered rewrite. Rules are tried in order and the first one
// that matches decides the result.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

func (r Rule) apply(word string) (string, bool) {
	if !r.Pattern.MatchString(word) {
		return word, false
	}
	return r.Pattern.ReplaceAllString(word, r.Replace), true
}

// Nukta-derived sounds (d, z, f, q) immediately before the consonant block
// the first two rules.
var (
	finalSchwa = Rule{
		Name:    "final_schwa",
		Pattern: regexp.MustCompile(`(^|[^dzfq])(` + consonantSound + `)a$`),
		Replace: "${1}${2}",
	}
	DefaultRules = []Rule{
		finalSchwa,
		{
			Name:    "double_schwa",
			Pattern: regexp.MustCompile(`(^|[^dzfq])(` + consonantSound + `)a(` + consonantSound + `)a$`),
			Replace: "${1}${2}${3}",
		},
		{
			Name:    "cluster_retention",
			Pattern: regexp.MustCompile(`([kgcjtdnpbmyrlvshz])a([kgcjtdnpbmyrlvshz]{2})a$`),
			Replace: "${1}a${2}",
		},
		{
			Name:    "nasal_ending",
			Pattern: regexp.MustCompile(`([kgcjtdnpbmyrlvshz])a([mn])a$`),
			Replace: "${1}${2}",
		},
	}
)

// ExceptionSet lists source words that do not follow the generic rules.
type ExceptionSet struct {
	AbnormalDeletion  map[string]struct{}
	AbnormalRetention map[string]struct{}
}

// DefaultExceptions are the built-in schwa exceptions.
func DefaultExceptions() ExceptionSet {
	return ExceptionSet{
		AbnormalDeletion: setOf("सहायता", "अनुभव", "विशेषज्ञ"),
		AbnormalRetention: setOf(
			"कमल", "नमक", "धरती",
			"राम", "श्याम", "विष्णु", "महेश", "सूरज", "चंद्र", "सोम",
		),
	}
}

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[tokenizer.Normalize(w)] = struct{}{}
	}
	return m
}

// Engine applies schwa deletion. The zero value is not usable; use New.
type Engine struct {
	rules      []Rule
	exceptions ExceptionSet
}

type Option func(*Engine)

// WithRules replaces the generic rule list.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithExceptions replaces the exception sets.
func WithExceptions(set ExceptionSet) Option {
	return func(e *Engine) { e.exceptions = set }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		rules:      DefaultRules,
		exceptions: DefaultExceptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Delete returns romanized with unpronounced schwas removed. source is the
// Devanagari word it came from, or "" when unknown.
func (e *Engine) Delete(romanized, source string) string {
	if romanized == "" {
		return romanized
	}
	source = tokenizer.Normalize(source)

	if source != "" {
		if _, ok := e.exceptions.AbnormalDeletion[source]; ok {
			return strings.TrimSuffix(romanized, "a")
		}
		if _, ok := e.exceptions.AbnormalRetention[source]; ok {
			// Medial schwas stay; only a word-final one after a consonant goes.
			out, _ := finalSchwa.apply(romanized)
			return out
		}
	}

	if IsNuktaDerived(romanized, source) {
		return romanized
	}

	if source != "" && conjunctFinal(source) {
		return romanized
	}

	if source != "" && matraBeforeFinalConsonant(source) {
		rs := []rune(source)
		if charmap.IsConsonant(rs[len(rs)-1]) && strings.HasSuffix(romanized, "a") {
			return romanized[:len(romanized)-1]
		}
		return romanized
	}

	for _, r := range e.rules {
		if out, ok := r.apply(romanized); ok {
			return out
		}
	}
	return romanized
}

// IsNuktaDerived reports whether deletion must be skipped because the word
// comes from nukta letters. With a known source the nukta itself is checked;
// otherwise the romanization is inspected.
func IsNuktaDerived(romanized, source string) bool {
	if source != "" {
		return charmap.HasNukta(source)
	}
	if romanized == "" {
		return false
	}
	switch romanized[0] {
	case 'z', 'q', 'f':
		return true
	}
	return strings.Contains(romanized, "gh") || strings.Contains(romanized, "kh")
}

// matraBeforeFinalConsonant reports whether the rune right before the last
// consonant of word is a vowel sign.
func matraBeforeFinalConsonant(word string) bool {
	rs := []rune(word)
	for i := len(rs) - 1; i > 0; i-- {
		if charmap.IsConsonant(rs[i]) {
			return charmap.IsMatra(rs[i-1])
		}
	}
	return false
}

// conjunctFinal reports whether word ends in consonant + virama + consonant.
func conjunctFinal(word string) bool {
	rs := []rune(word)
	n := len(rs)
	return n >= 3 && charmap.IsConsonant(rs[n-1]) && rs[n-2] == charmap.Virama && charmap.IsConsonant(rs[n-3])
}
