// Package contextual rewrites transliterated text using the surrounding
// source words: honorifics, word+number pairs, hyphenated compounds and a
// small table of ambiguous words.
package contextual

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/tokenizer"
	"github.com/samber/lo"
)

// WordFunc romanizes a single source word through the full per-word
// pipeline.
type WordFunc func(word string, l lang.Language) string

// Honorifics maps Devanagari honorifics to their fixed romanization.
var Honorifics = map[string]string{
	"श्री":    "Shri",
	"श्रीमती": "Smt",
	"डॉ":     "Dr",
	"पंडित":  "Pt",
	"प्रो":   "Prof",
}

type Sense string

const (
	Default Sense = "default"
	Past    Sense = "past"
	Future  Sense = "future"
)

// Ambiguity holds the variants of a word whose romanization depends on
// context. Variants missing a sense fall back to Default.
type Ambiguity map[Sense]string

var Ambiguous = map[string]Ambiguity{
	"कल": {Default: "kal", Past: "kal", Future: "kal"},
	"और": {Default: "aur"},
	"पर": {Default: "par"},
}

var (
	pastIndicators   = []string{"गया", "था", "थी", "गये", "गयी", "बीता", "पिछला"}
	futureIndicators = []string{"आएगा", "होगा", "होगी", "आने वाला", "अगला"}
)

type Analyzer struct {
	word       WordFunc
	honorifics map[string]string
	ambiguous  map[string]Ambiguity
	log        *slog.Logger
}

type Option func(*Analyzer)

func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithAmbiguous replaces the ambiguity table.
func WithAmbiguous(table map[string]Ambiguity) Option {
	return func(a *Analyzer) { a.ambiguous = table }
}

func New(word WordFunc, opts ...Option) *Analyzer {
	a := &Analyzer{
		word:       word,
		honorifics: Honorifics,
		ambiguous:  Ambiguous,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply returns transliterated with context rules applied. Both texts must
// have the same number of whitespace-separated words; otherwise it is
// returned unchanged.
func (a *Analyzer) Apply(source, transliterated string, l lang.Language) string {
	src := strings.Fields(source)
	out := strings.Fields(transliterated)
	if len(src) == 0 {
		return transliterated
	}
	if len(src) != len(out) {
		a.log.Debug("context rules skipped: word counts differ", "source_words", len(src), "transliterated_words", len(out))
		return transliterated
	}

	a.applyPatterns(src, out, l)
	a.disambiguate(src, out, source)
	return strings.Join(out, " ")
}

func (a *Analyzer) applyPatterns(src, out []string, l lang.Language) {
	for i := 0; i < len(src); i++ {
		_, core, _ := tokenizer.SplitPunct(src[i])
		core = tokenizer.Normalize(core)

		if h, ok := a.honorifics[core]; ok && i+1 < len(src) {
			out[i] = replaceCore(out[i], h)
			_, name, _ := tokenizer.SplitPunct(src[i+1])
			out[i+1] = replaceCore(out[i+1], capitalizeFirst(a.word(name, l)))
			i++
			continue
		}

		if i+1 < len(src) && isNumber(src[i+1]) {
			out[i] = replaceCore(out[i], a.word(core, l))
			if isASCIIDigits(src[i+1]) {
				out[i+1] = src[i+1]
			}
			i++
			continue
		}

		if strings.Contains(core, "-") {
			parts := lo.Map(strings.Split(core, "-"), func(p string, _ int) string {
				return a.word(p, l)
			})
			out[i] = replaceCore(out[i], strings.Join(parts, "-"))
		}
	}
}

func (a *Analyzer) disambiguate(src, out []string, full string) {
	for i, w := range src {
		_, core, _ := tokenizer.SplitPunct(w)
		core = tokenizer.Normalize(core)
		variants, ok := a.ambiguous[core]
		if !ok {
			continue
		}
		var prev, next string
		if i > 0 {
			prev = src[i-1]
		}
		if i+1 < len(src) {
			next = src[i+1]
		}
		sense := DetectSense(core, prev, next, full)
		v, ok := variants[sense]
		if !ok {
			v = variants[Default]
		}
		if v != "" {
			out[i] = replaceCore(out[i], v)
		}
	}
}

// DetectSense picks the sense of an ambiguous word from its neighbours,
// then from the whole sentence.
func DetectSense(word, prev, next, full string) Sense {
	if word != "कल" {
		return Default
	}
	switch {
	case lo.Contains(pastIndicators, prev) || lo.Contains(pastIndicators, next):
		return Past
	case lo.Contains(futureIndicators, prev) || lo.Contains(futureIndicators, next):
		return Future
	case containsAny(full, pastIndicators):
		return Past
	case containsAny(full, futureIndicators):
		return Future
	}
	return Default
}

func containsAny(text string, needles []string) bool {
	return lo.SomeBy(needles, func(n string) bool { return strings.Contains(text, n) })
}

// replaceCore swaps the non-punctuation part of token for core.
func replaceCore(token, core string) string {
	prefix, _, suffix := tokenizer.SplitPunct(token)
	return prefix + core + suffix
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isNumber(word string) bool {
	_, core, _ := tokenizer.SplitPunct(word)
	return core != "" && strings.IndexFunc(core, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

func isASCIIDigits(word string) bool {
	return word != "" && strings.IndexFunc(word, func(r rune) bool { return r < '0' || r > '9' }) < 0
}
