// Package detector learns word-level exceptions from transliteration output
// and user corrections.
//
// Every analyzed word pair bumps a frequency counter and records which rule
// violations the automatic output showed. A word is promoted once it has
// been seen MinFrequency times and one violation type accounts for at least
// Confidence of those sightings; its replacement is the base transliteration
// with a fix for that violation applied. Explicit corrections skip the
// statistics and are returned as-is.
package detector

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/jusunglee/indicate/internal/schwa"
	"github.com/jusunglee/indicate/internal/tokenizer"
	"github.com/samber/lo"
)

type Violation string

const (
	ConsonantCluster Violation = "consonant_cluster"
	UnusualCluster   Violation = "unusual_cluster"
	SchwaDeletion    Violation = "schwa_deletion"
)

// violationOrder fixes which violation wins when several pass the
// confidence threshold.
var violationOrder = []Violation{SchwaDeletion, ConsonantCluster, UnusualCluster}

const (
	DefaultMinFrequency = 3
	DefaultConfidence   = 0.75
	// DefaultSchwaThreshold is the minimum syllable-model deletion
	// probability for the final schwa before a kept "a" counts as a
	// violation.
	DefaultSchwaThreshold = 0.5
)

var unusualCluster = regexp.MustCompile(`[bcdfghjklmnpqrstvwxyz]{3,}`)

// BaseFunc re-derives the plain tokenizer output for a source word.
type BaseFunc func(word string) string

// Correction is one user-submitted fix.
type Correction struct {
	Original  string
	Auto      string
	Corrected string
}

type Detector struct {
	base         BaseFunc
	schwa        *schwa.Engine
	minFrequency int
	confidence   float64
	schwaMin     float64
	known        func(word string) bool
	log          *slog.Logger

	mu         sync.Mutex
	frequency  map[string]int
	violations map[string][][]Violation
}

type Option func(*Detector)

func WithThresholds(minFrequency int, confidence float64) Option {
	return func(d *Detector) {
		d.minFrequency = minFrequency
		d.confidence = confidence
	}
}

func WithSchwaThreshold(p float64) Option {
	return func(d *Detector) { d.schwaMin = p }
}

// WithKnownWords skips statistical promotion for words the caller already
// has an exception for. Explicit corrections are not affected.
func WithKnownWords(known func(word string) bool) Option {
	return func(d *Detector) { d.known = known }
}

func WithLogger(log *slog.Logger) Option {
	return func(d *Detector) { d.log = log }
}

func New(base BaseFunc, engine *schwa.Engine, opts ...Option) *Detector {
	d := &Detector{
		base:         base,
		schwa:        engine,
		minFrequency: DefaultMinFrequency,
		confidence:   DefaultConfidence,
		schwaMin:     DefaultSchwaThreshold,
		known:        func(string) bool { return false },
		log:          slog.Default(),
		frequency:    map[string]int{},
		violations:   map[string][][]Violation{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze aligns original and transliterated text word by word and returns
// candidate exceptions. expected may be empty. Pairs whose word counts
// differ are skipped.
func (d *Detector) Analyze(original, transliterated, expected string) map[string]string {
	origWords := strings.Fields(original)
	transWords := strings.Fields(transliterated)
	if len(origWords) != len(transWords) {
		d.log.Debug("skipping unaligned pair", "original_words", len(origWords), "transliterated_words", len(transWords))
		return map[string]string{}
	}

	var expWords []string
	if expected != "" {
		expWords = strings.Fields(expected)
		if len(expWords) != len(origWords) {
			expWords = nil
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	candidates := map[string]string{}
	for i, raw := range origWords {
		_, word, _ := tokenizer.SplitPunct(raw)
		word = tokenizer.Normalize(word)
		_, trans, _ := tokenizer.SplitPunct(transWords[i])
		if word == "" || trans == "" {
			continue
		}

		if expWords != nil {
			_, want, _ := tokenizer.SplitPunct(expWords[i])
			if want != "" && !strings.EqualFold(want, trans) {
				candidates[word] = want
			}
		}

		d.frequency[word]++
		d.violations[word] = append(d.violations[word], d.detect(word, trans))

		if _, ok := candidates[word]; ok || d.known(word) {
			continue
		}
		if fix, ok := d.promote(word); ok && !strings.EqualFold(fix, trans) {
			candidates[word] = fix
		}
	}
	return candidates
}

// Learn runs a batch of corrections and merges the candidates. Later
// records win for the same word.
func (d *Detector) Learn(batch []Correction) map[string]string {
	out := map[string]string{}
	for _, c := range batch {
		for word, roman := range d.Analyze(c.Original, c.Auto, c.Corrected) {
			out[word] = roman
		}
	}
	return out
}

// Frequency returns how many times a word has been analyzed.
func (d *Detector) Frequency(word string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frequency[tokenizer.Normalize(word)]
}

// Violations returns the per-sighting violation tags recorded for a word.
func (d *Detector) Violations(word string) [][]Violation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]Violation(nil), d.violations[tokenizer.Normalize(word)]...)
}

func (d *Detector) detect(word, trans string) []Violation {
	t := strings.ToLower(trans)
	var out []Violation
	if hasDoubledConsonant(t) {
		out = append(out, ConsonantCluster)
	}
	if unusualCluster.MatchString(t) {
		out = append(out, UnusualCluster)
	}
	if d.schwa != nil && d.schwa.Delete(t, word) != t && schwaScore(word) >= d.schwaMin {
		out = append(out, SchwaDeletion)
	}
	return out
}

// schwaScore is the syllable model's deletion probability for the inherent
// vowel of the word's last syllable, or 0 when that syllable has none.
func schwaScore(word string) float64 {
	syllables := schwa.Syllabify(word)
	if len(syllables) == 0 || !schwa.InherentVowel(syllables[len(syllables)-1]) {
		return 0
	}
	return schwa.DeletionProbability(word, len(syllables)-1)
}

// promote returns a fixed romanization when the word's statistics pass both
// thresholds. Callers hold d.mu.
func (d *Detector) promote(word string) (string, bool) {
	freq := d.frequency[word]
	if freq < d.minFrequency {
		return "", false
	}
	counts := lo.CountValues(lo.Flatten(lo.Map(d.violations[word], func(vs []Violation, _ int) []Violation {
		return lo.Uniq(vs)
	})))
	for _, v := range violationOrder {
		if float64(counts[v])/float64(freq) < d.confidence {
			continue
		}
		fix := d.fix(v, word)
		if fix == "" {
			continue
		}
		d.log.Debug("promoting word", "word", word, "violation", v, "frequency", freq, "fix", fix)
		return fix, true
	}
	return "", false
}

func (d *Detector) fix(v Violation, word string) string {
	base := strings.ToLower(d.base(word))
	switch v {
	case ConsonantCluster:
		return collapseRuns(base)
	case UnusualCluster:
		loc := unusualCluster.FindStringIndex(base)
		if loc == nil {
			return base
		}
		return base[:loc[0]+1] + "a" + base[loc[0]+1:]
	case SchwaDeletion:
		if d.schwa == nil {
			return base
		}
		return d.schwa.Delete(base, word)
	}
	return ""
}

func isConsonantByte(c byte) bool {
	return c >= 'a' && c <= 'z' && !strings.ContainsRune("aeiou", rune(c))
}

func hasDoubledConsonant(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == s[i+1] && isConsonantByte(s[i]) {
			return true
		}
	}
	return false
}

// collapseRuns shortens any run of three or more identical consonants to
// two. Vowel runs are left alone.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if i >= 2 && s[i] == s[i-1] && s[i] == s[i-2] && isConsonantByte(s[i]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
