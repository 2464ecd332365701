package schwa

import (
	"strings"

	"github.com/jusunglee/indicate/internal/charmap"
)

var syllableWeights = map[string]float64{
	"CV":   1,
	"CVC":  2,
	"CVCC": 3,
	"VC":   1.5,
	"V":    0.5,
}

// Syllabify splits a Devanagari word into orthographic syllables: a
// virama-joined consonant cluster or an independent vowel, then an optional
// vowel sign and nasal/visarga coda.
func Syllabify(word string) []string {
	rs := []rune(word)
	n := len(rs)
	var out []string
	for i := 0; i < n; {
		start := i
		switch {
		case charmap.IsConsonant(rs[i]):
			i = consumeConsonant(rs, i)
			for i+1 < n && rs[i] == charmap.Virama && charmap.IsConsonant(rs[i+1]) {
				i = consumeConsonant(rs, i+1)
			}
			if i < n && (isVowelSign(rs[i]) || rs[i] == charmap.Virama) {
				i++
			}
		default:
			i++
		}
		for i < n && isCoda(rs[i]) {
			i++
		}
		out = append(out, string(rs[start:i]))
	}
	return out
}

// InherentVowel reports whether a syllable from Syllabify ends in a
// consonant that carries the inherent vowel, ignoring any nasal or visarga
// coda.
func InherentVowel(syllable string) bool {
	rs := []rune(syllable)
	for len(rs) > 0 && isCoda(rs[len(rs)-1]) {
		rs = rs[:len(rs)-1]
	}
	if len(rs) > 1 && rs[len(rs)-1] == charmap.Nukta {
		rs = rs[:len(rs)-1]
	}
	return len(rs) > 0 && charmap.IsConsonant(rs[len(rs)-1])
}

func consumeConsonant(rs []rune, i int) int {
	i++
	if i < len(rs) && rs[i] == charmap.Nukta {
		i++
	}
	return i
}

func isVowelSign(r rune) bool {
	return r >= 'ा' && r <= 'ौ' && r != charmap.Virama
}

func isCoda(r rune) bool {
	return r == charmap.Anusvara || r == charmap.Visarga || r == charmap.Chandrabindu
}

// shape reduces a syllable to its C/V skeleton. A consonant cluster with no
// vowel sign carries the inherent vowel.
func shape(syllable string) string {
	var (
		b        strings.Builder
		hasVowel bool
		halant   bool
	)
	for _, r := range syllable {
		switch {
		case charmap.IsConsonant(r):
			b.WriteByte('C')
		case charmap.IsIndependentVowel(r), isVowelSign(r):
			b.WriteByte('V')
			hasVowel = true
		case r == charmap.Virama:
			halant = true
		case isCoda(r):
			if !hasVowel && !halant {
				b.WriteByte('V')
				hasVowel = true
			}
			b.WriteByte('C')
		}
	}
	s := b.String()
	if !hasVowel && !halant && strings.HasPrefix(s, "C") {
		s += "V"
	}
	return s
}

func syllableWeight(syllable string) float64 {
	if w, ok := syllableWeights[shape(syllable)]; ok {
		return w
	}
	return 1
}

var positionProbability = map[int]float64{
	0:  0.05,
	-1: 0.95,
	-2: 0.7,
}

// DeletionProbability estimates how likely the schwa in the syllable at
// position is to be dropped, from 0 to 1. The last syllable is always 0.95.
func DeletionProbability(word string, position int) float64 {
	syllables := Syllabify(word)
	if position == len(syllables)-1 {
		return 0.95
	}
	prob, ok := positionProbability[position]
	if !ok {
		prob = 0.5
	}
	if position >= 0 && position < len(syllables) {
		prob *= syllableWeight(syllables[position])
	}
	return max(0, min(prob, 1))
}
