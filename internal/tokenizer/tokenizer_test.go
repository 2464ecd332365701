package tokenizer

import (
	"testing"

	"github.com/jusunglee/indicate/internal/charmap"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentHindi(t *testing.T) {
	table := charmap.For(lang.Hindi)
	tests := []struct {
		input string
		want  string
	}{
		{"नमस्ते", "namaste"},
		{"कमल", "kamala"},
		{"बाज़ार", "baazaara"},
		{"\u095Bरूर", "zaroora"},
		{"नरेंद्र", "narendra"},
		{"भारत", "bhaarata"},
		{"क्या", "kyaa"},
		{"२०२४", "2024"},
		{"है।", "hai."},
		{"", ""},
	}
	for _, tt := range tests {
		got := Segment(tt.input, table)
		if got != tt.want {
			t.Errorf("Segment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSegmentPassesThroughUnmapped(t *testing.T) {
	hindi := charmap.For(lang.Hindi)
	assert.Equal(t, "abc", Segment("abc", hindi))
	assert.Equal(t, "ka!", Segment("क!", hindi))
	assert.Equal(t, "ळ", Segment("ळ", hindi))
	assert.Equal(t, "la", Segment("ळ", charmap.For(lang.Marathi)))
}

func TestSegmentStripsInvisibles(t *testing.T) {
	table := charmap.For(lang.Hindi)
	assert.Equal(t, "namaste", Segment("नम\u200dस्ते\ufeff", table))
}

func TestSegmentPrefersLongestKey(t *testing.T) {
	table, err := charmap.FromEntries(map[string]string{
		"क":  "k",
		"ख":  "kh",
		"कख": "X",
	})
	require.NoError(t, err)

	assert.Equal(t, "Xk", Segment("कखक", table))
	assert.Equal(t, "khk", Segment("खक", table))
}

func TestSegmentViramaLookahead(t *testing.T) {
	table, err := charmap.FromEntries(map[string]string{
		"क": "ka",
		"ष": "sha",
		"ा": "aa",
		"्": "",
	})
	require.NoError(t, err)

	assert.Equal(t, "kshaa", Segment("क्षा", table))
	// A trailing virama has no cluster after it.
	assert.Equal(t, "ka", Segment("क्", table))
}

func TestSegmentNuktaFallsBackToBase(t *testing.T) {
	table, err := charmap.FromEntries(map[string]string{
		"ज": "ja",
		"ा": "aa",
	})
	require.NoError(t, err)

	assert.Equal(t, "jaaa", Segment("ज़ा", table))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "\u091C\u093C", Normalize("\u095B"))
	assert.Equal(t, "कमल", Normalize("क\u200bमल"))
}

func TestSplitPunct(t *testing.T) {
	tests := []struct {
		word                 string
		prefix, core, suffix string
	}{
		{"है।", "", "है", "।"},
		{"\"नमस्ते!\"", "\"", "नमस्ते", "!\""},
		{"कमल", "", "कमल", ""},
		{"...", "...", "", ""},
		{"नीली-पीली", "", "नीली-पीली", ""},
	}
	for _, tt := range tests {
		p, c, s := SplitPunct(tt.word)
		if p != tt.prefix || c != tt.core || s != tt.suffix {
			t.Errorf("SplitPunct(%q) = %q, %q, %q; want %q, %q, %q", tt.word, p, c, s, tt.prefix, tt.core, tt.suffix)
		}
	}
}
