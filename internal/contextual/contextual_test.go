package contextual

import (
	"testing"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/stretchr/testify/assert"
)

var testWords = map[string]string{
	"नरेंद्र": "narendra",
	"मोदी":   "modee",
	"मई":     "mai",
	"उत्तर":  "uttar",
	"प्रदेश": "pradesh",
	"गया":    "gaya",
	"था":     "tha",
}

func fakeWord(word string, _ lang.Language) string {
	if r, ok := testWords[word]; ok {
		return r
	}
	return word
}

func TestApply(t *testing.T) {
	a := New(fakeWord)
	tests := []struct {
		name   string
		source string
		trans  string
		want   string
	}{
		{"honorific and name", "श्री नरेंद्र मोदी", "shree narendra modee", "Shri Narendra modee"},
		{"honorific keeps punctuation", "श्री नरेंद्र।", "shree narendra.", "Shri Narendra."},
		{"honorific with no name", "श्री", "shree", "shree"},
		{"doctor", "डॉ मोदी", "do modee", "Dr Modee"},
		{"word and ascii number", "मई 2024", "maee 2024", "mai 2024"},
		{"word and devanagari number", "मई २०२४", "maee 2024", "mai 2024"},
		{"hyphenated compound", "उत्तर-प्रदेश", "uttara-pradesha", "uttar-pradesh"},
		{"unaligned skipped", "श्री नरेंद्र", "shree", "shree"},
		{"empty source", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Apply(tt.source, tt.trans, lang.Hindi))
		})
	}
}

func TestDisambiguation(t *testing.T) {
	a := New(fakeWord, WithAmbiguous(map[string]Ambiguity{
		"कल": {Default: "kal", Past: "kal-past", Future: "kal-future"},
		"पर": {Default: "par"},
	}))

	assert.Equal(t, "kal-past gaya tha", a.Apply("कल गया था", "kala gaya tha", lang.Hindi))
	assert.Equal(t, "kal-future aaega", a.Apply("कल आएगा", "kala aaega", lang.Hindi))
	assert.Equal(t, "kal ham", a.Apply("कल हम", "kala ham", lang.Hindi))
	assert.Equal(t, "ghar par", a.Apply("घर पर", "ghar para", lang.Hindi))
}

func TestDetectSense(t *testing.T) {
	tests := []struct {
		word, prev, next, full string
		want                   Sense
	}{
		{"कल", "", "गया", "कल गया", Past},
		{"कल", "पिछला", "", "पिछला कल", Past},
		{"कल", "", "होगा", "कल होगा", Future},
		{"कल", "", "हम", "कल हम मिलेंगे जो होगा", Future},
		{"कल", "", "हम", "कल हम", Default},
		{"पर", "", "गया", "पर गया", Default},
	}
	for _, tt := range tests {
		if got := DetectSense(tt.word, tt.prev, tt.next, tt.full); got != tt.want {
			t.Errorf("DetectSense(%q, %q, %q) = %q, want %q", tt.word, tt.prev, tt.next, got, tt.want)
		}
	}
}
