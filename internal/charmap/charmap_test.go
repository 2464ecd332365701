package charmap

import (
	"testing"

	"github.com/jusunglee/indicate/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHindiTable(t *testing.T) {
	table := For(lang.Hindi)
	require.NotNil(t, table)

	tests := []struct {
		key  string
		want string
	}{
		{"क", "ka"},
		{"का", "kaa"},
		{"कं", "kan"},
		{"क्", "k"},
		{"ज़", "za"},
		{"ज़ा", "zaa"},
		{"ड़्", "r"},
		{"स्त", "sta"},
		{"स्ते", "ste"},
		{"द्र", "dra"},
		{"स्त्री", "stree"},
		{"ं", "n"},
		{"५", "5"},
		{"।", "."},
	}
	for _, tt := range tests {
		got, ok := table.Lookup(tt.key)
		if !ok {
			t.Errorf("Lookup(%q) missing", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
	assert.Equal(t, MaxKeyLen, table.MaxKeyLen())
}

func TestSingleRuneCoverage(t *testing.T) {
	table := For(lang.Hindi)
	for r := 'क'; r <= 'ह'; r++ {
		if r == 'ऩ' || r == 'ऱ' || r == 'ळ' || r == 'ऴ' {
			continue
		}
		_, ok := table.Lookup(string(r))
		assert.True(t, ok, "consonant %q has no fallback", string(r))
	}
	for r := 'अ'; r <= 'औ'; r++ {
		if r == 'ऌ' || r == 'ऎ' || r == 'ऒ' {
			continue
		}
		_, ok := table.Lookup(string(r))
		assert.True(t, ok, "vowel %q has no fallback", string(r))
	}
}

func TestMarathiExtendsHindi(t *testing.T) {
	hindi := For(lang.Hindi)
	marathi := For(lang.Marathi)

	_, ok := hindi.Lookup("ळ")
	assert.False(t, ok)

	got, ok := marathi.Lookup("ळ")
	require.True(t, ok)
	assert.Equal(t, "la", got)

	got, ok = marathi.Lookup("ळी")
	require.True(t, ok)
	assert.Equal(t, "lee", got)

	assert.Greater(t, marathi.Len(), hindi.Len())
}

func TestForUnknownLanguage(t *testing.T) {
	assert.Nil(t, For(lang.Language("tamil")))
}

func TestFromEntriesRejectsLongKeys(t *testing.T) {
	_, err := FromEntries(map[string]string{"कखगघङचछ": "x"})
	assert.Error(t, err)

	table, err := FromEntries(map[string]string{"क": "k", "कख": "kkh"})
	require.NoError(t, err)
	assert.Equal(t, 2, table.MaxKeyLen())
}

func TestRuneClasses(t *testing.T) {
	assert.True(t, IsConsonant('क'))
	assert.True(t, IsConsonant('\u095B'))
	assert.False(t, IsConsonant('ा'))
	assert.True(t, IsMatra('ि'))
	assert.True(t, IsMatra(Anusvara))
	assert.False(t, IsMatra(Virama))
	assert.True(t, IsIndependentVowel('आ'))
	assert.True(t, IsVowelBoundary('ो'))
	assert.False(t, IsVowelBoundary('र'))
	assert.True(t, HasNukta("\u095Bरूर"))
	assert.True(t, HasNukta("ज़रूर"))
	assert.False(t, HasNukta("जरूर"))
}
