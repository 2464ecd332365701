package detector

import (
	"testing"

	"github.com/jusunglee/indicate/internal/charmap"
	"github.com/jusunglee/indicate/internal/lang"
	"github.com/jusunglee/indicate/internal/schwa"
	"github.com/jusunglee/indicate/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hindiBase(word string) string {
	return tokenizer.Segment(word, charmap.For(lang.Hindi))
}

func constBase(s string) BaseFunc {
	return func(string) string { return s }
}

func TestExplicitCorrectionWins(t *testing.T) {
	d := New(hindiBase, schwa.New())

	got := d.Analyze("अभि", "abhi", "Abhee")
	assert.Equal(t, map[string]string{"अभि": "Abhee"}, got)
	assert.Equal(t, 1, d.Frequency("अभि"))
}

func TestCaseOnlyCorrectionIgnored(t *testing.T) {
	d := New(hindiBase, schwa.New())
	assert.Empty(t, d.Analyze("अभि", "abhi", "Abhi"))
}

func TestPunctuationStripped(t *testing.T) {
	d := New(hindiBase, schwa.New())
	got := d.Analyze("अभि,", "abhi,", "abhee,")
	assert.Equal(t, map[string]string{"अभि": "abhee"}, got)
}

func TestUnalignedPairSkipped(t *testing.T) {
	d := New(hindiBase, schwa.New())
	assert.Empty(t, d.Analyze("राम श्याम", "ram", ""))
	assert.Equal(t, 0, d.Frequency("राम"))
}

func TestExpectedWithWrongWordCountIgnored(t *testing.T) {
	d := New(hindiBase, schwa.New())
	assert.Empty(t, d.Analyze("अभि", "abhi", "abhee now"))
	assert.Equal(t, 1, d.Frequency("अभि"))
}

func TestSchwaPromotionAfterMinFrequency(t *testing.T) {
	d := New(hindiBase, schwa.New())

	for i := 0; i < DefaultMinFrequency-1; i++ {
		assert.Empty(t, d.Analyze("बचपन", "bachapana", ""), "sighting %d", i+1)
	}
	got := d.Analyze("बचपन", "bachapana", "")
	assert.Equal(t, map[string]string{"बचपन": "bachapan"}, got)

	require.Len(t, d.Violations("बचपन"), DefaultMinFrequency)
	assert.Contains(t, d.Violations("बचपन")[0], SchwaDeletion)
}

func TestSchwaThresholdGatesViolation(t *testing.T) {
	d := New(hindiBase, schwa.New(), WithSchwaThreshold(0.99))

	for i := 0; i < DefaultMinFrequency+1; i++ {
		assert.Empty(t, d.Analyze("बचपन", "bachapana", ""))
	}
	assert.NotContains(t, d.Violations("बचपन")[0], SchwaDeletion)
}

func TestSchwaScore(t *testing.T) {
	tests := []struct {
		word string
		want float64
	}{
		{"बचपन", 0.95},
		{"कमल", 0.95},
		{"मित्र", 0.95},
		{"गाना", 0},
		{"नमस्ते", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := schwaScore(tt.word); got != tt.want {
			t.Errorf("schwaScore(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestCorrectOutputNeverPromoted(t *testing.T) {
	d := New(hindiBase, schwa.New())
	for i := 0; i < 5; i++ {
		assert.Empty(t, d.Analyze("बचपन", "bachapan", ""))
	}
}

func TestConsonantClusterFix(t *testing.T) {
	d := New(constBase("mmmaa"), nil, WithThresholds(2, 0.75))

	assert.Empty(t, d.Analyze("म", "mmmaa", ""))
	got := d.Analyze("म", "mmmaa", "")
	assert.Equal(t, map[string]string{"म": "mmaa"}, got)
}

func TestUnusualClusterFix(t *testing.T) {
	d := New(constBase("kstra"), nil, WithThresholds(1, 0.75))
	got := d.Analyze("क्स्त्र", "kstra", "")
	assert.Equal(t, map[string]string{"क्स्त्र": "kastra"}, got)
}

func TestConfidenceThreshold(t *testing.T) {
	d := New(constBase("kstra"), nil, WithThresholds(4, 0.75))

	d.Analyze("क", "kstra", "")
	d.Analyze("क", "kstra", "")
	d.Analyze("क", "ka", "")
	// Two of four sightings carry the violation.
	assert.Empty(t, d.Analyze("क", "ka", ""))
}

func TestKnownWordsSkipPromotion(t *testing.T) {
	d := New(hindiBase, schwa.New(), WithKnownWords(func(string) bool { return true }))

	for i := 0; i < 5; i++ {
		assert.Empty(t, d.Analyze("बचपन", "bachapana", ""))
	}
	// Explicit corrections still come through.
	assert.Equal(t, map[string]string{"बचपन": "Bachpan"}, d.Analyze("बचपन", "bachapana", "Bachpan"))
}

func TestLearnLaterRecordWins(t *testing.T) {
	d := New(hindiBase, schwa.New())
	got := d.Learn([]Correction{
		{Original: "अभि", Auto: "abhi", Corrected: "abhee"},
		{Original: "अभि घर", Auto: "abhi ghar", Corrected: "abhii ghar"},
	})
	assert.Equal(t, map[string]string{"अभि": "abhii"}, got)
}

func TestPrecomposedInputSharesCounter(t *testing.T) {
	d := New(hindiBase, schwa.New())
	d.Analyze("\u095B\u0930\u093E", "zara", "")
	d.Analyze("\u091C\u093C\u0930\u093E", "zara", "")
	assert.Equal(t, 2, d.Frequency("\u095B\u0930\u093E"))
}

func TestCollapseRuns(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mmmaa", "mmaa"},
		{"acchha", "acchha"},
		{"aaaa", "aaaa"},
		{"kkkhaaa", "kkhaaa"},
		{"2000", "2000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseRuns(tt.in); got != tt.want {
			t.Errorf("collapseRuns(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasDoubledConsonant(t *testing.T) {
	assert.True(t, hasDoubledConsonant("acchha"))
	assert.False(t, hasDoubledConsonant("baazaar"))
	assert.False(t, hasDoubledConsonant(""))
}
