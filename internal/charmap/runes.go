package charmap

const (
	Nukta        = '़'
	Virama       = '्'
	Anusvara     = 'ं'
	Visarga      = 'ः'
	Chandrabindu = 'ँ'
)

// IsConsonant reports whether r is a Devanagari consonant letter, including
// the precomposed nukta forms U+0958..U+095F.
func IsConsonant(r rune) bool {
	return (r >= 'क' && r <= 'ह') || (r >= '\u0958' && r <= '\u095F')
}

// IsIndependentVowel reports whether r is a standalone vowel letter.
func IsIndependentVowel(r rune) bool {
	return r >= 'ऄ' && r <= 'औ'
}

// IsMatra reports whether r is a dependent vowel sign, anusvara or visarga.
func IsMatra(r rune) bool {
	return (r >= 'ा' && r <= 'ौ') || r == Anusvara || r == Visarga
}

// IsVowelBoundary reports whether r ends a consonant cluster when scanning
// forward from a virama.
func IsVowelBoundary(r rune) bool {
	return IsIndependentVowel(r) || (r >= 'ऺ' && r <= 'ॏ')
}

// IsDevanagari reports whether r falls in the Devanagari block.
func IsDevanagari(r rune) bool {
	return r >= 'ऀ' && r <= 'ॿ'
}

// HasNukta reports whether the word carries a nukta, either as a combining
// mark or inside a precomposed letter.
func HasNukta(word string) bool {
	for _, r := range word {
		if r == Nukta || (r >= '\u0958' && r <= '\u095F') {
			return true
		}
	}
	return false
}
