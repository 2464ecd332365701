// Package capitalize restores English capitalization on romanized text.
package capitalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Common lists words that are always capitalized: weekdays, months, titles
// and language or nationality names.
var Common = lo.SliceToMap([]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",

	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",

	"mr", "mrs", "ms", "dr", "prof", "sir", "madam", "lord", "lady",
	"shri", "smt", "pt",

	"hindi", "marathi", "english", "urdu", "bengali", "gujarati", "punjabi",
	"tamil", "telugu", "malayalam", "kannada", "indian", "american", "british",
}, func(w string) (string, struct{}) { return w, struct{}{} })

// lowerInTitles stay lowercase inside a title unless five letters or longer.
var lowerInTitles = lo.SliceToMap([]string{
	"a", "an", "the", "and", "but", "or", "for", "nor", "on", "at", "to", "from",
	"by", "of", "in", "with", "within", "about", "into", "between",
}, func(w string) (string, struct{}) { return w, struct{}{} })

var (
	GivenNames = []string{
		"ram", "shyam", "krishna", "radha", "sita", "lakshman",
		"bharat", "shatrughan", "hanuman", "ravan", "arjun",
		"bheem", "yudhishthir", "nakul", "sahadev", "dronacharya", "soor",
	}
	PlaceSuffixes = []string{"nagar", "pur", "garh", "pattan", "bad"}
	Honorifics    = []string{"mr", "mrs", "ms", "dr", "prof", "shri", "smt", "pt"}
)

var (
	sentenceBoundary = regexp.MustCompile(`([.!?]\s+['"\)\]]*)([a-z])`)
	wordRun          = regexp.MustCompile(`[A-Za-z0-9_]+`)
	firstLetter      = regexp.MustCompile(`[a-zA-Z]`)
	nonSpace         = regexp.MustCompile(`\S+`)
	afterHonorific   = regexp.MustCompile(`(?i)\b(` + strings.Join(Honorifics, "|") + `)(\.?\s+)([a-z])`)
	placeName        = regexp.MustCompile(`(?i)\b[a-z]+(?:` + strings.Join(PlaceSuffixes, "|") + `)\b`)
	givenName        = regexp.MustCompile(`(?i)\b(?:` + strings.Join(GivenNames, "|") + `)\b`)
)

type Capitalizer struct {
	// entities maps a lowercased named entity to its canonical form.
	entities map[string]string
}

// New builds a Capitalizer that restores the given canonical named-entity
// forms wherever they appear in any case.
func New(entities []string) *Capitalizer {
	return &Capitalizer{
		entities: lo.SliceToMap(entities, func(e string) (string, string) {
			return strings.ToLower(e), e
		}),
	}
}

// Text lowercases text and re-applies capitalization. Title mode uses title
// case in place of sentence case.
func (c *Capitalizer) Text(text string, isTitle bool) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = UpperFirst(text)

	if isTitle {
		text = titleCase(text)
	} else {
		text = sentenceBoundary.ReplaceAllStringFunc(text, func(m string) string {
			return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
		})
	}

	text = wordRun.ReplaceAllStringFunc(text, func(w string) string {
		lower := strings.ToLower(w)
		if canonical, ok := c.entities[lower]; ok {
			return canonical
		}
		if _, ok := Common[lower]; ok {
			return capitalizeWord(lower)
		}
		return w
	})

	return properNouns(text)
}

// UpperFirst uppercases the first ASCII letter of text, skipping leading
// spaces, digits and punctuation.
func UpperFirst(text string) string {
	loc := firstLetter.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + strings.ToUpper(text[loc[0]:loc[1]]) + text[loc[1]:]
}

// titleCase capitalizes every word except inner function words. Whitespace
// between words is kept as is.
func titleCase(text string) string {
	locs := nonSpace.FindAllStringIndex(text, -1)
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for i, loc := range locs {
		b.WriteString(text[prev:loc[0]])
		w := text[loc[0]:loc[1]]
		if _, ok := lowerInTitles[strings.ToLower(w)]; ok && len(w) < 5 && i != 0 && i != len(locs)-1 {
			b.WriteString(strings.ToLower(w))
		} else {
			b.WriteString(capitalizeWord(w))
		}
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

func properNouns(text string) string {
	text = afterHonorific.ReplaceAllStringFunc(text, func(m string) string {
		return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
	})
	text = placeName.ReplaceAllStringFunc(text, capitalizeWord)
	return givenName.ReplaceAllStringFunc(text, capitalizeWord)
}

func capitalizeWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
