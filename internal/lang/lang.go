// Package lang names the languages the engine accepts.
package lang

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned for language codes outside the supported set.
var ErrUnsupported = errors.New("unsupported language")

type Language string

const (
	Hindi   Language = "hindi"
	Marathi Language = "marathi"
	// English is accepted and returned unchanged.
	English Language = "english"
)

// Devanagari lists the languages that go through transliteration.
var Devanagari = []Language{Hindi, Marathi}

// Parse maps a case-insensitive code to a Language.
func Parse(code string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(code))); l {
	case Hindi, Marathi, English:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, code)
	}
}

func (l Language) String() string {
	return string(l)
}
