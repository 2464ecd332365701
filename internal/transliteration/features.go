package transliteration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jusunglee/indicate/internal/lang"
)

// Feature names a pipeline stage that can be switched per call.
type Feature string

const (
	ContextAware       Feature = "context_aware"
	StatisticalSchwa   Feature = "statistical_schwa"
	AutoExceptions     Feature = "auto_exceptions"
	AutoCapitalization Feature = "auto_capitalization"
)

// Features lists every switchable stage in pipeline order.
var Features = []Feature{AutoExceptions, StatisticalSchwa, ContextAware, AutoCapitalization}

func ParseFeature(s string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Features {
		if f == known {
			return f, nil
		}
	}
	return "", &ValidationError{Field: "feature", Value: s}
}

// ParseOverrides reads "name=bool" pairs, e.g. "statistical_schwa=false".
func ParseOverrides(pairs []string) (map[Feature]bool, error) {
	out := make(map[Feature]bool, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, &ValidationError{Field: "feature", Value: p}
		}
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		on, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, &ValidationError{Field: string(f), Value: value, Err: err}
		}
		out[f] = on
	}
	return out, nil
}

type FeatureFlags struct {
	ContextAware       bool
	StatisticalSchwa   bool
	AutoExceptions     bool
	AutoCapitalization bool
}

// AllEnabled is the default for every language.
var AllEnabled = FeatureFlags{
	ContextAware:       true,
	StatisticalSchwa:   true,
	AutoExceptions:     true,
	AutoCapitalization: true,
}

// With returns f with overrides applied. Unknown keys are ignored.
func (f FeatureFlags) With(overrides map[Feature]bool) FeatureFlags {
	for k, v := range overrides {
		switch k {
		case ContextAware:
			f.ContextAware = v
		case StatisticalSchwa:
			f.StatisticalSchwa = v
		case AutoExceptions:
			f.AutoExceptions = v
		case AutoCapitalization:
			f.AutoCapitalization = v
		}
	}
	return f
}

// ValidationError reports caller input the engine will not accept.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrUnsupportedLanguage is matched with errors.Is on the error returned
// for a language outside hindi, marathi and english.
var ErrUnsupportedLanguage = lang.ErrUnsupported

func validateLanguage(l lang.Language, allowEnglish bool) error {
	switch l {
	case lang.Hindi, lang.Marathi:
		return nil
	case lang.English:
		if allowEnglish {
			return nil
		}
	}
	return &ValidationError{Field: "language", Value: string(l), Err: ErrUnsupportedLanguage}
}
