package text

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLocale is the target language tag written into run properties
// when no locale is configured.
const DefaultLocale = "ar-SA"

// rtlScripts lists the ISO 15924 scripts written right-to-left.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Syrc": true,
	"Thaa": true,
	"Nkoo": true,
	"Adlm": true,
	"Rohg": true,
}

// Locale is a validated BCP 47 language tag used for the lang attribute of
// DrawingML runs.
type Locale struct {
	tag language.Tag
}

// ParseLocale parses and validates a BCP 47 tag such as "ar-SA" or "he-IL".
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, fmt.Errorf("parsing locale %q: %w", s, err)
	}
	return Locale{tag: tag}, nil
}

// MustParseLocale is like ParseLocale but panics on error.
func MustParseLocale(s string) Locale {
	l, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag returns the underlying language tag. The zero Locale stands for
// DefaultLocale.
func (l Locale) Tag() language.Tag {
	if l.tag == language.Und {
		return language.MustParse(DefaultLocale)
	}
	return l.tag
}

// String returns the canonical tag, e.g. "ar-SA".
func (l Locale) String() string {
	return l.Tag().String()
}

// Script returns the (possibly inferred) ISO 15924 script code of the locale.
func (l Locale) Script() string {
	script, _ := l.Tag().Script()
	return script.String()
}

// IsRTL reports whether the locale's script is written right-to-left.
func (l Locale) IsRTL() bool {
	return rtlScripts[l.Script()]
}
