package text

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction represents the writing direction of text.
type Direction int

const (
	// LTR (Left-to-Right) for Latin, Cyrillic, etc.
	LTR Direction = iota
	// RTL (Right-to-Left) for Arabic, Hebrew, etc.
	RTL
	// Neutral for numbers, punctuation, etc.
	Neutral
)

// String returns "LTR", "RTL" or "Neutral".
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// Profile counts the strong directional characters of a text.
type Profile struct {
	LTR int
	RTL int
}

// ProfileOf returns the strong character counts of s.
func ProfileOf(s string) Profile {
	var p Profile
	for _, r := range s {
		switch GetCharDirection(r) {
		case LTR:
			p.LTR++
		case RTL:
			p.RTL++
		}
	}
	return p
}

// Dominant returns the direction with more strong characters. Ties go to
// LTR; a profile without strong characters is Neutral.
func (p Profile) Dominant() Direction {
	switch {
	case p.LTR == 0 && p.RTL == 0:
		return Neutral
	case p.RTL > p.LTR:
		return RTL
	default:
		return LTR
	}
}

// RTLShare returns the fraction of strong characters that are
// right-to-left, or 0 when there are none.
func (p Profile) RTLShare() float64 {
	total := p.LTR + p.RTL
	if total == 0 {
		return 0
	}
	return float64(p.RTL) / float64(total)
}

// DetectDirection returns the dominant direction of text by Unicode
// bidirectional class.
func DetectDirection(text string) Direction {
	return ProfileOf(text).Dominant()
}

// GetCharDirection returns the inherent direction of a single rune.
// Classes R and AL are RTL, L is LTR. Digits, including Arabic-Indic
// ones, punctuation, whitespace and marks are Neutral.
func GetCharDirection(r rune) Direction {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.R, bidi.AL:
		return RTL
	case bidi.L:
		return LTR
	default:
		return Neutral
	}
}

// IsRTL reports whether text reads right-to-left when laid out in an RTL
// paragraph: it is RTL-dominant or has no strong characters at all.
func IsRTL(text string) bool {
	return DetectDirection(text) != LTR
}
