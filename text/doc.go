// Package text provides script direction and locale helpers for RTL
// conversion.
//
// # Text Direction
//
// The package classifies text with the [Direction] type:
//
//   - LTR - left-to-right (Latin, CJK, etc.)
//   - RTL - right-to-left (Arabic, Hebrew, etc.)
//   - Neutral - direction-neutral characters (numbers, punctuation)
//
// [DetectDirection] counts strong bidirectional classes to determine the
// dominant direction of a string. It is used to check that translated
// content actually reads right-to-left.
//
// # Locales
//
// [Locale] wraps a validated BCP 47 tag. Its String form is written into
// the lang attribute of every rewritten run, and [Locale.IsRTL] tells
// whether the target script is a right-to-left one:
//
//	loc, err := text.ParseLocale("ar-SA")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(loc, loc.IsRTL()) // ar-SA true
package text
