// Package rtlslide provides a fluent API for converting presentations from
// left-to-right to right-to-left layout and language.
//
// Basic usage:
//
//	c := rtlslide.Open("deck.pptx").Translator(tr)
//	report, err := c.Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if err := c.Save("deck-ar.pptx"); err != nil {
//	    // handle error
//	}
//	log.Printf("%d parts converted, %d failed", len(report.Parts), len(report.Errors))
//
// With options:
//
//	c := rtlslide.Open("deck.pptx").
//	    Locale("he-IL").
//	    Parallelism(4).
//	    FailFast().
//	    Translator(tr)
//
// For lower-level control, the pptx, rtl, content and translate packages
// can be used directly.
package rtlslide

import (
	"github.com/tsawler/rtlslide/pptx"
)

// Open returns a Converter for the presentation at filename. The file is
// read when a terminal operation such as Run or Records is called.
//
// Example:
//
//	report, err := rtlslide.Open("deck.pptx").Run(ctx)
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromPackage creates a Converter from an already loaded package. Run
// modifies pkg in place.
func FromPackage(pkg *pptx.Package) *Converter {
	return &Converter{
		pkg:     pkg,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	report := rtlslide.Must(rtlslide.Open("deck.pptx").Run(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
