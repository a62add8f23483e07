package rtl

import (
	"strings"

	"github.com/tsawler/rtlslide/pptx"
)

// Font attributes written with the fallback typefaces.
const (
	pitchSwiss    = "34"
	charsetANSI   = "0"
	charsetArabic = "178"
	latinFallback = "Arial"
)

// TextStats counts what RewriteText touched.
type TextStats struct {
	Paragraphs int
	Runs       int
}

// RewriteText switches a text body to right-to-left: the body gets RTL
// columns, every paragraph gets RTL direction, mirrored alignment and the
// target language, and every run gets the target language and an
// Arabic-capable complex-script font.
func RewriteText(tb *pptx.TextBody, opts Options) TextStats {
	var st TextStats
	if tb == nil {
		return st
	}

	tb.SetRTLColumns()
	lang := opts.Locale.String()

	for _, p := range tb.Paragraphs() {
		rewriteParagraph(p, lang)
		st.Paragraphs++
		for _, r := range p.Runs() {
			rewriteRun(r, lang, opts)
			st.Runs++
		}
	}
	return st
}

func rewriteParagraph(p *pptx.Paragraph, lang string) {
	switch p.Alignment() {
	case pptx.AlignLeft:
		p.SetAlignment(pptx.AlignRight)
	case pptx.AlignRight:
		p.SetAlignment(pptx.AlignLeft)
	}
	p.SetRTL()
	p.SetDefaultLanguage(lang)
}

func rewriteRun(r *pptx.Run, lang string, opts Options) {
	r.SetLanguage(lang)

	cs := pptx.Font{Typeface: opts.csFont(), PitchFamily: pitchSwiss, Charset: charsetArabic}
	fonts := r.Fonts()
	switch {
	case !fonts.HasLatin && !fonts.HasComplexScript:
		r.SetFont(pptx.SlotComplexScript, cs)
		r.SetFont(pptx.SlotLatin, pptx.Font{Typeface: latinFallback, PitchFamily: pitchSwiss, Charset: charsetANSI})
	case !fonts.HasComplexScript:
		r.SetFont(pptx.SlotComplexScript, cs)
	case !allowedFont(fonts.ComplexScript, opts.allowedFonts()):
		r.SetFont(pptx.SlotComplexScript, pptx.Font{Typeface: opts.csFont(), Charset: charsetArabic})
	}
}

func allowedFont(typeface string, allowed []string) bool {
	for _, f := range allowed {
		if strings.EqualFold(f, typeface) {
			return true
		}
	}
	return false
}
