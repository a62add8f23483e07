package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Schema child sequences used when creating elements in position.
var (
	txBodyOrder = []string{"bodyPr", "lstStyle", "p"}
	paraOrder   = []string{"pPr", "r", "br", "fld", "endParaRPr"}
	pPrOrder    = []string{"lnSpc", "spcBef", "spcAft", "buClrTx", "buClr", "buSzTx", "buSzPct", "buSzPts",
		"buFontTx", "buFont", "buNone", "buAutoNum", "buChar", "buBlip", "tabLst", "defRPr", "extLst"}
	rPrOrder = []string{"ln", "noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill",
		"effectLst", "effectDag", "highlight", "uLnTx", "uLn", "uFillTx", "uFill",
		"latin", "ea", "cs", "sym", "hlinkClick", "hlinkMouseOver", "rtl", "extLst"}
	runOrder = []string{"rPr", "t"}
)

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
	AlignOther
)

var alignValues = map[string]Alignment{
	"l":    AlignLeft,
	"ctr":  AlignCenter,
	"r":    AlignRight,
	"just": AlignJustify,
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "other"
	}
}

// TextBody is a view over a p:txBody (shapes) or a:txBody (table cells).
// Edits go straight to the underlying tree.
type TextBody struct {
	el *etree.Element
}

func newTextBody(el *etree.Element) *TextBody {
	return &TextBody{el: el}
}

// Element returns the txBody element.
func (tb *TextBody) Element() *etree.Element { return tb.el }

// RTLColumns reports whether a:bodyPr sets rtlCol.
func (tb *TextBody) RTLColumns() bool {
	bp := child(tb.el, NSDrawingML, "bodyPr")
	return bp != nil && attrBool(bp, "rtlCol")
}

// SetRTLColumns sets a:bodyPr/@rtlCol, creating a:bodyPr as the first
// child when missing.
func (tb *TextBody) SetRTLColumns() {
	bp := ensureChild(tb.el, NSDrawingML, "bodyPr", txBodyOrder)
	bp.CreateAttr("rtlCol", "1")
}

// Paragraphs returns the a:p children in order.
func (tb *TextBody) Paragraphs() []*Paragraph {
	els := children(tb.el, NSDrawingML, "p")
	paras := make([]*Paragraph, len(els))
	for i, el := range els {
		paras[i] = &Paragraph{el: el}
	}
	return paras
}

// Text joins the paragraph texts with newlines.
func (tb *TextBody) Text() string {
	var parts []string
	for _, p := range tb.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// AddParagraph appends an empty paragraph.
func (tb *TextBody) AddParagraph() *Paragraph {
	el := newElement(tb.el, NSDrawingML, "p")
	tb.el.AddChild(el)
	return &Paragraph{el: el}
}

// RemoveParagraph detaches p from the body.
func (tb *TextBody) RemoveParagraph(p *Paragraph) {
	tb.el.RemoveChild(p.el)
}

// Paragraph is a view over a:p.
type Paragraph struct {
	el *etree.Element
}

// Element returns the a:p element.
func (p *Paragraph) Element() *etree.Element { return p.el }

func (p *Paragraph) props() *etree.Element {
	return child(p.el, NSDrawingML, "pPr")
}

func (p *Paragraph) ensureProps() *etree.Element {
	return ensureChild(p.el, NSDrawingML, "pPr", paraOrder)
}

// Alignment returns the declared alignment. An absent algn is left
// aligned.
func (p *Paragraph) Alignment() Alignment {
	pPr := p.props()
	if pPr == nil {
		return AlignLeft
	}
	v := pPr.SelectAttrValue("algn", "l")
	if a, ok := alignValues[v]; ok {
		return a
	}
	return AlignOther
}

// SetAlignment writes algn. AlignOther leaves the paragraph untouched.
func (p *Paragraph) SetAlignment(a Alignment) {
	for v, al := range alignValues {
		if al == a {
			p.ensureProps().CreateAttr("algn", v)
			return
		}
	}
}

// RTL reports whether the paragraph is marked right-to-left.
func (p *Paragraph) RTL() bool {
	pPr := p.props()
	return pPr != nil && attrBool(pPr, "rtl")
}

// SetRTL marks the paragraph right-to-left.
func (p *Paragraph) SetRTL() {
	p.ensureProps().CreateAttr("rtl", "1")
}

// Level returns the outline level, 0 when absent.
func (p *Paragraph) Level() int {
	pPr := p.props()
	if pPr == nil {
		return 0
	}
	lvl, err := strconv.Atoi(pPr.SelectAttrValue("lvl", "0"))
	if err != nil {
		return 0
	}
	return lvl
}

// SetLevel writes lvl. Level 0 is written only when already present.
func (p *Paragraph) SetLevel(lvl int) {
	if lvl <= 0 {
		if pPr := p.props(); pPr != nil && pPr.SelectAttr("lvl") != nil {
			pPr.CreateAttr("lvl", "0")
		}
		return
	}
	p.ensureProps().CreateAttr("lvl", strconv.Itoa(lvl))
}

// SetDefaultLanguage sets a:pPr/a:defRPr/@lang.
func (p *Paragraph) SetDefaultLanguage(lang string) {
	def := ensureChild(p.ensureProps(), NSDrawingML, "defRPr", pPrOrder)
	def.CreateAttr("lang", lang)
}

// Runs returns the a:r children in order.
func (p *Paragraph) Runs() []*Run {
	els := children(p.el, NSDrawingML, "r")
	runs := make([]*Run, len(els))
	for i, el := range els {
		runs[i] = &Run{el: el}
	}
	return runs
}

// Fields returns the a:fld children (slide numbers, dates) as runs.
func (p *Paragraph) Fields() []*Run {
	els := children(p.el, NSDrawingML, "fld")
	runs := make([]*Run, len(els))
	for i, el := range els {
		runs[i] = &Run{el: el}
	}
	return runs
}

// Text concatenates the run texts followed by the field texts.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	for _, f := range p.Fields() {
		sb.WriteString(f.Text())
	}
	return sb.String()
}

// IsBlank reports whether the paragraph has no visible text.
func (p *Paragraph) IsBlank() bool {
	return strings.TrimSpace(p.Text()) == ""
}

// IsBold reports whether any run is bold.
func (p *Paragraph) IsBold() bool {
	for _, r := range p.Runs() {
		if r.Bold() {
			return true
		}
	}
	return false
}

// ReplaceText replaces the paragraph's content with a single run holding
// text. The first run keeps its formatting and gets lang; other runs,
// fields and line breaks are dropped. A paragraph without runs gets a new
// one.
func (p *Paragraph) ReplaceText(text, lang string) {
	runs := p.Runs()
	if len(runs) == 0 {
		for _, f := range p.Fields() {
			p.el.RemoveChild(f.el)
		}
		p.removeBreaks()
		p.AddRun(text, lang)
		return
	}

	first := runs[0]
	first.SetText(text)
	if rPr := child(first.el, NSDrawingML, "rPr"); rPr != nil {
		rPr.CreateAttr("lang", lang)
	}
	for _, r := range runs[1:] {
		p.el.RemoveChild(r.el)
	}
	for _, f := range p.Fields() {
		p.el.RemoveChild(f.el)
	}
	p.removeBreaks()
}

func (p *Paragraph) removeBreaks() {
	for _, br := range children(p.el, NSDrawingML, "br") {
		p.el.RemoveChild(br)
	}
}

// AddRun appends a run with lang and dirty="0" properties, ahead of
// a:endParaRPr.
func (p *Paragraph) AddRun(text, lang string) *Run {
	r := newElement(p.el, NSDrawingML, "r")
	insertOrdered(p.el, r, paraOrder)

	rPr := newElement(r, NSDrawingML, "rPr")
	rPr.CreateAttr("lang", lang)
	rPr.CreateAttr("dirty", "0")
	r.AddChild(rPr)

	t := newElement(r, NSDrawingML, "t")
	t.SetText(text)
	r.AddChild(t)
	return &Run{el: r}
}

// Run is a view over a:r or a:fld.
type Run struct {
	el *etree.Element
}

// Element returns the run element.
func (r *Run) Element() *etree.Element { return r.el }

// Text returns the a:t content.
func (r *Run) Text() string {
	if t := child(r.el, NSDrawingML, "t"); t != nil {
		return t.Text()
	}
	return ""
}

// SetText writes the a:t content, creating a:t when missing.
func (r *Run) SetText(text string) {
	t := ensureChild(r.el, NSDrawingML, "t", runOrder)
	t.SetText(text)
}

// Bold reports whether a:rPr/@b is set.
func (r *Run) Bold() bool {
	rPr := child(r.el, NSDrawingML, "rPr")
	return rPr != nil && attrBool(rPr, "b")
}

// SetLanguage sets a:rPr/@lang, creating a:rPr as the first child.
func (r *Run) SetLanguage(lang string) {
	r.ensureProps().CreateAttr("lang", lang)
}

func (r *Run) ensureProps() *etree.Element {
	return ensureChild(r.el, NSDrawingML, "rPr", runOrder)
}

// FontSpec names the typefaces a run declares. Empty means absent.
type FontSpec struct {
	Latin         string
	ComplexScript string

	HasLatin         bool
	HasComplexScript bool
}

// Fonts returns the run's latin and complex-script typefaces.
func (r *Run) Fonts() FontSpec {
	var fs FontSpec
	rPr := child(r.el, NSDrawingML, "rPr")
	if rPr == nil {
		return fs
	}
	if l := child(rPr, NSDrawingML, "latin"); l != nil {
		fs.HasLatin = true
		fs.Latin = l.SelectAttrValue("typeface", "")
	}
	if cs := child(rPr, NSDrawingML, "cs"); cs != nil {
		fs.HasComplexScript = true
		fs.ComplexScript = cs.SelectAttrValue("typeface", "")
	}
	return fs
}

// FontSlot selects which typeface of a run to set.
type FontSlot string

const (
	SlotLatin         FontSlot = "latin"
	SlotComplexScript FontSlot = "cs"
)

// Font describes a text font element. Empty PitchFamily and Charset are
// left unchanged on an existing element.
type Font struct {
	Typeface    string
	PitchFamily string
	Charset     string
}

// SetFont creates or updates the slot's font element, placed in schema
// order within a:rPr.
func (r *Run) SetFont(slot FontSlot, f Font) {
	el := ensureChild(r.ensureProps(), NSDrawingML, string(slot), rPrOrder)
	el.CreateAttr("typeface", f.Typeface)
	if f.PitchFamily != "" {
		el.CreateAttr("pitchFamily", f.PitchFamily)
	}
	if f.Charset != "" {
		el.CreateAttr("charset", f.Charset)
	}
}
