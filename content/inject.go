package content

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/pptx"
	"github.com/tsawler/rtlslide/text"
)

// ErrNotMirrored is returned by Inject for a part that has not been
// through the RTL transform yet. Injecting first would leave the new text
// without the directionality the transform sets.
var ErrNotMirrored = errors.New("part has not been mirrored")

// InjectStats counts what Inject did.
type InjectStats struct {
	// Injected is the number of shapes whose text was replaced.
	Injected int `json:"injected"`
	// Unmatched is the number of records whose id matches no text shape.
	Unmatched int `json:"unmatched"`
	// Untouched is the number of extractable shapes the document has no
	// record for. They keep their text.
	Untouched int `json:"untouched"`

	ParagraphsAdded   int `json:"paragraphs_added"`
	ParagraphsRemoved int `json:"paragraphs_removed"`

	// NotRTL is the number of records whose text is not dominated by
	// right-to-left characters although the locale is right-to-left.
	NotRTL int `json:"not_rtl"`
}

// Add accumulates o into s.
func (s *InjectStats) Add(o InjectStats) {
	s.Injected += o.Injected
	s.Unmatched += o.Unmatched
	s.Untouched += o.Untouched
	s.ParagraphsAdded += o.ParagraphsAdded
	s.ParagraphsRemoved += o.ParagraphsRemoved
	s.NotRTL += o.NotRTL
}

// Inject writes the records of doc into the text shapes of part that
// carry the same ids. Translated paragraphs map positionally onto the
// shape's non-blank paragraphs: a paragraph keeps its properties and the
// formatting of its first run, extra translated paragraphs are appended
// right-to-left and surplus originals are removed. Shapes are never added
// or removed.
func Inject(part *pptx.Part, doc Document, opts Options) (InjectStats, error) {
	var st InjectStats
	if !part.Mirrored() {
		return st, fmt.Errorf("%s: %w", part.Name, ErrNotMirrored)
	}

	log := opts.logger().With(slog.String("part", part.Name))
	lang := opts.Locale.String()
	byID := part.ShapesByID()

	for _, id := range part.DuplicateIDs() {
		log.Debug("shape id is not unique, every copy receives the text", slog.String("id", id))
	}

	applied := make(map[string]bool, len(doc.Elements))
	for _, rec := range doc.Elements {
		targets := textShapes(byID[rec.ID])
		if len(targets) == 0 {
			st.Unmatched++
			log.Debug("record matches no text shape", slog.String("id", rec.ID))
			continue
		}
		applied[rec.ID] = true

		paras := paragraphsOf(rec)
		if opts.Locale.IsRTL() && !text.IsRTL(joinText(paras)) {
			st.NotRTL++
			log.Warn("translated text is not right-to-left", slog.String("id", rec.ID))
		}

		for _, ts := range targets {
			added, removed := replaceParagraphs(ts.Text, paras, lang)
			st.Injected++
			st.ParagraphsAdded += added
			st.ParagraphsRemoved += removed
		}
	}

	for _, rec := range Extract(part, opts).Elements {
		if !applied[rec.ID] {
			st.Untouched++
		}
	}
	return st, nil
}

func textShapes(shapes []pptx.Shape) []*pptx.TextShape {
	var out []*pptx.TextShape
	for _, s := range shapes {
		if ts, ok := s.(*pptx.TextShape); ok && ts.Text != nil {
			out = append(out, ts)
		}
	}
	return out
}

// paragraphsOf returns the record's paragraphs, or its text split into
// lines when it has none.
func paragraphsOf(rec Record) []Paragraph {
	if len(rec.Paragraphs) > 0 {
		return rec.Paragraphs
	}
	lines := strings.Split(rec.Text, "\n")
	out := make([]Paragraph, len(lines))
	for i, l := range lines {
		out[i] = Paragraph{Text: l}
	}
	return out
}

func joinText(paras []Paragraph) string {
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

func replaceParagraphs(tb *pptx.TextBody, paras []Paragraph, lang string) (added, removed int) {
	var existing []*pptx.Paragraph
	for _, p := range tb.Paragraphs() {
		if !p.IsBlank() {
			existing = append(existing, p)
		}
	}

	for i, np := range paras {
		if i < len(existing) {
			existing[i].ReplaceText(np.Text, lang)
			continue
		}
		p := tb.AddParagraph()
		p.SetRTL()
		p.SetAlignment(pptx.AlignRight)
		p.SetLevel(np.Level)
		p.AddRun(np.Text, lang)
		added++
	}

	if len(existing) > len(paras) {
		for _, p := range existing[len(paras):] {
			tb.RemoveParagraph(p)
			removed++
		}
	}
	return added, removed
}
