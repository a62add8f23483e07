// Package translate defines the translator collaborator of the pipeline
// and the helpers that guard its output.
//
// A [Translator] receives the records of one part and must return the
// same ids with translated text. [Sanitize] and [Validate] clean up and
// check what comes back before it is injected; [Mock] is a deterministic
// translator for tests and dry runs.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/rtlslide/content"
)

// Translator translates the records of one part. Implementations must
// return every id they receive and must be safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, doc content.Document) (content.Document, error)
}

// Func adapts a function to the Translator interface.
type Func func(ctx context.Context, doc content.Document) (content.Document, error)

// Translate calls f.
func (f Func) Translate(ctx context.Context, doc content.Document) (content.Document, error) {
	return f(ctx, doc)
}

// mockSamples are the Arabic stand-ins the mock writes per role.
var mockSamples = map[content.Role]string{
	content.RoleTitle:    "عنوان الشريحة",
	content.RoleSubtitle: "عنوان فرعي",
	content.RoleBody:     "نقطة رئيسية",
	content.RoleContent:  "محتوى النص",
}

// Mock replaces every paragraph with an Arabic sample chosen by role,
// keeping ids, levels and bold flags. Paragraphs after the first get
// their position appended so they stay distinguishable.
type Mock struct{}

// Translate implements Translator.
func (Mock) Translate(ctx context.Context, doc content.Document) (content.Document, error) {
	if err := ctx.Err(); err != nil {
		return content.Document{}, err
	}

	out := content.Document{Context: doc.Context, Elements: make([]content.Record, len(doc.Elements))}
	for i, rec := range doc.Elements {
		sample, ok := mockSamples[rec.Role]
		if !ok {
			sample = mockSamples[content.RoleContent]
		}

		tr := content.Record{ID: rec.ID, Role: rec.Role}
		lines := make([]string, len(rec.Paragraphs))
		for j, p := range rec.Paragraphs {
			text := sample
			if j > 0 {
				text = fmt.Sprintf("%s %d", sample, j+1)
			}
			tr.Paragraphs = append(tr.Paragraphs, content.Paragraph{Text: text, Level: p.Level, IsBold: p.IsBold})
			lines[j] = text
		}
		if len(lines) == 0 {
			lines = []string{sample}
		}
		tr.Text = strings.Join(lines, "\n")
		out.Elements[i] = tr
	}
	return out, nil
}
