package content

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/model"
	"github.com/tsawler/rtlslide/pptx"
)

// Extract returns one record per text shape of part with non-blank text,
// groups included, ordered by ascending slide y. Shapes inside groups are
// placed by their y projected out of the group's child space. Shapes
// without geometry come last. A shape whose id was already extracted is
// skipped, which drops the second branch of mc:AlternateContent.
func Extract(part *pptx.Part, opts Options) Document {
	log := opts.logger().With(slog.String("part", part.Name))

	type positioned struct {
		rec Record
		y   int64
	}
	var found []positioned
	seen := make(map[string]bool)

	var visit func(shapes []pptx.Shape, toSlide func(int64) int64)
	visit = func(shapes []pptx.Shape, toSlide func(int64) int64) {
		for _, s := range shapes {
			switch sh := s.(type) {
			case *pptx.Group:
				visit(sh.Children, groupToSlide(sh, toSlide))
			case *pptx.TextShape:
				if sh.Text == nil {
					continue
				}
				rec, ok := record(sh)
				if !ok {
					continue
				}
				if seen[rec.ID] {
					log.Debug("duplicate shape id not extracted", slog.String("id", rec.ID), slog.String("shape", sh.Name))
					continue
				}
				seen[rec.ID] = true

				y := int64(math.MaxInt64)
				if sh.BBox != nil {
					y = toSlide(sh.BBox.Y)
				}
				found = append(found, positioned{rec: rec, y: y})
			}
		}
	}
	visit(part.Shapes(), func(y int64) int64 { return y })

	sort.SliceStable(found, func(i, j int) bool { return found[i].y < found[j].y })

	doc := Document{Context: opts.context(), Elements: make([]Record, 0, len(found))}
	for _, f := range found {
		doc.Elements = append(doc.Elements, f.rec)
	}
	return doc
}

// groupToSlide returns the mapping from g's child y to slide y. A group
// without a vertical child space places its children like itself.
func groupToSlide(g *pptx.Group, toSlide func(int64) int64) func(int64) int64 {
	if g.BBox == nil || g.ChildSpaceY == nil {
		return toSlide
	}
	child := *g.ChildSpaceY
	own := model.CoordinateSpace{Offset: g.BBox.Y, Width: g.BBox.Height}
	return func(y int64) int64 { return toSlide(child.Project(y, own)) }
}

// record builds the record of a text shape. ok is false when the shape
// has no non-blank paragraph.
func record(ts *pptx.TextShape) (Record, bool) {
	rec := Record{ID: ts.ID, Role: RoleContent}
	if ts.HasPlaceholder {
		rec.Role = RoleOf(ts.Placeholder)
	}

	var lines []string
	for _, p := range ts.Text.Paragraphs() {
		if p.IsBlank() {
			continue
		}
		t := p.Text()
		rec.Paragraphs = append(rec.Paragraphs, Paragraph{Text: t, Level: p.Level(), IsBold: p.IsBold()})
		lines = append(lines, t)
	}
	if len(lines) == 0 {
		return Record{}, false
	}
	rec.Text = strings.Join(lines, "\n")
	return rec, true
}
