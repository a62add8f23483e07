package rtl

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/tsawler/rtlslide/internal/pptxtest"
	"github.com/tsawler/rtlslide/pptx"
)

func parseSlide(t *testing.T, shapes ...string) *pptx.Part {
	t.Helper()
	p, err := pptx.ParsePart("ppt/slides/slide1.xml", []byte(pptxtest.Slide(shapes...)))
	if err != nil {
		t.Fatalf("ParsePart() failed: %v", err)
	}
	return p
}

// textOf returns the text body of the first shape on a one-shape slide.
func textOf(t *testing.T, body string) *pptx.TextBody {
	t.Helper()
	p := parseSlide(t, pptxtest.Sp(2, "Box", 0, 0, 100, 100, "", body))
	tb := p.Shapes()[0].(*pptx.TextShape).Text
	if tb == nil {
		t.Fatal("shape has no text body")
	}
	return tb
}

func attr(t *testing.T, root *etree.Element, path, name string) string {
	t.Helper()
	el := root.FindElement(path)
	if el == nil {
		t.Fatalf("element %s not found", path)
	}
	return el.SelectAttrValue(name, "")
}

func xOf(s pptx.Shape) int64 {
	return s.Common().BBox.X
}
