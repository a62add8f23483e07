package rtl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/rtlslide/internal/pptxtest"
	"github.com/tsawler/rtlslide/model"
	"github.com/tsawler/rtlslide/pptx"
)

func transform(t *testing.T, e *Engine, part *pptx.Part) (*pptx.Part, Stats) {
	t.Helper()
	out, st, err := e.Transform(part, pptx.DefaultSlideSize)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	return out, st
}

func TestTransform_RootShape(t *testing.T) {
	part := parseSlide(t, pptxtest.Sp(2, "Rectangle 1", 0, 0, 3000000, 1000000, "rect", ""))
	out, st := transform(t, New(DefaultOptions()), part)

	s := out.Shapes()[0]
	if got := xOf(s); got != 9192000 {
		t.Errorf("x = %d, want 9192000", got)
	}
	if s.Common().FlipH() {
		t.Error("shape should not be flipped")
	}
	if st.ShapesMirrored != 1 {
		t.Errorf("ShapesMirrored = %d, want 1", st.ShapesMirrored)
	}
	if got := attr(t, s.Element(), "p:spPr/a:xfrm/a:off", "x"); got != "9192000" {
		t.Errorf("serialised x = %q, want 9192000", got)
	}
}

func TestTransform_GroupChildSpace(t *testing.T) {
	part := parseSlide(t, pptxtest.Grp(3, "Group 2", 1000000, 0, 2000000, 1000000, 0, 2000000,
		pptxtest.Sp(4, "Child", 500000, 0, 500000, 500000, "rect", "")))
	out, st := transform(t, New(DefaultOptions()), part)

	g := out.Shapes()[0].(*pptx.Group)
	if got := xOf(g); got != 9192000 {
		t.Errorf("group x = %d, want 9192000", got)
	}
	if got := xOf(g.Children[0]); got != 1000000 {
		t.Errorf("child x = %d, want 1000000", got)
	}
	if st.GroupsMirrored != 1 || st.ShapesMirrored != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTransform_GroupWithoutChildSpace(t *testing.T) {
	grp := `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="3" name="Group"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="1000000" y="0"/><a:ext cx="2000000" cy="1000000"/></a:xfrm></p:grpSpPr>` +
		pptxtest.Sp(4, "Child", 1500000, 0, 500000, 500000, "rect", "") + `</p:grpSp>`
	part := parseSlide(t, grp)
	out, _ := transform(t, New(DefaultOptions()), part)

	g := out.Shapes()[0].(*pptx.Group)
	// Child space is {1,000,000, 2,000,000}: 1,000,000 + (2,000,000 - (500,000 + 500,000)).
	if got := xOf(g.Children[0]); got != 2000000 {
		t.Errorf("child x = %d, want 2000000", got)
	}
}

func TestTransform_LogoPicture(t *testing.T) {
	part := parseSlide(t, pptxtest.Pic(5, "CompanyLogo", 0, 0, 1000000, 1000000))
	out, st := transform(t, New(DefaultOptions()), part)

	s := out.Shapes()[0]
	if got := xOf(s); got != 11192000 {
		t.Errorf("x = %d, want 11192000", got)
	}
	if s.Common().FlipH() {
		t.Error("logo must not be flipped")
	}
	if st.PicturesMirrored != 1 || st.LogosPreserved != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTransform_Flips(t *testing.T) {
	part := parseSlide(t,
		pptxtest.Sp(2, "Banner", 0, 0, 8000000, 1000000, "rect", ""),
		pptxtest.Sp(3, "Arrow", 4000000, 2000000, 2000000, 500000, "rightArrow", ""),
		pptxtest.Sp(4, "Title", 0, 3000000, 8000000, 1000000, "rect", pptxtest.Body(pptxtest.Para("Hello"))),
		pptxtest.Cxn(5, "Connector", 1000000, 5000000, 2000000, 0),
	)
	out, st := transform(t, New(DefaultOptions()), part)

	var got []bool
	for _, s := range out.Shapes() {
		got = append(got, s.Common().FlipH())
	}
	if diff := cmp.Diff([]bool{true, true, false, true}, got); diff != "" {
		t.Errorf("flipH mismatch (-want +got):\n%s", diff)
	}
	if st.ShapesFlipped != 2 || st.ConnectorsMirrored != 1 || st.TextBodies != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTransform_ZeroOptionsFlip(t *testing.T) {
	part := parseSlide(t,
		pptxtest.Cxn(5, "Connector", 1000000, 0, 2000000, 0),
		pptxtest.Sp(3, "Banner", 0, 6000000, 6000000, 500000, "rect", ""),
	)
	out, st := transform(t, New(Options{}), part)

	for _, s := range out.Shapes() {
		if !s.Common().FlipH() {
			t.Errorf("%s not flipped with zero options", s.Common().Name)
		}
	}
	if st.ConnectorsMirrored != 1 || st.ShapesFlipped != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTransform_ConnectorFlipDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepConnectorDirection = true
	part := parseSlide(t, pptxtest.Cxn(5, "Connector", 1000000, 0, 2000000, 0))
	out, _ := transform(t, New(opts), part)

	s := out.Shapes()[0]
	if s.Common().FlipH() {
		t.Error("connector flipped with KeepConnectorDirection set")
	}
	if got := xOf(s); got != 9192000 {
		t.Errorf("x = %d, want 9192000", got)
	}
}

// Geometry-only slides round-trip exactly through two mirrors.
func TestTransform_Involution(t *testing.T) {
	part := parseSlide(t,
		pptxtest.Sp(2, "Banner", 100000, 0, 8000000, 1000000, "rect", ""),
		pptxtest.Sp(3, "Chevron", 4000000, 2000000, 2000000, 500000, "chevron", ""),
		pptxtest.Pic(4, "Logo", 0, 0, 900000, 900000),
		pptxtest.Cxn(5, "Connector", 1000000, 5000000, 2000000, 0),
		pptxtest.Grp(6, "Group", 2000000, 3000000, 3000000, 1000000, 0, 3000000,
			pptxtest.Sp(7, "Inner", 250000, 0, 2000000, 500000, "leftArrow", "")),
	)
	before, err := part.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.AllowRemirror = true
	e := New(opts)
	once, _ := transform(t, e, part)
	twice, _ := transform(t, e, once)

	after, err := twice.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("mirroring twice changed the part:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestTransform_PreservesSize(t *testing.T) {
	part := parseSlide(t,
		pptxtest.Sp(2, "A", 123, 456, 789000, 1011000, "rect", ""),
		pptxtest.Pic(3, "B", 5000000, 100, 2000000, 3000000),
	)
	out, _ := transform(t, New(DefaultOptions()), part)

	for i, s := range out.Shapes() {
		in := part.Shapes()[i].Common().BBox
		got := s.Common().BBox
		if got.Width != in.Width || got.Height != in.Height || got.Y != in.Y {
			t.Errorf("shape %d: bbox %+v, want size and y of %+v", i, *got, *in)
		}
	}
}

func TestTransform_AlreadyMirrored(t *testing.T) {
	part := parseSlide(t, pptxtest.Sp(2, "A", 0, 0, 100, 100, "rect", ""))
	e := New(DefaultOptions())
	out, _ := transform(t, e, part)

	if !out.Mirrored() {
		t.Fatal("output not marked mirrored")
	}
	if part.Mirrored() {
		t.Error("input marked mirrored")
	}
	if _, _, err := e.Transform(out, pptx.DefaultSlideSize); !errors.Is(err, ErrAlreadyMirrored) {
		t.Errorf("second Transform() error = %v, want ErrAlreadyMirrored", err)
	}
}

func TestTransform_InputUnchanged(t *testing.T) {
	part := parseSlide(t,
		pptxtest.Sp(2, "Title", 0, 0, 3000000, 1000000, "rect", pptxtest.Body(pptxtest.Para("Hello"))),
		pptxtest.Sp(3, "Banner", 0, 0, 8000000, 1000000, "rect", ""),
	)
	before, _ := part.Bytes()
	transform(t, New(DefaultOptions()), part)
	after, _ := part.Bytes()

	if !bytes.Equal(before, after) {
		t.Error("Transform() modified its input")
	}
	if got := xOf(part.Shapes()[0]); got != 0 {
		t.Errorf("input x = %d, want 0", got)
	}
}

func TestTransform_Frames(t *testing.T) {
	tbl := tableXML([]int{1, 2}, []string{"A", "B"})
	part := parseSlide(t,
		pptxtest.Frame(2, "Table", 1000000, 0, 4000000, 1000000, pptxtest.TableURI, tbl),
		pptxtest.Frame(3, "Chart", 0, 2000000, 4000000, 3000000, pptxtest.ChartURI, `<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="rId2"/>`),
		pptxtest.Frame(4, "Diagram", 0, 0, 100, 100, "http://schemas.openxmlformats.org/drawingml/2006/diagram", ""),
	)
	out, st := transform(t, New(DefaultOptions()), part)

	want := Stats{FramesMirrored: 3, Tables: 1, TableCells: 2, Charts: 1, SmartArt: 1, TextBodies: 0}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if got := xOf(out.Shapes()[0]); got != 7192000 {
		t.Errorf("table x = %d, want 7192000", got)
	}
	if diff := cmp.Diff([][]string{{"B", "A"}}, layout(out.Shapes()[0].(*pptx.GraphicFrame).Table)); diff != "" {
		t.Errorf("table layout mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_BrokenGeometry(t *testing.T) {
	broken := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Broken"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="abc" y="0"/><a:ext cx="10" cy="10"/></a:xfrm></p:spPr></p:sp>`
	noGeom := `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Inherited"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/></p:sp>`
	part := parseSlide(t, broken, noGeom, pptxtest.Sp(4, "Fine", 0, 0, 1000000, 1000000, "rect", ""))

	out, st := transform(t, New(DefaultOptions()), part)
	if st.Errors != 1 || st.Skipped != 1 || st.ShapesMirrored != 1 {
		t.Errorf("stats = %+v", st)
	}
	if got := xOf(out.Shapes()[2]); got != 11192000 {
		t.Errorf("sibling x = %d, want 11192000", got)
	}
}

func TestEngine_Walk(t *testing.T) {
	part := parseSlide(t, pptxtest.Sp(2, "A", 100, 0, 200, 100, "rect", ""))
	st := New(DefaultOptions()).Walk(part.Shapes(), model.CoordinateSpace{Offset: 0, Width: 1000}, pptx.DefaultSlideSize.Width)

	if got := xOf(part.Shapes()[0]); got != 700 {
		t.Errorf("x = %d, want 700", got)
	}
	if st.ShapesMirrored != 1 {
		t.Errorf("ShapesMirrored = %d, want 1", st.ShapesMirrored)
	}
}

func TestNew_ZeroOptions(t *testing.T) {
	e := New(Options{})
	if e.Options().Policy.FlipWidthRatio != 0.4 {
		t.Errorf("Policy = %+v, want defaults", e.Options().Policy)
	}
	if e.Options().Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestStats_Add(t *testing.T) {
	var s Stats
	s.Add(Stats{ShapesMirrored: 1, Errors: 2})
	s.Add(Stats{ShapesMirrored: 3, Tables: 1})
	want := Stats{ShapesMirrored: 4, Errors: 2, Tables: 1}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
}
