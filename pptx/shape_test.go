package pptx

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/rtlslide/internal/pptxtest"
	"github.com/tsawler/rtlslide/model"
)

func mustParse(t *testing.T, name, data string) *Part {
	t.Helper()
	p, err := ParsePart(name, []byte(data))
	if err != nil {
		t.Fatalf("ParsePart(%s) failed: %v", name, err)
	}
	return p
}

func TestParsePart_ShapeKinds(t *testing.T) {
	slide := pptxtest.Slide(
		pptxtest.Sp(2, "Title 1", 100, 200, 3000, 400, "rect", pptxtest.Body(pptxtest.Para("Hello"))),
		pptxtest.Pic(3, "Picture 2", 10, 20, 30, 40),
		pptxtest.Cxn(4, "Connector 3", 0, 0, 500, 0),
		pptxtest.Grp(5, "Group 4", 1000, 0, 2000, 1000, 0, 4000,
			pptxtest.Sp(6, "Inner", 0, 0, 1000, 1000, "chevron", ""),
		),
		pptxtest.Frame(7, "Table 6", 0, 0, 4000, 1000, pptxtest.TableURI, `<a:tbl><a:tblGrid/></a:tbl>`),
		pptxtest.Frame(8, "Chart 7", 0, 0, 4000, 1000, pptxtest.ChartURI, `<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="rId2"/>`),
		pptxtest.Frame(9, "Diagram 8", 0, 0, 4000, 1000, "http://schemas.openxmlformats.org/drawingml/2006/diagram", ``),
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	if p.Kind != KindSlide {
		t.Errorf("Kind = %v, want slide", p.Kind)
	}

	shapes := p.Shapes()
	if len(shapes) != 7 {
		t.Fatalf("len(Shapes()) = %d, want 7", len(shapes))
	}

	ts, ok := shapes[0].(*TextShape)
	if !ok {
		t.Fatalf("shape 0 is %T, want *TextShape", shapes[0])
	}
	if ts.ID != "2" || ts.Name != "Title 1" || ts.Preset != "rect" {
		t.Errorf("TextShape = {%q %q %q}", ts.ID, ts.Name, ts.Preset)
	}
	if diff := cmp.Diff(&model.BBox{X: 100, Y: 200, Width: 3000, Height: 400}, ts.BBox); diff != "" {
		t.Errorf("BBox mismatch (-want +got):\n%s", diff)
	}
	if ts.Text == nil || ts.Text.Text() != "Hello" {
		t.Errorf("Text = %v, want Hello", ts.Text)
	}

	if _, ok := shapes[1].(*Picture); !ok {
		t.Errorf("shape 1 is %T, want *Picture", shapes[1])
	}
	if c, ok := shapes[2].(*Connector); !ok || c.Preset != "straightConnector1" {
		t.Errorf("shape 2 is %T, want *Connector with preset", shapes[2])
	}

	g, ok := shapes[3].(*Group)
	if !ok {
		t.Fatalf("shape 3 is %T, want *Group", shapes[3])
	}
	if diff := cmp.Diff(&model.CoordinateSpace{Offset: 0, Width: 4000}, g.ChildSpace); diff != "" {
		t.Errorf("ChildSpace mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.CoordinateSpace{Offset: 0, Width: 1000}, g.ChildSpaceY); diff != "" {
		t.Errorf("ChildSpaceY mismatch (-want +got):\n%s", diff)
	}
	if len(g.Children) != 1 || g.Children[0].Common().ID != "6" {
		t.Errorf("group children = %v", g.Children)
	}

	kinds := []GraphicKind{GraphicTable, GraphicChart, GraphicSmartArt}
	for i, want := range kinds {
		gf, ok := shapes[4+i].(*GraphicFrame)
		if !ok {
			t.Fatalf("shape %d is %T, want *GraphicFrame", 4+i, shapes[4+i])
		}
		if gf.Kind != want {
			t.Errorf("frame %d Kind = %v, want %v", i, gf.Kind, want)
		}
		if gf.BBox == nil {
			t.Errorf("frame %d has no geometry", i)
		}
	}
	if gf := shapes[4].(*GraphicFrame); gf.Table == nil {
		t.Error("table frame has nil Table")
	}
	if gf := shapes[5].(*GraphicFrame); gf.ChartRelID != "rId2" {
		t.Errorf("ChartRelID = %q, want rId2", gf.ChartRelID)
	}
}

func TestParsePart_Placeholders(t *testing.T) {
	slide := pptxtest.Slide(
		pptxtest.Placeholder(2, "Title", "title", 0, 0, 10, 10, pptxtest.Body(pptxtest.Para("T"))),
		pptxtest.Placeholder(3, "Content", "", 0, 0, 10, 10, pptxtest.Body(pptxtest.Para("B"))),
		pptxtest.Sp(4, "Box", 0, 0, 10, 10, "rect", pptxtest.Body(pptxtest.Para("C"))),
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	tests := []struct {
		idx  int
		has  bool
		kind string
	}{
		{0, true, "title"},
		{1, true, "obj"},
		{2, false, ""},
	}
	for _, tt := range tests {
		ts := p.Shapes()[tt.idx].(*TextShape)
		if ts.HasPlaceholder != tt.has || ts.Placeholder != tt.kind {
			t.Errorf("shape %d placeholder = (%v, %q), want (%v, %q)", tt.idx, ts.HasPlaceholder, ts.Placeholder, tt.has, tt.kind)
		}
	}
}

func TestParsePart_MissingGeometry(t *testing.T) {
	slide := pptxtest.Slide(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Inherited"/><p:cNvSpPr/><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr><p:spPr/>` +
			`<p:txBody>` + pptxtest.Body(pptxtest.Para("x")) + `</p:txBody></p:sp>`,
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Broken"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
			`<p:spPr><a:xfrm><a:off x="abc" y="0"/><a:ext cx="1" cy="1"/></a:xfrm></p:spPr></p:sp>`,
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	inherited := p.Shapes()[0].Common()
	if inherited.BBox != nil || inherited.GeometryErr != nil {
		t.Errorf("inherited shape BBox = %v, err = %v; want nil, nil", inherited.BBox, inherited.GeometryErr)
	}
	inherited.SetX(5)
	inherited.SetFlipH(true)

	broken := p.Shapes()[1].Common()
	if broken.BBox != nil || broken.GeometryErr == nil {
		t.Errorf("broken shape BBox = %v, err = %v; want nil and an error", broken.BBox, broken.GeometryErr)
	}
}

func TestParsePart_AlternateContent(t *testing.T) {
	slide := pptxtest.Slide(
		`<mc:AlternateContent><mc:Choice Requires="p14">` +
			pptxtest.Sp(5, "Choice", 0, 0, 10, 10, "", pptxtest.Body(pptxtest.Para("a"))) +
			`</mc:Choice><mc:Fallback>` +
			pptxtest.Sp(5, "Fallback", 0, 0, 10, 10, "", pptxtest.Body(pptxtest.Para("a"))) +
			`</mc:Fallback></mc:AlternateContent>`,
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	if got := len(p.Shapes()); got != 2 {
		t.Fatalf("len(Shapes()) = %d, want 2", got)
	}
	if diff := cmp.Diff([]string{"5"}, p.DuplicateIDs()); diff != "" {
		t.Errorf("DuplicateIDs() mismatch (-want +got):\n%s", diff)
	}
	if got := len(p.ShapesByID()["5"]); got != 2 {
		t.Errorf("ShapesByID()[5] has %d shapes, want 2", got)
	}
}

func TestParsePart_IDs(t *testing.T) {
	slide := pptxtest.Slide(
		pptxtest.Sp(12, "A", 0, 0, 1, 1, "", ""),
		pptxtest.Grp(3, "G", 0, 0, 1, 1, 0, 1, pptxtest.Pic(7, "P", 0, 0, 1, 1)),
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	if diff := cmp.Diff([]string{"12", "3", "7"}, p.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	if dups := p.DuplicateIDs(); len(dups) != 0 {
		t.Errorf("DuplicateIDs() = %v, want none", dups)
	}
}

func TestParsePart_Errors(t *testing.T) {
	tests := []struct {
		name    string
		part    string
		data    string
		wantErr error
	}{
		{"no shape tree", "ppt/slides/slide1.xml", `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld/></p:sld>`, ErrNoShapeTree},
		{"malformed xml", "ppt/slides/slide1.xml", `<p:sld`, nil},
		{"unknown root", "ppt/other.xml", `<foo/>`, nil},
		{"chart with wrong root", "ppt/charts/chart1.xml", `<foo/>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePart(tt.part, []byte(tt.data))
			if err == nil {
				t.Fatal("ParsePart() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParsePart() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePart_KindFromRoot(t *testing.T) {
	p := mustParse(t, "custom/name.xml", pptxtest.Layout())
	if p.Kind != KindLayout {
		t.Errorf("Kind = %v, want layout", p.Kind)
	}
}

func TestBase_SetXAndFlip(t *testing.T) {
	slide := pptxtest.Slide(pptxtest.Sp(2, "Arrow", 0, 0, 3000000, 100, "rightArrow", ""))
	p := mustParse(t, "ppt/slides/slide1.xml", slide)
	b := p.Shapes()[0].Common()

	b.SetX(9192000)
	b.SetFlipH(true)
	if !b.FlipH() {
		t.Error("FlipH() = false after SetFlipH(true)")
	}

	data, err := p.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	back := mustParse(t, "ppt/slides/slide1.xml", string(data))
	bb := back.Shapes()[0].Common()
	if bb.BBox.X != 9192000 {
		t.Errorf("X after round trip = %d, want 9192000", bb.BBox.X)
	}
	if !bb.FlipH() {
		t.Error("flipH lost on round trip")
	}

	bb.SetFlipH(false)
	if bb.FlipH() {
		t.Error("FlipH() = true after SetFlipH(false)")
	}
	if bb.Element().FindElement(".//a:xfrm").SelectAttr("flipH") != nil {
		t.Error("SetFlipH(false) left the attribute in place")
	}
}

func TestPart_BytesPreservesPrefixes(t *testing.T) {
	slide := pptxtest.Slide(pptxtest.Sp(2, "Box", 0, 0, 10, 10, "rect", pptxtest.Body(pptxtest.Para("x"))))
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	ts := p.Shapes()[0].(*TextShape)
	ts.Text.SetRTLColumns()
	ts.Text.Paragraphs()[0].SetRTL()

	data, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`,
		`<p:sld xmlns:a=`,
		`<a:bodyPr rtlCol="1"/>`,
		`<a:pPr rtl="1"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialised part missing %q", want)
		}
	}
	if strings.Contains(out, "ns0:") {
		t.Error("serialised part contains generated prefixes")
	}
}

func TestPart_CloneIsIndependent(t *testing.T) {
	slide := pptxtest.Slide(pptxtest.Sp(2, "Box", 100, 0, 10, 10, "", ""))
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	c := p.Clone()
	c.Shapes()[0].Common().SetX(999)
	c.MarkMirrored()

	if got := p.Shapes()[0].Common().BBox.X; got != 100 {
		t.Errorf("original X = %d after editing clone, want 100", got)
	}
	if p.Mirrored() {
		t.Error("MarkMirrored on clone changed the original")
	}
	if !c.Mirrored() || !c.Clone().Mirrored() {
		t.Error("clone lost mirrored state")
	}
}

func TestWalk_SkipsChildren(t *testing.T) {
	slide := pptxtest.Slide(
		pptxtest.Grp(2, "G", 0, 0, 1, 1, 0, 1, pptxtest.Sp(3, "Inner", 0, 0, 1, 1, "", "")),
		pptxtest.Sp(4, "After", 0, 0, 1, 1, "", ""),
	)
	p := mustParse(t, "ppt/slides/slide1.xml", slide)

	var all, top []string
	Walk(p.Shapes(), func(s Shape) bool {
		all = append(all, s.Common().Name)
		return true
	})
	Walk(p.Shapes(), func(s Shape) bool {
		top = append(top, s.Common().Name)
		return false
	})

	if diff := cmp.Diff([]string{"G", "Inner", "After"}, all); diff != "" {
		t.Errorf("Walk(all) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"G", "After"}, top); diff != "" {
		t.Errorf("Walk(top) mismatch (-want +got):\n%s", diff)
	}
}
