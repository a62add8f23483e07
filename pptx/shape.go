package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/tsawler/rtlslide/model"
)

// Shape is one node of a part's shape tree. The set of implementations is
// closed: *TextShape, *Picture, *Connector, *Group and *GraphicFrame.
type Shape interface {
	// Common returns the identity and geometry shared by every shape.
	Common() *Base
	// Element returns the underlying shape element.
	Element() *etree.Element

	sealed()
}

// Base holds what every shape kind carries.
type Base struct {
	ID   string // cNvPr/@id, never regenerated
	Name string // cNvPr/@name

	// BBox is nil when the shape declares no a:xfrm with both a:off and
	// a:ext.
	BBox *model.BBox

	// GeometryErr records an unparsable transform. BBox is nil when set.
	GeometryErr error

	el   *etree.Element
	xfrm *etree.Element
	off  *etree.Element
}

func (b *Base) Common() *Base           { return b }
func (b *Base) Element() *etree.Element { return b.el }
func (b *Base) sealed()                 {}

// SetX moves the shape horizontally. It is a no-op for shapes without
// geometry.
func (b *Base) SetX(x int64) {
	if b.BBox == nil || b.off == nil {
		return
	}
	b.off.CreateAttr("x", strconv.FormatInt(x, 10))
	b.BBox.X = x
}

// FlipH reports whether the transform is horizontally flipped.
func (b *Base) FlipH() bool {
	if b.xfrm == nil {
		return false
	}
	return attrBool(b.xfrm, "flipH")
}

// SetFlipH sets or clears the horizontal flip. Clearing removes the
// attribute rather than writing a false value.
func (b *Base) SetFlipH(v bool) {
	if b.xfrm == nil {
		return
	}
	if v {
		b.xfrm.CreateAttr("flipH", "1")
		return
	}
	b.xfrm.RemoveAttr("flipH")
}

// TextShape is a p:sp element: an autoshape, text box or placeholder.
type TextShape struct {
	Base

	Preset         string // prstGeom/@prst, empty for custom geometry
	Placeholder    string // ph/@type, "obj" when ph has no type
	HasPlaceholder bool

	// Text is nil when the shape has no p:txBody.
	Text *TextBody
}

// Picture is a p:pic element.
type Picture struct {
	Base
}

// Connector is a p:cxnSp element.
type Connector struct {
	Base

	Preset string
}

// Group is a p:grpSp element.
type Group struct {
	Base

	// ChildSpace is the coordinate space of the children, from a:chOff and
	// a:chExt. It is nil when either is absent.
	ChildSpace *model.CoordinateSpace

	// ChildSpaceY is the vertical counterpart of ChildSpace: chOff y and
	// chExt cy.
	ChildSpaceY *model.CoordinateSpace

	Children []Shape
}

// GraphicKind identifies the payload of a graphic frame.
type GraphicKind int

const (
	GraphicOther GraphicKind = iota
	GraphicTable
	GraphicChart
	GraphicSmartArt
)

func (k GraphicKind) String() string {
	switch k {
	case GraphicTable:
		return "table"
	case GraphicChart:
		return "chart"
	case GraphicSmartArt:
		return "smartart"
	default:
		return "other"
	}
}

// graphicData URIs.
const (
	uriTable     = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart     = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriSmartArt  = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	uriChartExPf = "http://schemas.microsoft.com/office/drawing/2014/chartex"
)

// GraphicFrame is a p:graphicFrame element holding a table, chart,
// diagram or OLE object.
type GraphicFrame struct {
	Base

	Kind GraphicKind

	// Table is set when Kind is GraphicTable.
	Table *Table

	// ChartRelID is the r:id of the chart part when Kind is GraphicChart.
	ChartRelID string
}

// parseShapes reads the shape children of a shape tree or group element.
// mc:AlternateContent is unwrapped: shapes of both the Choice and the
// Fallback branches are returned in document order.
func parseShapes(container *etree.Element) []Shape {
	var shapes []Shape
	for _, el := range container.ChildElements() {
		if is(el, NSMarkupCompat, "AlternateContent") {
			for _, branch := range el.ChildElements() {
				if branch.NamespaceURI() == NSMarkupCompat {
					shapes = append(shapes, parseShapes(branch)...)
				}
			}
			continue
		}
		if el.NamespaceURI() != NSPresentationML {
			continue
		}

		switch el.Tag {
		case "sp":
			shapes = append(shapes, parseTextShape(el))
		case "pic":
			pic := &Picture{}
			pic.init(el, child(el, NSPresentationML, "spPr"))
			shapes = append(shapes, pic)
		case "cxnSp":
			cxn := &Connector{}
			cxn.init(el, child(el, NSPresentationML, "spPr"))
			cxn.Preset = presetOf(el)
			shapes = append(shapes, cxn)
		case "grpSp":
			shapes = append(shapes, parseGroup(el))
		case "graphicFrame":
			shapes = append(shapes, parseGraphicFrame(el))
		}
	}
	return shapes
}

// init reads identity and geometry. props is the element holding the
// shape's transform (spPr or grpSpPr); graphic frames pass the frame
// itself since p:xfrm is a direct child.
func (b *Base) init(el, props *etree.Element) {
	b.el = el
	if nv := nonVisualProps(el); nv != nil {
		if c := child(nv, NSPresentationML, "cNvPr"); c != nil {
			b.ID = c.SelectAttrValue("id", "")
			b.Name = c.SelectAttrValue("name", "")
		}
	}

	if props == nil {
		return
	}
	xfrm := child(props, NSDrawingML, "xfrm")
	if xfrm == nil {
		xfrm = child(props, NSPresentationML, "xfrm")
	}
	if xfrm == nil {
		return
	}
	b.xfrm = xfrm

	off := child(xfrm, NSDrawingML, "off")
	ext := child(xfrm, NSDrawingML, "ext")
	if off == nil || ext == nil {
		return
	}

	var vals [4]int64
	for i, a := range []struct {
		el  *etree.Element
		key string
	}{{off, "x"}, {off, "y"}, {ext, "cx"}, {ext, "cy"}} {
		v, _, err := attrInt(a.el, a.key)
		if err != nil {
			b.GeometryErr = err
			return
		}
		vals[i] = v
	}

	b.off = off
	bbox := model.NewBBox(vals[0], vals[1], vals[2], vals[3])
	b.BBox = &bbox
}

// nonVisualProps returns the p:nv*Pr child of a shape element.
func nonVisualProps(el *etree.Element) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.NamespaceURI() == NSPresentationML && strings.HasPrefix(c.Tag, "nv") && strings.HasSuffix(c.Tag, "Pr") {
			return c
		}
	}
	return nil
}

func presetOf(el *etree.Element) string {
	geom := walkPath(el, pStep("spPr"), aStep("prstGeom"))
	if geom == nil {
		return ""
	}
	return geom.SelectAttrValue("prst", "")
}

func parseTextShape(el *etree.Element) *TextShape {
	ts := &TextShape{}
	ts.init(el, child(el, NSPresentationML, "spPr"))
	ts.Preset = presetOf(el)

	if nv := nonVisualProps(el); nv != nil {
		if ph := walkPath(nv, pStep("nvPr"), pStep("ph")); ph != nil {
			ts.HasPlaceholder = true
			ts.Placeholder = ph.SelectAttrValue("type", "obj")
		}
	}

	if body := child(el, NSPresentationML, "txBody"); body != nil {
		ts.Text = newTextBody(body)
	}
	return ts
}

func parseGroup(el *etree.Element) *Group {
	g := &Group{}
	props := child(el, NSPresentationML, "grpSpPr")
	g.init(el, props)

	if g.xfrm != nil && g.GeometryErr == nil {
		chOff := child(g.xfrm, NSDrawingML, "chOff")
		chExt := child(g.xfrm, NSDrawingML, "chExt")
		if chOff != nil && chExt != nil {
			x, _, errX := attrInt(chOff, "x")
			cx, _, errW := attrInt(chExt, "cx")
			switch {
			case errX != nil:
				g.GeometryErr = errX
			case errW != nil:
				g.GeometryErr = errW
			default:
				g.ChildSpace = &model.CoordinateSpace{Offset: x, Width: cx}
			}
			y, _, errY := attrInt(chOff, "y")
			cy, _, errH := attrInt(chExt, "cy")
			if errY == nil && errH == nil {
				g.ChildSpaceY = &model.CoordinateSpace{Offset: y, Width: cy}
			}
		}
	}

	g.Children = parseShapes(el)
	return g
}

func parseGraphicFrame(el *etree.Element) *GraphicFrame {
	gf := &GraphicFrame{}
	gf.init(el, el)

	data := walkPath(el, aStep("graphic"), aStep("graphicData"))
	if data == nil {
		return gf
	}

	switch data.SelectAttrValue("uri", "") {
	case uriTable:
		gf.Kind = GraphicTable
		if tbl := child(data, NSDrawingML, "tbl"); tbl != nil {
			gf.Table = newTable(tbl)
		}
	case uriChart, uriChartExPf:
		gf.Kind = GraphicChart
		for _, c := range data.ChildElements() {
			if c.Tag == "chart" {
				gf.ChartRelID = attrNS(c, NSRelationships, "id")
				break
			}
		}
	case uriSmartArt:
		gf.Kind = GraphicSmartArt
	}
	return gf
}

// Walk calls fn for every shape in depth-first document order. Returning
// false from fn skips the shape's children.
func Walk(shapes []Shape, fn func(Shape) bool) {
	for _, s := range shapes {
		if !fn(s) {
			continue
		}
		if g, ok := s.(*Group); ok {
			Walk(g.Children, fn)
		}
	}
}
