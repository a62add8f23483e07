package pptx

import (
	"strconv"

	"github.com/beevik/etree"
)

var (
	valAxOrder = []string{"axId", "scaling", "delete", "axPos", "majorGridlines", "minorGridlines",
		"title", "numFmt", "majorTickMark", "minorTickMark", "tickLblPos", "spPr", "txPr",
		"crossAx", "crosses", "crossesAt", "crossBetween", "majorUnit", "minorUnit", "dispUnits", "extLst"}
	scalingOrder = []string{"logBase", "orientation", "max", "min", "extLst"}
)

// Chart is a view over a c:chartSpace document.
type Chart struct {
	el *etree.Element // c:chartSpace
}

// Element returns the c:chartSpace element.
func (c *Chart) Element() *etree.Element { return c.el }

func (c *Chart) plotArea() *etree.Element {
	return walkPath(c.el, cStep("chart"), cStep("plotArea"))
}

func (c *Chart) titleRun() *etree.Element {
	rich := walkPath(c.el, cStep("chart"), cStep("title"), cStep("tx"), cStep("rich"))
	for _, p := range children(rich, NSDrawingML, "p") {
		if r := child(p, NSDrawingML, "r"); r != nil {
			return r
		}
	}
	return nil
}

// Title returns the text of the first run of the rich chart title. ok is
// false when the chart has no rich title.
func (c *Chart) Title() (title string, ok bool) {
	r := c.titleRun()
	if r == nil {
		return "", false
	}
	return (&Run{el: r}).Text(), true
}

// SetTitle replaces the first title run's text and sets its language.
// Charts without a rich title are left alone.
func (c *Chart) SetTitle(text, lang string) bool {
	r := c.titleRun()
	if r == nil {
		return false
	}
	run := &Run{el: r}
	run.SetText(text)
	run.SetLanguage(lang)
	return true
}

// Series returns every c:ser of every plot in the plot area.
func (c *Chart) Series() []*Series {
	pa := c.plotArea()
	if pa == nil {
		return nil
	}
	var out []*Series
	for _, plot := range pa.ChildElements() {
		for i, ser := range children(plot, NSChart, "ser") {
			out = append(out, &Series{el: ser, pos: i})
		}
	}
	return out
}

// BarCharts returns the c:barChart plots.
func (c *Chart) BarCharts() []*BarChart {
	els := children(c.plotArea(), NSChart, "barChart")
	out := make([]*BarChart, len(els))
	for i, el := range els {
		out[i] = &BarChart{el: el}
	}
	return out
}

// ValueAxes returns the c:valAx elements of the plot area.
func (c *Chart) ValueAxes() []*ValueAxis {
	els := children(c.plotArea(), NSChart, "valAx")
	out := make([]*ValueAxis, len(els))
	for i, el := range els {
		out[i] = &ValueAxis{el: el}
	}
	return out
}

// ExternalDataRelID returns c:externalData/@r:id, the relationship to the
// workbook that backs the chart.
func (c *Chart) ExternalDataRelID() string {
	return attrNS(child(c.el, NSChart, "externalData"), NSRelationships, "id")
}

// Series is a view over c:ser.
type Series struct {
	el  *etree.Element
	pos int
}

// Index returns c:idx/@val, falling back to the series position in its
// plot.
func (s *Series) Index() int {
	if idx := child(s.el, NSChart, "idx"); idx != nil {
		if n, err := strconv.Atoi(idx.SelectAttrValue("val", "")); err == nil {
			return n
		}
	}
	return s.pos
}

func (s *Series) nameValue() *etree.Element {
	return walkPath(s.el, cStep("tx"), cStep("strRef"), cStep("strCache"), cStep("pt"), cStep("v"))
}

// Name returns the cached series name.
func (s *Series) Name() (string, bool) {
	v := s.nameValue()
	if v == nil {
		return "", false
	}
	return v.Text(), true
}

// SetName rewrites the cached series name.
func (s *Series) SetName(name string) bool {
	v := s.nameValue()
	if v == nil {
		return false
	}
	v.SetText(name)
	return true
}

// NameRef returns the worksheet reference of the series name, such as
// "Sheet1!$B$1".
func (s *Series) NameRef() string {
	if f := walkPath(s.el, cStep("tx"), cStep("strRef"), cStep("f")); f != nil {
		return f.Text()
	}
	return ""
}

func (s *Series) categoryPoints() []*etree.Element {
	cache := walkPath(s.el, cStep("cat"), cStep("strRef"), cStep("strCache"))
	var vals []*etree.Element
	for _, pt := range children(cache, NSChart, "pt") {
		if v := child(pt, NSChart, "v"); v != nil {
			vals = append(vals, v)
		}
	}
	return vals
}

// Categories returns the cached category labels in point order.
func (s *Series) Categories() []string {
	pts := s.categoryPoints()
	out := make([]string, len(pts))
	for i, v := range pts {
		out[i] = v.Text()
	}
	return out
}

// SetCategories rewrites cached category labels positionally. Extra
// labels are ignored; missing ones leave the point unchanged.
func (s *Series) SetCategories(labels []string) int {
	n := 0
	for i, v := range s.categoryPoints() {
		if i >= len(labels) {
			break
		}
		v.SetText(labels[i])
		n++
	}
	return n
}

// CategoryRef returns the worksheet range of the categories.
func (s *Series) CategoryRef() string {
	if f := walkPath(s.el, cStep("cat"), cStep("strRef"), cStep("f")); f != nil {
		return f.Text()
	}
	return ""
}

// BarChart is a view over c:barChart.
type BarChart struct {
	el *etree.Element
}

// Direction returns c:barDir/@val, "col" when absent.
func (b *BarChart) Direction() string {
	if d := child(b.el, NSChart, "barDir"); d != nil {
		return d.SelectAttrValue("val", "col")
	}
	return "col"
}

// AxisIDs returns the ids of the axes the plot is drawn against.
func (b *BarChart) AxisIDs() []string {
	var ids []string
	for _, ax := range children(b.el, NSChart, "axId") {
		ids = append(ids, ax.SelectAttrValue("val", ""))
	}
	return ids
}

// ValueAxis is a view over c:valAx.
type ValueAxis struct {
	el *etree.Element
}

// Element returns the c:valAx element.
func (v *ValueAxis) Element() *etree.Element { return v.el }

// ID returns c:axId/@val.
func (v *ValueAxis) ID() string {
	if ax := child(v.el, NSChart, "axId"); ax != nil {
		return ax.SelectAttrValue("val", "")
	}
	return ""
}

// Orientation returns c:scaling/c:orientation/@val, "minMax" when absent.
func (v *ValueAxis) Orientation() string {
	if o := walkPath(v.el, cStep("scaling"), cStep("orientation")); o != nil {
		return o.SelectAttrValue("val", "minMax")
	}
	return "minMax"
}

// SetOrientation writes the axis orientation, creating c:scaling right
// after c:axId and c:orientation in scaling order when missing.
func (v *ValueAxis) SetOrientation(val string) {
	scaling := ensureChild(v.el, NSChart, "scaling", valAxOrder)
	o := ensureChild(scaling, NSChart, "orientation", scalingOrder)
	o.CreateAttr("val", val)
}
