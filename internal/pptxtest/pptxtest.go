// Package pptxtest builds small in-memory presentation packages for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SlideWidth and SlideHeight are the widescreen page size the builders
// declare.
const (
	SlideWidth  = 12192000
	SlideHeight = 6858000
)

// Namespace declarations used by every generated part.
const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Member is one archive entry.
type Member struct {
	Name    string
	Content string
}

// Slide wraps shape elements into a complete slide document.
func Slide(shapes ...string) string {
	return xmlHeader + `<p:sld ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr/>` + strings.Join(shapes, "") +
		`</p:spTree></p:cSld></p:sld>`
}

// Layout wraps shape elements into a slide layout document.
func Layout(shapes ...string) string {
	return xmlHeader + `<p:sldLayout ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr/>` + strings.Join(shapes, "") +
		`</p:spTree></p:cSld></p:sldLayout>`
}

// Presentation returns a presentation.xml with the given slide size and
// slide count. A zero width omits p:sldSz.
func Presentation(cx, cy int64, slides int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation ` + nsDecl + `><p:sldIdLst>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	sb.WriteString(`</p:sldIdLst>`)
	if cx > 0 {
		fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, cx, cy)
	}
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

// ContentTypes is a minimal [Content_Types].xml.
const ContentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`</Types>`

// Rels builds a .rels document from alternating id, type suffix and
// target triples, such as "rId1", "chart", "../charts/chart1.xml".
func Rels(triples ...string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 0; i+2 < len(triples); i += 3 {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s"/>`,
			triples[i], triples[i+1], triples[i+2])
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// Deck returns the members of a package with the given slides, a
// widescreen page size and the required package parts.
func Deck(slides ...string) []Member {
	members := []Member{
		{"[Content_Types].xml", ContentTypes},
		{"_rels/.rels", Rels("rId1", "officeDocument", "ppt/presentation.xml")},
		{"ppt/presentation.xml", Presentation(SlideWidth, SlideHeight, len(slides))},
	}
	for i, s := range slides {
		members = append(members, Member{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s})
	}
	return members
}

// Build zips members, in order, into an archive.
func Build(t testing.TB, members ...Member) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", m.Name, err)
		}
		if _, err := w.Write([]byte(m.Content)); err != nil {
			t.Fatalf("Failed to write %s: %v", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteFile builds members into a file under t.TempDir and returns its
// path.
func WriteFile(t testing.TB, name string, members ...Member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Build(t, members...), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// Sp returns a p:sp element. body is the inner XML of p:txBody; an empty
// body omits the text body, an empty prst omits a:prstGeom.
func Sp(id int, name string, x, y, cx, cy int64, prst, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, name)
	sb.WriteString(`<p:spPr>`)
	fmt.Fprintf(&sb, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, x, y, cx, cy)
	if prst != "" {
		fmt.Fprintf(&sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, prst)
	}
	sb.WriteString(`</p:spPr>`)
	if body != "" {
		sb.WriteString(`<p:txBody>` + body + `</p:txBody>`)
	}
	sb.WriteString(`</p:sp>`)
	return sb.String()
}

// Placeholder returns a p:sp placeholder of the given type with body as
// the inner XML of p:txBody. An empty phType writes a p:ph without type.
func Placeholder(id int, name, phType string, x, y, cx, cy int64, body string) string {
	ph := `<p:ph/>`
	if phType != "" {
		ph = fmt.Sprintf(`<p:ph type="%s"/>`, phType)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`+
		`<p:txBody>%s</p:txBody></p:sp>`, id, name, ph, x, y, cx, cy, body)
}

// Pic returns a p:pic element.
func Pic(id int, name string, x, y, cx, cy int64) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId9"/></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, name, x, y, cx, cy)
}

// Cxn returns a p:cxnSp element.
func Cxn(id int, name string, x, y, cx, cy int64) string {
	return fmt.Sprintf(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="%d" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="straightConnector1"><a:avLst/></a:prstGeom></p:spPr></p:cxnSp>`,
		id, name, x, y, cx, cy)
}

// Grp returns a p:grpSp element whose child space is chOff/chExt.
func Grp(id int, name string, x, y, cx, cy, chx, chcx int64, shapes ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/><a:chOff x="%d" y="0"/><a:chExt cx="%d" cy="%d"/></a:xfrm></p:grpSpPr>`+
		`%s</p:grpSp>`, id, name, x, y, cx, cy, chx, chcx, cy, strings.Join(shapes, ""))
}

// Frame returns a p:graphicFrame whose graphicData has the given uri and
// inner XML.
func Frame(id int, name string, x, y, cx, cy int64, uri, data string) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="%s">%s</a:graphicData></a:graphic></p:graphicFrame>`,
		id, name, x, y, cx, cy, uri, data)
}

// TableURI and ChartURI are graphicData uris.
const (
	TableURI = "http://schemas.openxmlformats.org/drawingml/2006/table"
	ChartURI = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

// Para returns an a:p with one run per text.
func Para(texts ...string) string {
	var sb strings.Builder
	sb.WriteString(`<a:p>`)
	for _, t := range texts {
		sb.WriteString(`<a:r><a:rPr lang="en-US"/><a:t>` + t + `</a:t></a:r>`)
	}
	sb.WriteString(`</a:p>`)
	return sb.String()
}

// Body returns p:txBody inner XML: a body properties element and the
// given paragraphs.
func Body(paras ...string) string {
	return `<a:bodyPr/><a:lstStyle/>` + strings.Join(paras, "")
}

// chartNS declares the chart namespaces.
const chartNS = `xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// BarChart returns a chart space with one bar plot. Series names sit in
// Sheet1 row 1 starting at column B, categories in column A starting at
// row 2. An empty title omits c:title.
func BarChart(dir, title string, series, categories []string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<c:chartSpace ` + chartNS + `><c:chart>`)
	if title != "" {
		sb.WriteString(`<c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>` +
			title + `</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title>`)
	}
	sb.WriteString(`<c:plotArea><c:layout/><c:barChart>`)
	fmt.Fprintf(&sb, `<c:barDir val="%s"/><c:grouping val="clustered"/>`, dir)
	for i, name := range series {
		col := string(rune('B' + i))
		fmt.Fprintf(&sb, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		fmt.Fprintf(&sb, `<c:tx><c:strRef><c:f>Sheet1!$%s$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>`, col, name)
		fmt.Fprintf(&sb, `<c:cat><c:strRef><c:f>Sheet1!$A$2:$A$%d</c:f><c:strCache><c:ptCount val="%d"/>`, len(categories)+1, len(categories))
		for j, cat := range categories {
			fmt.Fprintf(&sb, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, j, cat)
		}
		sb.WriteString(`</c:strCache></c:strRef></c:cat></c:ser>`)
	}
	sb.WriteString(`<c:axId val="111"/><c:axId val="222"/></c:barChart>`)
	sb.WriteString(`<c:catAx><c:axId val="111"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="l"/><c:crossAx val="222"/></c:catAx>`)
	sb.WriteString(`<c:valAx><c:axId val="222"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="b"/><c:crossAx val="111"/></c:valAx>`)
	sb.WriteString(`</c:plotArea></c:chart><c:externalData r:id="rId1"><c:autoUpdate val="0"/></c:externalData></c:chartSpace>`)
	return sb.String()
}
