package rtl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/rtlslide/internal/pptxtest"
	"github.com/tsawler/rtlslide/pptx"
)

// tableXML builds an a:tbl with the given grid widths. Each row is a list
// of cell specs: "A" is a plain cell, "A:2" spans two columns and "-"
// continues a horizontal merge.
func tableXML(widths []int, rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString(`<a:tbl><a:tblPr/><a:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(&sb, `<a:gridCol w="%d"/>`, w)
	}
	sb.WriteString(`</a:tblGrid>`)
	for _, row := range rows {
		sb.WriteString(`<a:tr h="370840">`)
		for _, spec := range row {
			switch {
			case spec == "-":
				sb.WriteString(`<a:tc hMerge="1"><a:txBody><a:bodyPr/><a:lstStyle/><a:p/></a:txBody><a:tcPr/></a:tc>`)
			case strings.Contains(spec, ":"):
				name, span, _ := strings.Cut(spec, ":")
				fmt.Fprintf(&sb, `<a:tc gridSpan="%s"><a:txBody><a:bodyPr/><a:lstStyle/>%s</a:txBody><a:tcPr/></a:tc>`, span, pptxtest.Para(name))
			default:
				fmt.Fprintf(&sb, `<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>%s</a:txBody><a:tcPr/></a:tc>`, pptxtest.Para(spec))
			}
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl>`)
	return sb.String()
}

func tableOf(t *testing.T, tbl string) *pptx.Table {
	t.Helper()
	p := parseSlide(t, pptxtest.Frame(4, "Table 3", 1000000, 1000000, 6000000, 2000000, pptxtest.TableURI, tbl))
	gf := p.Shapes()[0].(*pptx.GraphicFrame)
	if gf.Table == nil {
		t.Fatal("frame has no table")
	}
	return gf.Table
}

// layout describes each row as cell labels, "-" for merge continuations.
func layout(tbl *pptx.Table) [][]string {
	var out [][]string
	for _, row := range tbl.Rows() {
		var labels []string
		for _, c := range row.Cells() {
			switch {
			case c.HMerge():
				labels = append(labels, "-")
			case c.GridSpan() > 1:
				labels = append(labels, fmt.Sprintf("%s:%d", c.Text().Text(), c.GridSpan()))
			default:
				labels = append(labels, c.Text().Text())
			}
		}
		out = append(out, labels)
	}
	return out
}

func gridWidths(tbl *pptx.Table) []string {
	var out []string
	for _, g := range tbl.GridColumns() {
		out = append(out, g.SelectAttrValue("w", ""))
	}
	return out
}

func TestRestructureTable(t *testing.T) {
	tbl := tableOf(t, tableXML([]int{100, 200, 300},
		[]string{"A", "B", "C"},
		[]string{"Wide:2", "-", "D"},
		[]string{"E", "Tail:2", "-"},
	))

	st := RestructureTable(tbl, DefaultOptions())

	wantLayout := [][]string{
		{"C", "B", "A"},
		{"D", "Wide:2", "-"},
		{"Tail:2", "-", "E"},
	}
	if diff := cmp.Diff(wantLayout, layout(tbl)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"300", "200", "100"}, gridWidths(tbl)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if st.Rows != 3 || st.Cells != 9 || len(st.MalformedRows) != 0 {
		t.Errorf("RestructureTable() stats = %+v", st)
	}

	for _, row := range tbl.Rows() {
		for _, c := range row.Cells() {
			if !c.Text().RTLColumns() {
				t.Fatal("cell text not rewritten")
			}
		}
	}
}

func TestRestructureTable_Involution(t *testing.T) {
	rows := [][]string{
		{"A", "B", "C", "D"},
		{"X:3", "-", "-", "Y"},
		{"P", "Q:2", "-", "R"},
	}
	tbl := tableOf(t, tableXML([]int{1, 2, 3, 4}, rows...))

	RestructureTable(tbl, DefaultOptions())
	RestructureTable(tbl, DefaultOptions())

	if diff := cmp.Diff(rows, layout(tbl)); diff != "" {
		t.Errorf("layout after two passes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, gridWidths(tbl)); diff != "" {
		t.Errorf("grid after two passes mismatch (-want +got):\n%s", diff)
	}
}

func TestRestructureTable_SpanStartsBlock(t *testing.T) {
	tbl := tableOf(t, tableXML([]int{1, 2, 3},
		[]string{"A:3", "-", "-"},
	))
	RestructureTable(tbl, DefaultOptions())

	if diff := cmp.Diff([][]string{{"A:3", "-", "-"}}, layout(tbl)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestRestructureTable_MalformedRows(t *testing.T) {
	tbl := tableOf(t, tableXML([]int{1, 2, 3},
		[]string{"A", "B", "C"},
		[]string{"D", "E"},
		[]string{"F"},
	))
	st := RestructureTable(tbl, DefaultOptions())

	if diff := cmp.Diff([]int{1, 2}, st.MalformedRows); diff != "" {
		t.Errorf("MalformedRows mismatch (-want +got):\n%s", diff)
	}
	want := [][]string{{"C", "B", "A"}, {"E", "D"}, {"F"}}
	if diff := cmp.Diff(want, layout(tbl)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestRestructureTable_Nil(t *testing.T) {
	st := RestructureTable(nil, DefaultOptions())
	if st.Rows != 0 || st.Cells != 0 {
		t.Errorf("RestructureTable(nil) = %+v", st)
	}
}
