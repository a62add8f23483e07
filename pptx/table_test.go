package pptx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/rtlslide/internal/pptxtest"
)

const mergedTable = `<a:tbl><a:tblPr firstRow="1"/><a:tblGrid>` +
	`<a:gridCol w="100"/><a:gridCol w="200"/><a:gridCol w="300"/></a:tblGrid>` +
	`<a:tr h="10">` +
	`<a:tc gridSpan="2"><a:txBody><a:bodyPr/><a:p><a:r><a:t>AB</a:t></a:r></a:p></a:txBody></a:tc>` +
	`<a:tc hMerge="1"><a:txBody><a:bodyPr/><a:p/></a:txBody></a:tc>` +
	`<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>C</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>` +
	`</a:tr></a:tbl>`

func tableOf(t *testing.T, tbl string) *Table {
	t.Helper()
	p := mustParse(t, "ppt/slides/slide1.xml", pptxtest.Slide(
		pptxtest.Frame(2, "Table", 0, 0, 600, 10, pptxtest.TableURI, tbl),
	))
	gf := p.Shapes()[0].(*GraphicFrame)
	if gf.Table == nil {
		t.Fatal("frame has no table")
	}
	return gf.Table
}

func gridWidths(tbl *Table) []string {
	var ws []string
	for _, c := range tbl.GridColumns() {
		ws = append(ws, c.SelectAttrValue("w", ""))
	}
	return ws
}

func TestTable_Cells(t *testing.T) {
	tbl := tableOf(t, mergedTable)

	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("len(Rows()) = %d, want 1", len(rows))
	}
	cells := rows[0].Cells()
	if len(cells) != 3 {
		t.Fatalf("len(Cells()) = %d, want 3", len(cells))
	}

	if cells[0].GridSpan() != 2 || cells[0].HMerge() {
		t.Errorf("cell 0 = (span %d, hMerge %v), want (2, false)", cells[0].GridSpan(), cells[0].HMerge())
	}
	if cells[1].GridSpan() != 1 || !cells[1].HMerge() {
		t.Errorf("cell 1 = (span %d, hMerge %v), want (1, true)", cells[1].GridSpan(), cells[1].HMerge())
	}
	if got := cells[2].Text().Text(); got != "C" {
		t.Errorf("cell 2 text = %q, want C", got)
	}
}

func TestTable_ReverseGrid(t *testing.T) {
	tbl := tableOf(t, mergedTable)

	tbl.ReverseGrid()
	if diff := cmp.Diff([]string{"300", "200", "100"}, gridWidths(tbl)); diff != "" {
		t.Errorf("grid after reverse mismatch (-want +got):\n%s", diff)
	}
	tbl.ReverseGrid()
	if diff := cmp.Diff([]string{"100", "200", "300"}, gridWidths(tbl)); diff != "" {
		t.Errorf("grid after double reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestRow_SetCellOrder(t *testing.T) {
	tbl := tableOf(t, mergedTable)
	row := tbl.Rows()[0]
	cells := row.Cells()

	row.SetCellOrder([]*Cell{cells[2], cells[0], cells[1]})

	got := row.Cells()
	if got[0].Text().Text() != "C" || got[1].GridSpan() != 2 || !got[2].HMerge() {
		t.Error("cells not in requested order")
	}

	// Non-cell children keep their slots.
	tags := childTags(tbl.Element())
	if diff := cmp.Diff([]string{"a:tblPr", "a:tblGrid", "a:tr"}, tags); diff != "" {
		t.Errorf("table children mismatch (-want +got):\n%s", diff)
	}
}
