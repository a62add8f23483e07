package rtl

import (
	"golang.org/x/exp/slices"

	"github.com/tsawler/rtlslide/pptx"
)

// TableStats reports what RestructureTable did.
type TableStats struct {
	Rows  int
	Cells int
	// MalformedRows lists the indexes of rows whose cell count differs
	// from the grid column count. They are still processed.
	MalformedRows []int
}

// RestructureTable reverses the column order of a table: grid column
// widths once per table, and the cells of every row with more than one
// cell. A merge origin moves together with the hMerge cells that follow
// it, so horizontal merges stay valid. Every cell's text is rewritten.
// Applying it twice restores the original order.
func RestructureTable(tbl *pptx.Table, opts Options) TableStats {
	var st TableStats
	if tbl == nil {
		return st
	}

	cols := len(tbl.GridColumns())
	tbl.ReverseGrid()

	for i, row := range tbl.Rows() {
		st.Rows++
		cells := row.Cells()
		if cols > 0 && len(cells) != cols {
			st.MalformedRows = append(st.MalformedRows, i)
		}
		if len(cells) > 1 {
			row.SetCellOrder(reverseSpans(cells))
		}
		for _, c := range cells {
			RewriteText(c.Text(), opts)
			st.Cells++
		}
	}
	return st
}

// reverseSpans reverses cells block-wise. A block is a cell that does not
// continue a merge followed by every hMerge cell after it.
func reverseSpans(cells []*pptx.Cell) []*pptx.Cell {
	var blocks [][]*pptx.Cell
	for _, c := range cells {
		if c.HMerge() && len(blocks) > 0 {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], c)
			continue
		}
		blocks = append(blocks, []*pptx.Cell{c})
	}
	slices.Reverse(blocks)

	out := make([]*pptx.Cell, 0, len(cells))
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
