package pptx

import (
	"strconv"

	"github.com/beevik/etree"
	"golang.org/x/exp/slices"
)

// Table is a view over a:tbl.
type Table struct {
	el *etree.Element
}

func newTable(el *etree.Element) *Table {
	return &Table{el: el}
}

// Element returns the a:tbl element.
func (t *Table) Element() *etree.Element { return t.el }

// Grid returns the a:tblGrid element, or nil.
func (t *Table) Grid() *etree.Element {
	return child(t.el, NSDrawingML, "tblGrid")
}

// GridColumns returns the a:gridCol elements in order.
func (t *Table) GridColumns() []*etree.Element {
	return children(t.Grid(), NSDrawingML, "gridCol")
}

// ReverseGrid reverses the a:gridCol elements in place.
func (t *Table) ReverseGrid() {
	grid := t.Grid()
	if grid == nil {
		return
	}
	reorderChildren(grid, reversed(t.GridColumns()))
}

// Rows returns the a:tr children in order.
func (t *Table) Rows() []*Row {
	els := children(t.el, NSDrawingML, "tr")
	rows := make([]*Row, len(els))
	for i, el := range els {
		rows[i] = &Row{el: el}
	}
	return rows
}

// Row is a view over a:tr.
type Row struct {
	el *etree.Element
}

// Element returns the a:tr element.
func (r *Row) Element() *etree.Element { return r.el }

// Cells returns the a:tc children in order.
func (r *Row) Cells() []*Cell {
	els := children(r.el, NSDrawingML, "tc")
	cells := make([]*Cell, len(els))
	for i, el := range els {
		cells[i] = &Cell{el: el}
	}
	return cells
}

// SetCellOrder rearranges the row's cells to the given order. cells must
// be a permutation of Cells().
func (r *Row) SetCellOrder(cells []*Cell) {
	els := make([]*etree.Element, len(cells))
	for i, c := range cells {
		els[i] = c.el
	}
	reorderChildren(r.el, els)
}

// Cell is a view over a:tc.
type Cell struct {
	el *etree.Element
}

// Element returns the a:tc element.
func (c *Cell) Element() *etree.Element { return c.el }

// GridSpan returns the number of grid columns the cell spans, at least 1.
func (c *Cell) GridSpan() int {
	n, err := strconv.Atoi(c.el.SelectAttrValue("gridSpan", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// HMerge reports whether the cell continues a horizontal merge.
func (c *Cell) HMerge() bool {
	return attrBool(c.el, "hMerge")
}

// Text returns the cell's a:txBody view, or nil.
func (c *Cell) Text() *TextBody {
	if body := child(c.el, NSDrawingML, "txBody"); body != nil {
		return newTextBody(body)
	}
	return nil
}

// reorderChildren places els, all children of parent, into the slots they
// currently occupy, in the given order. Other children and interleaved
// character data keep their positions.
func reorderChildren(parent *etree.Element, els []*etree.Element) {
	slots := make([]int, 0, len(els))
	for _, el := range els {
		slots = append(slots, el.Index())
	}
	slices.Sort(slots)
	for _, el := range els {
		parent.RemoveChild(el)
	}
	for i, idx := range slots {
		parent.InsertChildAt(idx, els[i])
	}
}

func reversed[T any](s []T) []T {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
