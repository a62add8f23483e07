package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slog"

	"github.com/tsawler/rtlslide/pptx"
)

// SeriesName is the translatable name of a chart series. ID is the
// series' c:idx.
type SeriesName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChartText is the translatable text of a chart part.
type ChartText struct {
	Title      *string      `json:"chart_title"`
	Series     []SeriesName `json:"series"`
	Categories []string     `json:"categories"`
}

// IsEmpty reports whether the chart has nothing to translate.
func (c ChartText) IsEmpty() bool {
	return c.Title == nil && len(c.Series) == 0 && len(c.Categories) == 0
}

// ExtractChart returns the title, series names and category labels of a
// chart part. Categories come from the first series.
func ExtractChart(part *pptx.Part) ChartText {
	ct := ChartText{Series: []SeriesName{}, Categories: []string{}}
	c := part.Chart()
	if c == nil {
		return ct
	}

	if title, ok := c.Title(); ok {
		ct.Title = &title
	}
	series := c.Series()
	for _, s := range series {
		if name, ok := s.Name(); ok {
			ct.Series = append(ct.Series, SeriesName{ID: strconv.Itoa(s.Index()), Name: name})
		}
	}
	if len(series) > 0 {
		ct.Categories = append(ct.Categories, series[0].Categories()...)
	}
	return ct
}

// CellUpdate is a worksheet cell whose value must follow a chart label.
type CellUpdate struct {
	Sheet string
	Cell  string
	Value string
}

// InjectChart writes translated chart text into part. Series are matched
// by id, categories positionally in every series. A nil or empty title
// leaves the title alone. It returns the workbook cells the new labels
// are read from.
func InjectChart(part *pptx.Part, ct ChartText, opts Options) ([]CellUpdate, error) {
	if !part.Mirrored() {
		return nil, fmt.Errorf("%s: %w", part.Name, ErrNotMirrored)
	}
	c := part.Chart()
	if c == nil {
		return nil, nil
	}

	if ct.Title != nil && *ct.Title != "" {
		c.SetTitle(*ct.Title, opts.Locale.String())
	}

	names := make(map[string]string, len(ct.Series))
	for _, s := range ct.Series {
		names[s.ID] = s.Name
	}

	var updates []CellUpdate
	for i, s := range c.Series() {
		if name, ok := names[strconv.Itoa(s.Index())]; ok && s.SetName(name) {
			if cell, ok := splitRef(s.NameRef()); ok {
				updates = append(updates, CellUpdate{Sheet: cell.sheet, Cell: cell.from, Value: name})
			}
		}
		if len(ct.Categories) == 0 {
			continue
		}
		n := s.SetCategories(ct.Categories)
		if i > 0 {
			continue
		}
		cells, err := rangeCells(s.CategoryRef(), n)
		if err != nil {
			opts.logger().Warn("category reference not understood",
				slog.String("part", part.Name), slog.String("ref", s.CategoryRef()), slog.Any("error", err))
			continue
		}
		for j, cell := range cells {
			updates = append(updates, CellUpdate{Sheet: cell.sheet, Cell: cell.from, Value: ct.Categories[j]})
		}
	}
	return updates, nil
}

type cellRef struct {
	sheet string
	from  string
	to    string
}

// splitRef splits a formula reference such as "Sheet1!$A$2:$A$5" or
// "'My Sheet'!$B$1". ok is false for anything else.
func splitRef(ref string) (cellRef, bool) {
	sheet, cells, ok := strings.Cut(ref, "!")
	if !ok || sheet == "" || cells == "" {
		return cellRef{}, false
	}
	sheet = strings.Trim(sheet, "'")
	cells = strings.ReplaceAll(cells, "$", "")
	from, to, isRange := strings.Cut(cells, ":")
	if !isRange {
		to = from
	}
	return cellRef{sheet: sheet, from: from, to: to}, true
}

// rangeCells returns the first n cells of a one-column or one-row range,
// in reading order.
func rangeCells(ref string, n int) ([]cellRef, error) {
	r, ok := splitRef(ref)
	if !ok {
		return nil, fmt.Errorf("reference %q has no sheet", ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(r.from)
	if err != nil {
		return nil, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(r.to)
	if err != nil {
		return nil, err
	}
	if c1 != c2 && r1 != r2 {
		return nil, fmt.Errorf("reference %q is not a single row or column", ref)
	}

	var out []cellRef
	for col, row := c1, r1; len(out) < n && col <= c2 && row <= r2; {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return nil, err
		}
		out = append(out, cellRef{sheet: r.sheet, from: name, to: name})
		if c1 == c2 {
			row++
		} else {
			col++
		}
	}
	return out, nil
}
