package translate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/rtlslide/content"
)

// Synthetic record ids used to send chart text through a Translator.
const (
	chartTitleID     = "chart:title"
	seriesIDPrefix   = "chart:series:"
	categoryIDPrefix = "chart:category:"
)

// Chart translates chart text with tr. Each label travels as its own
// record, so translators need no chart-specific support. Labels missing
// from the answer keep their original text.
func Chart(ctx context.Context, tr Translator, ct content.ChartText) (content.ChartText, error) {
	if ct.IsEmpty() {
		return ct, nil
	}

	doc := content.Document{Context: "Chart labels"}
	add := func(id, text string) {
		doc.Elements = append(doc.Elements, content.Record{
			ID: id, Role: content.RoleContent, Text: text,
			Paragraphs: []content.Paragraph{{Text: text}},
		})
	}
	if ct.Title != nil {
		add(chartTitleID, *ct.Title)
	}
	for _, s := range ct.Series {
		add(seriesIDPrefix+s.ID, s.Name)
	}
	for i, c := range ct.Categories {
		add(categoryIDPrefix+strconv.Itoa(i), c)
	}

	res, err := tr.Translate(ctx, doc)
	if err != nil {
		return content.ChartText{}, fmt.Errorf("translating chart text: %w", err)
	}

	got := make(map[string]string, len(res.Elements))
	for _, rec := range res.Elements {
		got[rec.ID] = recordText(rec)
	}

	out := content.ChartText{
		Series:     make([]content.SeriesName, len(ct.Series)),
		Categories: make([]string, len(ct.Categories)),
	}
	if ct.Title != nil {
		title := *ct.Title
		if t, ok := got[chartTitleID]; ok {
			title = t
		}
		out.Title = &title
	}
	for i, s := range ct.Series {
		out.Series[i] = s
		if t, ok := got[seriesIDPrefix+s.ID]; ok {
			out.Series[i].Name = t
		}
	}
	for i, c := range ct.Categories {
		out.Categories[i] = c
		if t, ok := got[categoryIDPrefix+strconv.Itoa(i)]; ok {
			out.Categories[i] = t
		}
	}
	return out, nil
}

// recordText returns a single-line label from a translated record.
func recordText(rec content.Record) string {
	if len(rec.Paragraphs) > 0 {
		parts := make([]string, len(rec.Paragraphs))
		for i, p := range rec.Paragraphs {
			parts[i] = p.Text
		}
		return strings.Join(parts, " ")
	}
	return strings.ReplaceAll(rec.Text, "\n", " ")
}
