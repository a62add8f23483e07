// Package content implements the id-keyed text exchange between a
// presentation part and a translator.
//
// # Records
//
// [Extract] projects every text-bearing shape of a part into a [Record]
// holding the shape id, a placeholder role and the shape's non-blank
// paragraphs. Records are ordered top to bottom. The [Document] that
// collects them is what a translator receives and returns:
//
//	doc := content.Extract(part, content.Options{})
//	translated, err := translator.Translate(ctx, doc)
//	if err != nil {
//	    // handle error
//	}
//	st, err := content.Inject(mirrored, translated, content.Options{})
//
// # Injection
//
// [Inject] writes translated records back by id. It only accepts a part
// that has already been mirrored, so the directionality flags set by the
// transform are kept. Shapes whose id is missing from the translated
// document keep their text; records whose id matches no shape are
// counted and ignored.
//
// # Charts
//
// [ExtractChart] and [InjectChart] do the same for a chart part's title,
// series names and category labels. [InjectChart] returns the worksheet
// cells the new labels belong to, and [SyncWorkbook] writes them into the
// chart's embedded workbook so the data sheet matches the chart.
//
// # Export
//
// An [Exporter] writes records as JSON, JSON Lines, CSV or TSV for review
// outside the pipeline.
package content
