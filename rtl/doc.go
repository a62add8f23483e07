// Package rtl converts presentation parts from left-to-right to
// right-to-left layout.
//
// Every positioned shape is mirrored horizontally within its coordinate
// space: the slide for top-level shapes, the group's child space for
// grouped shapes. On top of that:
//
//   - textless directional shapes and wide banners are flipped, while
//     text, pictures and logos keep their orientation (see Classify)
//   - text bodies get right-to-left direction, mirrored alignment, the
//     target language and Arabic-capable fonts (see RewriteText)
//   - table columns are reversed (see RestructureTable)
//   - horizontal bar charts get a reversed value axis (see FlipBarChartAxis)
//
// The engine works on one part at a time and keeps no shared state, so
// parts can be transformed concurrently.
package rtl
