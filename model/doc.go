// Package model provides the geometry primitives shared by the presentation
// parser and the RTL transformation engine.
//
// All lengths are integers in English Metric Units (EMU), the DrawingML
// linear unit: 914,400 EMUs per inch.
//
// # Bounding Boxes
//
// [BBox] holds a shape's offset and extent as stored in its a:xfrm element.
// Derived values such as [BBox.Right] and [BBox.AspectRatio] are computed on
// demand.
//
// # Coordinate Spaces
//
// Every shape's X is relative to a [CoordinateSpace]. The slide is the root
// space; each group shape declares a child space (chOff/chExt) for its
// children that is independent of the group's own position:
//
//	root := model.RootSpace(pageWidth)
//	newX := model.MirrorX(x, width, root)
//
// [MirrorX] is an involution: mirroring twice in the same space returns the
// original X.
package model
