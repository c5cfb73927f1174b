// Package render defines the element contract shared by the layout
// engine and the rendering backend.
//
// An element is one rectangular primitive to paint. Sequences of
// elements are in painter's order: the element at index 0 is drawn
// first and is therefore at the bottom, and every later element draws
// over the ones before it.
package render

import "deedles.dev/ximage/geom"

// Element is a single render primitive positioned in physical pixel
// coordinates relative to the output it is rendered on. Backends
// type-assert to their own drawable interfaces for the actual draw
// call.
type Element interface {
	Geometry() geom.Rect[int]
}
