package shell

import "deedles.dev/ximage/geom"

// ResizeState records the geometry a window had when an interactive
// or discrete resize began. It is consumed when the client commits
// the resized buffer to keep the grabbed edge visually anchored; it
// is never used for final placement.
type ResizeState struct {
	Edges           Edges
	InitialLocation geom.Point[int]
	InitialSize     geom.Point[int]
}
