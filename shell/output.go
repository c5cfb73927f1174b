package shell

import "deedles.dev/ximage/geom"

// Output is the capability of a display as seen by the layout engine.
// Outputs are owned by the compositor; the engine only reads them.
type Output interface {
	// Geometry is the output's absolute logical position and size.
	Geometry() geom.Rect[int]

	// Scale is the output's fractional scale factor.
	Scale() float64

	// NonExclusiveZone is the usable rectangle after subtracting
	// areas reserved by panels and docks, relative to the output's
	// own origin.
	NonExclusiveZone() geom.Rect[int]
}

// Seat is the subset of seat state that layout decisions depend on.
type Seat interface {
	// HasPointer reports whether a pointer device is present.
	HasPointer() bool

	// ActiveOutput is the output that new windows are placed on.
	ActiveOutput() Output
}
