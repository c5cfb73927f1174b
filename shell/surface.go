package shell

import (
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
)

// Surface is the capability a single toplevel window exposes to the
// layout engine. It is implemented by the protocol adapters in the
// compositor glue and by fakes in tests.
type Surface interface {
	// Geometry is the window's geometry in its own coordinate space.
	// Min is the offset of the content within the underlying surface,
	// e.g. for client-side shadows.
	Geometry() geom.Rect[int]

	// MinSize and MaxSize are the size bounds declared by the client.
	// A zero component means the axis is unbounded.
	MinSize() geom.Point[int]
	MaxSize() geom.Point[int]

	// SetBounds advertises the maximum size the window should assume
	// so that the client may self-constrain before the first commit.
	SetBounds(size geom.Point[int])

	// SetGeometry stages a new geometry. It takes effect on the next
	// Configure.
	SetGeometry(r geom.Rect[int])

	SetTiled(bool)
	SetResizing(bool)
	SetMaximized(bool)
	SetActivated(bool)

	// Configure commits all staged state to the client.
	Configure()

	Title() string
	Close() error

	// RenderElements splits the surface into window-content elements
	// and popup elements at the given physical location and scale.
	// Both slices are in painter's order.
	RenderElements(loc geom.Point[int], scale float64, alpha float64) (windows, popups []render.Element)
}

// Anchored is implemented by surfaces that own their decoration
// offset and report an authoritative global top-left corner. Resizes
// of such surfaces anchor to that corner instead of the local origin.
type Anchored interface {
	Anchor() geom.Point[int]
}

// FocusTarget is anything keyboard focus can rest on. Only targets
// that resolve to a toplevel surface take part in floating layout
// operations.
type FocusTarget interface {
	Toplevel() (Surface, bool)
}
