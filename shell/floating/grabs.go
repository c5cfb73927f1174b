package floating

import (
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/internal/util"
	"github.com/vadorovsky/cosmic-comp/shell"
)

// PointerGrabStart is the pointer state at the moment a grab began.
type PointerGrabStart struct {
	Location geom.Point[float64]
	Button   uint32
}

// ResizeRequest constructs an interactive resize grab for m, or nil
// if the seat has no pointer to drive it with. The input dispatcher
// owns the grab's lifetime and feeds it motion events; the engine
// only supplies the clamping rules.
func (f *Floating) ResizeRequest(m *shell.Mapped, seat shell.Seat, start PointerGrabStart, edges shell.Edges) *ResizeGrab {
	if !seat.HasPointer() {
		return nil
	}
	loc, ok := f.space.ElementLocation(m)
	if !ok {
		return nil
	}
	return newResizeGrab(start, m, edges, loc, m.Geometry().Size())
}

// ResizeGrab is one pointer-driven resize session. Each Motion call
// is an independent, atomic re-entry into the engine's clamping
// rules; the only carried state is the snapshot taken at
// construction.
type ResizeGrab struct {
	start           PointerGrabStart
	window          *shell.Mapped
	edges           shell.Edges
	initialLocation geom.Point[int]
	initialSize     geom.Point[int]
}

func newResizeGrab(start PointerGrabStart, m *shell.Mapped, edges shell.Edges, loc, size geom.Point[int]) *ResizeGrab {
	m.SetResizeState(shell.ResizeState{
		Edges:           edges,
		InitialLocation: loc,
		InitialSize:     size,
	})
	m.SetResizing(true)

	return &ResizeGrab{
		start:           start,
		window:          m,
		edges:           edges,
		initialLocation: loc,
		initialSize:     size,
	}
}

func (g *ResizeGrab) Window() *shell.Mapped { return g.window }

func (g *ResizeGrab) Edges() shell.Edges { return g.edges }

// Motion recomputes and commits the window size for the given pointer
// location.
func (g *ResizeGrab) Motion(location geom.Point[float64]) {
	delta := location.Sub(g.start.Location)

	size := g.initialSize
	switch {
	case g.edges&shell.EdgeLeft != 0:
		size.X -= int(delta.X)
	case g.edges&shell.EdgeRight != 0:
		size.X += int(delta.X)
	}
	switch {
	case g.edges&shell.EdgeTop != 0:
		size.Y -= int(delta.Y)
	case g.edges&shell.EdgeBottom != 0:
		size.Y += int(delta.Y)
	}

	minSize, maxSize := sizeBounds(g.window)
	size.X = util.Clamp(size.X, minSize.X, maxSize.X)
	size.Y = util.Clamp(size.Y, minSize.Y, maxSize.Y)

	anchor := resizeAnchor(g.window)
	g.window.SetGeometry(geom.Rect[int]{Min: anchor, Max: anchor.Add(size)})
	g.window.Configure()
}

// Finish ends the session. The registered position is fixed up when
// the client commits its final buffer; see Floating.OnCommit.
func (g *ResizeGrab) Finish() {
	g.window.SetResizing(false)
}

// MoveRequest constructs an interactive move grab for m, or nil if
// the seat has no pointer to drive it with.
func (f *Floating) MoveRequest(m *shell.Mapped, seat shell.Seat, start PointerGrabStart) *MoveGrab {
	if !seat.HasPointer() {
		return nil
	}
	loc, ok := f.space.ElementLocation(m)
	if !ok {
		return nil
	}
	return &MoveGrab{
		layout:          f,
		start:           start,
		window:          m,
		initialLocation: loc,
	}
}

// MoveGrab is one pointer-driven move session. Motion re-registers
// the window at the dragged position; its size and stacking order are
// untouched, so no client configure is needed.
type MoveGrab struct {
	layout          *Floating
	start           PointerGrabStart
	window          *shell.Mapped
	initialLocation geom.Point[int]
}

func (g *MoveGrab) Window() *shell.Mapped { return g.window }

func (g *MoveGrab) Motion(location geom.Point[float64]) {
	delta := location.Sub(g.start.Location)
	loc := g.initialLocation.Add(geom.Pt(int(delta.X), int(delta.Y)))
	g.layout.space.MapElement(g.window, loc, false)
}

// Finish refreshes the restore cache so a later remap reopens the
// window where it was dropped.
func (g *MoveGrab) Finish() {
	loc, ok := g.layout.space.ElementLocation(g.window)
	if !ok {
		return
	}
	g.window.SetLastGeometry(geom.Rect[int]{Min: loc, Max: loc.Add(g.window.Geometry().Size())})
}
