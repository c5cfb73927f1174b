// Package floating is the layout engine for floating windows. It
// owns placement, resizing, maximize/restore bookkeeping, output
// topology, and per-output render composition for every window that
// is not managed by the tiling layout.
//
// The engine is driven synchronously from the compositor's main loop;
// it holds no locks of its own. Window handles carry their own
// interior synchronization for the fields the render path reads.
package floating

import (
	"iter"
	"log/slog"
	"math"
	"slices"

	"deedles.dev/ximage/geom"
	"deedles.dev/xiter"

	"github.com/vadorovsky/cosmic-comp/internal/util"
	"github.com/vadorovsky/cosmic-comp/shell"
	"github.com/vadorovsky/cosmic-comp/space"
)

// Windows that do not declare a minimum size still get a usable
// floor.
const (
	fallbackMinWidth  = 360
	fallbackMinHeight = 240
)

// ToplevelInfo receives output enter/leave notifications for
// toplevels. Calls are made only after the spatial index reflects the
// new state.
type ToplevelInfo interface {
	ToplevelEnterOutput(s shell.Surface, out shell.Output)
	ToplevelLeaveOutput(s shell.Surface, out shell.Output)
}

// Floating lays out the floating windows of one workspace across the
// outputs registered with its spatial index.
type Floating struct {
	space *space.Space[*shell.Mapped]
}

func New() *Floating {
	return &Floating{space: space.New[*shell.Mapped]()}
}

// MapOutput registers out with the spatial index at loc.
func (f *Floating) MapOutput(out shell.Output, loc geom.Point[int]) {
	f.space.MapOutput(out, loc)
}

// UnmapOutput removes out and reflows every window that was on it.
// The whole sequence runs uninterrupted so that no partial state is
// ever observable: windows are snapshotted, leave notifications sent,
// the output unregistered, the layout repaired, and only then enter
// notifications sent for wherever the windows ended up.
func (f *Floating) UnmapOutput(out shell.Output, info ToplevelInfo) {
	windows := slices.Collect(f.space.ElementsForOutput(out))
	for _, m := range windows {
		for s := range m.Windows() {
			info.ToplevelLeaveOutput(s, out)
		}
	}
	f.space.UnmapOutput(out)
	f.Refresh()
	for _, m := range windows {
		for _, o := range f.space.OutputsForElement(m) {
			for s := range m.Windows() {
				info.ToplevelEnterOutput(s, o)
			}
		}
	}
}

// Map places m on the seat's active output and registers it. An
// explicit position skips the usual placement heuristics.
func (f *Floating) Map(m *shell.Mapped, seat shell.Seat, position *geom.Point[int]) {
	f.mapInternal(m, seat.ActiveOutput(), position)
}

func (f *Floating) mapInternal(m *shell.Mapped, out shell.Output, position *geom.Point[int]) {
	winGeo := m.Geometry()

	zone := out.NonExclusiveZone()
	if spaceGeo, ok := f.space.OutputGeometry(out); ok {
		zone = zone.Add(spaceGeo.Min)
	}
	m.SetBounds(zone.Size())

	last, hasLast := m.LastGeometry()
	size := winGeo.Size()
	if hasLast {
		size = last.Size()
	}

	minSize, maxSize := m.MinSize(), m.MaxSize()
	if size.X > zone.Dx()/3*2 {
		// Try a more reasonable width, but keep the client's
		// declared bounds, and never exceed the zone.
		w := zone.Dx() / 3 * 2
		if maxSize.X != 0 {
			w = min(maxSize.X, w)
		}
		if minSize.X != 0 {
			w = max(minSize.X, w)
		}
		size.X = min(w, zone.Dx())
	}
	if size.Y > zone.Dy()/3*2 {
		h := zone.Dy() / 3 * 2
		if maxSize.Y != 0 {
			h = min(maxSize.Y, h)
		}
		if minSize.Y != 0 {
			h = max(minSize.Y, h)
		}
		size.Y = min(h, zone.Dy())
	}

	var loc geom.Point[int]
	switch {
	case position != nil:
		loc = *position
	case hasLast:
		loc = last.Min
	default:
		loc = zone.Min.Add(zone.Size().Div(2)).Sub(size.Div(2)).Add(winGeo.Min)
	}

	m.SetTiled(false)
	m.SetGeometry(geom.Rect[int]{Min: loc, Max: loc.Add(size)}.Add(f.outputOffset(out)))
	m.Configure()
	f.space.MapElement(m, loc, false)
}

// outputOffset is the delta between the output's own absolute
// position and the position the spatial index has recorded for it.
// Outputs can be logically repositioned independently of their
// physical layout, e.g. after a merge.
func (f *Floating) outputOffset(out shell.Output) geom.Point[int] {
	if spaceGeo, ok := f.space.OutputGeometry(out); ok {
		return out.Geometry().Min.Sub(spaceGeo.Min)
	}
	return out.Geometry().Min
}

// Unmap unregisters m and reports whether it was registered. Unless
// the window is maximized, its current geometry is cached for a later
// restore; a maximized window's cache already holds the floating
// geometry from before the maximize.
func (f *Floating) Unmap(m *shell.Mapped) bool {
	if !m.Maximized() {
		if loc, ok := f.space.ElementLocation(m); ok {
			m.SetLastGeometry(geom.Rect[int]{Min: loc, Max: loc.Add(m.Geometry().Size())})
		}
	}
	return f.space.UnmapElement(m)
}

// ElementGeometry is m's rectangle in the spatial index's coordinate
// space.
func (f *Floating) ElementGeometry(m *shell.Mapped) (geom.Rect[int], bool) {
	return f.space.ElementGeometry(m)
}

// Raise moves m to the top of the paint order.
func (f *Floating) Raise(m *shell.Mapped) {
	f.space.RaiseElement(m)
}

// MaximizeRequest caches the current geometry of the window owning s
// so that a later unmaximize can restore it.
func (f *Floating) MaximizeRequest(s shell.Surface) {
	m := f.mappedFor(s)
	if m == nil {
		return
	}
	if loc, ok := f.space.ElementLocation(m); ok {
		m.SetLastGeometry(geom.Rect[int]{Min: loc, Max: loc.Add(m.Geometry().Size())})
	}
}

// MapMaximized sizes m to out's non-exclusive zone and registers it
// there, raised. The pre-maximize geometry must already have been
// cached via MaximizeRequest.
func (f *Floating) MapMaximized(m *shell.Mapped, out shell.Output) {
	zone := out.NonExclusiveZone()
	if spaceGeo, ok := f.space.OutputGeometry(out); ok {
		zone = zone.Add(spaceGeo.Min)
	}
	m.SetGeometry(zone.Add(f.outputOffset(out)))
	m.Configure()
	f.space.MapElement(m, zone.Min, true)
}

// UnmaximizeRequest restores the geometry cached before the maximize
// and returns the restored size. It returns false if no window in
// this layout owns s. Calling it without a prior restore snapshot is
// a sequencing bug in the caller and panics.
func (f *Floating) UnmaximizeRequest(s shell.Surface) (geom.Point[int], bool) {
	m := f.mappedFor(s)
	if m == nil {
		return geom.Point[int]{}, false
	}

	last, ok := m.LastGeometry()
	if !ok {
		panic("floating: unmaximize without restore geometry")
	}
	out, ok := f.space.OutputUnder(last.Min)
	if !ok {
		out = f.firstOutput()
	}
	m.SetGeometry(last.Add(f.outputOffset(out)))
	m.Configure()
	f.space.MapElement(m, last.Min, true)
	return last.Size(), true
}

// Resize performs a discrete, keybinding-driven resize of the focused
// window. It reports false if the focus target does not resolve to a
// window registered in this layout.
func (f *Floating) Resize(focused shell.FocusTarget, direction shell.ResizeDirection, edges shell.Edges, amount int) bool {
	toplevel, ok := focused.Toplevel()
	if !ok {
		return false
	}
	m := f.mappedFor(toplevel)
	if m == nil {
		return false
	}
	originalGeo, ok := f.space.ElementGeometry(m)
	if !ok {
		return false
	}

	loc, size := originalGeo.Min, originalGeo.Size()
	if edges&(shell.EdgeLeft|shell.EdgeRight) != 0 {
		if direction == shell.ResizeInwards {
			size.X -= amount
		} else {
			size.X += amount
		}
		if edges&shell.EdgeLeft != 0 {
			// Keep the right edge anchored.
			if direction == shell.ResizeInwards {
				loc.X += amount
			} else {
				loc.X -= amount
			}
		}
	}
	if edges&(shell.EdgeTop|shell.EdgeBottom) != 0 {
		if direction == shell.ResizeInwards {
			size.Y -= amount
		} else {
			size.Y += amount
		}
		if edges&shell.EdgeTop != 0 {
			if direction == shell.ResizeInwards {
				loc.Y += amount
			} else {
				loc.Y -= amount
			}
		}
	}
	geo := geom.Rect[int]{Min: loc, Max: loc.Add(size)}

	var boundingBox geom.Rect[int]
	for out := range f.space.Outputs() {
		outputGeo, _ := f.space.OutputGeometry(out)
		if outputGeo.Overlaps(geo) {
			boundingBox = boundingBox.Union(outputGeo)
		}
	}
	if boundingBox.Empty() {
		// Off every output; nothing sensible to clamp against.
		return true
	}

	minSize, maxSize := sizeBounds(m)
	size.X = util.Clamp(size.X, minSize.X, maxSize.X)
	size.Y = util.Clamp(size.Y, minSize.Y, maxSize.Y)
	geo = geom.Rect[int]{Min: geo.Min, Max: geo.Min.Add(size)}.Intersect(boundingBox)

	m.SetResizeState(shell.ResizeState{
		Edges:           edges,
		InitialLocation: originalGeo.Min,
		InitialSize:     originalGeo.Size(),
	})
	m.SetResizing(true)
	m.SetGeometry(geom.Rect[int]{Min: resizeAnchor(m), Max: resizeAnchor(m).Add(geo.Size())})
	m.Configure()
	return true
}

// resizeAnchor is the origin to commit a resize against. Most windows
// anchor at their local origin; surfaces that own their decoration
// offset report an authoritative top-left instead.
func resizeAnchor(m *shell.Mapped) geom.Point[int] {
	if a, ok := m.ActiveWindow().(shell.Anchored); ok {
		return a.Anchor()
	}
	return geom.Point[int]{}
}

// sizeBounds is m's declared size bounds with the engine's fallbacks
// for unspecified axes applied.
func sizeBounds(m *shell.Mapped) (minSize, maxSize geom.Point[int]) {
	minSize, maxSize = m.MinSize(), m.MaxSize()
	if minSize.X == 0 {
		minSize.X = fallbackMinWidth
	}
	if minSize.Y == 0 {
		minSize.Y = fallbackMinHeight
	}
	if maxSize.X == 0 {
		maxSize.X = math.MaxInt32
	}
	if maxSize.Y == 0 {
		maxSize.Y = math.MaxInt32
	}
	return minSize, maxSize
}

// OnCommit consumes m's resize state after the client committed a
// resized buffer, shifting the registered position so that the
// grabbed edge stays visually anchored. Once the window is no longer
// actively resizing, the state is cleared.
func (f *Floating) OnCommit(m *shell.Mapped) {
	state, ok := m.ResizeState()
	if !ok {
		return
	}

	loc := state.InitialLocation
	size := m.Geometry().Size()
	if state.Edges&shell.EdgeLeft != 0 {
		loc.X += state.InitialSize.X - size.X
	}
	if state.Edges&shell.EdgeTop != 0 {
		loc.Y += state.InitialSize.Y - size.Y
	}
	f.space.MapElement(m, loc, false)

	if !m.Resizing() {
		m.ClearResizeState()
	}
}

// Mapped iterates over the layout's windows, topmost first.
func (f *Floating) Mapped() iter.Seq[*shell.Mapped] {
	return func(yield func(*shell.Mapped) bool) {
		elems := slices.Collect(f.space.Elements())
		for i := len(elems) - 1; i >= 0; i-- {
			if !yield(elems[i]) {
				return
			}
		}
	}
}

// Windows iterates over every constituent surface of every window,
// topmost handle first.
func (f *Floating) Windows() iter.Seq[shell.Surface] {
	return func(yield func(shell.Surface) bool) {
		for m := range f.Mapped() {
			for s := range m.Windows() {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Len is the number of windows in this layout.
func (f *Floating) Len() int {
	return f.space.Len()
}

// Outputs iterates over the registered outputs in registration order.
func (f *Floating) Outputs() iter.Seq[shell.Output] {
	return f.space.Outputs()
}

// Refresh re-validates the spatial index and re-places every window
// that no longer overlaps any output, restoring the invariant that
// every registered window is visible somewhere. The stale restore
// geometry of relocated windows is dropped.
func (f *Floating) Refresh() {
	f.space.Refresh()

	orphaned := slices.Collect(xiter.Filter(f.space.Elements(), func(m *shell.Mapped) bool {
		return len(f.space.OutputsForElement(m)) == 0
	}))
	for _, m := range orphaned {
		slog.Debug("re-placing orphaned floating window", "title", m.ActiveWindow().Title())
		m.ClearLastGeometry()
		f.mapInternal(m, f.firstOutput(), nil)
	}
}

// MostOverlappedOutputForElement returns the output sharing the
// largest intersection area with m. With a single registered output
// the answer is unconditional. Ties are broken by output registration
// order; a window overlapping no output falls back to the first one.
func (f *Floating) MostOverlappedOutputForElement(m *shell.Mapped) (shell.Output, bool) {
	geo, ok := f.space.ElementGeometry(m)
	if !ok {
		return nil, false
	}
	if f.space.NumOutputs() == 0 {
		return nil, false
	}
	if f.space.NumOutputs() == 1 {
		return f.firstOutput(), true
	}

	var best shell.Output
	bestArea := -1
	for _, out := range f.space.OutputsForElement(m) {
		outputGeo, _ := f.space.OutputGeometry(out)
		if a := area(outputGeo.Intersect(geo)); a > bestArea {
			best, bestArea = out, a
		}
	}
	if best == nil {
		best = f.firstOutput()
	}
	return best, true
}

// Merge transfers every window of other into this layout, used when
// consolidating workspaces onto a surviving output. Outputs present
// in both layouts must denote the same physical output (the same
// shell.Output value).
func (f *Floating) Merge(other *Floating) {
	// Per shared output: how far its recorded position moved
	// between the two indices.
	offsets := make(map[shell.Output]geom.Point[int])
	for out := range f.space.Outputs() {
		selfGeo, _ := f.space.OutputGeometry(out)
		off := selfGeo.Min
		if otherGeo, ok := other.space.OutputGeometry(out); ok {
			off = off.Sub(otherGeo.Min)
		}
		offsets[out] = off
	}

	// Bottom-to-top keeps the transferred stacking order intact.
	for m := range other.space.Elements() {
		geo, _ := other.space.ElementGeometry(m)

		var best shell.Output
		bestArea := -1
		for _, out := range other.space.OutputsForElement(m) {
			if _, shared := offsets[out]; !shared {
				continue
			}
			outputGeo, _ := other.space.OutputGeometry(out)
			if a := area(outputGeo.Intersect(geo)); a > bestArea {
				best, bestArea = out, a
			}
		}
		if best == nil {
			best = f.firstOutput()
		}

		loc := geo.Min.Add(offsets[best])
		m.SetGeometry(geom.Rect[int]{Min: loc, Max: loc.Add(geo.Size())}.Add(f.outputOffset(best)))
		f.space.MapElement(m, loc, false)
	}

	slog.Debug("merged floating layouts", "windows", other.space.Len())

	// Fix up anything the translation pushed out of bounds.
	f.Refresh()
}

func (f *Floating) mappedFor(s shell.Surface) *shell.Mapped {
	for m := range f.space.Elements() {
		if m.HasSurface(s) {
			return m
		}
	}
	return nil
}

func (f *Floating) firstOutput() shell.Output {
	for out := range f.space.Outputs() {
		return out
	}
	panic("floating: no outputs")
}

func area(r geom.Rect[int]) int {
	return r.Dx() * r.Dy()
}
