package shell

import (
	"iter"
	"sync"

	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
)

// Mapped is the handle to one floating entity, either a single window
// or a tabbed stack of windows. The handle is shared between layout,
// input, and render code, so the mutable slots are each guarded by
// their own mutex and a rectangle is never observed half-updated.
type Mapped struct {
	element element

	geoMu        sync.Mutex
	lastGeometry *geom.Rect[int]

	resizeMu    sync.Mutex
	resizeState *ResizeState

	flagMu    sync.Mutex
	tiled     bool
	maximized bool
	resizing  bool
}

// NewWindow returns a handle wrapping a single window.
func NewWindow(s Surface) *Mapped {
	return &Mapped{element: &window{s: s}}
}

// NewStack returns a handle wrapping a tabbed stack of windows. The
// first surface is the active tab.
func NewStack(surfaces ...Surface) *Mapped {
	if len(surfaces) == 0 {
		panic("shell: empty stack")
	}
	return &Mapped{element: &stack{tabs: surfaces}}
}

// ActiveWindow is the surface that represents the handle: the window
// itself, or the active tab of a stack.
func (m *Mapped) ActiveWindow() Surface {
	return m.element.active()
}

// Windows iterates over every constituent surface.
func (m *Mapped) Windows() iter.Seq[Surface] {
	return m.element.surfaces()
}

// HasSurface reports whether s is one of the handle's constituent
// surfaces.
func (m *Mapped) HasSurface(s Surface) bool {
	for w := range m.Windows() {
		if w == s {
			return true
		}
	}
	return false
}

// Toplevel implements FocusTarget.
func (m *Mapped) Toplevel() (Surface, bool) {
	return m.ActiveWindow(), true
}

// Geometry is the handle's current geometry in its own coordinate
// space. Min is the content offset within the underlying surface.
func (m *Mapped) Geometry() geom.Rect[int] {
	return m.ActiveWindow().Geometry()
}

// MinSize combines the constituents' minimum sizes. For a stack the
// strictest minimum wins per axis. A zero component means unbounded.
func (m *Mapped) MinSize() geom.Point[int] {
	var min geom.Point[int]
	for s := range m.Windows() {
		sm := s.MinSize()
		if sm.X > min.X {
			min.X = sm.X
		}
		if sm.Y > min.Y {
			min.Y = sm.Y
		}
	}
	return min
}

// MaxSize combines the constituents' maximum sizes. For a stack the
// strictest declared maximum wins per axis. A zero component means
// unbounded.
func (m *Mapped) MaxSize() geom.Point[int] {
	var max geom.Point[int]
	for s := range m.Windows() {
		sm := s.MaxSize()
		if sm.X != 0 && (max.X == 0 || sm.X < max.X) {
			max.X = sm.X
		}
		if sm.Y != 0 && (max.Y == 0 || sm.Y < max.Y) {
			max.Y = sm.Y
		}
	}
	return max
}

func (m *Mapped) SetBounds(size geom.Point[int]) {
	for s := range m.Windows() {
		s.SetBounds(size)
	}
}

// SetGeometry stages a new geometry on every constituent surface.
func (m *Mapped) SetGeometry(r geom.Rect[int]) {
	for s := range m.Windows() {
		s.SetGeometry(r)
	}
}

func (m *Mapped) SetTiled(tiled bool) {
	m.flagMu.Lock()
	m.tiled = tiled
	m.flagMu.Unlock()
	for s := range m.Windows() {
		s.SetTiled(tiled)
	}
}

func (m *Mapped) Tiled() bool {
	m.flagMu.Lock()
	defer m.flagMu.Unlock()
	return m.tiled
}

func (m *Mapped) SetMaximized(maximized bool) {
	m.flagMu.Lock()
	m.maximized = maximized
	m.flagMu.Unlock()
	for s := range m.Windows() {
		s.SetMaximized(maximized)
	}
}

func (m *Mapped) Maximized() bool {
	m.flagMu.Lock()
	defer m.flagMu.Unlock()
	return m.maximized
}

func (m *Mapped) SetResizing(resizing bool) {
	m.flagMu.Lock()
	m.resizing = resizing
	m.flagMu.Unlock()
	for s := range m.Windows() {
		s.SetResizing(resizing)
	}
}

func (m *Mapped) Resizing() bool {
	m.flagMu.Lock()
	defer m.flagMu.Unlock()
	return m.resizing
}

func (m *Mapped) SetActivated(activated bool) {
	for s := range m.Windows() {
		s.SetActivated(activated)
	}
}

// Configure commits all staged state to the clients.
func (m *Mapped) Configure() {
	for s := range m.Windows() {
		s.Configure()
	}
}

// RenderElements splits the active window into content and popup
// elements at the given physical location and scale.
func (m *Mapped) RenderElements(loc geom.Point[int], scale, alpha float64) (windows, popups []render.Element) {
	return m.ActiveWindow().RenderElements(loc, scale, alpha)
}

// LastGeometry returns the cached restore geometry, if any.
func (m *Mapped) LastGeometry() (geom.Rect[int], bool) {
	m.geoMu.Lock()
	defer m.geoMu.Unlock()
	if m.lastGeometry == nil {
		return geom.Rect[int]{}, false
	}
	return *m.lastGeometry, true
}

// SetLastGeometry caches r as the geometry to restore to.
func (m *Mapped) SetLastGeometry(r geom.Rect[int]) {
	m.geoMu.Lock()
	defer m.geoMu.Unlock()
	m.lastGeometry = &r
}

// ClearLastGeometry drops the cached restore geometry.
func (m *Mapped) ClearLastGeometry() {
	m.geoMu.Lock()
	defer m.geoMu.Unlock()
	m.lastGeometry = nil
}

// ResizeState returns the active resize snapshot, if any.
func (m *Mapped) ResizeState() (ResizeState, bool) {
	m.resizeMu.Lock()
	defer m.resizeMu.Unlock()
	if m.resizeState == nil {
		return ResizeState{}, false
	}
	return *m.resizeState, true
}

// SetResizeState records a resize snapshot.
func (m *Mapped) SetResizeState(s ResizeState) {
	m.resizeMu.Lock()
	defer m.resizeMu.Unlock()
	m.resizeState = &s
}

// ClearResizeState marks the handle idle again.
func (m *Mapped) ClearResizeState() {
	m.resizeMu.Lock()
	defer m.resizeMu.Unlock()
	m.resizeState = nil
}

type element interface {
	active() Surface
	surfaces() iter.Seq[Surface]
}

type window struct {
	s Surface
}

func (w *window) active() Surface {
	return w.s
}

func (w *window) surfaces() iter.Seq[Surface] {
	return func(yield func(Surface) bool) {
		yield(w.s)
	}
}

type stack struct {
	mu   sync.Mutex
	tabs []Surface
	idx  int
}

func (st *stack) active() Surface {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.tabs[st.idx]
}

func (st *stack) surfaces() iter.Seq[Surface] {
	return func(yield func(Surface) bool) {
		st.mu.Lock()
		ss := make([]Surface, len(st.tabs))
		copy(ss, st.tabs)
		st.mu.Unlock()

		for _, s := range ss {
			if !yield(s) {
				return
			}
		}
	}
}

// Stack returns the handle's stack accessor, or false for a single
// window.
func (m *Mapped) Stack() (*StackHandle, bool) {
	st, ok := m.element.(*stack)
	if !ok {
		return nil, false
	}
	return &StackHandle{st: st}, true
}

// StackHandle manipulates the tabs of a stacked handle.
type StackHandle struct {
	st *stack
}

// Len is the number of tabs.
func (h *StackHandle) Len() int {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return len(h.st.tabs)
}

// Activate makes the i'th tab the active one.
func (h *StackHandle) Activate(i int) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if i < 0 || i >= len(h.st.tabs) {
		return
	}
	h.st.idx = i
}

// ActiveIndex is the index of the active tab.
func (h *StackHandle) ActiveIndex() int {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return h.st.idx
}
