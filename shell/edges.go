package shell

// Edges is a bitmask of window edges taking part in a resize.
type Edges uint8

const (
	EdgeNone Edges = 0

	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Contains reports whether all edges in e2 are set in e.
func (e Edges) Contains(e2 Edges) bool {
	return e&e2 == e2
}

// ResizeDirection selects whether a discrete resize grows or shrinks
// the window.
type ResizeDirection int

const (
	ResizeOutwards ResizeDirection = iota
	ResizeInwards
)

// ResizeMode describes the state of the interactive resize-mode
// overlay. The overlay fades in and out around the active state.
type ResizeMode int

const (
	ResizeModeNone ResizeMode = iota
	ResizeModeEntering
	ResizeModeActive
	ResizeModeExiting
)

// Alpha returns the opacity multiplier for the overlay in this mode.
func (m ResizeMode) Alpha() float64 {
	switch m {
	case ResizeModeEntering, ResizeModeExiting:
		return 0.5
	case ResizeModeActive:
		return 1
	default:
		return 0
	}
}
