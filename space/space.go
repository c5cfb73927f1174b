// Package space implements the spatial index that maps floating
// window handles to absolute positions and output overlap. The layout
// engine consumes it through its narrow register/move/unregister/query
// surface, so any backing structure would do; this one is a flat,
// insertion-ordered list, which is plenty for the handful of windows a
// workspace holds.
package space

import (
	"iter"
	"slices"

	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/shell"
)

// Element is anything the index can track. Elements are compared by
// identity, so they must be pointer-shaped.
type Element interface {
	comparable
	Geometry() geom.Rect[int]
}

type entry[E any] struct {
	loc     geom.Point[int]
	overlap []shell.Output
}

// Space tracks registered elements bottom-to-top in raise order along
// with the outputs they overlap. Output iteration is in registration
// order, which makes every overlap tie-break in the engine
// deterministic.
type Space[E Element] struct {
	elems   []E
	entries map[E]*entry[E]

	outputs   []shell.Output
	outputLoc map[shell.Output]geom.Point[int]
}

func New[E Element]() *Space[E] {
	return &Space[E]{
		entries:   make(map[E]*entry[E]),
		outputLoc: make(map[shell.Output]geom.Point[int]),
	}
}

// MapOutput registers out at loc, or moves it if already registered.
// Overlap of every element is recomputed.
func (sp *Space[E]) MapOutput(out shell.Output, loc geom.Point[int]) {
	if _, ok := sp.outputLoc[out]; !ok {
		sp.outputs = append(sp.outputs, out)
	}
	sp.outputLoc[out] = loc
	sp.Refresh()
}

// UnmapOutput removes out from the index. Elements stay registered;
// their overlap is recomputed and may become empty.
func (sp *Space[E]) UnmapOutput(out shell.Output) {
	i := slices.Index(sp.outputs, out)
	if i < 0 {
		return
	}
	sp.outputs = slices.Delete(sp.outputs, i, i+1)
	delete(sp.outputLoc, out)
	sp.Refresh()
}

// Outputs iterates over the registered outputs in registration order.
func (sp *Space[E]) Outputs() iter.Seq[shell.Output] {
	return func(yield func(shell.Output) bool) {
		for _, out := range sp.outputs {
			if !yield(out) {
				return
			}
		}
	}
}

// NumOutputs is the number of registered outputs.
func (sp *Space[E]) NumOutputs() int {
	return len(sp.outputs)
}

// OutputGeometry is the rectangle out occupies in the index's
// coordinate space: the registered location with the output's size.
func (sp *Space[E]) OutputGeometry(out shell.Output) (geom.Rect[int], bool) {
	loc, ok := sp.outputLoc[out]
	if !ok {
		return geom.Rect[int]{}, false
	}
	return geom.Rect[int]{Min: loc, Max: loc.Add(out.Geometry().Size())}, true
}

// OutputUnder returns the first registered output containing p.
func (sp *Space[E]) OutputUnder(p geom.Point[int]) (shell.Output, bool) {
	for _, out := range sp.outputs {
		geo, _ := sp.OutputGeometry(out)
		if p.In(geo) {
			return out, true
		}
	}
	return nil, false
}

// MapElement registers e at loc, or moves it if already registered.
// A newly registered element goes to the top of the raise order; if
// activate is set, an existing element is raised as well. Overlap is
// recomputed immediately.
func (sp *Space[E]) MapElement(e E, loc geom.Point[int], activate bool) {
	ent, ok := sp.entries[e]
	if !ok {
		ent = &entry[E]{}
		sp.entries[e] = ent
		sp.elems = append(sp.elems, e)
	} else if activate {
		sp.RaiseElement(e)
	}
	ent.loc = loc
	ent.overlap = sp.overlapFor(e)
}

// UnmapElement unregisters e and reports whether it was registered.
func (sp *Space[E]) UnmapElement(e E) bool {
	if _, ok := sp.entries[e]; !ok {
		return false
	}
	delete(sp.entries, e)
	i := slices.Index(sp.elems, e)
	sp.elems = slices.Delete(sp.elems, i, i+1)
	return true
}

// RaiseElement moves e to the top of the raise order.
func (sp *Space[E]) RaiseElement(e E) {
	i := slices.Index(sp.elems, e)
	if i < 0 {
		return
	}
	sp.elems = slices.Delete(sp.elems, i, i+1)
	sp.elems = append(sp.elems, e)
}

// Elements iterates over registered elements bottom-to-top.
func (sp *Space[E]) Elements() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range sp.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Len is the number of registered elements.
func (sp *Space[E]) Len() int {
	return len(sp.elems)
}

// ElementLocation is e's registered position.
func (sp *Space[E]) ElementLocation(e E) (geom.Point[int], bool) {
	ent, ok := sp.entries[e]
	if !ok {
		return geom.Point[int]{}, false
	}
	return ent.loc, true
}

// ElementGeometry is the rectangle e occupies in the index's
// coordinate space: the registered location with the element's
// current size.
func (sp *Space[E]) ElementGeometry(e E) (geom.Rect[int], bool) {
	ent, ok := sp.entries[e]
	if !ok {
		return geom.Rect[int]{}, false
	}
	return geom.Rect[int]{Min: ent.loc, Max: ent.loc.Add(e.Geometry().Size())}, true
}

// OutputsForElement returns the outputs e overlaps, in output
// registration order. The slice is the index's own; callers must not
// hold onto it across mutations.
func (sp *Space[E]) OutputsForElement(e E) []shell.Output {
	ent, ok := sp.entries[e]
	if !ok {
		return nil
	}
	return ent.overlap
}

// ElementsForOutput iterates bottom-to-top over the elements
// overlapping out.
func (sp *Space[E]) ElementsForOutput(out shell.Output) iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range sp.elems {
			if slices.Contains(sp.entries[e].overlap, out) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Refresh re-validates every registration by recomputing all output
// overlap.
func (sp *Space[E]) Refresh() {
	for _, e := range sp.elems {
		sp.entries[e].overlap = sp.overlapFor(e)
	}
}

func (sp *Space[E]) overlapFor(e E) []shell.Output {
	geo, _ := sp.ElementGeometry(e)
	var overlap []shell.Output
	for _, out := range sp.outputs {
		outGeo, _ := sp.OutputGeometry(out)
		if outGeo.Overlaps(geo) {
			overlap = append(overlap, out)
		}
	}
	return overlap
}
