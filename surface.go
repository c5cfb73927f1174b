package main

import (
	"math"
	"time"

	"deedles.dev/wlr"
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
)

// xdgSurface adapts an xdg-shell toplevel to the capability surface
// the layout engine works against. Geometry changes are staged and
// sent to the client on Configure.
type xdgSurface struct {
	s wlr.XDGSurface

	bounds geom.Point[int]
	staged geom.Point[int]
	dirty  bool
}

func (s *xdgSurface) WLRSurface() wlr.Surface {
	return s.s.Surface()
}

func (s *xdgSurface) Geometry() geom.Rect[int] {
	return geom.FromImageRect(s.s.GetGeometry())
}

func (s *xdgSurface) MinSize() geom.Point[int] {
	cur := s.s.Toplevel().Current()
	return geom.Pt(int(cur.MinWidth()), int(cur.MinHeight()))
}

func (s *xdgSurface) MaxSize() geom.Point[int] {
	cur := s.s.Toplevel().Current()
	return geom.Pt(int(cur.MaxWidth()), int(cur.MaxHeight()))
}

// SetBounds records the largest size the window should assume. The
// protocol has no direct equivalent in this binding, so the bound is
// applied by clamping staged geometry instead.
func (s *xdgSurface) SetBounds(size geom.Point[int]) {
	s.bounds = size
}

func (s *xdgSurface) SetGeometry(r geom.Rect[int]) {
	size := r.Size()
	if s.bounds.X != 0 {
		size.X = min(size.X, s.bounds.X)
	}
	if s.bounds.Y != 0 {
		size.Y = min(size.Y, s.bounds.Y)
	}

	s.staged = size
	s.dirty = true
}

func (s *xdgSurface) SetTiled(tiled bool) {
	var edges wlr.Edges
	if tiled {
		edges = wlr.EdgeLeft | wlr.EdgeRight | wlr.EdgeTop | wlr.EdgeBottom
	}
	s.s.Toplevel().SetTiled(edges)
}

func (s *xdgSurface) SetResizing(resizing bool) {
	s.s.Toplevel().SetResizing(resizing)
}

func (s *xdgSurface) SetMaximized(maximized bool) {
	s.s.Toplevel().SetMaximized(maximized)
}

func (s *xdgSurface) SetActivated(activated bool) {
	s.s.Toplevel().SetActivated(activated)
}

func (s *xdgSurface) Configure() {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.s.Toplevel().SetSize(int32(s.staged.X), int32(s.staged.Y))
}

func (s *xdgSurface) Title() string {
	return s.s.Toplevel().Title()
}

func (s *xdgSurface) Close() error {
	s.s.Toplevel().SendClose()
	return nil
}

// RenderElements flattens the surface tree into paint-ordered
// elements. The root surface is the window content; everything above
// it, subsurfaces and popups alike, goes into the popup sequence.
func (s *xdgSurface) RenderElements(loc geom.Point[int], scale, alpha float64) (windows, popups []render.Element) {
	root := s.s.Surface()
	s.s.ForEachSurface(func(surface wlr.Surface, sx, sy int) {
		cur := surface.Current()
		off := physicalPoint(geom.Pt(sx, sy), scale)
		size := physicalPoint(geom.Pt(cur.Width(), cur.Height()), scale)
		el := &surfaceElement{
			surface: surface,
			geo:     geom.Rect[int]{Min: loc.Add(off), Max: loc.Add(off).Add(size)},
			alpha:   alpha,
		}
		if surface == root {
			windows = append(windows, el)
			return
		}
		popups = append(popups, el)
	})
	return windows, popups
}

// surfaceElement paints one wlr surface at a physical,
// output-relative rectangle.
type surfaceElement struct {
	surface wlr.Surface
	geo     geom.Rect[int]
	alpha   float64
}

func (e *surfaceElement) Geometry() geom.Rect[int] {
	return e.geo
}

func (e *surfaceElement) Draw(server *Server, out *Output) {
	texture := e.surface.GetTexture()
	if !texture.Valid() {
		return
	}

	tr := e.surface.Current().Transform().Invert()
	m := wlr.ProjectBoxMatrix(e.geo.ImageRect(), tr, 0, out.Output.TransformMatrix())
	server.renderer.RenderTextureWithMatrix(texture, m, float32(e.alpha))
	e.surface.SendFrameDone(time.Now())
}

func physicalPoint(p geom.Point[int], scale float64) geom.Point[int] {
	return geom.Pt(
		int(math.Round(float64(p.X)*scale)),
		int(math.Round(float64(p.Y)*scale)),
	)
}
