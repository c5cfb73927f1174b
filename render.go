package main

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"deedles.dev/wlr"
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
	"github.com/vadorovsky/cosmic-comp/shell"
	"github.com/vadorovsky/cosmic-comp/shell/floating"
)

// drawable is implemented by every element the compositor knows how
// to paint.
type drawable interface {
	render.Element
	Draw(server *Server, out *Output)
}

func (server *Server) onFrame(out *Output) {
	_, err := out.Output.AttachRender()
	if err != nil {
		slog.Error("output attach render", "output", out.Output.Name(), "err", err)
		return
	}
	defer out.Output.Commit()

	server.renderer.Begin(out.Output, out.Output.Width(), out.Output.Height())
	defer server.renderer.End()

	server.renderer.Clear(ColorBackground)
	server.renderWorkspace(out)
	server.renderCursor(out)
}

func (server *Server) renderWorkspace(out *Output) {
	windows, popups := server.Workspace().Floating.RenderOutput(
		out,
		server.focused,
		server.resizeOverlay(),
		server,
		server.Config.Floating.FocusIndicatorThickness,
		1,
	)

	server.drawElements(out, windows)
	server.drawElements(out, popups)
}

func (server *Server) drawElements(out *Output, elements []render.Element) {
	for _, el := range elements {
		d, ok := el.(drawable)
		if !ok {
			continue
		}
		d.Draw(server, out)
	}
}

// resizeOverlay is non-nil while a resize grab is in progress.
func (server *Server) resizeOverlay() *floating.ResizeOverlay {
	if _, ok := server.inputMode.(*inputModeResize); !ok {
		return nil
	}
	return &floating.ResizeOverlay{
		Mode:      shell.ResizeModeActive,
		Indicator: server.resizeIndicator,
	}
}

func (server *Server) renderCursor(out *Output) {
	out.Output.RenderSoftwareCursors(image.ZR)
}

// FocusElement implements floating.IndicatorShader, producing the
// ring drawn around the focused window.
func (server *Server) FocusElement(m *shell.Mapped, geo geom.Rect[int], thickness int, scale, alpha float64) render.Element {
	pt := physicalLength(thickness, scale)
	return &borderElement{
		geo:       physicalRect(geo.Inset(-thickness), scale),
		thickness: pt,
		color:     withAlpha(ColorFocusRing, alpha),
	}
}

// borderElement paints the four sides of a rectangular ring.
type borderElement struct {
	geo       geom.Rect[int]
	thickness int
	color     color.NRGBA
}

func (e *borderElement) Geometry() geom.Rect[int] {
	return e.geo
}

func (e *borderElement) Draw(server *Server, out *Output) {
	r, t := e.geo, e.thickness
	tm := out.Output.TransformMatrix()

	server.renderer.RenderRect(geom.Rt(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t).ImageRect(), e.color, tm)
	server.renderer.RenderRect(geom.Rt(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y).ImageRect(), e.color, tm)
	server.renderer.RenderRect(geom.Rt(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t).ImageRect(), e.color, tm)
	server.renderer.RenderRect(geom.Rt(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t).ImageRect(), e.color, tm)
}

// textureElement paints a pre-rendered texture at a fixed rectangle.
type textureElement struct {
	texture wlr.Texture
	geo     geom.Rect[int]
	alpha   float64
}

func (e *textureElement) Geometry() geom.Rect[int] {
	return e.geo
}

func (e *textureElement) Draw(server *Server, out *Output) {
	if !e.texture.Valid() {
		return
	}

	m := wlr.ProjectBoxMatrix(e.geo.ImageRect(), wlr.OutputTransformNormal, 0, out.Output.TransformMatrix())
	server.renderer.RenderTextureWithMatrix(e.texture, m, float32(e.alpha))
}

func physicalRect(r geom.Rect[int], scale float64) geom.Rect[int] {
	return geom.Rect[int]{
		Min: physicalPoint(r.Min, scale),
		Max: physicalPoint(r.Max, scale),
	}
}

func physicalLength(l int, scale float64) int {
	return int(math.Round(float64(l) * scale))
}
