package floating

import (
	"math"

	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
	"github.com/vadorovsky/cosmic-comp/shell"
)

// The resize-mode overlay extends past the window on every side.
const resizeOverlayMargin = 18

// IndicatorShader produces the focus-ring element around the focused
// window. The geometry is output-relative and logical; the shader is
// responsible for scaling.
type IndicatorShader interface {
	FocusElement(m *shell.Mapped, geo geom.Rect[int], thickness int, scale, alpha float64) render.Element
}

// ResizeIndicator is the resize-mode overlay renderer. It is reshaped
// and re-anchored every frame before producing its elements.
type ResizeIndicator interface {
	Resize(size geom.Point[int])
	OutputEnter(out shell.Output, outputGeo geom.Rect[int])
	RenderElements(loc geom.Point[int], scale, alpha float64) []render.Element
}

// ResizeOverlay pairs the resize-mode indicator with the mode whose
// alpha modulates it.
type ResizeOverlay struct {
	Mode      shell.ResizeMode
	Indicator ResizeIndicator
}

// RenderOutput composes the window-content and popup element
// sequences for one output. Both are in painter's order: the window
// registered (or raised) most recently paints last, on top. For the
// focused window, the resize overlay and then the focus ring are
// emitted immediately before that window's own content, per window,
// never batched.
//
// A thickness of 0 disables the focus ring.
func (f *Floating) RenderOutput(out shell.Output, focused *shell.Mapped, resize *ResizeOverlay, shader IndicatorShader, thickness int, alpha float64) (windowElements, popupElements []render.Element) {
	scale := out.Scale()
	outputGeo, ok := f.space.OutputGeometry(out)
	if !ok {
		return nil, nil
	}

	for m := range f.space.ElementsForOutput(out) {
		loc, _ := f.space.ElementLocation(m)
		renderLoc := loc.Sub(outputGeo.Min).Sub(m.Geometry().Min)
		wElements, pElements := m.RenderElements(physical(renderLoc, scale), scale, alpha)

		if m == focused {
			indicatorGeo := geom.Rect[int]{Min: loc.Sub(outputGeo.Min)}
			indicatorGeo.Max = indicatorGeo.Min.Add(m.Geometry().Size())

			if resize != nil && resize.Indicator != nil {
				overlayGeo := indicatorGeo.Inset(-resizeOverlayMargin)
				resize.Indicator.Resize(overlayGeo.Size())
				resize.Indicator.OutputEnter(out, outputGeo)
				windowElements = append(windowElements, resize.Indicator.RenderElements(
					physical(overlayGeo.Min, scale),
					scale,
					alpha*resize.Mode.Alpha(),
				)...)
			}

			if thickness > 0 && shader != nil {
				windowElements = append(windowElements, shader.FocusElement(m, indicatorGeo, thickness, scale, alpha))
			}
		}

		windowElements = append(windowElements, wElements...)
		popupElements = append(popupElements, pElements...)
	}

	return windowElements, popupElements
}

// physical converts a logical point to physical pixels, rounding to
// nearest to avoid sub-pixel seams.
func physical(p geom.Point[int], scale float64) geom.Point[int] {
	return geom.Pt(
		int(math.Round(float64(p.X)*scale)),
		int(math.Round(float64(p.Y)*scale)),
	)
}
