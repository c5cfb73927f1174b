package floating

import (
	"testing"

	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/render"
	"github.com/vadorovsky/cosmic-comp/shell"
)

type fakeShader struct{}

type focusRingElement struct {
	m   *shell.Mapped
	geo geom.Rect[int]
}

func (e *focusRingElement) Geometry() geom.Rect[int] { return e.geo }

func (fakeShader) FocusElement(m *shell.Mapped, geo geom.Rect[int], thickness int, scale, alpha float64) render.Element {
	return &focusRingElement{m: m, geo: geo}
}

type indicatorElement struct {
	loc   geom.Point[int]
	alpha float64
}

func (e *indicatorElement) Geometry() geom.Rect[int] { return geom.Rect[int]{Min: e.loc} }

type fakeIndicator struct {
	size      geom.Point[int]
	outputGeo geom.Rect[int]
}

func (i *fakeIndicator) Resize(size geom.Point[int]) { i.size = size }

func (i *fakeIndicator) OutputEnter(out shell.Output, outputGeo geom.Rect[int]) {
	i.outputGeo = outputGeo
}

func (i *fakeIndicator) RenderElements(loc geom.Point[int], scale, alpha float64) []render.Element {
	return []render.Element{&indicatorElement{loc: loc, alpha: alpha}}
}

func contentOwners(elements []render.Element) []*fakeSurface {
	var owners []*fakeSurface
	for _, el := range elements {
		if fe, ok := el.(*fakeElement); ok {
			owners = append(owners, fe.owner)
		}
	}
	return owners
}

func TestRenderOutputPaintOrder(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	a := &fakeSurface{title: "a", geo: geom.Rt(0, 0, 400, 300)}
	b := &fakeSurface{title: "b", geo: geom.Rt(0, 0, 400, 300)}
	c := &fakeSurface{title: "c", geo: geom.Rt(0, 0, 400, 300)}
	mapWindow(f, a, out)
	mapWindow(f, b, out)
	mc := mapWindow(f, c, out)
	_ = mc

	windows, _ := f.RenderOutput(out, nil, nil, nil, 0, 1)

	owners := contentOwners(windows)
	if len(owners) != 3 || owners[0] != a || owners[1] != b || owners[2] != c {
		t.Fatalf("expected painter's order [a b c], got %v", owners)
	}
}

func TestRenderOutputRaiseChangesOrder(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	a := &fakeSurface{title: "a", geo: geom.Rt(0, 0, 400, 300)}
	b := &fakeSurface{title: "b", geo: geom.Rt(0, 0, 400, 300)}
	ma := mapWindow(f, a, out)
	mapWindow(f, b, out)
	f.Raise(ma)

	windows, _ := f.RenderOutput(out, nil, nil, nil, 0, 1)

	owners := contentOwners(windows)
	if len(owners) != 2 || owners[0] != b || owners[1] != a {
		t.Fatalf("expected raised window to paint last, got %v", owners)
	}
}

func TestRenderOutputFocusRingPrecedesContent(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	a := &fakeSurface{title: "a", geo: geom.Rt(0, 0, 400, 300)}
	b := &fakeSurface{title: "b", geo: geom.Rt(0, 0, 400, 300)}
	mapWindow(f, a, out)
	mb := mapWindow(f, b, out)

	windows, _ := f.RenderOutput(out, mb, nil, fakeShader{}, 4, 1)

	if len(windows) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(windows))
	}
	ring, ok := windows[1].(*focusRingElement)
	if !ok {
		t.Fatalf("expected the focus ring immediately before the focused window's content")
	}
	if ring.m != mb {
		t.Fatal("expected the ring to belong to the focused window")
	}

	geo, _ := f.ElementGeometry(mb)
	if ring.geo != geo {
		t.Fatalf("expected output-relative ring geometry %v, got %v", geo, ring.geo)
	}
}

func TestRenderOutputZeroThicknessDisablesRing(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	s := &fakeSurface{geo: geom.Rt(0, 0, 400, 300)}
	m := mapWindow(f, s, out)

	windows, _ := f.RenderOutput(out, m, nil, fakeShader{}, 0, 1)
	for _, el := range windows {
		if _, ok := el.(*focusRingElement); ok {
			t.Fatal("expected no focus ring with zero thickness")
		}
	}
}

func TestRenderOutputResizeOverlay(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	s := &fakeSurface{geo: geom.Rt(0, 0, 400, 300)}
	m := mapWindow(f, s, out)

	indicator := &fakeIndicator{}
	overlay := &ResizeOverlay{Mode: shell.ResizeModeActive, Indicator: indicator}
	windows, _ := f.RenderOutput(out, m, overlay, fakeShader{}, 4, 1)

	if indicator.size != geom.Pt(400+2*resizeOverlayMargin, 300+2*resizeOverlayMargin) {
		t.Fatalf("expected overlay inflated by the margin, got %v", indicator.size)
	}

	// Overlay, then ring, then the window's own content.
	if _, ok := windows[0].(*indicatorElement); !ok {
		t.Fatal("expected the overlay element first")
	}
	if _, ok := windows[1].(*focusRingElement); !ok {
		t.Fatal("expected the focus ring after the overlay")
	}
	if _, ok := windows[2].(*fakeElement); !ok {
		t.Fatal("expected the window content last")
	}

	ind := windows[0].(*indicatorElement)
	if ind.alpha != 1 {
		t.Fatalf("expected full overlay alpha in active mode, got %v", ind.alpha)
	}
}

func TestRenderOutputOverlayAlphaFollowsMode(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080)}
	f := newTestLayout(out)

	s := &fakeSurface{geo: geom.Rt(0, 0, 400, 300)}
	m := mapWindow(f, s, out)

	indicator := &fakeIndicator{}
	overlay := &ResizeOverlay{Mode: shell.ResizeModeEntering, Indicator: indicator}
	windows, _ := f.RenderOutput(out, m, overlay, nil, 0, 1)

	ind, ok := windows[0].(*indicatorElement)
	if !ok {
		t.Fatal("expected the overlay element")
	}
	if ind.alpha != 0.5 {
		t.Fatalf("expected transition alpha 0.5, got %v", ind.alpha)
	}
}

func TestRenderOutputScalesLocations(t *testing.T) {
	out := &fakeOutput{geo: geom.Rt(0, 0, 1920, 1080), scale: 2}
	f := newTestLayout(out)

	s := &fakeSurface{geo: geom.Rt(0, 0, 400, 300)}
	m := shell.NewWindow(s)
	pos := geom.Pt(100, 50)
	f.Map(m, &fakeSeat{out: out}, &pos)

	windows, _ := f.RenderOutput(out, nil, nil, nil, 0, 1)

	fe := windows[0].(*fakeElement)
	if fe.loc != geom.Pt(200, 100) {
		t.Fatalf("expected physical location (200,100) at scale 2, got %v", fe.loc)
	}
}

func TestRenderOutputSkipsOtherOutputs(t *testing.T) {
	left := &fakeOutput{geo: geom.Rt(0, 0, 1000, 1000)}
	right := &fakeOutput{geo: geom.Rt(1000, 0, 2000, 1000)}
	f := newTestLayout(left, right)

	s := &fakeSurface{geo: geom.Rt(0, 0, 400, 300)}
	m := shell.NewWindow(s)
	pos := geom.Pt(1200, 100)
	f.Map(m, &fakeSeat{out: right}, &pos)

	windows, _ := f.RenderOutput(left, nil, nil, nil, 0, 1)
	if len(windows) != 0 {
		t.Fatalf("expected no elements on an output the window does not touch, got %d", len(windows))
	}

	windows, _ = f.RenderOutput(right, nil, nil, nil, 0, 1)
	if len(windows) != 1 {
		t.Fatalf("expected the window on its own output, got %d elements", len(windows))
	}
	fe := windows[0].(*fakeElement)
	if fe.loc != geom.Pt(200, 100) {
		t.Fatalf("expected output-relative location (200,100), got %v", fe.loc)
	}
}
