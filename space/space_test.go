package space

import (
	"slices"
	"testing"

	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/shell"
)

type testOutput struct {
	geo geom.Rect[int]
}

func (o *testOutput) Geometry() geom.Rect[int]         { return o.geo }
func (o *testOutput) Scale() float64                   { return 1 }
func (o *testOutput) NonExclusiveZone() geom.Rect[int] { return geom.Rect[int]{Max: o.geo.Size()} }

type testElement struct {
	size geom.Point[int]
}

func (e *testElement) Geometry() geom.Rect[int] {
	return geom.Rect[int]{Max: e.size}
}

func TestMapElementOrdering(t *testing.T) {
	sp := New[*testElement]()

	a := &testElement{size: geom.Pt(10, 10)}
	b := &testElement{size: geom.Pt(10, 10)}
	c := &testElement{size: geom.Pt(10, 10)}
	sp.MapElement(a, geom.Pt(0, 0), false)
	sp.MapElement(b, geom.Pt(20, 0), false)
	sp.MapElement(c, geom.Pt(40, 0), false)

	got := slices.Collect(sp.Elements())
	if !slices.Equal(got, []*testElement{a, b, c}) {
		t.Fatalf("expected bottom-to-top registration order")
	}

	sp.RaiseElement(a)
	got = slices.Collect(sp.Elements())
	if !slices.Equal(got, []*testElement{b, c, a}) {
		t.Fatalf("expected raise to move the element to the top")
	}

	// Re-mapping with activate raises too.
	sp.MapElement(b, geom.Pt(20, 0), true)
	got = slices.Collect(sp.Elements())
	if !slices.Equal(got, []*testElement{c, a, b}) {
		t.Fatalf("expected activate to raise an existing element")
	}
}

func TestMapElementMoveKeepsOrder(t *testing.T) {
	sp := New[*testElement]()

	a := &testElement{size: geom.Pt(10, 10)}
	b := &testElement{size: geom.Pt(10, 10)}
	sp.MapElement(a, geom.Pt(0, 0), false)
	sp.MapElement(b, geom.Pt(20, 0), false)

	sp.MapElement(a, geom.Pt(5, 5), false)

	loc, ok := sp.ElementLocation(a)
	if !ok || loc != geom.Pt(5, 5) {
		t.Fatalf("expected moved location (5,5), got %v", loc)
	}
	got := slices.Collect(sp.Elements())
	if !slices.Equal(got, []*testElement{a, b}) {
		t.Fatalf("expected a plain move to keep stacking order")
	}
}

func TestUnmapElement(t *testing.T) {
	sp := New[*testElement]()

	a := &testElement{size: geom.Pt(10, 10)}
	sp.MapElement(a, geom.Pt(0, 0), false)

	if !sp.UnmapElement(a) {
		t.Fatal("expected true for a registered element")
	}
	if sp.UnmapElement(a) {
		t.Fatal("expected false for an unregistered element")
	}
	if sp.Len() != 0 {
		t.Fatalf("expected empty index, got %d elements", sp.Len())
	}
}

func TestOutputGeometryUsesRecordedLocation(t *testing.T) {
	sp := New[*testElement]()
	out := &testOutput{geo: geom.Rt(500, 0, 1500, 1000)}

	// Registered at a location different from its absolute position.
	sp.MapOutput(out, geom.Pt(0, 0))

	geo, ok := sp.OutputGeometry(out)
	if !ok {
		t.Fatal("expected geometry for a registered output")
	}
	if geo != geom.Rt(0, 0, 1000, 1000) {
		t.Fatalf("expected recorded location with output size, got %v", geo)
	}
}

func TestOutputUnder(t *testing.T) {
	sp := New[*testElement]()
	left := &testOutput{geo: geom.Rt(0, 0, 1000, 1000)}
	right := &testOutput{geo: geom.Rt(1000, 0, 2000, 1000)}
	sp.MapOutput(left, geom.Pt(0, 0))
	sp.MapOutput(right, geom.Pt(1000, 0))

	out, ok := sp.OutputUnder(geom.Pt(1500, 500))
	if !ok || out != shell.Output(right) {
		t.Fatalf("expected the right output, got %v (%v)", out, ok)
	}

	if _, ok := sp.OutputUnder(geom.Pt(5000, 0)); ok {
		t.Fatal("expected no output for a point outside all of them")
	}
}

func TestOverlapTracking(t *testing.T) {
	sp := New[*testElement]()
	left := &testOutput{geo: geom.Rt(0, 0, 1000, 1000)}
	right := &testOutput{geo: geom.Rt(1000, 0, 2000, 1000)}
	sp.MapOutput(left, geom.Pt(0, 0))
	sp.MapOutput(right, geom.Pt(1000, 0))

	e := &testElement{size: geom.Pt(400, 300)}
	sp.MapElement(e, geom.Pt(800, 100), false)

	overlap := sp.OutputsForElement(e)
	if len(overlap) != 2 {
		t.Fatalf("expected overlap with both outputs, got %d", len(overlap))
	}
	if overlap[0] != shell.Output(left) || overlap[1] != shell.Output(right) {
		t.Fatal("expected overlap in output registration order")
	}

	sp.MapElement(e, geom.Pt(100, 100), false)
	overlap = sp.OutputsForElement(e)
	if len(overlap) != 1 || overlap[0] != shell.Output(left) {
		t.Fatalf("expected overlap recomputed after a move, got %v", overlap)
	}
}

func TestUnmapOutputKeepsElements(t *testing.T) {
	sp := New[*testElement]()
	out := &testOutput{geo: geom.Rt(0, 0, 1000, 1000)}
	sp.MapOutput(out, geom.Pt(0, 0))

	e := &testElement{size: geom.Pt(400, 300)}
	sp.MapElement(e, geom.Pt(100, 100), false)

	sp.UnmapOutput(out)

	if sp.Len() != 1 {
		t.Fatal("expected elements to survive output removal")
	}
	if len(sp.OutputsForElement(e)) != 0 {
		t.Fatal("expected empty overlap once no outputs remain")
	}
}

func TestElementsForOutput(t *testing.T) {
	sp := New[*testElement]()
	left := &testOutput{geo: geom.Rt(0, 0, 1000, 1000)}
	right := &testOutput{geo: geom.Rt(1000, 0, 2000, 1000)}
	sp.MapOutput(left, geom.Pt(0, 0))
	sp.MapOutput(right, geom.Pt(1000, 0))

	a := &testElement{size: geom.Pt(100, 100)}
	b := &testElement{size: geom.Pt(100, 100)}
	sp.MapElement(a, geom.Pt(100, 100), false)
	sp.MapElement(b, geom.Pt(1100, 100), false)

	onLeft := slices.Collect(sp.ElementsForOutput(left))
	if !slices.Equal(onLeft, []*testElement{a}) {
		t.Fatalf("expected only a on the left output, got %v", onLeft)
	}
	onRight := slices.Collect(sp.ElementsForOutput(right))
	if !slices.Equal(onRight, []*testElement{b}) {
		t.Fatalf("expected only b on the right output, got %v", onRight)
	}
}
