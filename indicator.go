package main

import (
	"fmt"
	"image"

	"deedles.dev/wlr"
	"deedles.dev/ximage/geom"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/vadorovsky/cosmic-comp/internal/drm"
	"github.com/vadorovsky/cosmic-comp/internal/fimg"
	"github.com/vadorovsky/cosmic-comp/render"
	"github.com/vadorovsky/cosmic-comp/shell"
)

var monoFont *sfnt.Font

func init() {
	gomonoFont, err := opentype.Parse(gomono.TTF)
	if err != nil {
		panic(fmt.Errorf("parse font: %w", err))
	}

	monoFont = gomonoFont
}

// The overlay rectangle extends this far past the window it
// surrounds; the size readout reports the window itself.
const resizeIndicatorInset = 18

// ResizeIndicator is the overlay shown around a window while it is
// being interactively resized: an outline plus a size readout. It
// implements floating.ResizeIndicator.
type ResizeIndicator struct {
	server *Server
	face   font.Face
	buf    *image.NRGBA

	size      geom.Point[int]
	outputGeo geom.Rect[int]

	label   string
	texture wlr.Texture
}

func NewResizeIndicator(server *Server) *ResizeIndicator {
	face, err := opentype.NewFace(monoFont, &opentype.FaceOptions{
		Size: 24,
		DPI:  72,
	})
	if err != nil {
		panic(fmt.Errorf("create font face: %w", err))
	}

	return &ResizeIndicator{
		server: server,
		face:   face,
		buf:    image.NewNRGBA(image.Rect(0, 0, 256, 64)),
	}
}

func (i *ResizeIndicator) Resize(size geom.Point[int]) {
	i.size = size

	inner := size.Sub(geom.Pt(2*resizeIndicatorInset, 2*resizeIndicatorInset))
	label := fmt.Sprintf("%d x %d", inner.X, inner.Y)
	if label == i.label {
		return
	}

	i.label = label
	if i.texture.Valid() {
		i.texture.Destroy()
	}
	i.texture = createTextTexture(i.server.renderer, i.buf, image.NewUniform(ColorResizeText), i.face, label)
}

func (i *ResizeIndicator) OutputEnter(out shell.Output, outputGeo geom.Rect[int]) {
	i.outputGeo = outputGeo
}

func (i *ResizeIndicator) RenderElements(loc geom.Point[int], scale, alpha float64) []render.Element {
	if alpha == 0 {
		return nil
	}

	geo := geom.Rect[int]{Min: loc, Max: loc.Add(physicalPoint(i.size, scale))}
	elements := []render.Element{
		&borderElement{
			geo:       geo,
			thickness: physicalLength(2, scale),
			color:     withAlpha(ColorResizeIndicator, alpha),
		},
	}

	if i.texture.Valid() {
		size := physicalPoint(geom.Pt(i.texture.Width(), i.texture.Height()), scale)
		min := geo.Center().Sub(size.Div(2))
		elements = append(elements, &textureElement{
			texture: i.texture,
			geo:     geom.Rect[int]{Min: min, Max: min.Add(size)},
			alpha:   alpha,
		})
	}

	return elements
}

func createTextTexture(ren wlr.Renderer, dst *image.NRGBA, src image.Image, face font.Face, text string) wlr.Texture {
	draw.Copy(dst, image.ZP, image.Transparent, image.Transparent.Bounds(), draw.Src, nil)

	fdraw := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.P(0, 24),
	}

	extents, _ := fdraw.BoundString(text)
	fdraw.DrawString(text)

	buf := fimg.NewNABGR(image.Rect(
		0,
		0,
		int(extents.Max.X-extents.Min.X),
		int(extents.Max.Y-extents.Min.Y),
	))
	draw.Copy(buf, image.ZP, dst, image.Rect(
		int(extents.Min.X),
		int(extents.Min.Y),
		int(extents.Max.X),
		int(extents.Max.Y),
	), draw.Src, nil)

	return wlr.TextureFromPixels(
		ren,
		drm.FormatABGR8888,
		uint32(buf.Stride),
		uint32(buf.Bounds().Dx()),
		uint32(buf.Bounds().Dy()),
		buf.Pix,
	)
}
