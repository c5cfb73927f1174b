// Package fimg implements pixel formats the renderer accepts for
// texture uploads that the standard image package does not provide.
package fimg

import (
	"image"
	"image/color"
)

// NABGR is an in-memory image whose pixels are stored
// alpha-blue-green-red, non-premultiplied. This is the CPU-side
// layout of a little-endian RGBA texture.
type NABGR struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewNABGR(r image.Rectangle) *NABGR {
	return &NABGR{
		Pix:    make([]uint8, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

func (p *NABGR) ColorModel() color.Model { return color.NRGBAModel }

func (p *NABGR) Bounds() image.Rectangle { return p.Rect }

// PixOffset is the index of the first byte of the pixel at (x, y).
func (p *NABGR) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *NABGR) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

func (p *NABGR) NRGBAAt(x, y int) color.NRGBA {
	i := p.PixOffset(x, y)
	return color.NRGBA{R: p.Pix[i+3], G: p.Pix[i+2], B: p.Pix[i+1], A: p.Pix[i]}
}

func (p *NABGR) Set(x, y int, c color.Color) {
	p.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (p *NABGR) SetNRGBA(x, y int, c color.NRGBA) {
	i := p.PixOffset(x, y)
	p.Pix[i] = c.A
	p.Pix[i+1] = c.B
	p.Pix[i+2] = c.G
	p.Pix[i+3] = c.R
}
