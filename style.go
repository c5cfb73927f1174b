package main

import "image/color"

var (
	ColorBackground      = color.NRGBA{0x22, 0x26, 0x2E, 0xFF}
	ColorFocusRing       = color.NRGBA{0x50, 0xA1, 0xAD, 0xFF}
	ColorResizeIndicator = color.NRGBA{0x9C, 0xE9, 0xE9, 0xFF}
	ColorResizeText      = color.NRGBA{0xEE, 0xEE, 0xEE, 0xFF}
)

// withAlpha modulates c's alpha channel.
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(float64(c.A) * alpha)
	return c
}
