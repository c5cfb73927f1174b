// Package drm holds the DRM fourcc pixel-format codes the renderer
// accepts for texture uploads.
package drm

// FormatABGR8888 is non-premultiplied RGBA in little-endian byte
// order, matching fimg.NABGR's memory layout.
const FormatABGR8888 = 'A' | 'B'<<8 | '2'<<16 | '4'<<24
