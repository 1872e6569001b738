package image

import (
	goimage "image"

	"golang.org/x/image/draw"
)

// Preview widths used for the side-by-side display. Viewports narrower
// than CompactBreakpoint get the compact width.
const (
	DesktopPreviewWidth = 400
	CompactPreviewWidth = 300
	CompactBreakpoint   = 768
)

// PreviewWidthFor returns the preview width for a viewport of the given width
func PreviewWidthFor(viewport int) int {
	if viewport > 0 && viewport < CompactBreakpoint {
		return CompactPreviewWidth
	}
	return DesktopPreviewWidth
}

// Preview returns a display-sized proxy of b that is at most maxWidth
// pixels wide and keeps the aspect ratio. Images that already fit are
// returned unchanged. The proxy is for display only.
func Preview(b *Bitmap, maxWidth int) *Bitmap {
	if maxWidth <= 0 || b.Width() <= maxWidth {
		return b
	}

	w := maxWidth
	h := int(float64(b.Height()) / float64(b.Width()) * float64(w))
	if h < 1 {
		h = 1
	}

	dst := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), b.pix, b.pix.Bounds(), draw.Src, nil)

	return &Bitmap{pix: dst, format: b.format}
}
