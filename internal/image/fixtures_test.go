package image

import (
	goimage "image"
	"image/color"
	"testing"

	"codeberg.org/snonux/handytools/internal/testutil"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 220, G: 30, B: 30, A: 255}
)

// testBitmap returns a w x h bitmap on a black background with a red
// square in the middle
func testBitmap(t *testing.T, w, h int) *Bitmap {
	t.Helper()

	img := testutil.SolidImage(w, h, black)
	testutil.PaintRect(img, goimage.Rect(w/4, h/4, 3*w/4, 3*h/4), red)
	return NewBitmap(img, FormatPNG)
}
