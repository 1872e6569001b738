// Package image implements the raster pipeline: decoding uploaded bytes,
// resizing, format conversion, chroma-key background removal and the
// display-sized previews shown next to every result.
//
// Every operation returns a new Bitmap. A Bitmap is never modified after it
// has been built, so results can be shared freely between goroutines.
package image

import (
	goimage "image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Bitmap is a decoded RGBA raster with 8 bits per channel, row-major and
// not premultiplied.
type Bitmap struct {
	pix    *goimage.NRGBA
	format Format
}

// NewBitmap copies img into a new Bitmap. The copy is rebased so that the
// top-left pixel is at (0,0).
func NewBitmap(img goimage.Image, format Format) *Bitmap {
	return &Bitmap{pix: imaging.Clone(img), format: format}
}

// Width returns the width in pixels
func (b *Bitmap) Width() int {
	return b.pix.Rect.Dx()
}

// Height returns the height in pixels
func (b *Bitmap) Height() int {
	return b.pix.Rect.Dy()
}

// Format returns the format the bitmap was decoded from, if any
func (b *Bitmap) Format() Format {
	return b.format
}

// At returns the colour of the pixel at (x, y)
func (b *Bitmap) At(x, y int) color.NRGBA {
	return b.pix.NRGBAAt(x, y)
}

// Image exposes the pixels as an image.Image. Callers must not modify it.
func (b *Bitmap) Image() goimage.Image {
	return b.pix
}

// aspect returns width divided by height
func (b *Bitmap) aspect() float64 {
	return float64(b.Width()) / float64(b.Height())
}
