package image

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// DefaultThreshold is the colour distance below which a pixel counts as
// background.
const DefaultThreshold = 100

// ColorDistance is the sum of absolute per-channel differences of two
// RGB triples. Alpha is ignored.
func ColorDistance(r1, g1, b1, r2, g2, b2 uint8) int {
	return absDiff(r1, r2) + absDiff(g1, g2) + absDiff(b1, b2)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// RemoveBackground treats the colour of the top-left pixel as background
// and makes every pixel whose ColorDistance to it is below threshold fully
// transparent. All other pixels keep their RGBA values. A threshold <= 0
// selects DefaultThreshold.
//
// There is no flood fill and no edge smoothing: the whole image is compared
// against the single reference colour.
func RemoveBackground(ctx context.Context, b *Bitmap, threshold int) (*Bitmap, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	out := imaging.Clone(b.pix)
	w, h := out.Rect.Dx(), out.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, w, h)
	}
	br, bg, bb := out.Pix[0], out.Pix[1], out.Pix[2]

	cleared := 0
	for y := 0; y < h; y++ {
		if y%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if ColorDistance(row[i], row[i+1], row[i+2], br, bg, bb) < threshold {
				row[i+3] = 0
				cleared++
			}
		}
	}

	log.Debug("removed background",
		"reference", [3]uint8{br, bg, bb},
		"threshold", threshold,
		"cleared", cleared,
		"total", w*h)

	return &Bitmap{pix: out, format: b.format}, nil
}
