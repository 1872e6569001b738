package image

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// Dimension identifies which side of a resize request the user drove
type Dimension int

const (
	DimensionWidth Dimension = iota
	DimensionHeight
)

// ResizeRequest describes the target size of a resize.
//
// With KeepAspect set, the dimension named by Driver is taken as given and
// the other one is derived from the source aspect ratio, overriding whatever
// value was supplied for it.
type ResizeRequest struct {
	Width      int
	Height     int
	KeepAspect bool
	Driver     Dimension
}

// ResolveSize applies the aspect lock of req to a source of srcW x srcH
// pixels and validates the result.
func ResolveSize(srcW, srcH int, req ResizeRequest) (int, int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, srcW, srcH)
	}

	w, h := req.Width, req.Height
	if req.KeepAspect {
		switch req.Driver {
		case DimensionHeight:
			w = int(math.Round(float64(h) * float64(srcW) / float64(srcH)))
		default:
			h = int(math.Round(float64(w) * float64(srcH) / float64(srcW)))
		}
	}

	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return w, h, nil
}

// Resize resamples b to the size resolved from req in a single pass.
// Interpolation is bilinear (imaging.Linear), the closest match to the
// browser canvas default.
func Resize(ctx context.Context, b *Bitmap, req ResizeRequest) (*Bitmap, error) {
	w, h, err := ResolveSize(b.Width(), b.Height(), req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized := imaging.Resize(b.pix, w, h, imaging.Linear)

	log.Debug("resized image", "from", fmt.Sprintf("%dx%d", b.Width(), b.Height()), "to", fmt.Sprintf("%dx%d", w, h))
	return &Bitmap{pix: resized, format: b.format}, nil
}
