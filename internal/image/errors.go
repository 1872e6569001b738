package image

import "errors"

// Errors reported by the raster pipeline. Callers classify them with
// errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidFileType   = errors.New("not an image file")
	ErrDecodeFailure     = errors.New("failed to decode image")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// Editor errors
	ErrNoImage          = errors.New("no image loaded")
	ErrNothingProcessed = errors.New("no processed image")
)
