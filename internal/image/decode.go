package image

import (
	"bytes"
	"context"
	"fmt"
	goimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SniffMIME returns the media type detected from the leading bytes of data
func SniffMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// Decode turns uploaded file bytes into a Bitmap. Anything whose sniffed
// media type is not image/* is rejected with ErrInvalidFileType before a
// decoder runs.
func Decode(ctx context.Context, data []byte) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mime := SniffMIME(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidFileType, mime)
	}

	img, name, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, mime, err)
	}

	format, err := ParseFormat(name)
	if err != nil {
		// A registered decoder we have no Format constant for.
		format = ""
	}

	bmp := NewBitmap(img, format)
	if bmp.Width() == 0 || bmp.Height() == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrDecodeFailure, bmp.Width(), bmp.Height())
	}

	log.Debug("decoded image",
		"format", format,
		"width", bmp.Width(),
		"height", bmp.Height(),
		"size", humanize.Bytes(uint64(len(data))))

	return bmp, nil
}
