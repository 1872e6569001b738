package image

import (
	"bytes"
	"context"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality matches what browsers use when no quality is given
const DefaultJPEGQuality = 92

// EncodeRequest selects the output format. Quality only applies to JPEG;
// zero means DefaultJPEGQuality.
type EncodeRequest struct {
	Format  Format
	Quality int
}

// Encoded is an encoded image ready to be handed to a sink
type Encoded struct {
	Format Format
	Data   []byte
	Width  int
	Height int
}

// MIME returns the media type of the encoded data
func (e *Encoded) MIME() string {
	return e.Format.MIME()
}

// Encode serialises b in the requested format. JPEG has no alpha channel;
// transparent pixels come out black, as they do from a canvas.
func Encode(ctx context.Context, b *Bitmap, req EncodeRequest) (*Encoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var err error

	switch req.Format {
	case FormatPNG:
		err = png.Encode(&buf, b.pix)
	case FormatJPEG:
		quality := req.Quality
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(&buf, b.pix, &jpeg.Options{Quality: quality})
	case FormatGIF:
		err = gif.Encode(&buf, b.pix, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, b.pix)
	case FormatTIFF:
		err = tiff.Encode(&buf, b.pix, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", req.Format, err)
	}

	log.Debug("encoded image", "format", req.Format, "size", humanize.Bytes(uint64(buf.Len())))

	return &Encoded{
		Format: req.Format,
		Data:   buf.Bytes(),
		Width:  b.Width(),
		Height: b.Height(),
	}, nil
}

// Convert re-encodes the full-resolution bitmap into another format
// without touching its pixels.
func Convert(ctx context.Context, b *Bitmap, req EncodeRequest) (*Encoded, error) {
	if !req.Format.Encodable() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	return Encode(ctx, b, req)
}
