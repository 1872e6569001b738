package image

import (
	"fmt"
	"strings"
)

// Format names an image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	// FormatWebP can be decoded but not encoded
	FormatWebP Format = "webp"
)

// OutputFormats lists every format Encode accepts
var OutputFormats = []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF}

// ParseFormat accepts a format name, a file extension or a MIME type
// ("jpg", ".JPG", "image/jpeg") and returns the matching Format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "image/")
	name = strings.TrimPrefix(name, ".")

	switch name {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp", "x-ms-bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Encodable reports whether Encode can produce this format
func (f Format) Encodable() bool {
	for _, out := range OutputFormats {
		if out == f {
			return true
		}
	}
	return false
}

// MIME returns the media type for the format
func (f Format) MIME() string {
	if f == "" {
		return "application/octet-stream"
	}
	return "image/" + string(f)
}

// Extension returns the conventional file extension including the dot
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case "":
		return ""
	default:
		return "." + string(f)
	}
}

// String implements fmt.Stringer
func (f Format) String() string {
	return string(f)
}
