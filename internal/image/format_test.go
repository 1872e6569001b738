package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{"JPG", FormatJPEG},
		{"jpeg", FormatJPEG},
		{".jpg", FormatJPEG},
		{"image/jpeg", FormatJPEG},
		{"gif", FormatGIF},
		{"image/x-ms-bmp", FormatBMP},
		{"tif", FormatTIFF},
		{" TIFF ", FormatTIFF},
		{"webp", FormatWebP},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("psd")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatProperties(t *testing.T) {
	for _, f := range OutputFormats {
		assert.True(t, f.Encodable(), f)
	}
	assert.False(t, FormatWebP.Encodable())
	assert.False(t, Format("").Encodable())

	assert.Equal(t, "image/jpeg", FormatJPEG.MIME())
	assert.Equal(t, "application/octet-stream", Format("").MIME())
	assert.Equal(t, ".jpg", FormatJPEG.Extension())
	assert.Equal(t, ".tiff", FormatTIFF.Extension())
	assert.Equal(t, "png", FormatPNG.String())
}
