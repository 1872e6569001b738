package image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRoundTrip(t *testing.T) {
	src := testBitmap(t, 32, 24)

	for _, f := range OutputFormats {
		t.Run(f.String(), func(t *testing.T) {
			enc, err := Encode(context.Background(), src, EncodeRequest{Format: f})
			require.NoError(t, err)
			assert.Equal(t, f, enc.Format)
			assert.Equal(t, f.MIME(), enc.MIME())
			assert.Equal(t, 32, enc.Width)
			assert.Equal(t, 24, enc.Height)
			assert.NotEmpty(t, enc.Data)

			back, err := Decode(context.Background(), enc.Data)
			require.NoError(t, err)
			assert.Equal(t, f, back.Format())
			assert.Equal(t, 32, back.Width())
			assert.Equal(t, 24, back.Height())
		})
	}
}

func TestEncodePNGKeepsPixels(t *testing.T) {
	src := testBitmap(t, 8, 8)

	enc, err := Encode(context.Background(), src, EncodeRequest{Format: FormatPNG})
	require.NoError(t, err)
	back, err := Decode(context.Background(), enc.Data)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			require.Equal(t, src.At(x, y), back.At(x, y))
		}
	}
}

func TestEncodeJPEGQuality(t *testing.T) {
	src := testBitmap(t, 64, 64)
	ctx := context.Background()

	low, err := Encode(ctx, src, EncodeRequest{Format: FormatJPEG, Quality: 10})
	require.NoError(t, err)
	def, err := Encode(ctx, src, EncodeRequest{Format: FormatJPEG})
	require.NoError(t, err)
	explicit, err := Encode(ctx, src, EncodeRequest{Format: FormatJPEG, Quality: DefaultJPEGQuality})
	require.NoError(t, err)

	assert.Less(t, len(low.Data), len(def.Data))
	assert.Equal(t, explicit.Data, def.Data)
}

func TestConvertRejectsUnsupported(t *testing.T) {
	src := testBitmap(t, 4, 4)

	_, err := Convert(context.Background(), src, EncodeRequest{Format: FormatWebP})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Convert(context.Background(), src, EncodeRequest{Format: "psd"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Encode(context.Background(), src, EncodeRequest{Format: FormatWebP})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConvertKeepsResolution(t *testing.T) {
	src := testBitmap(t, 1200, 300)

	enc, err := Convert(context.Background(), src, EncodeRequest{Format: FormatJPEG})
	require.NoError(t, err)
	assert.Equal(t, 1200, enc.Width)
	assert.Equal(t, 300, enc.Height)
}
