package image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/handytools/internal/testutil"
)

func TestDecode(t *testing.T) {
	ctx := context.Background()
	src := testBitmap(t, 40, 20)

	t.Run("png", func(t *testing.T) {
		bmp, err := Decode(ctx, testutil.PNGBytes(t, src.Image()))
		require.NoError(t, err)
		assert.Equal(t, 40, bmp.Width())
		assert.Equal(t, 20, bmp.Height())
		assert.Equal(t, FormatPNG, bmp.Format())
		assert.Equal(t, red, bmp.At(20, 10))
	})

	t.Run("jpeg", func(t *testing.T) {
		bmp, err := Decode(ctx, testutil.JPEGBytes(t, src.Image()))
		require.NoError(t, err)
		assert.Equal(t, FormatJPEG, bmp.Format())
		assert.Equal(t, 40, bmp.Width())
	})
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, err := Decode(context.Background(), []byte("just some plain text, not a picture\n"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = Decode(context.Background(), []byte(`{"json": true}`))
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestDecodeCorruptImage(t *testing.T) {
	data := testutil.PNGBytes(t, testBitmap(t, 8, 8).Image())
	// Keep the signature so the type sniffs as PNG, break everything after it
	corrupt := append([]byte(nil), data[:16]...)
	corrupt = append(corrupt, make([]byte, 32)...)

	assert.Equal(t, "image/png", SniffMIME(corrupt))

	_, err := Decode(context.Background(), corrupt)
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, testutil.PNGBytes(t, testBitmap(t, 4, 4).Image()))
	assert.ErrorIs(t, err, context.Canceled)
}
