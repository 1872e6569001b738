package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewWidthFor(t *testing.T) {
	assert.Equal(t, DesktopPreviewWidth, PreviewWidthFor(1920))
	assert.Equal(t, DesktopPreviewWidth, PreviewWidthFor(768))
	assert.Equal(t, CompactPreviewWidth, PreviewWidthFor(767))
	assert.Equal(t, CompactPreviewWidth, PreviewWidthFor(320))
	assert.Equal(t, DesktopPreviewWidth, PreviewWidthFor(0))
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"scaled down", 1000, 500, 400, 400, 200},
		{"height truncated", 1000, 333, 400, 400, 133},
		{"compact", 600, 600, 300, 300, 300},
		{"already fits", 200, 100, 400, 200, 100},
		{"very wide keeps one row", 4000, 2, 400, 400, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testBitmap(t, tt.w, tt.h)
			p := Preview(src, tt.max)
			assert.Equal(t, tt.wantW, p.Width())
			assert.Equal(t, tt.wantH, p.Height())
		})
	}
}

func TestPreviewReturnsSameBitmapWhenItFits(t *testing.T) {
	src := testBitmap(t, 100, 100)
	assert.Same(t, src, Preview(src, 400))
	assert.Same(t, src, Preview(src, 0))
}
