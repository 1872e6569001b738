package image

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDownloadName(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 30, 0, 123_000_000, time.UTC)
	assert.Equal(t, "edited-image-2026-10-17T09-30-00-123Z.png", DownloadName(ts))

	// Local times are converted to UTC
	cet := time.FixedZone("CET", 3600)
	assert.Equal(t, "edited-image-2026-10-17T08-30-00-000Z.png", DownloadName(time.Date(2026, 10, 17, 9, 30, 0, 0, cet)))

	assert.NotEqual(t, DownloadName(ts), DownloadName(ts.Add(time.Millisecond)))
}
