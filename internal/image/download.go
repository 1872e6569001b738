package image

import (
	"time"

	"codeberg.org/snonux/handytools/internal"
)

// DownloadName returns the file name offered for a processed image,
// e.g. edited-image-2026-10-17T09-30-00-000Z.png. The timestamp keeps
// repeated downloads from colliding. The extension is always .png.
func DownloadName(t time.Time) string {
	return "edited-image-" + internal.FileStamp(t) + ".png"
}
