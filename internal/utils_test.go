package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileStamp(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 30, 5, 123_000_000, time.UTC)
	assert.Equal(t, "2026-10-17T09-30-05-123Z", FileStamp(ts))

	// Non-UTC times are normalised first.
	sofia := time.FixedZone("EEST", 3*60*60)
	assert.Equal(t, "2026-10-17T09-30-05-000Z", FileStamp(time.Date(2026, 10, 17, 12, 30, 5, 0, sofia)))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"my photo/1.png", "my_photo_1.png"},
		{"a:b*c?", "a_b_c_"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
