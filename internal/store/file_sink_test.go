package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkPut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	sink := NewFileSink(dir)

	err := sink.Put(context.Background(), "edited.png", "image/png", []byte("png bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "edited.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSinkRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)
	ctx := context.Background()

	require.NoError(t, sink.Put(ctx, "a.png", "image/png", []byte("first")))
	err := sink.Put(ctx, "a.png", "image/png", []byte("second"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	sink.Overwrite = true
	require.NoError(t, sink.Put(ctx, "a.png", "image/png", []byte("second")))

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileSinkKeyValidation(t *testing.T) {
	sink := NewFileSink(t.TempDir())

	err := sink.Put(context.Background(), "", "image/png", nil)
	assert.ErrorIs(t, err, ErrEmptyKey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sink.Put(ctx, "x.png", "image/png", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSinkLocationStripsDirectories(t *testing.T) {
	sink := NewFileSink("/tmp/out")
	assert.Equal(t, filepath.Join("/tmp/out", "x.png"), sink.Location("../../x.png"))
}

func TestFileSinkLocationSanitizesKey(t *testing.T) {
	sink := NewFileSink("/tmp/out")
	assert.Equal(t, filepath.Join("/tmp/out", "my_photo_1_.png"), sink.Location("my photo(1).png"))
}
