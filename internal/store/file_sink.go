package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/handytools/internal"
)

// FileSink writes objects into a local directory
type FileSink struct {
	dir string
	// Overwrite allows replacing an existing file with the same key
	Overwrite bool
}

// NewFileSink creates a sink rooted at dir. The directory is created on
// the first Put.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Location returns the path key is written to. Directories are stripped
// from key and unsafe characters replaced.
func (s *FileSink) Location(key string) string {
	return filepath.Join(s.dir, internal.SanitizeFilename(filepath.Base(key)))
}

// Put writes data to a temporary file and renames it into place so a
// partially written download never appears under its final name.
func (s *FileSink) Put(ctx context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	outputPath := s.Location(key)
	if !s.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("file already exists: %s", outputPath)
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	log.Debug("stored file", "path", outputPath, "type", contentType, "size", humanize.Bytes(uint64(len(data))))
	return nil
}
