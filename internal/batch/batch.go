// Package batch reads lists of images to process in one run.
package batch

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one image of a batch file with an optional per-line setting
type Entry struct {
	Path string
	// Option overrides the command's main setting for this image: the
	// format for convert, the width for resize, the threshold for
	// remove-bg. Empty means use the flags.
	Option string
}

// ReadBatchFile reads image paths from a file. Supported line formats:
//   - path only: "photo.jpg"
//   - path with option: "photo.jpg = jpeg"
//
// Blank lines and lines starting with '#' are skipped. Relative paths are
// resolved against the directory of the batch file.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	entries, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	dir := filepath.Dir(filename)
	for i := range entries {
		if !filepath.IsAbs(entries[i].Path) {
			entries[i].Path = filepath.Join(dir, entries[i].Path)
		}
	}
	return entries, nil
}

// Parse reads batch entries from content without touching the paths
func Parse(content []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		path, option, _ := strings.Cut(line, "=")
		path = strings.TrimSpace(path)
		option = strings.TrimSpace(option)
		if path == "" {
			return nil, fmt.Errorf("line %d: missing image path", lineNo)
		}
		entries = append(entries, Entry{Path: path, Option: option})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan batch file: %w", err)
	}
	return entries, nil
}
