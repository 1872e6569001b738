package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/handytools/internal/batch"
	"codeberg.org/snonux/handytools/internal/cli"
	"codeberg.org/snonux/handytools/internal/image"
)

// ProcessImages runs action on every path plus every entry of --batch.
// A failing image does not stop the others; the summary reports it and the
// returned error says how many failed.
func (p *Processor) ProcessImages(ctx context.Context, action cli.Action, paths []string) error {
	entries := make([]batch.Entry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, batch.Entry{Path: path})
	}
	if p.flags.BatchFile != "" {
		fromFile, err := batch.ReadBatchFile(p.flags.BatchFile)
		if err != nil {
			return err
		}
		entries = append(entries, fromFile...)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no input images, pass file names or --batch")
	}

	processed, errorCount := 0, 0
	for i, entry := range entries {
		if len(entries) > 1 {
			fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Path)
		}

		var err error
		if action == cli.ActionInfo {
			err = p.printInfo(ctx, entry.Path)
		} else {
			err = p.processImage(ctx, action, entry)
		}
		if err != nil {
			fmt.Fprintf(p.out, "Error processing '%s': %v\n", entry.Path, err)
			errorCount++
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		processed++
	}

	if len(entries) > 1 {
		fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
		fmt.Fprintf(p.out, "Total images: %d\n", len(entries))
		fmt.Fprintf(p.out, "Processed: %d\n", processed)
		if errorCount > 0 {
			fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
		}
		fmt.Fprintf(p.out, "================================\n")
	}

	if errorCount > 0 {
		return fmt.Errorf("%d of %d images failed", errorCount, len(entries))
	}
	return nil
}

func (p *Processor) processImage(ctx context.Context, action cli.Action, entry batch.Entry) error {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	editor := image.NewEditor(p.board)
	if err := editor.Load(ctx, data); err != nil {
		return err
	}
	if err := p.configure(editor, action, entry.Option); err != nil {
		return err
	}

	var result *image.Result
	switch action {
	case cli.ActionResize:
		result, err = editor.Resize(ctx)
	case cli.ActionConvert:
		result, err = editor.Convert(ctx)
	case cli.ActionRemoveBG:
		result, err = editor.RemoveBackground(ctx)
	default:
		return fmt.Errorf("unknown image action: %s", action)
	}
	if err != nil {
		return err
	}

	sink, err := p.Sink(ctx)
	if err != nil {
		return err
	}
	location, err := editor.Download(ctx, sink, p.stamp())
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Saved %dx%d %s (%s) to %s\n",
		result.Encoded.Width, result.Encoded.Height, result.Encoded.Format,
		humanize.Bytes(uint64(len(result.Encoded.Data))), location)
	return nil
}

// configure copies the flags into the editor. option, from a batch line,
// overrides the main setting of action.
func (p *Processor) configure(editor *image.Editor, action cli.Action, option string) error {
	f := p.flags

	editor.SetPreviewWidth(f.PreviewWidth)
	editor.SetKeepAspect(f.KeepAspect)
	editor.SetQuality(f.Quality)
	if err := editor.SetFormat(f.Format.Format); err != nil {
		return err
	}

	width, height := f.Width, f.Height
	threshold := f.Threshold

	if option != "" {
		switch action {
		case cli.ActionConvert:
			format, err := image.ParseFormat(option)
			if err != nil {
				return err
			}
			if err := editor.SetFormat(format); err != nil {
				return err
			}
		case cli.ActionResize:
			n, err := strconv.Atoi(option)
			if err != nil {
				return fmt.Errorf("%w: width %q", image.ErrInvalidDimensions, option)
			}
			width, height = n, 0
		case cli.ActionRemoveBG:
			n, err := strconv.Atoi(option)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", option, err)
			}
			threshold = n
		}
	}
	editor.SetThreshold(threshold)

	if action != cli.ActionResize {
		return nil
	}
	switch {
	case width > 0:
		editor.SetWidth(width)
		if !f.KeepAspect && height > 0 {
			editor.SetHeight(height)
		}
	case height > 0:
		editor.SetHeight(height)
	default:
		return fmt.Errorf("%w: pass --width or --height", image.ErrInvalidDimensions)
	}
	return nil
}

func (p *Processor) printInfo(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	bmp, err := image.Decode(ctx, data)
	if err != nil {
		if errors.Is(err, image.ErrInvalidFileType) {
			log.Warn("not an image", "path", path)
		}
		return err
	}
	preview := image.Preview(bmp, p.flags.PreviewWidth)

	fmt.Fprintf(p.out, "File:    %s\n", path)
	fmt.Fprintf(p.out, "Type:    %s\n", image.SniffMIME(data))
	fmt.Fprintf(p.out, "Format:  %s\n", bmp.Format())
	fmt.Fprintf(p.out, "Size:    %dx%d\n", bmp.Width(), bmp.Height())
	fmt.Fprintf(p.out, "Bytes:   %s\n", humanize.Bytes(uint64(len(data))))
	fmt.Fprintf(p.out, "Preview: %dx%d\n", preview.Width(), preview.Height())
	return nil
}
