package image

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/handytools/internal/notice"
	"codeberg.org/snonux/handytools/internal/store"
)

// Settings are the editor inputs the user can change between operations
type Settings struct {
	Width        int
	Height       int
	KeepAspect   bool
	Driver       Dimension
	Format       Format
	Quality      int
	Threshold    int
	PreviewWidth int
}

// DefaultSettings returns the inputs of a freshly opened editor
func DefaultSettings() Settings {
	return Settings{
		Width:        800,
		Height:       600,
		KeepAspect:   true,
		Driver:       DimensionWidth,
		Format:       FormatPNG,
		Threshold:    DefaultThreshold,
		PreviewWidth: DesktopPreviewWidth,
	}
}

// Result is the outcome of one editor operation. Encoded is the
// authoritative full-resolution output; Preview is for display only.
type Result struct {
	Op      string
	Bitmap  *Bitmap
	Encoded *Encoded
	Preview *Bitmap
}

// Editor owns one image editing session: the uploaded original, the
// current inputs and the processed output slot.
//
// The processed slot has no queue. Every operation draws a ticket when it is
// called and may only fill the slot if no later-called operation already
// has, so overlapping operations resolve in call order.
type Editor struct {
	mu        sync.Mutex
	settings  Settings
	original  *Bitmap
	preview   *Bitmap
	processed *Result
	busy      int
	notices   *notice.Board

	tickets  uint64 // last ticket handed out
	written  uint64 // ticket of the operation that owns the slot
	lastTask *Task
}

// NewEditor creates an empty editor. Outcomes are posted to board, which
// may be nil.
func NewEditor(board *notice.Board) *Editor {
	if board == nil {
		board = notice.NewBoard(notice.DefaultTTL)
	}
	return &Editor{settings: DefaultSettings(), notices: board}
}

// Notices returns the board the editor posts to
func (e *Editor) Notices() *notice.Board {
	return e.notices
}

// Settings returns a copy of the current inputs
func (e *Editor) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Busy reports whether an operation is in flight
func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy > 0
}

// Original returns the uploaded bitmap and its preview
func (e *Editor) Original() (*Bitmap, *Bitmap) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.original, e.preview
}

// Processed returns the latest result, or nil
func (e *Editor) Processed() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processed
}

// SetWidth sets the target width. With the aspect lock on and an image
// loaded, the height follows. It returns the resulting width and height.
func (e *Editor) SetWidth(w int) (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.Width = w
	e.settings.Driver = DimensionWidth
	if e.settings.KeepAspect && e.original != nil && w > 0 {
		_, e.settings.Height, _ = ResolveSize(e.original.Width(), e.original.Height(), ResizeRequest{Width: w, KeepAspect: true})
	}
	return e.settings.Width, e.settings.Height
}

// SetHeight is the mirror image of SetWidth
func (e *Editor) SetHeight(h int) (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.Height = h
	e.settings.Driver = DimensionHeight
	if e.settings.KeepAspect && e.original != nil && h > 0 {
		e.settings.Width, _, _ = ResolveSize(e.original.Width(), e.original.Height(), ResizeRequest{Height: h, KeepAspect: true, Driver: DimensionHeight})
	}
	return e.settings.Width, e.settings.Height
}

// SetKeepAspect toggles the aspect lock
func (e *Editor) SetKeepAspect(keep bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.KeepAspect = keep
}

// SetFormat selects the conversion target. Formats that cannot be encoded
// are rejected with ErrUnsupportedFormat.
func (e *Editor) SetFormat(f Format) error {
	if !f.Encodable() {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
		e.notices.Error(err)
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Format = f
	return nil
}

// SetQuality sets the JPEG quality (0 = default)
func (e *Editor) SetQuality(q int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Quality = q
}

// SetThreshold sets the background removal threshold (0 = default)
func (e *Editor) SetThreshold(t int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Threshold = t
}

// SetPreviewWidth sets the maximum width of display proxies
func (e *Editor) SetPreviewWidth(w int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.PreviewWidth = w
}

// Load decodes data and makes it the original. Any processed output is
// discarded and the size inputs are reset to the source size. On failure
// the previous original stays in place.
func (e *Editor) Load(ctx context.Context, data []byte) error {
	e.begin()
	defer e.end()

	bmp, err := Decode(ctx, data)
	if err != nil {
		return e.fail(err)
	}

	e.mu.Lock()
	e.tickets++
	e.written = e.tickets
	e.original = bmp
	e.preview = Preview(bmp, e.settings.PreviewWidth)
	e.processed = &Result{Op: "original", Bitmap: bmp, Preview: e.preview}
	e.settings.Width = bmp.Width()
	e.settings.Height = bmp.Height()
	e.mu.Unlock()

	e.notices.Success("image uploaded (%dx%d)", bmp.Width(), bmp.Height())
	return nil
}

// Resize scales the original to the current size inputs and encodes the
// result as PNG.
func (e *Editor) Resize(ctx context.Context) (*Result, error) {
	return e.run(ctx, "resize", func(ctx context.Context, src *Bitmap, s Settings) (*Bitmap, *Encoded, error) {
		resized, err := Resize(ctx, src, ResizeRequest{
			Width:      s.Width,
			Height:     s.Height,
			KeepAspect: s.KeepAspect,
			Driver:     s.Driver,
		})
		if err != nil {
			return nil, nil, err
		}
		enc, err := Encode(ctx, resized, EncodeRequest{Format: FormatPNG})
		return resized, enc, err
	})
}

// Convert re-encodes the full-resolution original in the selected format
func (e *Editor) Convert(ctx context.Context) (*Result, error) {
	return e.run(ctx, "convert", func(ctx context.Context, src *Bitmap, s Settings) (*Bitmap, *Encoded, error) {
		enc, err := Convert(ctx, src, EncodeRequest{Format: s.Format, Quality: s.Quality})
		return src, enc, err
	})
}

// RemoveBackground clears the background of the original and encodes the
// result as PNG so transparency survives.
func (e *Editor) RemoveBackground(ctx context.Context) (*Result, error) {
	return e.run(ctx, "remove-background", func(ctx context.Context, src *Bitmap, s Settings) (*Bitmap, *Encoded, error) {
		cleared, err := RemoveBackground(ctx, src, s.Threshold)
		if err != nil {
			return nil, nil, err
		}
		enc, err := Encode(ctx, cleared, EncodeRequest{Format: FormatPNG})
		return cleared, enc, err
	})
}

// Submit runs op in the background and returns its Task. The ticket is
// drawn now, so an editor operation inside op counts as called at Submit
// time. Tasks complete in the order they were submitted.
func (e *Editor) Submit(ctx context.Context, op Op) *Task {
	task := newTask()

	e.mu.Lock()
	ctx = context.WithValue(ctx, ticketKey{}, e.nextTicketLocked())
	prev := e.lastTask
	e.lastTask = task
	e.busy++
	e.mu.Unlock()

	go func() {
		result, err := op(ctx)
		if prev != nil {
			<-prev.Done()
		}
		e.end()
		task.complete(result, err)
	}()
	return task
}

// Download stores the processed output through sink under DownloadName(now)
// and returns the location it was written to.
func (e *Editor) Download(ctx context.Context, sink store.Sink, now time.Time) (string, error) {
	e.mu.Lock()
	result := e.processed
	e.mu.Unlock()

	if result == nil || result.Encoded == nil {
		return "", e.fail(ErrNothingProcessed)
	}

	name := DownloadName(now)
	if err := sink.Put(ctx, name, result.Encoded.MIME(), result.Encoded.Data); err != nil {
		return "", e.fail(fmt.Errorf("download: %w", err))
	}

	location := sink.Location(name)
	e.notices.Success("image saved to %s", location)
	return location, nil
}

// Reset discards the original, the processed output and all inputs
func (e *Editor) Reset() {
	e.mu.Lock()
	e.written = e.nextTicketLocked()
	e.original = nil
	e.preview = nil
	e.processed = nil
	e.settings = DefaultSettings()
	e.mu.Unlock()

	e.notices.Success("editor reset, upload a new image")
}

type transform func(ctx context.Context, src *Bitmap, s Settings) (*Bitmap, *Encoded, error)

type ticketKey struct{}

func (e *Editor) nextTicketLocked() uint64 {
	e.tickets++
	return e.tickets
}

func (e *Editor) run(ctx context.Context, name string, fn transform) (*Result, error) {
	e.mu.Lock()
	ticket, ok := ctx.Value(ticketKey{}).(uint64)
	if !ok {
		ticket = e.nextTicketLocked()
	}
	src, settings := e.original, e.settings
	e.mu.Unlock()

	if src == nil {
		return nil, e.fail(ErrNoImage)
	}

	e.begin()
	defer e.end()

	started := time.Now()
	bmp, enc, err := fn(ctx, src, settings)
	if err != nil {
		return nil, e.fail(fmt.Errorf("%s: %w", name, err))
	}

	result := &Result{
		Op:      name,
		Bitmap:  bmp,
		Encoded: enc,
		Preview: Preview(bmp, settings.PreviewWidth),
	}

	e.mu.Lock()
	superseded := ticket < e.written
	if !superseded {
		e.written = ticket
		e.processed = result
	}
	e.mu.Unlock()

	if superseded {
		log.Debug("operation superseded by a later one", "op", name, "took", time.Since(started))
		return result, nil
	}
	log.Debug("operation finished", "op", name, "format", enc.Format, "took", time.Since(started))
	e.notices.Success("%s done: %dx%d %s", name, enc.Width, enc.Height, enc.Format)
	return result, nil
}

func (e *Editor) fail(err error) error {
	e.notices.Error(err)
	return err
}

func (e *Editor) begin() {
	e.mu.Lock()
	e.busy++
	e.mu.Unlock()
}

func (e *Editor) end() {
	e.mu.Lock()
	e.busy--
	e.mu.Unlock()
}
