package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"codeberg.org/snonux/handytools/internal/archive"
	"codeberg.org/snonux/handytools/internal/cli"
	"codeberg.org/snonux/handytools/internal/notice"
	"codeberg.org/snonux/handytools/internal/speech"
	"codeberg.org/snonux/handytools/internal/store"
)

// Processor runs the handytools commands
type Processor struct {
	flags *cli.Flags
	in    io.Reader
	out   io.Writer
	now   func() time.Time
	board *notice.Board

	sink      store.Sink
	closers   []func()
	lastStamp time.Time

	// newEngine creates the speech engine; tests replace it
	newEngine func(name string) (speech.Engine, error)
	// openAIBaseURL overrides the OpenAI endpoint of the model lister
	openAIBaseURL string
}

// NewProcessor creates a processor reading from stdin and writing to stdout
func NewProcessor(flags *cli.Flags) *Processor {
	p := &Processor{
		flags: flags,
		in:    os.Stdin,
		out:   os.Stdout,
		now:   time.Now,
		board: notice.NewBoard(notice.DefaultTTL),
	}
	p.newEngine = func(name string) (speech.Engine, error) {
		return speech.NewEngine(name, speech.OpenAIConfig{
			APIKey:       cli.GetOpenAIKey(),
			Model:        flags.OpenAIModel,
			Instructions: flags.OpenAIInstruction,
		})
	}
	return p
}

// SetIO replaces stdin and stdout
func (p *Processor) SetIO(in io.Reader, out io.Writer) {
	p.in = in
	p.out = out
}

// Close releases sink connections
func (p *Processor) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
	p.sink = nil
}

// stamp returns the download time of the next image. Names have
// millisecond resolution, so consecutive stamps are at least 1ms apart.
func (p *Processor) stamp() time.Time {
	now := p.now().Truncate(time.Millisecond)
	if !now.After(p.lastStamp) {
		now = p.lastStamp.Add(time.Millisecond)
	}
	p.lastStamp = now
	return now
}

// Archive moves the output directory into the archive
func (p *Processor) Archive() error {
	path, err := archive.Archive(p.flags.OutputDir, p.now())
	if err != nil {
		return fmt.Errorf("failed to archive downloads: %w", err)
	}
	fmt.Fprintf(p.out, "Downloads archived to: %s\n", path)
	return nil
}

// Sink returns the download sink selected by --sink, connecting on first use
func (p *Processor) Sink(ctx context.Context) (store.Sink, error) {
	if p.sink != nil {
		return p.sink, nil
	}

	var sink store.Sink
	switch p.flags.Sink {
	case "", "file":
		fs := store.NewFileSink(p.flags.OutputDir)
		fs.Overwrite = p.flags.Overwrite
		sink = fs

	case "nats":
		nc, err := nats.Connect(p.flags.NATSURL, nats.Name("handytools"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS at %s: %w", p.flags.NATSURL, err)
		}
		js, err := nc.JetStream()
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to open JetStream: %w", err)
		}
		ns, err := store.NewNATSSink(js, p.flags.NATSBucket)
		if err != nil {
			nc.Close()
			return nil, err
		}
		p.closers = append(p.closers, func() {
			if err := nc.Drain(); err != nil {
				log.Warn("failed to drain NATS connection", "error", err)
			}
		})
		sink = ns

	case "s3":
		s3, err := store.NewS3Sink(ctx, store.S3Config{
			Endpoint:  p.flags.S3Endpoint,
			AccessKey: p.flags.S3AccessKey,
			SecretKey: p.flags.S3SecretKey,
			Bucket:    p.flags.S3Bucket,
			Region:    p.flags.S3Region,
			Secure:    p.flags.S3Secure,
		})
		if err != nil {
			return nil, err
		}
		sink = s3

	default:
		return nil, fmt.Errorf("unknown sink: %s", p.flags.Sink)
	}

	log.Debug("using sink", "type", p.flags.Sink)
	p.sink = sink
	return sink, nil
}
