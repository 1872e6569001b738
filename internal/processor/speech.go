package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/handytools/internal/cli"
	"codeberg.org/snonux/handytools/internal/models"
	"codeberg.org/snonux/handytools/internal/speech"
)

// Speak reads the joined args, or the --file contents, aloud and blocks
// until the utterance ends, is stopped or ctx is done. With --interactive,
// lines on stdin control playback: p pauses, r resumes, s or q stops.
func (p *Processor) Speak(ctx context.Context, args []string) error {
	text, err := p.speechText(args)
	if err != nil {
		return err
	}

	controller, err := p.controller()
	if err != nil {
		return err
	}

	cfg := speech.UtteranceConfig{
		Text:   text,
		Voice:  p.flags.Voice,
		Rate:   p.flags.Rate,
		Pitch:  p.flags.Pitch,
		Volume: p.flags.Volume,
	}
	if cfg.Voice == "" && p.flags.Lang != "" {
		cfg.Voice = p.voiceForLanguage(ctx, controller, p.flags.Lang)
	}

	progress := newProgressPrinter(p.out)
	controller.OnChange(progress.update)

	session, err := controller.Speak(ctx, cfg)
	if err != nil {
		return err
	}
	progress.printf("Speaking with %s (voice: %s)\n", controller.Engine().Name(), session.Voice)

	var commands <-chan string
	if p.flags.Interactive {
		progress.printf("Commands: p = pause, r = resume, s = stop, q = quit\n")
		done := make(chan struct{})
		defer close(done)
		commands = readCommands(p.in, done)
	}

	for {
		select {
		case <-session.Done():
			progress.finish()
			return session.Err()
		case <-ctx.Done():
			controller.Stop()
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if err := p.handleCommand(controller, cmd); err != nil {
				progress.printf("Error: %v\n", err)
			}
		}
	}
}

func (p *Processor) handleCommand(controller *speech.Controller, cmd string) error {
	switch strings.ToLower(cmd) {
	case "p", "pause":
		return controller.Pause()
	case "r", "resume":
		return controller.Resume()
	case "s", "stop", "q", "quit":
		controller.Stop()
		return nil
	case "":
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// ListVoices prints the engine's voices, filtered by --lang
func (p *Processor) ListVoices(ctx context.Context) error {
	controller, err := p.controller()
	if err != nil {
		return err
	}

	voices, err := controller.VoicesForLanguage(ctx, p.flags.Lang)
	if err != nil {
		return err
	}
	if len(voices) == 0 {
		fmt.Fprintf(p.out, "No voices found for language %q\n", p.flags.Lang)
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLANGUAGE\tNAME\tDEFAULT")
	for _, v := range voices {
		def := ""
		if v.Default {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Lang, v.Name, def)
	}
	return w.Flush()
}

// ListModels prints the OpenAI speech models usable with --openai-model
func (p *Processor) ListModels(ctx context.Context) error {
	lister := models.NewLister(cli.GetOpenAIKey(), p.openAIBaseURL)
	return lister.PrintSpeechModels(ctx, p.out, p.flags.OpenAIModel)
}

func (p *Processor) controller() (*speech.Controller, error) {
	engine, err := p.newEngine(p.flags.Engine)
	if err != nil {
		return nil, err
	}
	return speech.NewController(engine), nil
}

// voiceForLanguage picks the default voice of lang, or its first voice
func (p *Processor) voiceForLanguage(ctx context.Context, controller *speech.Controller, lang string) string {
	voices, err := controller.VoicesForLanguage(ctx, lang)
	if err != nil || len(voices) == 0 {
		log.Warn("no voice for language, using engine default", "lang", lang, "error", err)
		return ""
	}
	if v, ok := speech.DefaultVoice(voices); ok {
		return v.ID
	}
	return voices[0].ID
}

func (p *Processor) speechText(args []string) (string, error) {
	if p.flags.TextFile == "" {
		return strings.Join(args, " "), nil
	}

	var data []byte
	var err error
	if p.flags.TextFile == "-" {
		data, err = io.ReadAll(p.in)
		// stdin now holds no more commands
		p.flags.Interactive = false
	} else {
		data, err = os.ReadFile(p.flags.TextFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return string(data), nil
}

// readCommands streams trimmed lines of in until EOF or until done is closed
func readCommands(in io.Reader, done <-chan struct{}) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case ch <- strings.TrimSpace(scanner.Text()):
			case <-done:
				return
			}
		}
	}()
	return ch
}

// progressPrinter renders controller snapshots as a single status line
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

func (pp *progressPrinter) update(s speech.Snapshot) {
	line := fmt.Sprintf("[%-8s] %3.0f%%", s.State, s.Progress)

	pp.mu.Lock()
	defer pp.mu.Unlock()
	if line == pp.last {
		return
	}
	pp.last = line
	fmt.Fprintf(pp.out, "\r%s", line)
}

// printf writes a message without interleaving it with status updates
func (pp *progressPrinter) printf(format string, args ...any) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	fmt.Fprintf(pp.out, format, args...)
}

func (pp *progressPrinter) finish() {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	fmt.Fprintln(pp.out)
}
