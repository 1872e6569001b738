package speech

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// espeak-ng speaks 175 words per minute at its default speed
const espeakBaseWPM = 175

const espeakTick = 100 * time.Millisecond

// ESpeakEngine reads text through an espeak-ng child process. Pause and
// resume stop and continue the process; word boundaries are estimated from
// the words-per-minute rate because espeak-ng does not report them while
// playing.
type ESpeakEngine struct {
	binary string

	mu    sync.Mutex
	gen   uint64
	cmd   *exec.Cmd
	clock *stopwatch
	stop  chan struct{}
}

// NewESpeakEngine creates an engine using the espeak-ng found in PATH
func NewESpeakEngine() (*ESpeakEngine, error) {
	path, err := exec.LookPath("espeak-ng")
	if err != nil {
		return nil, fmt.Errorf("%w: espeak-ng is not installed or not in PATH: %v", ErrEngineUnavailable, err)
	}
	return &ESpeakEngine{binary: path}, nil
}

// Name returns the engine name
func (e *ESpeakEngine) Name() string {
	return "espeak-ng"
}

// Voices lists the voices espeak-ng reports with --voices
func (e *ESpeakEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list espeak-ng voices: %w", err)
	}
	return parseESpeakVoices(string(out)), nil
}

// parseESpeakVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseESpeakVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		lang := fields[1]
		voices = append(voices, Voice{
			ID:      lang,
			Name:    strings.ReplaceAll(fields[3], "_", " "),
			Lang:    lang,
			Default: lang == "en",
		})
	}
	return voices
}

// Speak starts an espeak-ng process for u and returns once it is running
func (e *ESpeakEngine) Speak(ctx context.Context, u Utterance, ev Events) error {
	if err := e.Cancel(); err != nil {
		log.Debug("could not cancel previous utterance", "error", err)
	}

	cmd := exec.Command(e.binary, espeakArgs(u)...)
	cmd.Stdin = strings.NewReader(u.Text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start espeak-ng: %w", err)
	}

	clock := newStopwatch(nil)
	clock.start()
	stop := make(chan struct{})

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.cmd = cmd
	e.clock = clock
	e.stop = stop
	e.mu.Unlock()

	log.Debug("espeak-ng started", "pid", cmd.Process.Pid, "voice", u.Voice.ID, "wpm", espeakWPM(u.Rate))

	words := len(WordStarts(u.Text))
	estimate := time.Duration(float64(words) / float64(espeakWPM(u.Rate)) * float64(time.Minute))
	go trackEstimatedBoundaries(newBoundaryTracker(u.Text, ev.Boundary), clock, estimate, stop)

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		current := e.gen == gen && e.cmd == cmd
		if current {
			close(e.stop)
			e.cmd, e.clock, e.stop = nil, nil, nil
		}
		e.mu.Unlock()

		if !current {
			return
		}
		if err != nil {
			ev.Error(fmt.Errorf("espeak-ng failed: %w: %s", err, strings.TrimSpace(stderr.String())))
			return
		}
		ev.End()
	}()

	return nil
}

func trackEstimatedBoundaries(t *boundaryTracker, clock *stopwatch, estimate time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(espeakTick)
	defer ticker.Stop()

	t.advance(0)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if estimate <= 0 {
			continue
		}
		t.advance(float64(clock.value()) / float64(estimate))
	}
}

// Pause suspends the espeak-ng process
func (e *ESpeakEngine) Pause() error {
	e.mu.Lock()
	cmd, clock := e.cmd, e.clock
	e.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if err := suspendProcess(cmd.Process); err != nil {
		return fmt.Errorf("failed to pause espeak-ng: %w", err)
	}
	clock.stop()
	return nil
}

// Resume continues a suspended espeak-ng process
func (e *ESpeakEngine) Resume() error {
	e.mu.Lock()
	cmd, clock := e.cmd, e.clock
	e.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if err := continueProcess(cmd.Process); err != nil {
		return fmt.Errorf("failed to resume espeak-ng: %w", err)
	}
	clock.start()
	return nil
}

// Cancel kills the running espeak-ng process, if any
func (e *ESpeakEngine) Cancel() error {
	e.mu.Lock()
	cmd := e.cmd
	if cmd != nil {
		e.gen++
		close(e.stop)
		e.cmd, e.clock, e.stop = nil, nil, nil
	}
	e.mu.Unlock()

	if cmd == nil {
		return nil
	}
	// A stopped process still receives SIGKILL
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to stop espeak-ng: %w", err)
	}
	return nil
}

func espeakArgs(u Utterance) []string {
	var args []string
	if u.Voice.ID != "" {
		args = append(args, "-v", u.Voice.ID)
	}
	return append(args,
		"-s", strconv.Itoa(espeakWPM(u.Rate)),
		"-p", strconv.Itoa(espeakPitch(u.Pitch)),
		"-a", strconv.Itoa(espeakAmplitude(u.Volume)),
		"--stdin",
	)
}

// espeakWPM maps a rate multiplier to words per minute (80..450)
func espeakWPM(rate float64) int {
	return clampInt(int(math.Round(espeakBaseWPM*rate)), 80, 450)
}

// espeakPitch maps pitch 0..2 to espeak-ng's 0..99, 1 being its default 50
func espeakPitch(pitch float64) int {
	return clampInt(int(math.Round(pitch*50)), 0, 99)
}

// espeakAmplitude maps volume 0..1 to amplitude 0..100
func espeakAmplitude(volume float64) int {
	return clampInt(int(math.Round(volume*100)), 0, 200)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
