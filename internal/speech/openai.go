package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// OpenAI speech is requested as raw 16-bit little-endian mono PCM at 24kHz
const (
	openAISampleRate     = 24000
	openAIChannels       = 1
	openAIBytesPerSample = 2
	openAIPollInterval   = 50 * time.Millisecond
	defaultOpenAIVoice   = "alloy"
)

var openAIVoices = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// OpenAIConfig holds the settings of the OpenAI engine
type OpenAIConfig struct {
	APIKey       string
	Model        string // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	Instructions string // Voice instructions, gpt-4o-mini-tts only
	BaseURL      string // Overrides the API endpoint when set
}

// DefaultOpenAIConfig returns the default OpenAI engine settings
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{Model: "gpt-4o-mini-tts"}
}

// OpenAIEngine synthesises speech with the OpenAI API and plays it on the
// default audio device. OpenAI has no pitch control, so Utterance.Pitch is
// ignored.
type OpenAIEngine struct {
	client  *openai.Client
	config  OpenAIConfig
	breaker *gobreaker.CircuitBreaker

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	player *oto.Player
	paused bool
}

// NewOpenAIEngine creates an engine for the given API key and model
func NewOpenAIEngine(config OpenAIConfig) (*OpenAIEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", ErrEngineUnavailable)
	}
	if config.Model == "" {
		config.Model = DefaultOpenAIConfig().Model
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai-speech",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &OpenAIEngine{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		breaker: breaker,
	}, nil
}

// Name returns the engine name
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// Voices returns the fixed OpenAI voice list
func (e *OpenAIEngine) Voices(context.Context) ([]Voice, error) {
	voices := make([]Voice, 0, len(openAIVoices))
	for _, id := range openAIVoices {
		voices = append(voices, Voice{
			ID:      id,
			Name:    strings.ToUpper(id[:1]) + id[1:],
			Lang:    "en",
			Default: id == defaultOpenAIVoice,
		})
	}
	return voices, nil
}

// Speak synthesises and plays u in the background
func (e *OpenAIEngine) Speak(ctx context.Context, u Utterance, ev Events) error {
	if err := e.Cancel(); err != nil {
		log.Debug("could not cancel previous utterance", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.Pitch != DefaultPitch {
		log.Debug("pitch is not supported by OpenAI speech", "pitch", u.Pitch)
	}

	playCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.cancel = cancel
	e.paused = false
	e.mu.Unlock()

	go e.play(playCtx, gen, u, ev)
	return nil
}

func (e *OpenAIEngine) play(ctx context.Context, gen uint64, u Utterance, ev Events) {
	data, err := e.synthesize(ctx, u)
	if err != nil {
		if ctx.Err() == nil && e.release(gen) {
			ev.Error(err)
		}
		return
	}

	audio, err := audioContext()
	if err != nil {
		if e.release(gen) {
			ev.Error(err)
		}
		return
	}

	reader := &countingReader{r: bytes.NewReader(data)}
	player := audio.NewPlayer(reader)
	player.SetVolume(u.Volume)

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		_ = player.Close()
		return
	}
	e.player = player
	if !e.paused {
		player.Play()
	}
	e.mu.Unlock()

	tracker := newBoundaryTracker(u.Text, ev.Boundary)
	tracker.advance(0)

	ticker := time.NewTicker(openAIPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := player.Err(); err != nil {
			if e.release(gen) {
				ev.Error(fmt.Errorf("audio playback failed: %w", err))
			}
			return
		}

		played := reader.count() - int64(player.BufferedSize())
		tracker.advance(float64(played) / float64(len(data)))

		e.mu.Lock()
		paused := e.paused
		e.mu.Unlock()

		if !paused && reader.count() >= int64(len(data)) && !player.IsPlaying() {
			if e.release(gen) {
				ev.End()
			}
			return
		}
	}
}

func (e *OpenAIEngine) synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	voice := u.Voice.ID
	if voice == "" {
		voice = defaultOpenAIVoice
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.config.Model),
		Input:          u.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat("pcm"),
		Speed:          openAISpeed(u.Rate),
	}
	if e.config.Instructions != "" && e.config.Model == "gpt-4o-mini-tts" {
		req.Instructions = e.config.Instructions
	}

	log.Debug("requesting OpenAI speech", "model", e.config.Model, "voice", voice, "speed", req.Speed)

	out, err := e.breaker.Execute(func() (interface{}, error) {
		response, err := e.client.CreateSpeech(ctx, req)
		if err != nil {
			return nil, err
		}
		defer response.Close()
		return io.ReadAll(response)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}

	data, _ := out.([]byte)
	// Drop a trailing half sample
	data = data[:len(data)-len(data)%openAIBytesPerSample]
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}
	return data, nil
}

// release clears the player of utterance gen. It returns false when gen is
// no longer the current utterance.
func (e *OpenAIEngine) release(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gen != gen {
		return false
	}
	if e.player != nil {
		_ = e.player.Close()
		e.player = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	return true
}

// Pause pauses playback
func (e *OpenAIEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = true
	if e.player != nil {
		e.player.Pause()
	}
	return nil
}

// Resume continues paused playback
func (e *OpenAIEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = false
	if e.player != nil {
		e.player.Play()
	}
	return nil
}

// Cancel stops synthesis and playback of the current utterance
func (e *OpenAIEngine) Cancel() error {
	e.mu.Lock()
	e.gen++
	cancel, player := e.cancel, e.player
	e.cancel, e.player = nil, nil
	e.paused = false
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if player != nil {
		player.Pause()
		if err := player.Close(); err != nil {
			return fmt.Errorf("failed to close audio player: %w", err)
		}
	}
	return nil
}

// openAISpeed maps the rate multiplier onto the API's 0.25..4 range
func openAISpeed(rate float64) float64 {
	return math.Max(0.25, math.Min(4, rate))
}

var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

// audioContext returns the process wide oto context. oto allows only one.
func audioContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   openAISampleRate,
			ChannelCount: openAIChannels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create audio context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
	})
	return otoContext, otoErr
}

// countingReader counts the bytes the player has pulled
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *countingReader) count() int64 {
	return c.n.Load()
}
