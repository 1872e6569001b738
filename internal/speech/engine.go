package speech

import (
	"context"
	"fmt"
)

// Utterance is what the controller hands to an engine. A zero Voice means
// the engine default.
type Utterance struct {
	Text   string
	Voice  Voice
	Rate   float64
	Pitch  float64
	Volume float64
}

// Events receives the callbacks of one utterance. Engines may call it from
// any goroutine.
type Events interface {
	// Boundary reports that the word starting at byte offset charIndex of
	// the text is being spoken.
	Boundary(charIndex int)
	// End reports that the utterance finished normally.
	End()
	// Error reports that the utterance failed.
	Error(err error)
}

// Engine is a speech synthesiser with playback.
//
// Speak must return once playback has started; completion is reported
// through Events. After Cancel, or after a new Speak, an engine must not
// report further events for the previous utterance.
type Engine interface {
	// Name returns the engine name
	Name() string
	// Voices lists the voices the engine can use
	Voices(ctx context.Context) ([]Voice, error)
	// Speak starts reading u
	Speak(ctx context.Context, u Utterance, ev Events) error
	// Pause suspends the current utterance
	Pause() error
	// Resume continues a paused utterance
	Resume() error
	// Cancel stops the current utterance, if any
	Cancel() error
}

// NewEngine creates the engine called name: "espeak" or "openai"
func NewEngine(name string, openAI OpenAIConfig) (Engine, error) {
	switch name {
	case "", "espeak", "espeak-ng":
		return NewESpeakEngine()
	case "openai":
		return NewOpenAIEngine(openAI)
	default:
		return nil, fmt.Errorf("unknown speech engine: %s", name)
	}
}
