package speech

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Snapshot is what observers see after every transition or progress update
type Snapshot struct {
	State     State
	SessionID string
	Progress  float64
	Err       error
}

// Session is one utterance handed to the engine. Its state and progress are
// owned by the controller that created it.
type Session struct {
	ID      string
	Text    string
	Voice   Voice
	Config  UtteranceConfig
	Started time.Time

	c        *Controller
	state    State
	progress float64
	err      error
	done     chan struct{}
}

// State returns the session state
func (s *Session) State() State {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.state
}

// Progress returns how much of the text has been spoken, 0..100
func (s *Session) Progress() float64 {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.progress
}

// Err returns the engine error that ended the session, if any
func (s *Session) Err() error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.err
}

// Done is closed once the session has ended, failed or been stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session is over and returns its error
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Controller drives a single engine through Idle, Speaking and Paused
type Controller struct {
	engine Engine

	// speakMu serialises Speak so that two callers cannot both become the
	// active session
	speakMu sync.Mutex

	mu        sync.Mutex
	state     State
	session   *Session
	observers []func(Snapshot)
}

// NewController creates an idle controller for engine
func NewController(engine Engine) *Controller {
	return &Controller{engine: engine, state: StateIdle}
}

// Engine returns the engine the controller drives
func (c *Controller) Engine() Engine {
	return c.engine
}

// OnChange registers an observer. Observers run on the goroutine that
// caused the change and must not call back into the controller's
// blocking methods.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// State returns the controller state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the active session or nil when idle
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Voices lists the engine's voices
func (c *Controller) Voices(ctx context.Context) ([]Voice, error) {
	voices, err := c.engine.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpeechEngine, c.engine.Name(), err)
	}
	return voices, nil
}

// VoicesForLanguage lists the engine's voices whose language starts with prefix
func (c *Controller) VoicesForLanguage(ctx context.Context, prefix string) ([]Voice, error) {
	voices, err := c.Voices(ctx)
	if err != nil {
		return nil, err
	}
	return VoicesForLanguage(voices, prefix), nil
}

// Speak stops any active session and starts reading cfg.Text. Whitespace-only
// text is rejected with ErrEmptyInput and leaves the controller untouched.
// The config is copied; changing it afterwards does not affect the session.
func (c *Controller) Speak(ctx context.Context, cfg UtteranceConfig) (*Session, error) {
	if err := ValidateText(cfg.Text); err != nil {
		return nil, err
	}

	c.speakMu.Lock()
	defer c.speakMu.Unlock()

	c.Stop()

	cfg = cfg.Normalize()
	s := &Session{
		ID:      uuid.NewString(),
		Text:    cfg.Text,
		Voice:   c.resolveVoice(ctx, cfg.Voice),
		Config:  cfg,
		Started: time.Now(),
		c:       c,
		state:   StateSpeaking,
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	c.session = s
	c.state = StateSpeaking
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	utterance := Utterance{
		Text:   s.Text,
		Voice:  s.Voice,
		Rate:   cfg.Rate,
		Pitch:  cfg.Pitch,
		Volume: cfg.Volume,
	}
	if err := c.engine.Speak(ctx, utterance, &sessionEvents{c: c, id: s.ID}); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrSpeechEngine, c.engine.Name(), err)
		c.finish(s.ID, StateErrored, err)
		return nil, err
	}

	log.Debug("speaking", "session", s.ID, "engine", c.engine.Name(), "voice", s.Voice.String(), "chars", len(s.Text))
	return s, nil
}

func (c *Controller) resolveVoice(ctx context.Context, id string) Voice {
	if id == "" {
		return Voice{}
	}
	voices, err := c.engine.Voices(ctx)
	if err != nil {
		log.Warn("could not list voices, using engine default", "engine", c.engine.Name(), "error", err)
		return Voice{}
	}
	voice, ok := SelectVoice(voices, id)
	if !ok {
		log.Info("voice not found, using engine default", "voice", id)
	}
	return voice
}

// Pause suspends a speaking session. It does nothing in any other state.
func (c *Controller) Pause() error {
	return c.transition(StateSpeaking, StatePaused, c.engine.Pause)
}

// Resume continues a paused session. It does nothing in any other state.
func (c *Controller) Resume() error {
	return c.transition(StatePaused, StateSpeaking, c.engine.Resume)
}

// transition calls the engine while in state from and moves to state to
// once the engine call succeeded. Holding speakMu keeps a new session from
// starting between the engine call and the state change.
func (c *Controller) transition(from, to State, call func() error) error {
	c.speakMu.Lock()
	defer c.speakMu.Unlock()

	c.mu.Lock()
	s := c.session
	if s == nil || c.state != from {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := call(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSpeechEngine, c.engine.Name(), err)
	}

	c.mu.Lock()
	if c.session != s || c.state != from {
		c.mu.Unlock()
		return nil
	}
	c.state = to
	s.state = to
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// Stop cancels the active session. Calling it while idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.state = StateIdle
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.state = StateIdle
	s.state = StateIdle
	snap := Snapshot{State: StateIdle, SessionID: s.ID, Progress: s.progress}
	c.mu.Unlock()

	if err := c.engine.Cancel(); err != nil {
		log.Warn("could not cancel utterance", "session", s.ID, "engine", c.engine.Name(), "error", err)
	}
	c.notify(snap)
	close(s.done)
}

func (c *Controller) boundary(id string, charIndex int) {
	c.mu.Lock()
	s := c.session
	if s == nil || s.ID != id || c.state != StateSpeaking {
		c.mu.Unlock()
		return
	}
	progress := Progress(charIndex, len(s.Text))
	if progress == s.progress {
		c.mu.Unlock()
		return
	}
	s.progress = progress
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// finish moves session id to its final state and the controller to idle
func (c *Controller) finish(id string, final State, err error) {
	c.mu.Lock()
	s := c.session
	if s == nil || s.ID != id {
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.state = StateIdle
	s.state = final
	s.err = err
	if final == StateEnded {
		s.progress = 100
	}
	snap := Snapshot{State: StateIdle, SessionID: id, Progress: s.progress, Err: err}
	c.mu.Unlock()

	if err != nil {
		log.Error("speech failed", "session", id, "engine", c.engine.Name(), "error", err)
	} else {
		log.Debug("speech ended", "session", id)
	}
	// Observers see the final snapshot before waiters wake up
	c.notify(snap)
	close(s.done)
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state}
	if c.session != nil {
		snap.SessionID = c.session.ID
		snap.Progress = c.session.progress
		snap.Err = c.session.err
	}
	return snap
}

func (c *Controller) notify(snap Snapshot) {
	c.mu.Lock()
	observers := make([]func(Snapshot), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// sessionEvents routes engine callbacks to the session they were issued for
type sessionEvents struct {
	c  *Controller
	id string
}

func (e *sessionEvents) Boundary(charIndex int) {
	e.c.boundary(e.id, charIndex)
}

func (e *sessionEvents) End() {
	e.c.finish(e.id, StateEnded, nil)
}

func (e *sessionEvents) Error(err error) {
	e.c.finish(e.id, StateErrored, fmt.Errorf("%w: %s: %v", ErrSpeechEngine, e.c.engine.Name(), err))
}
