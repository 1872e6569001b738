package testutil

import (
	"context"
	"errors"
	"sync"

	"codeberg.org/snonux/handytools/internal/speech"
	"codeberg.org/snonux/handytools/internal/store"
)

// Object is one value stored in a MemorySink
type Object struct {
	ContentType string
	Data        []byte
}

// MemorySink is an in-memory store.Sink
type MemorySink struct {
	mu      sync.Mutex
	Objects map[string]Object
	PutErr  error
}

// NewMemorySink creates an empty sink
func NewMemorySink() *MemorySink {
	return &MemorySink{Objects: make(map[string]Object)}
}

// Put stores data under key, or returns PutErr when set
func (m *MemorySink) Put(ctx context.Context, key, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return store.ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

// Location returns a mem:// URL for key
func (m *MemorySink) Location(key string) string {
	return "mem://" + key
}

// Get returns the object stored under key
func (m *MemorySink) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.Objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// FakeEngine is a speech.Engine that plays nothing. Tests drive an
// utterance through the Events of the last Speak call.
type FakeEngine struct {
	mu sync.Mutex

	VoiceList []speech.Voice
	VoicesErr error
	SpeakErr  error
	PauseErr  error
	ResumeErr error
	CancelErr error
	// OnPause runs inside Pause before the call is recorded
	OnPause func()

	utterances []speech.Utterance
	events     []speech.Events
	calls      []string
}

// NewFakeEngine creates a fake engine offering voices
func NewFakeEngine(voices ...speech.Voice) *FakeEngine {
	return &FakeEngine{VoiceList: voices}
}

// Name returns the engine name
func (f *FakeEngine) Name() string {
	return "fake"
}

// Voices returns VoiceList or VoicesErr
func (f *FakeEngine) Voices(context.Context) ([]speech.Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "voices")
	if f.VoicesErr != nil {
		return nil, f.VoicesErr
	}
	return append([]speech.Voice(nil), f.VoiceList...), nil
}

// Speak records u and ev
func (f *FakeEngine) Speak(_ context.Context, u speech.Utterance, ev speech.Events) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "speak")
	if f.SpeakErr != nil {
		return f.SpeakErr
	}
	f.utterances = append(f.utterances, u)
	f.events = append(f.events, ev)
	return nil
}

// Pause runs OnPause and records the call
func (f *FakeEngine) Pause() error {
	f.mu.Lock()
	hook := f.OnPause
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.record("pause", f.PauseErr)
}

// Resume records the call
func (f *FakeEngine) Resume() error {
	return f.record("resume", f.ResumeErr)
}

// Cancel records the call
func (f *FakeEngine) Cancel() error {
	return f.record("cancel", f.CancelErr)
}

func (f *FakeEngine) record(call string, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return err
}

// Calls returns the engine methods called so far, in order
func (f *FakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// LastUtterance returns the utterance of the latest Speak call
func (f *FakeEngine) LastUtterance() (speech.Utterance, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.utterances) == 0 {
		return speech.Utterance{}, false
	}
	return f.utterances[len(f.utterances)-1], true
}

// Events returns the callbacks passed to the n-th Speak call
func (f *FakeEngine) Events(n int) speech.Events {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 || n >= len(f.events) {
		return nil
	}
	return f.events[n]
}

// LastEvents returns the callbacks of the latest Speak call
func (f *FakeEngine) LastEvents() speech.Events {
	f.mu.Lock()
	n := len(f.events) - 1
	f.mu.Unlock()
	return f.Events(n)
}

// ErrFake is a generic failure for tests
var ErrFake = errors.New("fake failure")
