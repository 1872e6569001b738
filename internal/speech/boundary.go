package speech

import (
	"sync"
	"time"
	"unicode"
)

// WordStarts returns the byte offsets at which words begin in text
func WordStarts(text string) []int {
	var starts []int
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			starts = append(starts, i)
			inWord = true
		}
	}
	return starts
}

// boundaryTracker turns a playback fraction into word boundary events.
// Every word start is emitted once and in order.
type boundaryTracker struct {
	starts []int
	next   int
	emit   func(charIndex int)
}

func newBoundaryTracker(text string, emit func(charIndex int)) *boundaryTracker {
	return &boundaryTracker{starts: WordStarts(text), emit: emit}
}

// advance emits all word starts reached at fraction (0..1) of the utterance
func (t *boundaryTracker) advance(fraction float64) {
	if len(t.starts) == 0 {
		return
	}
	fraction = clamp(fraction, 0, 1, 0)

	reached := int(fraction * float64(len(t.starts)))
	if reached >= len(t.starts) {
		reached = len(t.starts) - 1
	}
	for ; t.next <= reached; t.next++ {
		t.emit(t.starts[t.next])
	}
}

// stopwatch measures playback time, excluding the time spent paused
type stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

func newStopwatch(now func() time.Time) *stopwatch {
	if now == nil {
		now = time.Now
	}
	return &stopwatch{now: now}
}

func (s *stopwatch) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

func (s *stopwatch) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.elapsed += s.now().Sub(s.started)
	s.running = false
}

func (s *stopwatch) value() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}
