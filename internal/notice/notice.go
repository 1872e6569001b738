// Package notice holds the transient user-facing message shown after an
// action succeeds or fails. Only one notice is visible at a time; posting a
// new one replaces the old one, and each notice dismisses itself after a
// fixed interval.
package notice

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTTL is how long a notice stays visible
const DefaultTTL = 3 * time.Second

// Level distinguishes success messages from errors
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a single message
type Notice struct {
	ID      uint64
	Level   Level
	Message string
	Posted  time.Time
}

// Board keeps the current notice and dismisses it after its TTL
type Board struct {
	mu       sync.Mutex
	ttl      time.Duration
	seq      uint64
	current  *Notice
	timer    *time.Timer
	onChange func(n *Notice)
	now      func() time.Time
}

// NewBoard creates a board whose notices live for ttl. A ttl <= 0 uses
// DefaultTTL.
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, now: time.Now}
}

// OnChange registers fn to be called with every new notice and with nil
// when the current notice is dismissed. fn runs without the board lock held.
func (b *Board) OnChange(fn func(n *Notice)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Success posts a success message
func (b *Board) Success(format string, args ...any) {
	b.post(LevelSuccess, fmt.Sprintf(format, args...))
}

// Error posts err as an error message
func (b *Board) Error(err error) {
	if err == nil {
		return
	}
	b.post(LevelError, err.Error())
}

// Current returns the visible notice, if any
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss removes the current notice immediately
func (b *Board) Dismiss() {
	b.mu.Lock()
	id := b.seq
	b.mu.Unlock()
	b.expire(id)
}

func (b *Board) post(level Level, msg string) {
	b.mu.Lock()
	b.seq++
	n := &Notice{ID: b.seq, Level: level, Message: msg, Posted: b.now()}
	b.current = n
	if b.timer != nil {
		b.timer.Stop()
	}
	id := n.ID
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(id) })
	fn := b.onChange
	b.mu.Unlock()

	if level == LevelError {
		log.Error(msg)
	} else {
		log.Info(msg)
	}

	if fn != nil {
		copied := *n
		fn(&copied)
	}
}

// expire dismisses the notice with the given id if it is still current
func (b *Board) expire(id uint64) {
	b.mu.Lock()
	if b.current == nil || b.current.ID != id {
		b.mu.Unlock()
		return
	}
	b.current = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}
