package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWordStarts(t *testing.T) {
	assert.Nil(t, WordStarts(""))
	assert.Nil(t, WordStarts("   "))
	assert.Equal(t, []int{0, 6}, WordStarts("hello world"))
	assert.Equal(t, []int{2, 8}, WordStarts("  hello\tworld  "))
	// Offsets are bytes: "привет" is 12 bytes long
	assert.Equal(t, []int{0, 13}, WordStarts("привет мир"))
}

func TestBoundaryTrackerEmitsEachWordOnce(t *testing.T) {
	var got []int
	tracker := newBoundaryTracker("one two three four", func(i int) { got = append(got, i) })

	tracker.advance(0)
	assert.Equal(t, []int{0}, got)

	tracker.advance(0.5)
	assert.Equal(t, []int{0, 4, 8}, got)

	// Going backwards emits nothing
	tracker.advance(0.25)
	assert.Equal(t, []int{0, 4, 8}, got)

	tracker.advance(2)
	assert.Equal(t, []int{0, 4, 8, 14}, got)

	tracker.advance(1)
	assert.Len(t, got, 4)
}

func TestBoundaryTrackerEmptyText(t *testing.T) {
	called := false
	tracker := newBoundaryTracker(" ", func(int) { called = true })
	tracker.advance(1)
	assert.False(t, called)
}

func TestStopwatchExcludesPausedTime(t *testing.T) {
	now := time.Unix(0, 0)
	sw := newStopwatch(func() time.Time { return now })

	sw.start()
	now = now.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, sw.value())

	sw.stop()
	now = now.Add(10 * time.Second)
	assert.Equal(t, 2*time.Second, sw.value())

	sw.start()
	sw.start()
	now = now.Add(time.Second)
	assert.Equal(t, 3*time.Second, sw.value())
}
