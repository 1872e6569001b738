package speech

// State is the playback state of the controller or of a session
type State int

const (
	// StateIdle means nothing is being read
	StateIdle State = iota
	// StateSpeaking means an utterance is playing
	StateSpeaking
	// StatePaused means an utterance is suspended and can be resumed
	StatePaused
	// StateEnded means the engine finished the utterance
	StateEnded
	// StateErrored means the engine failed while reading
	StateErrored
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Active reports whether the state holds an utterance in flight
func (s State) Active() bool {
	return s == StateSpeaking || s == StatePaused
}

// CanPause returns true if playback can be paused.
func (s State) CanPause() bool {
	return s == StateSpeaking
}

// CanResume returns true if playback can be resumed.
func (s State) CanResume() bool {
	return s == StatePaused
}
