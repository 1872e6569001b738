package speech

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing but whitespace to read
	ErrEmptyInput = errors.New("text cannot be empty")
	// ErrSpeechEngine wraps every failure reported by an engine
	ErrSpeechEngine = errors.New("speech engine error")
	// ErrEngineUnavailable means the engine cannot be used on this system
	ErrEngineUnavailable = errors.New("speech engine is not available")
	// ErrPauseUnsupported is returned where an engine cannot suspend playback
	ErrPauseUnsupported = errors.New("pause is not supported on this platform")
)
