// Package speech reads text aloud. A Controller owns at most one Session
// at a time and drives it through Idle, Speaking and Paused against an
// Engine, turning the engine's word-boundary callbacks into a progress
// percentage. Engines are provided for espeak-ng and for OpenAI speech.
package speech
