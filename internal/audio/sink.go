// Package audio defines the fire-and-forget notification sink the engine
// triggers on notable moments. No trigger blocks or returns a value the engine
// consumes; the synthesizer behind it lives entirely outside this codebase.
package audio

import "log/slog"

// Sink receives notification triggers from the engine.
type Sink interface {
	Click()
	Alert()     // CO2 surge, warnings
	Celebrate() // mission complete, bonus events
	StartAmbient()
	StopAmbient()
	SetMuted(muted bool)
}

// LogSink is the default sink: it only records triggers via slog at debug
// level. Useful for the headless server and for tests.
type LogSink struct{}

func (LogSink) Click()     { slog.Debug("audio trigger", "cue", "click") }
func (LogSink) Alert()     { slog.Debug("audio trigger", "cue", "alert") }
func (LogSink) Celebrate() { slog.Debug("audio trigger", "cue", "celebrate") }

func (LogSink) StartAmbient() { slog.Debug("audio trigger", "cue", "ambient_start") }
func (LogSink) StopAmbient()  { slog.Debug("audio trigger", "cue", "ambient_stop") }

func (LogSink) SetMuted(muted bool) { slog.Debug("audio trigger", "cue", "mute", "muted", muted) }
