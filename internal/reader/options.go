package reader

import (
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultSkipCount is how many words SkipBack and SkipForward move.
	DefaultSkipCount = 10

	// DefaultSpeedStep is the wpm change of one CmdSpeedUp or CmdSpeedDown.
	DefaultSpeedStep = 25

	// DefaultIndicatorDuration is how long State.SpeedIndicator stays set
	// after a speed change.
	DefaultIndicatorDuration = 1500 * time.Millisecond
)

// Option configures a Reader.
type Option func(*Reader)

// WithWPM sets the starting rate. It is clamped to [MinWPM, MaxWPM].
func WithWPM(wpm int) Option {
	return func(r *Reader) { r.wpm = wpm }
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(r *Reader) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSkipCount sets how many words SkipBack and SkipForward move.
func WithSkipCount(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.skipCount = n
		}
	}
}

// WithSpeedStep sets the wpm change for CmdSpeedUp and CmdSpeedDown.
func WithSpeedStep(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.speedStep = n
		}
	}
}

// WithLiveRetime makes every interval use the current rate instead of the
// rate the text was loaded at.
func WithLiveRetime(on bool) Option {
	return func(r *Reader) { r.liveRetime = on }
}

// WithIndicatorDuration sets how long the speed indicator stays visible after
// a speed change. Zero disables it.
func WithIndicatorDuration(d time.Duration) Option {
	return func(r *Reader) { r.indicatorTime = d }
}
