package reader

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Status is the coarse playback state of a Reader.
type Status int

const (
	StatusEmpty Status = iota
	StatusPaused
	StatusPlaying
)

func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	}
	return "empty"
}

// State is a point-in-time copy of a Reader's observable state.
type State struct {
	Word           *Word
	Index          int
	Count          int
	Playing        bool
	WPM            int
	Progress       float64
	SpeedIndicator bool

	// Seq increases with every change; consumers drop states older than
	// the last one they saw.
	Seq uint64
}

// Status derives the playback status from the snapshot.
func (s State) Status() Status {
	switch {
	case s.Count == 0:
		return StatusEmpty
	case s.Playing:
		return StatusPlaying
	}
	return StatusPaused
}

// AtEnd reports whether the snapshot shows the last word.
func (s State) AtEnd() bool {
	return s.Count > 0 && s.Index >= s.Count-1
}

type subscriber struct {
	id int
	fn func(State)
}

// Reader holds the state for an RSVP speed reading session and drives the
// playback clock. All methods are safe for concurrent use and never block on
// the clock.
type Reader struct {
	mu sync.Mutex

	words   []Word
	index   int
	playing bool
	wpm     int

	// At most one advance is pending. Every cancel bumps gen, so a callback
	// that lost the race with Stop sees a stale generation and does nothing.
	timer Timer
	gen   uint64

	indicator    Timer
	indicatorGen uint64
	speedShown   bool

	seq    uint64
	subs   []subscriber
	nextID int
	closed bool

	clock         Clock
	logger        *log.Logger
	skipCount     int
	speedStep     int
	liveRetime    bool
	indicatorTime time.Duration
}

// New creates an empty Reader.
func New(opts ...Option) *Reader {
	r := &Reader{
		wpm:           DefaultWPM,
		clock:         SystemClock,
		logger:        log.Default(),
		skipCount:     DefaultSkipCount,
		speedStep:     DefaultSpeedStep,
		indicatorTime: DefaultIndicatorDuration,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wpm = ClampWPM(r.wpm)
	return r
}

// NewReader creates a Reader with text already loaded.
func NewReader(text string, wpm int, opts ...Option) *Reader {
	r := New(append([]Option{WithWPM(wpm)}, opts...)...)
	r.Load(text)
	return r
}

// Load replaces the word sequence with the tokenized text, timed at the
// current rate, and rewinds to the first word. Playback stops.
func (r *Reader) Load(text string) {
	r.update(func() bool {
		r.cancel()
		r.playing = false
		r.words = Tokenize(text, r.wpm)
		r.index = 0
		r.logger.Debug("loaded text", "words", len(r.words), "wpm", r.wpm)
		return true
	})
}

// Play starts advancing from the current word, restarting from the first
// word when the last one is showing. It is a no-op without content.
func (r *Reader) Play() {
	r.update(r.play)
}

func (r *Reader) play() bool {
	if len(r.words) == 0 {
		return false
	}
	if r.index >= len(r.words)-1 {
		r.index = 0
	}
	r.playing = true
	r.schedule(r.interval())
	r.logger.Debug("play", "index", r.index, "wpm", r.wpm)
	return true
}

// Pause stops advancing.
func (r *Reader) Pause() {
	r.update(r.pause)
}

func (r *Reader) pause() bool {
	r.cancel()
	r.playing = false
	r.logger.Debug("pause", "index", r.index)
	return true
}

// Toggle plays when paused and pauses when playing.
func (r *Reader) Toggle() {
	r.update(func() bool {
		if r.playing {
			return r.pause()
		}
		return r.play()
	})
}

// SkipBack pauses and moves back by the skip count, stopping at the first
// word.
func (r *Reader) SkipBack() {
	r.update(func() bool {
		r.pause()
		r.index = max(0, r.index-r.skipCount)
		return true
	})
}

// SkipForward pauses and moves forward by the skip count, stopping at the
// last word.
func (r *Reader) SkipForward() {
	r.update(func() bool {
		r.pause()
		if len(r.words) > 0 {
			r.index = min(len(r.words)-1, r.index+r.skipCount)
		}
		return true
	})
}

// AdjustSpeed changes the rate by delta, clamped to [MinWPM, MaxWPM]. While
// playing, the wait for the next word restarts using the current word's
// duration at the new rate. Words further ahead keep the durations they were
// tokenized with unless live retiming is enabled.
func (r *Reader) AdjustSpeed(delta int) {
	delta = min(MaxWPM, max(-MaxWPM, delta))
	r.update(func() bool {
		r.wpm = ClampWPM(r.wpm + delta)
		r.showIndicator()
		if r.playing {
			r.schedule(r.words[r.index].DurationAt(r.wpm))
		}
		r.logger.Debug("speed changed", "wpm", r.wpm, "delta", delta)
		return true
	})
}

// Reset stops playback and drops all content.
func (r *Reader) Reset() {
	r.update(func() bool {
		r.pause()
		r.words = nil
		r.index = 0
		return true
	})
}

// Close stops every pending timer and drops all subscribers. The Reader
// ignores further commands.
func (r *Reader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.cancel()
	r.playing = false
	r.hideIndicator()
	r.subs = nil
}

// Subscribe registers fn to receive a State after every change. fn runs on
// the goroutine that made the change, outside the Reader's lock, so it may
// call back into the Reader. The returned func removes the subscription.
func (r *Reader) Subscribe(fn func(State)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// State returns a snapshot of the observable state.
func (r *Reader) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// CurrentWord returns the word at the current index.
func (r *Reader) CurrentWord() (Word, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= 0 && r.index < len(r.words) {
		return r.words[r.index], true
	}
	return Word{}, false
}

// Index returns the zero-based position of the current word.
func (r *Reader) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Count returns the number of loaded words.
func (r *Reader) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.words)
}

// IsPlaying reports whether the reader is advancing.
func (r *Reader) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// WPM returns the current rate.
func (r *Reader) WPM() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wpm
}

// Progress returns how far through the text the current word is, from 0 to 1.
func (r *Reader) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress()
}

func (r *Reader) progress() float64 {
	if len(r.words) <= 1 {
		return 0
	}
	return float64(r.index) / float64(len(r.words)-1)
}

func (r *Reader) snapshot() State {
	s := State{
		Index:          r.index,
		Count:          len(r.words),
		Playing:        r.playing,
		WPM:            r.wpm,
		Progress:       r.progress(),
		SpeedIndicator: r.speedShown,
		Seq:            r.seq,
	}
	if r.index < len(r.words) {
		w := r.words[r.index]
		s.Word = &w
	}
	return s
}

// update runs fn under the lock and, if fn reports a change, notifies
// subscribers once the lock is released.
func (r *Reader) update(fn func() bool) {
	r.mu.Lock()
	if r.closed || !fn() {
		r.mu.Unlock()
		return
	}
	r.seq++
	st := r.snapshot()
	subs := make([]subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(st)
	}
}

// interval is the wait before leaving the current word.
func (r *Reader) interval() time.Duration {
	w := r.words[r.index]
	if r.liveRetime {
		return w.DurationAt(r.wpm)
	}
	return w.Duration
}

// schedule replaces any pending advance with one firing after d.
func (r *Reader) schedule(d time.Duration) {
	r.cancel()
	gen := r.gen
	r.timer = r.clock.AfterFunc(d, func() {
		r.advance(gen)
	})
}

func (r *Reader) cancel() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Reader) advance(gen uint64) {
	r.update(func() bool {
		if gen != r.gen || !r.playing {
			return false
		}
		r.timer = nil
		if r.index < len(r.words)-1 {
			r.index++
			r.schedule(r.interval())
			return true
		}
		r.cancel()
		r.playing = false
		r.logger.Debug("reached end", "words", len(r.words))
		return true
	})
}

func (r *Reader) showIndicator() {
	if r.indicatorTime <= 0 {
		return
	}
	r.hideIndicator()
	r.speedShown = true
	gen := r.indicatorGen
	r.indicator = r.clock.AfterFunc(r.indicatorTime, func() {
		r.update(func() bool {
			if gen != r.indicatorGen {
				return false
			}
			r.indicator = nil
			r.speedShown = false
			return true
		})
	})
}

func (r *Reader) hideIndicator() {
	r.indicatorGen++
	r.speedShown = false
	if r.indicator != nil {
		r.indicator.Stop()
		r.indicator = nil
	}
}
