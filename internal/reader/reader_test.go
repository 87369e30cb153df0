package reader

import (
	"io"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

const fox = "The quick brown fox jumps over the lazy dog."

func newTestReader(t *testing.T, opts ...Option) (*Reader, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	base := []Option{
		WithClock(clock),
		WithLogger(log.New(io.Discard)),
		WithIndicatorDuration(0),
	}
	r := New(append(base, opts...)...)
	t.Cleanup(r.Close)
	return r, clock
}

func TestNewReaderIsEmpty(t *testing.T) {
	r, clock := newTestReader(t)

	st := r.State()
	if st.Status() != StatusEmpty {
		t.Errorf("Status() = %v, want empty", st.Status())
	}
	if st.Word != nil || st.Count != 0 || st.Index != 0 || st.Playing {
		t.Errorf("unexpected state %+v", st)
	}
	if r.WPM() != DefaultWPM {
		t.Errorf("WPM() = %d, want %d", r.WPM(), DefaultWPM)
	}
	if _, ok := r.CurrentWord(); ok {
		t.Error("CurrentWord() reported a word without content")
	}

	r.Play()
	if r.IsPlaying() || clock.Pending() != 0 {
		t.Error("Play() on empty reader should be a no-op")
	}
}

func TestNewReaderClampsWPM(t *testing.T) {
	if got := New(WithWPM(5)).WPM(); got != MinWPM {
		t.Errorf("WPM() = %d, want %d", got, MinWPM)
	}
	if got := New(WithWPM(5000)).WPM(); got != MaxWPM {
		t.Errorf("WPM() = %d, want %d", got, MaxWPM)
	}
}

func TestLoad(t *testing.T) {
	r, _ := newTestReader(t, WithWPM(300))
	r.Load(fox)

	if r.Count() != 9 {
		t.Fatalf("Count() = %d, want 9", r.Count())
	}
	if r.State().Status() != StatusPaused {
		t.Errorf("Status() = %v, want paused", r.State().Status())
	}
	w, ok := r.CurrentWord()
	if !ok || w.Text != "The" {
		t.Errorf("CurrentWord() = %q, %v", w.Text, ok)
	}

	r.Load("   \n\t ")
	if r.State().Status() != StatusEmpty {
		t.Errorf("whitespace load: Status() = %v, want empty", r.State().Status())
	}
}

func TestLoadWhilePlayingStops(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.Play()
	clock.Advance(time.Second)

	r.Load("one two three")
	if r.IsPlaying() {
		t.Error("Load() should stop playback")
	}
	if r.Index() != 0 {
		t.Errorf("Index() = %d, want 0", r.Index())
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
}

func TestLoadThenReset(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.Reset()

	st := r.State()
	if st.Status() != StatusEmpty || st.Index != 0 || st.Count != 0 {
		t.Errorf("after Reset: %+v", st)
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
}

func TestPlayAdvancesByWordDuration(t *testing.T) {
	r, clock := newTestReader(t, WithWPM(300))
	r.Load(fox)
	r.Play()

	if !r.IsPlaying() {
		t.Fatal("IsPlaying() = false after Play()")
	}
	if d, ok := clock.Next(); !ok || d != 200*time.Millisecond {
		t.Fatalf("next wake-up in %v, want 200ms", d)
	}

	clock.Advance(199 * time.Millisecond)
	if r.Index() != 0 {
		t.Fatalf("advanced early: Index() = %d", r.Index())
	}
	clock.Advance(time.Millisecond)
	if r.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", r.Index())
	}

	// Eight words of 200ms take the reader to "dog.", which then shows for
	// 300ms before playback stops.
	clock.Advance(7 * 200 * time.Millisecond)
	if r.Index() != 8 {
		t.Fatalf("Index() = %d, want 8", r.Index())
	}
	if d, _ := clock.Next(); d != 300*time.Millisecond {
		t.Errorf("last word wait = %v, want 300ms", d)
	}
	clock.Advance(300 * time.Millisecond)

	if r.IsPlaying() {
		t.Error("still playing after the last word")
	}
	if r.Index() != 8 {
		t.Errorf("Index() = %d, want 8", r.Index())
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d after end, want 0", clock.Pending())
	}
	if r.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", r.Progress())
	}
}

func TestPlayAtEndRestarts(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.SkipForward()
	if r.Index() != 8 {
		t.Fatalf("Index() = %d, want 8", r.Index())
	}

	r.Play()
	if r.Index() != 0 {
		t.Errorf("Play() at end: Index() = %d, want 0", r.Index())
	}
	if !r.IsPlaying() || clock.Pending() != 1 {
		t.Errorf("playing=%v pending=%d", r.IsPlaying(), clock.Pending())
	}
}

func TestSingleWord(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load("hello")
	r.Play()
	if !r.IsPlaying() {
		t.Fatal("single word should play")
	}
	clock.Advance(time.Second)
	if r.IsPlaying() {
		t.Error("single word should stop after its duration")
	}
	if r.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", r.Progress())
	}
}

func TestPauseCancelsTimer(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.Play()
	r.Pause()

	if r.IsPlaying() {
		t.Error("IsPlaying() after Pause()")
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
	clock.Advance(10 * time.Second)
	if r.Index() != 0 {
		t.Errorf("cancelled wake-up fired: Index() = %d", r.Index())
	}
}

func TestStaleWakeUpIgnored(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.Play()

	// Simulate a callback that already started when Stop was called.
	r.mu.Lock()
	stale := r.gen
	r.mu.Unlock()
	r.Pause()
	r.Play()
	r.advance(stale)

	if r.Index() != 0 {
		t.Errorf("stale wake-up advanced: Index() = %d", r.Index())
	}
	if clock.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", clock.Pending())
	}
}

func TestToggle(t *testing.T) {
	r, clock := newTestReader(t)
	r.Toggle()
	if r.IsPlaying() {
		t.Fatal("Toggle() on empty reader started playback")
	}

	r.Load(fox)
	r.Toggle()
	if !r.IsPlaying() || clock.Pending() != 1 {
		t.Fatalf("first Toggle(): playing=%v pending=%d", r.IsPlaying(), clock.Pending())
	}
	r.Toggle()
	if r.IsPlaying() || clock.Pending() != 0 {
		t.Fatalf("second Toggle(): playing=%v pending=%d", r.IsPlaying(), clock.Pending())
	}
}

func TestSkip(t *testing.T) {
	text := ""
	for i := 0; i < 25; i++ {
		text += "word "
	}

	tests := []struct {
		name     string
		start    int
		forward  bool
		skip     int
		expected int
	}{
		{"back from start", 0, false, 10, 0},
		{"back clamps", 4, false, 10, 0},
		{"back", 15, false, 10, 5},
		{"forward", 0, true, 10, 10},
		{"forward clamps", 20, true, 10, 24},
		{"custom count", 0, true, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, clock := newTestReader(t, WithSkipCount(tt.skip))
			r.Load(text)
			r.mu.Lock()
			r.index = tt.start
			r.mu.Unlock()
			r.Play()

			if tt.forward {
				r.SkipForward()
			} else {
				r.SkipBack()
			}

			if r.Index() != tt.expected {
				t.Errorf("Index() = %d, want %d", r.Index(), tt.expected)
			}
			if r.IsPlaying() || clock.Pending() != 0 {
				t.Errorf("skip should pause: playing=%v pending=%d", r.IsPlaying(), clock.Pending())
			}
		})
	}
}

func TestSkipOnEmpty(t *testing.T) {
	r, _ := newTestReader(t)
	r.SkipForward()
	r.SkipBack()
	if r.Index() != 0 {
		t.Errorf("Index() = %d, want 0", r.Index())
	}
}

func TestAdjustSpeedClamps(t *testing.T) {
	r, _ := newTestReader(t)
	r.AdjustSpeed(10000)
	if r.WPM() != 1000 {
		t.Errorf("WPM() = %d, want 1000", r.WPM())
	}
	r.AdjustSpeed(-10000)
	if r.WPM() != 100 {
		t.Errorf("WPM() = %d, want 100", r.WPM())
	}
	r.AdjustSpeed(25)
	if r.WPM() != 125 {
		t.Errorf("WPM() = %d, want 125", r.WPM())
	}

	r.AdjustSpeed(math.MaxInt)
	if r.WPM() != MaxWPM {
		t.Errorf("WPM() after +MaxInt = %d, want %d", r.WPM(), MaxWPM)
	}
	r.AdjustSpeed(math.MinInt)
	if r.WPM() != MinWPM {
		t.Errorf("WPM() after MinInt = %d, want %d", r.WPM(), MinWPM)
	}
}

func TestAdjustSpeedNudgesInFlightInterval(t *testing.T) {
	r, clock := newTestReader(t, WithWPM(300))
	r.Load(fox)
	r.Play()
	clock.Advance(100 * time.Millisecond)

	r.AdjustSpeed(300)
	if clock.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", clock.Pending())
	}
	// "The" at 600 wpm, counted from the speed change.
	if d, _ := clock.Next(); d != 100*time.Millisecond {
		t.Fatalf("rescheduled wait = %v, want 100ms", d)
	}
	clock.Advance(100 * time.Millisecond)
	if r.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", r.Index())
	}

	// Later words keep the duration they were loaded with.
	if d, _ := clock.Next(); d != 200*time.Millisecond {
		t.Errorf("next wait = %v, want the load-time 200ms", d)
	}
}

func TestAdjustSpeedWhilePausedSchedulesNothing(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.AdjustSpeed(50)
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
	if r.IsPlaying() {
		t.Error("AdjustSpeed() started playback")
	}
}

func TestLiveRetime(t *testing.T) {
	r, clock := newTestReader(t, WithWPM(300), WithLiveRetime(true))
	r.Load(fox)
	r.AdjustSpeed(300)
	r.Play()

	if d, _ := clock.Next(); d != 100*time.Millisecond {
		t.Fatalf("first wait = %v, want 100ms", d)
	}
	clock.Advance(100 * time.Millisecond)
	if d, _ := clock.Next(); d != 100*time.Millisecond {
		t.Errorf("second wait = %v, want 100ms", d)
	}
}

func TestProgress(t *testing.T) {
	r, _ := newTestReader(t)
	if r.Progress() != 0 {
		t.Errorf("empty Progress() = %v", r.Progress())
	}
	r.Load("a b c d e")
	r.mu.Lock()
	r.index = 2
	r.mu.Unlock()
	if r.Progress() != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", r.Progress())
	}
}

func TestDo(t *testing.T) {
	r, _ := newTestReader(t, WithSpeedStep(50), WithSkipCount(2))
	r.Load(fox)

	r.Do(CmdSpeedUp)
	if r.WPM() != DefaultWPM+50 {
		t.Errorf("speed-up: WPM() = %d", r.WPM())
	}
	r.Do(CmdSpeedDown)
	r.Do(CmdSpeedDown)
	if r.WPM() != DefaultWPM-50 {
		t.Errorf("speed-down: WPM() = %d", r.WPM())
	}
	r.Do(CmdSkipForward)
	if r.Index() != 2 {
		t.Errorf("skip-forward: Index() = %d", r.Index())
	}
	r.Do(CmdSkipBack)
	if r.Index() != 0 {
		t.Errorf("skip-back: Index() = %d", r.Index())
	}
	r.Do(CmdToggle)
	if !r.IsPlaying() {
		t.Error("toggle did not start playback")
	}
	r.Do(CmdNone)
	if !r.IsPlaying() {
		t.Error("none changed state")
	}
	r.Do(CmdReset)
	if r.Count() != 0 {
		t.Error("reset kept words")
	}
}

func TestParseCommand(t *testing.T) {
	for c := CmdNone; c <= CmdReset; c++ {
		got, err := ParseCommand(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCommand(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCommand("rewind"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestSpeedIndicator(t *testing.T) {
	r, clock := newTestReader(t, WithIndicatorDuration(1500*time.Millisecond))
	r.Load(fox)

	r.AdjustSpeed(25)
	if !r.State().SpeedIndicator {
		t.Fatal("indicator hidden right after a speed change")
	}
	clock.Advance(time.Second)
	r.AdjustSpeed(25)
	clock.Advance(time.Second)
	if !r.State().SpeedIndicator {
		t.Error("second change should restart the indicator window")
	}
	clock.Advance(500 * time.Millisecond)
	if r.State().SpeedIndicator {
		t.Error("indicator still visible after its window")
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
}

func TestSubscribe(t *testing.T) {
	r, clock := newTestReader(t)

	var states []State
	cancel := r.Subscribe(func(s State) {
		states = append(states, s)
	})

	r.Load("one two")
	r.Play()
	clock.Advance(time.Second)

	if len(states) != 4 {
		t.Fatalf("got %d notifications, want 4", len(states))
	}
	for i := 1; i < len(states); i++ {
		if states[i].Seq <= states[i-1].Seq {
			t.Errorf("Seq not increasing: %d then %d", states[i-1].Seq, states[i].Seq)
		}
	}
	if last := states[len(states)-1]; last.Playing || !last.AtEnd() {
		t.Errorf("last state = %+v, want paused at end", last)
	}

	cancel()
	r.Reset()
	if len(states) != 4 {
		t.Errorf("notified after cancel")
	}
}

func TestSubscriberMayCallReader(t *testing.T) {
	r, _ := newTestReader(t)
	var seen int
	r.Subscribe(func(State) {
		seen = r.Count()
	})
	r.Load("one two three")
	if seen != 3 {
		t.Errorf("Count() from subscriber = %d, want 3", seen)
	}
}

func TestClose(t *testing.T) {
	r, clock := newTestReader(t)
	r.Load(fox)
	r.Play()
	r.Close()
	r.Close()

	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d after Close, want 0", clock.Pending())
	}
	r.Play()
	if r.IsPlaying() {
		t.Error("Play() after Close() started playback")
	}
}

// TestAtMostOneTimer drives random command sequences and checks that a single
// advance is pending exactly while playing.
func TestAtMostOneTimer(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", "solo", fox, "a b c d e f g h i j k l m n o p q r s t u v w x y z"}

	for run := 0; run < 50; run++ {
		r, clock := newTestReader(t, WithWPM(100+rng.Intn(900)))
		r.Load(texts[rng.Intn(len(texts))])

		for step := 0; step < 300; step++ {
			switch rng.Intn(10) {
			case 0:
				r.Play()
			case 1:
				r.Pause()
			case 2:
				r.Toggle()
			case 3:
				r.SkipBack()
			case 4:
				r.SkipForward()
			case 5:
				r.AdjustSpeed(rng.Intn(2001) - 1000)
			case 6:
				r.Load(texts[rng.Intn(len(texts))])
			case 7:
				r.Reset()
			default:
				clock.Advance(time.Duration(rng.Intn(700)) * time.Millisecond)
			}

			pending := clock.Pending()
			if pending > 1 {
				t.Fatalf("run %d step %d: %d wake-ups pending", run, step, pending)
			}
			if playing := r.IsPlaying(); playing != (pending == 1) {
				t.Fatalf("run %d step %d: playing=%v with %d pending", run, step, playing, pending)
			}
			if n := r.Count(); n > 0 && (r.Index() < 0 || r.Index() >= n) {
				t.Fatalf("run %d step %d: index %d out of range for %d words", run, step, r.Index(), n)
			}
		}
	}
}

func TestConcurrentCommands(t *testing.T) {
	r := New(WithLogger(log.New(io.Discard)), WithWPM(MaxWPM))
	defer r.Close()
	r.Load(fox + " " + fox + " " + fox)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (i + j) % 5 {
				case 0:
					r.Toggle()
				case 1:
					r.AdjustSpeed(25)
				case 2:
					r.AdjustSpeed(-25)
				case 3:
					r.SkipForward()
				case 4:
					_ = r.State()
				}
			}
		}(i)
	}
	wg.Wait()

	if n := r.Count(); r.Index() >= n {
		t.Errorf("Index() = %d out of range for %d words", r.Index(), n)
	}
}

func TestRealClockPlaysToEnd(t *testing.T) {
	r := New(WithLogger(log.New(io.Discard)), WithWPM(MaxWPM), WithIndicatorDuration(0))
	defer r.Close()
	r.Load("one two three")

	done := make(chan struct{})
	var once sync.Once
	r.Subscribe(func(s State) {
		if s.AtEnd() && !s.Playing {
			once.Do(func() { close(done) })
		}
	})
	r.Play()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not reach the end")
	}
}
