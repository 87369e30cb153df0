// Package reader provides core RSVP (Rapid Serial Visual Presentation) speed reading logic.
package reader

import (
	"math"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

const (
	// MinWPM and MaxWPM bound the playback rate.
	MinWPM = 100
	MaxWPM = 1000

	// DefaultWPM is the rate used when none is configured.
	DefaultWPM = 250

	// MinDuration is the shortest time any word stays on screen.
	MinDuration = 80 * time.Millisecond
)

// Word is a single timed unit of text.
type Word struct {
	Text     string
	ORP      int
	Duration time.Duration
}

// NewWord builds a Word from a whitespace-free fragment at the given rate.
func NewWord(text string, wpm int) Word {
	return Word{
		Text:     text,
		ORP:      ORPIndex(uniseg.GraphemeClusterCount(text)),
		Duration: DisplayDuration(text, wpm),
	}
}

// Len returns the length of the word in user-perceived characters.
func (w Word) Len() int {
	return uniseg.GraphemeClusterCount(w.Text)
}

// DurationAt returns how long the word would be shown at another rate.
func (w Word) DurationAt(wpm int) time.Duration {
	return DisplayDuration(w.Text, wpm)
}

// Before returns the characters left of the ORP.
func (w Word) Before() string {
	before, _, _ := w.split()
	return before
}

// Focus returns the ORP character itself.
func (w Word) Focus() string {
	_, focus, _ := w.split()
	return focus
}

// After returns the characters right of the ORP.
func (w Word) After() string {
	_, _, after := w.split()
	return after
}

func (w Word) split() (before, focus, after string) {
	var b strings.Builder
	i := 0
	g := uniseg.NewGraphemes(w.Text)
	for g.Next() {
		switch {
		case i < w.ORP:
			b.WriteString(g.Str())
		case i == w.ORP:
			before = b.String()
			focus = g.Str()
			_, to := g.Positions()
			after = w.Text[to:]
			return before, focus, after
		}
		i++
	}
	return b.String(), "", ""
}

// ORPIndex returns the Optimal Recognition Point for a word of the given
// length. This is the character position where the eye should focus for
// fastest recognition.
func ORPIndex(length int) int {
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		return 1
	case length <= 9:
		return 2
	case length <= 13:
		return 3
	}
	return min(4, length/3)
}

// DisplayDuration returns how long text stays on screen at wpm. Long words
// and trailing punctuation stretch the base interval of 60/wpm seconds.
func DisplayDuration(text string, wpm int) time.Duration {
	if wpm <= 0 {
		wpm = MinWPM
	}
	base := 60.0 / float64(wpm)
	multiplier := 1.0

	length := uniseg.GraphemeClusterCount(text)
	if length > 10 {
		multiplier *= 1.3
	} else if length > 6 {
		multiplier *= 1.15
	}

	switch lastChar(text) {
	case ".", "!", "?":
		multiplier *= 1.5
	case ",", ";", ":":
		multiplier *= 1.25
	}

	d := time.Duration(math.Round(base * multiplier * float64(time.Second)))
	return max(MinDuration, d)
}

// ClampWPM bounds wpm to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	return min(MaxWPM, max(MinWPM, wpm))
}

func lastChar(s string) string {
	last := ""
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		last = g.Str()
	}
	return last
}
