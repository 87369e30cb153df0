package reader

import "fmt"

// Command is a discrete user action a front-end forwards to the Reader.
type Command int

const (
	// CmdNone does nothing. Key maps return it for unbound keys.
	CmdNone Command = iota
	// CmdToggle plays when paused and pauses when playing.
	CmdToggle
	// CmdSpeedUp raises the rate by the speed step.
	CmdSpeedUp
	// CmdSpeedDown lowers the rate by the speed step.
	CmdSpeedDown
	// CmdSkipBack pauses and moves back by the skip count.
	CmdSkipBack
	// CmdSkipForward pauses and moves forward by the skip count.
	CmdSkipForward
	// CmdReset stops playback and drops the loaded text.
	CmdReset
)

var commandNames = map[Command]string{
	CmdNone:        "none",
	CmdToggle:      "toggle",
	CmdSpeedUp:     "speed-up",
	CmdSpeedDown:   "speed-down",
	CmdSkipBack:    "skip-back",
	CmdSkipForward: "skip-forward",
	CmdReset:       "reset",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand returns the command with the given name.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("unknown command %q", name)
}

// Do runs a command against the reader. CmdNone is ignored.
func (r *Reader) Do(cmd Command) {
	switch cmd {
	case CmdToggle:
		r.Toggle()
	case CmdSpeedUp:
		r.AdjustSpeed(r.speedStep)
	case CmdSpeedDown:
		r.AdjustSpeed(-r.speedStep)
	case CmdSkipBack:
		r.SkipBack()
	case CmdSkipForward:
		r.SkipForward()
	case CmdReset:
		r.Reset()
	}
}
