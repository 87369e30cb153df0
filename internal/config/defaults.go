package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// DefaultYAML is written when a config file is created.
const DefaultYAML = `# starting speed in words per minute (100-1000)
wpm: 250
# wpm change for up/down
speed_step: 25
# words moved by left/right
skip: 10
# start playing as soon as text is loaded
autoplay: false
# re-time every word when the speed changes, instead of only the one on screen
live_retime: false
# how long the speed indicator stays up after a change
speed_indicator: 1.5s
# color of the focus letter
highlight_color: "#FF0000"
# font size in the desktop app
font_size: 72
`

// EnsureFile creates file with DefaultYAML if it does not exist yet.
func EnsureFile(file string) error {
	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("could not write configuration file: %w", err)
		}
		if err := os.WriteFile(file, []byte(DefaultYAML), 0o600); err != nil {
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("could not stat configuration file: %w", err)
	}
	return nil
}
