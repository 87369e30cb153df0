package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generate the man page",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to build man page: %w", err)
		}
		page = page.WithSection("Controls", controlsHelp)
		fmt.Println(page.Build(roff.NewDocument()))
		return nil
	},
}

const controlsHelp = `SPACE    play/pause
UP/DOWN  change speed
LEFT/RIGHT  skip back/forward
ESC      reset and enter new text
?        toggle help
Q        quit`
