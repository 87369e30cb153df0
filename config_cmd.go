package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/metcalfc/flash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the flash config file",
	Long:    "Edit the flash config file with $EDITOR. If the config file doesn't exist, it will be created with the defaults.",
	Example: "  flash config\n  flash config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		file, err := configPath()
		if err != nil {
			return err
		}
		if err := config.EnsureFile(file); err != nil {
			return err
		}

		c, err := editor.Cmd("Flash", file)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", file)
		return nil
	},
}

// configPath is the --config flag, or flash.yml in the most specific config
// directory.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	e, err := config.ParseEnv()
	if err != nil {
		return "", err
	}
	dirs, err := config.Dirs(e)
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs[0], config.AppName+".yml"), nil
}
