// Package main provides the entry point for flash, a speed reader that shows
// text one word at a time.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/flash/internal/config"
	"github.com/metcalfc/flash/internal/reader"
	"github.com/metcalfc/flash/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile   string
	useClipboard bool
	debug        bool
	closeLog     = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "flash [file]",
		Short: "Speed read text one word at a time",
		Long: "Flash shows text one word at a time with the focus letter of every word\n" +
			"highlighted in place, at a speed you control while reading.\n\n" +
			"Text comes from a file (plain text, " + strings.Join(source.SupportedFormats(), ", ") + "),\n" +
			"from stdin, or from the clipboard.",
		Example: "  flash book.epub\n" +
			"  flash -w 400 notes.md\n" +
			"  cat article.txt | flash\n" +
			"  flash --clipboard --play",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setup()
		},
		RunE: execute,
	}
)

func setup() error {
	e, err := config.ParseEnv()
	if err != nil {
		return err
	}
	if debug {
		e.Debug = true
	}

	closer, err := setupLog(e)
	if err != nil {
		return err
	}
	closeLog = closer

	if err := config.Setup(viper.GetViper(), e, configFile); err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	in := source.Input{Clipboard: useClipboard}
	if len(args) > 0 {
		in.Path = args[0]
	}

	text, err := source.Read(in)
	switch {
	case errors.Is(err, source.ErrNoInput), errors.Is(err, source.ErrEmptyText):
		log.Debug("no text, starting empty", "reason", err)
	case err != nil:
		return err
	}

	r := reader.New(append(cfg.ReaderOptions(), reader.WithLogger(log.Default()))...)
	defer r.Close()
	r.Load(text)

	log.Debug("starting", "words", r.Count(), "wpm", r.WPM(), "source", in.Path)
	return runUI(r, cfg)
}

func main() {
	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("flash {{.Version}} (commit: %s, built: %s)\n", commit, date))

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is flash.yml in the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log")

	rootCmd.Flags().IntP("wpm", "w", reader.DefaultWPM, "words per minute (100-1000)")
	rootCmd.Flags().Int("skip", reader.DefaultSkipCount, "words to move with ←/→")
	rootCmd.Flags().Int("step", reader.DefaultSpeedStep, "wpm change for ↑/↓")
	rootCmd.Flags().BoolP("play", "p", false, "start playing right away")
	rootCmd.Flags().Bool("live-retime", false, "apply speed changes to every following word")
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "read the text from the clipboard")

	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("skip", rootCmd.Flags().Lookup("skip"))
	_ = viper.BindPFlag("speed_step", rootCmd.Flags().Lookup("step"))
	_ = viper.BindPFlag("autoplay", rootCmd.Flags().Lookup("play"))
	_ = viper.BindPFlag("live_retime", rootCmd.Flags().Lookup("live-retime"))

	rootCmd.AddCommand(configCmd, manCmd)
}
