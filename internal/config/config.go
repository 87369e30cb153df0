// Package config merges defaults, the config file, the environment and
// command line flags into the settings of a reading session.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/metcalfc/flash/internal/reader"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// AppName names the config file, env prefix and app directories.
const AppName = "flash"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config contains the reading session settings.
type Config struct {
	WPM            int
	SpeedStep      int
	SkipCount      int
	LiveRetime     bool
	AutoPlay       bool
	SpeedIndicator time.Duration
	HighlightColor string
	FontSize       float32
}

// Env holds process-level settings that only come from the environment.
type Env struct {
	ConfigHome string `env:"FLASH_CONFIG_HOME"`
	LogFile    string `env:"FLASH_LOG_FILE"`
	Debug      bool   `env:"FLASH_DEBUG"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("error parsing environment: %w", err)
	}
	return e, nil
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		WPM:            reader.DefaultWPM,
		SpeedStep:      reader.DefaultSpeedStep,
		SkipCount:      reader.DefaultSkipCount,
		SpeedIndicator: reader.DefaultIndicatorDuration,
		HighlightColor: "#FF0000",
		FontSize:       72,
	}
}

// SetDefaults registers the defaults with v so that config files and
// flags only need to mention what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("wpm", d.WPM)
	v.SetDefault("speed_step", d.SpeedStep)
	v.SetDefault("skip", d.SkipCount)
	v.SetDefault("live_retime", d.LiveRetime)
	v.SetDefault("autoplay", d.AutoPlay)
	v.SetDefault("speed_indicator", d.SpeedIndicator)
	v.SetDefault("highlight_color", d.HighlightColor)
	v.SetDefault("font_size", d.FontSize)
}

// Load builds a Config from v. The rate is clamped to the supported range;
// everything else must already be valid.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v.IsSet("wpm") {
		cfg.WPM = v.GetInt("wpm")
	}
	if v.IsSet("speed_step") {
		cfg.SpeedStep = v.GetInt("speed_step")
	}
	if v.IsSet("skip") {
		cfg.SkipCount = v.GetInt("skip")
	}
	if v.IsSet("live_retime") {
		cfg.LiveRetime = v.GetBool("live_retime")
	}
	if v.IsSet("autoplay") {
		cfg.AutoPlay = v.GetBool("autoplay")
	}
	if v.IsSet("speed_indicator") {
		cfg.SpeedIndicator = v.GetDuration("speed_indicator")
	}
	if v.IsSet("highlight_color") {
		cfg.HighlightColor = v.GetString("highlight_color")
	}
	if v.IsSet("font_size") {
		cfg.FontSize = float32(v.GetFloat64("font_size"))
	}

	cfg.WPM = reader.ClampWPM(cfg.WPM)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.SpeedStep <= 0:
		return fmt.Errorf("%w: speed_step must be positive, got %d", ErrInvalidConfig, c.SpeedStep)
	case c.SkipCount <= 0:
		return fmt.Errorf("%w: skip must be positive, got %d", ErrInvalidConfig, c.SkipCount)
	case c.SpeedIndicator < 0:
		return fmt.Errorf("%w: speed_indicator must not be negative, got %s", ErrInvalidConfig, c.SpeedIndicator)
	case c.HighlightColor == "":
		return fmt.Errorf("%w: highlight_color must be set", ErrInvalidConfig)
	case c.FontSize < 20 || c.FontSize > 200:
		return fmt.Errorf("%w: font_size must be between 20 and 200, got %.0f", ErrInvalidConfig, c.FontSize)
	}
	return nil
}

// ReaderOptions translates the configuration into engine options.
func (c Config) ReaderOptions() []reader.Option {
	return []reader.Option{
		reader.WithWPM(c.WPM),
		reader.WithSpeedStep(c.SpeedStep),
		reader.WithSkipCount(c.SkipCount),
		reader.WithLiveRetime(c.LiveRetime),
		reader.WithIndicatorDuration(c.SpeedIndicator),
	}
}

// Dirs returns the directories searched for the config file, most specific
// first.
func Dirs(e Env) ([]string, error) {
	scope := gap.NewScope(gap.User, AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, AppName)}, dirs...)
	}
	if e.ConfigHome != "" {
		dirs = append([]string{e.ConfigHome}, dirs...)
	}
	return dirs, nil
}

// LogPath returns the default location of the debug log.
func LogPath() (string, error) {
	scope := gap.NewScope(gap.User, AppName)
	p, err := scope.LogPath(AppName + ".log")
	if err != nil {
		return "", fmt.Errorf("could not find log directory: %w", err)
	}
	return p, nil
}

// Setup points v at the config file search path and the FLASH_ environment.
// A missing config file is not an error.
func Setup(v *viper.Viper, e Env, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(AppName)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		dirs, err := Dirs(e)
		if err != nil {
			return err
		}
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("could not parse configuration file: %w", err)
	}
	return nil
}
