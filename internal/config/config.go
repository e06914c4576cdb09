// Package config loads blockshuffle settings from a TOML file.
//
// Every key is optional. Missing keys keep the values from Default, and the
// merged result is validated before it is returned. Command-line flags are
// applied by the caller on top of the loaded configuration.
//
//	[grid]
//	cols = 8
//	rows = 8
//
//	[shuffle]
//	seed = 42
//	checkpoint = 63
//
//	[mosaic]
//	dx = 4
//	dy = 4
//
//	[play]
//	fps = 30
//	pause = "5s"
//	resolve = "random"
//	background = "#000000"
package config

import (
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/blockshuffle/pkg/errors"
)

const appName = "blockshuffle"

// Resolve strategies accepted by the play command.
const (
	ResolveRandom = "random"
	ResolvePair   = "pair"
	ResolveSweep  = "sweep"
)

// Strategies lists the resolve strategy names.
var Strategies = []string{ResolveRandom, ResolvePair, ResolveSweep}

// Config is the merged file configuration.
type Config struct {
	Grid    Grid    `toml:"grid"`
	Shuffle Shuffle `toml:"shuffle"`
	Mosaic  Mosaic  `toml:"mosaic"`
	Play    Play    `toml:"play"`
}

// Grid is the block grid requested from the builder.
type Grid struct {
	Cols int `toml:"cols"`
	Rows int `toml:"rows"`
}

// Shuffle controls the permutation and convergence engines.
type Shuffle struct {
	// Seed 0 picks a random seed per run.
	Seed uint64 `toml:"seed"`
	// Checkpoint is the sweep step flagged by the lazy resolver; negative disables it.
	Checkpoint int `toml:"checkpoint"`
}

// Mosaic is the spacing between blocks in mosaic output.
type Mosaic struct {
	DX int `toml:"dx"`
	DY int `toml:"dy"`
}

// Play configures the terminal animation.
type Play struct {
	FPS int `toml:"fps"`
	// Pause is written as a Go duration string ("1.5s").
	Pause      time.Duration `toml:"pause"`
	Resolve    string        `toml:"resolve"`
	Background string        `toml:"background"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid:    Grid{Cols: 8, Rows: 8},
		Shuffle: Shuffle{Seed: 0, Checkpoint: 63},
		Mosaic:  Mosaic{DX: 4, DY: 4},
		Play: Play{
			FPS:        30,
			Pause:      5 * time.Second,
			Resolve:    ResolveRandom,
			Background: "#000000",
		},
	}
}

// Load reads path over the defaults. An empty path loads the file at
// DefaultPath when one exists and the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, ok := DefaultPath()
		if !ok {
			return cfg, nil
		}
		path = p
	}
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(path string, out *Config) error {
	md, err := toml.DecodeFile(path, out)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file not found: %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config parse failed (%s)", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/blockshuffle/config.toml (or
// ~/.config/blockshuffle/config.toml) and whether that file exists.
func DefaultPath() (string, bool) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, appName, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return path, false
	}
	return path, true
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid must be positive, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if err := errors.ValidateSpacing(c.Mosaic.DX, c.Mosaic.DY); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "mosaic section invalid")
	}
	if c.Play.FPS <= 0 || c.Play.FPS > 120 {
		return errors.New(errors.ErrCodeInvalidConfig, "play.fps must be within 1..120, got %d", c.Play.FPS)
	}
	if c.Play.Pause < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "play.pause must not be negative, got %s", c.Play.Pause)
	}
	if !slices.Contains(Strategies, c.Play.Resolve) {
		return errors.New(errors.ErrCodeInvalidConfig, "play.resolve must be one of %s, got %q", strings.Join(Strategies, ", "), c.Play.Resolve)
	}
	if _, err := ParseColor(c.Play.Background); err != nil {
		return err
	}
	return nil
}

// ParseColor parses an opaque "#rrggbb" or "#rgb" hex color.
func ParseColor(s string) (color.NRGBA, error) {
	if len(s) != 7 && len(s) != 4 {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidConfig, "color must be #rrggbb, got %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "color must be #rrggbb, got %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
