// Package config holds the run configuration for colorgrid.
//
// Values come from the environment (optionally seeded from a .env file) and
// are then overridden by command-line flags or tool arguments. The processing
// code never reads ambient state; it receives a Config value explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/colorgrid/internal/imaging"
)

// Environment variable names.
const (
	EnvSteps        = "COLORGRID_STEPS"
	EnvHueNormal    = "COLORGRID_HUE_NORMAL"
	EnvSaveSorted   = "COLORGRID_SAVE_SORTED"
	EnvWrapHue      = "COLORGRID_WRAP_HUE"
	EnvBlockSize    = "COLORGRID_BLOCK_SIZE"
	EnvBlocksPerRow = "COLORGRID_BLOCKS_PER_ROW"
	EnvBackground   = "COLORGRID_BACKGROUND"
	EnvOutputDir    = "COLORGRID_OUTPUT_DIR"
	EnvLogLevel     = "COLORGRID_LOG_LEVEL"
)

// DefaultSteps is the step count used when none is configured.
const DefaultSteps = 10

var (
	// ErrInvalidConfiguration reports a bad setting. It aborts the whole run
	// before any file is processed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoInput reports that no input file was given.
	ErrNoInput = errors.New("no input files selected")

	// ErrNoOutputDir reports that no output directory was given.
	ErrNoOutputDir = errors.New("no output directory selected")
)

// Config is everything one batch run needs.
type Config struct {
	// Inputs are image files or directories. A directory expands to the
	// supported images it directly contains.
	Inputs []string

	// OutputDir receives every artifact. It is created if missing.
	OutputDir string

	// Steps is the requested number of colors, 2-256.
	Steps int

	// HueNormal selects hue-weighted band sampling and the hue-weighted pixel
	// sort. When false the uniform sampler and the plain sort are used.
	HueNormal bool

	// SaveSorted also writes the pixel-sorted mosaic of each input.
	SaveSorted bool

	// WrapHue smooths the hue histogram across the 179/0 seam.
	WrapHue bool

	BlockSize    int
	BlocksPerRow int

	// Background is the hex color of empty grid cells.
	Background string

	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Steps:        DefaultSteps,
		BlockSize:    imaging.DefaultBlockSize,
		BlocksPerRow: imaging.DefaultBlocksPerRow,
		Background:   "#FFFFFF",
		LogLevel:     "info",
	}
}

// Load reads the given .env files (or ./.env when none is given) if they
// exist, then builds the configuration from the environment. Variables
// already present in the process environment win over .env entries.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfiguration, f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from Default overlaid with environment variables.
//
// Unlike the other keys, a non-numeric step count is an error rather than
// falling back to the default.
func FromEnv() (Config, error) {
	cfg := Default()

	if raw := Get(EnvSteps, ""); raw != "" {
		steps, err := ParseSteps(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.Steps = steps
	}

	cfg.HueNormal = GetBool(EnvHueNormal, cfg.HueNormal)
	cfg.SaveSorted = GetBool(EnvSaveSorted, cfg.SaveSorted)
	cfg.WrapHue = GetBool(EnvWrapHue, cfg.WrapHue)
	cfg.BlockSize = GetInt(EnvBlockSize, cfg.BlockSize)
	cfg.BlocksPerRow = GetInt(EnvBlocksPerRow, cfg.BlocksPerRow)
	cfg.Background = Get(EnvBackground, cfg.Background)
	cfg.OutputDir = Get(EnvOutputDir, cfg.OutputDir)
	cfg.LogLevel = Get(EnvLogLevel, cfg.LogLevel)

	return cfg, nil
}

// ParseSteps parses a user-entered step count and checks its range.
func ParseSteps(s string) (int, error) {
	steps, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: step count %q is not a number", ErrInvalidConfiguration, s)
	}
	if err := checkSteps(steps); err != nil {
		return 0, err
	}
	return steps, nil
}

func checkSteps(steps int) error {
	if steps < imaging.MinSteps || steps > imaging.MaxSteps {
		return fmt.Errorf("%w: step count must be between %d and %d, got %d",
			ErrInvalidConfiguration, imaging.MinSteps, imaging.MaxSteps, steps)
	}
	return nil
}

// ValidateSettings checks the processing settings without requiring inputs
// or an output directory.
func (c Config) ValidateSettings() error {
	if err := checkSteps(c.Steps); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings and the run preconditions. Setting errors
// wrap ErrInvalidConfiguration; missing inputs or output directory return
// ErrNoInput or ErrNoOutputDir.
func (c Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrNoOutputDir
	}
	return nil
}

// Layout returns the grid layout described by the configuration.
func (c Config) Layout() (imaging.GridLayout, error) {
	layout := imaging.DefaultGridLayout()
	layout.BlockSize = c.BlockSize
	layout.BlocksPerRow = c.BlocksPerRow

	if c.Background != "" {
		bg, err := imaging.ParseHexColor(c.Background)
		if err != nil {
			return imaging.GridLayout{}, fmt.Errorf("%w: background %q: %v", ErrInvalidConfiguration, c.Background, err)
		}
		layout.Background = bg
	}

	if err := layout.Validate(); err != nil {
		return imaging.GridLayout{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return layout, nil
}

// HistogramOptions returns the hue smoothing options.
func (c Config) HistogramOptions() imaging.HistogramOptions {
	opts := imaging.DefaultHistogramOptions()
	opts.Wrap = c.WrapHue
	return opts
}

// SampleMode returns the sampler selected by HueNormal.
func (c Config) SampleMode() imaging.SampleMode {
	return imaging.ModeFor(c.HueNormal)
}

// SortMode returns the pixel sort selected by HueNormal.
func (c Config) SortMode() imaging.SortMode {
	return imaging.SortModeFor(c.HueNormal)
}
