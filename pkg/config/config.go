// Package config defines the configuration types for syntree.
// These types are plain data; loading and merging live in internal/configloader.
package config

// OutputFormat selects how trees are written.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSexpr OutputFormat = "sexpr"
	FormatTable OutputFormat = "table"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSexpr, FormatTable:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure.
type Config struct {
	// Debug enables builder consistency checks.
	Debug *bool `mapstructure:"debug" yaml:"debug,omitempty" toml:"debug,omitempty"`

	// DepthLimit bounds the tree depth the diff engine descends into before
	// it gives up on an incremental merge. Zero keeps the builder default.
	DepthLimit int `mapstructure:"depth_limit" yaml:"depth_limit,omitempty" toml:"depth_limit,omitempty"`

	// Incremental enables tree merging on reparse.
	Incremental *bool `mapstructure:"incremental" yaml:"incremental,omitempty" toml:"incremental,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty" toml:"log_level,omitempty"`

	// Format is the output format for tree dumps.
	Format OutputFormat `mapstructure:"format" yaml:"format,omitempty" toml:"format,omitempty"`

	// Jobs is the number of parallel workers. Zero means GOMAXPROCS.
	Jobs int `mapstructure:"jobs" yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Languages maps file extensions (with the dot) to language names.
	Languages map[string]string `mapstructure:"languages" yaml:"languages,omitempty" toml:"languages,omitempty"`

	// Color controls colored terminal output.
	Color ColorMode `mapstructure:"color" yaml:"color,omitempty" toml:"color,omitempty"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	debug := false
	incremental := true
	return &Config{
		Debug:       &debug,
		Incremental: &incremental,
		LogLevel:    "warn",
		Format:      FormatText,
		Jobs:        0,
		Languages:   make(map[string]string),
		Color:       ColorAuto,
	}
}

// DebugEnabled reports whether debug checks are on.
func (c *Config) DebugEnabled() bool {
	return c != nil && c.Debug != nil && *c.Debug
}

// IncrementalEnabled reports whether reparse should merge into the old tree.
// It defaults to true when unset.
func (c *Config) IncrementalEnabled() bool {
	return c == nil || c.Incremental == nil || *c.Incremental
}
