package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/syntree/pkg/config"
)

// envVarPrefix is the prefix for all syntree environment variables.
const envVarPrefix = "SYNTREE_"

// envVar describes one environment variable and how it sets the config.
type envVar struct {
	help  string
	apply func(cfg *config.Config, value string) error
}

func boolSetter(set func(cfg *config.Config, v bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func intSetter(set func(cfg *config.Config, v int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}

// envVars maps environment variable names (without prefix) to setters.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"DEBUG": {
		help:  "Run builder consistency checks: true or false",
		apply: boolSetter(func(cfg *config.Config, v bool) { cfg.Debug = &v }),
	},
	"INCREMENTAL": {
		help:  "Merge reparsed trees into the previous tree: true or false",
		apply: boolSetter(func(cfg *config.Config, v bool) { cfg.Incremental = &v }),
	},
	"DEPTH_LIMIT": {
		help:  "Depth at which merging falls back to a full rebuild",
		apply: intSetter(func(cfg *config.Config, v int) { cfg.DepthLimit = v }),
	},
	"JOBS": {
		help:  "Number of parallel workers (0 = auto)",
		apply: intSetter(func(cfg *config.Config, v int) { cfg.Jobs = v }),
	},
	"LOG_LEVEL": {
		help:  "Log level: debug, info, warn or error",
		apply: func(cfg *config.Config, v string) error { cfg.LogLevel = v; return nil },
	},
	"FORMAT": {
		help:  "Output format: text, json, sexpr or table",
		apply: func(cfg *config.Config, v string) error { cfg.Format = config.OutputFormat(v); return nil },
	},
	"COLOR": {
		help:  "Colored output: auto, always or never",
		apply: func(cfg *config.Config, v string) error { cfg.Color = config.ColorMode(v); return nil },
	},
	"IGNORE": {
		help:  "Comma-separated list of ignore patterns",
		apply: func(cfg *config.Config, v string) error { cfg.Ignore = parseSliceValue(v); return nil },
	},
}

// LoadFromEnv applies SYNTREE_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, v := range envVars {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseSliceValue splits a comma-separated string, trimming each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar pairs a variable name with its description.
type EnvVar struct {
	Name string
	Help string
}

// ListEnvVars returns the supported environment variables, sorted by name.
func ListEnvVars() []EnvVar {
	out := make([]EnvVar, 0, len(envVars))
	for suffix, v := range envVars {
		out = append(out, EnvVar{Name: envVarPrefix + suffix, Help: v.help})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
