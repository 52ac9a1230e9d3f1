package configloader

import (
	"maps"

	"github.com/yaklabco/syntree/pkg/config"
)

// merge combines two configurations, with override taking precedence:
//   - scalars: override wins when non-zero
//   - bool pointers: override wins when non-nil
//   - languages: merged key by key
//   - ignore: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Debug != nil {
		result.Debug = override.Debug
	}
	if override.Incremental != nil {
		result.Incremental = override.Incremental
	}
	if override.DepthLimit != 0 {
		result.DepthLimit = override.DepthLimit
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	if len(override.Languages) > 0 {
		result.Languages = make(map[string]string, len(base.Languages)+len(override.Languages))
		maps.Copy(result.Languages, base.Languages)
		maps.Copy(result.Languages, override.Languages)
	}

	return &result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
