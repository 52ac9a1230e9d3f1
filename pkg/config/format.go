package config

import (
	"fmt"
	"strings"
)

// ParseFormat converts a user supplied format name.
func ParseFormat(name string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatText, nil
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q (expected text, json, sexpr or table)", name)
	}
	return format, nil
}

// LanguageFor returns the configured language for a file extension.
// Extensions are matched case-insensitively, with or without the leading dot.
func (c *Config) LanguageFor(ext string) (string, bool) {
	if c == nil || ext == "" {
		return "", false
	}
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for key, lang := range c.Languages {
		key = strings.ToLower(key)
		if !strings.HasPrefix(key, ".") {
			key = "." + key
		}
		if key == ext {
			return lang, true
		}
	}
	return "", false
}
