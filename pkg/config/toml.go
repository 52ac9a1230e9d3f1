package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ToTOML serializes the configuration to TOML.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// ToTOMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToTOMLWithHeader(header string) ([]byte, error) {
	body, err := c.ToTOML()
	if err != nil {
		return nil, err
	}
	return prependHeader(header, body), nil
}

// FromTOML parses a configuration from TOML bytes. Keys are the same as in
// YAML:
//
//	format = "json"
//	[languages]
//	".calc" = "expr"
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	if cfg.Languages == nil {
		cfg.Languages = make(map[string]string)
	}

	return cfg, nil
}
