// Package configloader resolves the syntree configuration. It discovers
// configuration files in XDG and project locations, merges them in order of
// precedence with environment variables and command line flags, and
// validates the result.
package configloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// ProjectConfigName is the file name written by WriteProjectConfig.
const ProjectConfigName = ".syntree.yml"

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (SYNTREE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.syntree.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/syntree/config.yaml)
//  6. System config (/etc/syntree/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}

	sources := []struct {
		name   string
		path   string
		ignore bool
	}{
		{name: "system", path: paths.System, ignore: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, ignore: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, ignore: opts.IgnoreProjectConfig},
		{name: "explicit", path: paths.Explicit},
	}

	cfg := config.NewConfig()
	for _, source := range sources {
		if source.ignore || source.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(source.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", source.name, err)
		}
		validation := ValidateWithFile(fileCfg, source.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		for _, w := range validation.Warnings {
			result.Warnings = append(result.Warnings, w.Error())
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, source.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	// File warnings were collected above; only errors introduced by the
	// environment or flags remain.
	if validation := Validate(cfg); !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration file. Files ending in .toml are TOML,
// everything else is YAML.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return config.FromTOML(content)
	}
	return config.FromYAML(content)
}

// WriteOptions controls WriteProjectConfig.
type WriteOptions struct {
	// Force overwrites an existing file without asking.
	Force bool

	// In and Out are used to ask before overwriting when In is a terminal.
	In  *os.File
	Out io.Writer
}

// ErrExists is returned by WriteProjectConfig when the target exists and
// overwriting was not confirmed.
var ErrExists = errors.New("config file already exists")

// WriteProjectConfig atomically writes content to path. An existing file is
// only replaced with opts.Force or after an interactive confirmation.
func WriteProjectConfig(ctx context.Context, path string, content []byte, opts WriteOptions) error {
	if fileExists(path) && !opts.Force {
		if opts.In == nil || !isInteractive(opts.In) {
			return fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrExists)
		}
		ok, err := promptOverwrite(opts.In, opts.Out, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// promptOverwrite asks the user whether to replace path.
func promptOverwrite(in *os.File, out io.Writer, path string) (bool, error) {
	if out == nil {
		out = os.Stdout
	}
	if _, err := fmt.Fprintf(out, "%s exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// isInteractive returns true if f is a terminal.
func isInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
