package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/configloader"
	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
)

// Names of the persistent flags defined on the root command.
const (
	flagConfig   = "config"
	flagColor    = "color"
	flagDebug    = "debug"
	flagLogLevel = "log-level"
)

// loadConfig resolves the configuration for a command. Values in flagCfg
// come from the command's own flags and win over every file; the persistent
// --color, --debug and --log-level flags are applied when the user set them.
func loadConfig(cmd *cobra.Command, flagCfg *config.Config) (*config.Config, string, error) {
	if flagCfg == nil {
		flagCfg = &config.Config{}
	}

	flags := cmd.Flags()
	if flags.Changed(flagColor) {
		color, _ := flags.GetString(flagColor)
		flagCfg.Color = config.ColorMode(color)
	}
	if flags.Changed(flagLogLevel) {
		flagCfg.LogLevel, _ = flags.GetString(flagLogLevel)
	}
	if debug, _ := flags.GetBool(flagDebug); debug {
		flagCfg.Debug = &debug
		flagCfg.LogLevel = "debug"
	}

	configPath, err := flags.GetString(flagConfig)
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flagCfg,
	})
	if err != nil {
		return nil, "", &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load configuration: %w", err)}
	}

	cfg := loadResult.Config
	logging.SetLevel(cfg.LogLevel)

	logger := logging.FromContext(cmd.Context())
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration resolved",
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldDebug, cfg.DebugEnabled(),
		logging.FieldIncremental, cfg.IncrementalEnabled(),
	)

	return cfg, workDir, nil
}
