package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/configloader"
	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
)

// migrateFlags holds the flags for the migrate command.
type migrateFlags struct {
	force  bool
	output string
}

func newMigrateCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate INPUT",
		Short: "Convert a configuration file between YAML and TOML",
		Long: `Convert a syntree configuration file from YAML to TOML or back. The
output format follows the extension of the output path; by default a YAML
input becomes .syntree.toml and a TOML input becomes .syntree.yml.

The input is validated first, so a converted file always loads.

Examples:
  syntree migrate .syntree.yml                 Write .syntree.toml
  syntree migrate .syntree.toml                Write .syntree.yml
  syntree migrate old.yml --output new.toml    Write to a custom path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path")

	return cmd
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func runMigrate(cmd *cobra.Command, inputPath string, flags *migrateFlags) error {
	logger := logging.NewInteractive()

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("read input: %w", err)}
	}

	var cfg *config.Config
	if isTOML(inputPath) {
		cfg, err = config.FromTOML(content)
	} else {
		cfg, err = config.FromYAML(content)
	}
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("%s: %w", inputPath, err)}
	}

	validation := configloader.ValidateWithFile(cfg, inputPath)
	if !validation.Valid() {
		return &ExitError{Code: ExitConfigError, Err: &validation.Errors[0]}
	}
	for _, warning := range validation.Warnings {
		logger.Warn(warning.Error())
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), ".syntree.toml")
		if isTOML(inputPath) {
			outputPath = filepath.Join(filepath.Dir(inputPath), configloader.ProjectConfigName)
		}
	}

	var out []byte
	header := "# Converted by syntree migrate from " + filepath.Base(inputPath)
	if isTOML(outputPath) {
		out, err = cfg.ToTOMLWithHeader(header)
	} else {
		out, err = cfg.ToYAMLWithHeader(header)
	}
	if err != nil {
		return fmt.Errorf("serialize configuration: %w", err)
	}

	err = configloader.WriteProjectConfig(cmd.Context(), outputPath, out, configloader.WriteOptions{
		Force: flags.force,
		In:    os.Stdin,
		Out:   cmd.OutOrStdout(),
	})
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	logger.Info("migration complete", logging.FieldInput, inputPath, logging.FieldOutput, outputPath)

	return nil
}
