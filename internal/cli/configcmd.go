package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/configloader"
)

type configFlags struct {
	format string
	env    bool
}

func newConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Print the configuration syntree would use in the current directory after
merging defaults, configuration files, environment variables and flags.
Run with --log-level debug to see which files were loaded.

Examples:
  syntree config                 Show the configuration as YAML
  syntree config --format toml   Show it as TOML
  syntree config --env           List the supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if flags.env {
				return writeEnvVars(out)
			}
			return runConfigShow(cmd, out, flags.format)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml, toml")
	cmd.Flags().BoolVar(&flags.env, "env", false, "list environment variables instead")

	return cmd
}

func runConfigShow(cmd *cobra.Command, out io.Writer, format string) error {
	if format != "yaml" && format != "toml" {
		return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf("invalid format %q: must be yaml or toml", format)}
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	var content []byte
	if format == "toml" {
		content, err = cfg.ToTOML()
	} else {
		content, err = cfg.ToYAML()
	}
	if err != nil {
		return fmt.Errorf("serialize configuration: %w", err)
	}

	if _, err := out.Write(content); err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}
	return nil
}

func writeEnvVars(out io.Writer) error {
	for _, v := range configloader.ListEnvVars() {
		if _, err := fmt.Fprintf(out, "%-28s %s\n", v.Name, v.Help); err != nil {
			return &ExitError{Code: ExitIOError, Err: err}
		}
	}
	return nil
}
