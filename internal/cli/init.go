package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/configloader"
	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/lang"
)

// tomlConfigName is the project config written by init --format toml.
const tomlConfigName = ".syntree.toml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a syntree configuration file",
		Long: `Create a project configuration file in the current directory. The YAML
template documents every option and lists the registered languages; the
TOML variant holds the defaults only.

Examples:
  syntree init                       Create .syntree.yml
  syntree init --format toml         Create .syntree.toml
  syntree init --output custom.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .syntree.yml or .syntree.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	var content []byte
	outputPath := flags.output

	switch flags.format {
	case "yaml":
		content = config.GenerateTemplate(config.TemplateOptions{
			Languages:  lang.Names(),
			Extensions: lang.Extensions(),
		})
		if outputPath == "" {
			outputPath = configloader.ProjectConfigName
		}
	case "toml":
		var err error
		content, err = config.NewConfig().ToTOMLWithHeader("# syntree configuration")
		if err != nil {
			return fmt.Errorf("generate template: %w", err)
		}
		if outputPath == "" {
			outputPath = tomlConfigName
		}
	default:
		return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)}
	}

	err := configloader.WriteProjectConfig(cmd.Context(), outputPath, content, configloader.WriteOptions{
		Force: flags.force,
		In:    os.Stdin,
		Out:   cmd.OutOrStdout(),
	})
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'syntree languages' to see the registered languages")

	return nil
}
