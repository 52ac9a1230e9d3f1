package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/lang"
)

const formatJSON = "json"

// languageInfo represents a language in JSON output.
type languageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Linguist   []string `json:"linguist,omitempty"`
}

func newLanguagesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages syntree can parse",
		Long: `List every registered language with the file extensions and linguist
language names that select it. The languages section of the configuration
can map further extensions to these names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			languages := lang.All()

			if format == formatJSON {
				return outputLanguagesJSON(cmd.OutOrStdout(), languages)
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{Level: log.InfoLevel})
			for _, language := range languages {
				keyvals := []any{logging.FieldExtensions, strings.Join(language.Extensions, " ")}
				if len(language.Linguist) > 0 {
					keyvals = append(keyvals, logging.FieldLinguist, strings.Join(language.Linguist, ", "))
				}
				logger.Info(language.Name, keyvals...)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// outputLanguagesJSON writes languages as a JSON array.
func outputLanguagesJSON(w io.Writer, languages []lang.Language) error {
	infos := make([]languageInfo, 0, len(languages))
	for _, language := range languages {
		infos = append(infos, languageInfo{
			Name:       language.Name,
			Extensions: slices.Clone(language.Extensions),
			Linguist:   language.Linguist,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding languages: %w", err)
	}
	return nil
}
