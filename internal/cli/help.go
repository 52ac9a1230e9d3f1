package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/lang"
)

// HelpFormatter renders cobra help and usage text with the same styles the
// tree dumps use.
type HelpFormatter struct {
	styles *pretty.Styles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(mode config.ColorMode, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: pretty.NewStyles(pretty.IsColorEnabled(mode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if not .HasParent}}

{{ heading "Languages:" }}
  {{ languages }}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}{{if or .Runnable .HasSubCommands}}{{ usage . }}{{end}}`

// funcs returns the template functions the help templates use.
func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":   h.styles.SummaryTitle.Render,
		"command":   h.styles.Composite.Render,
		"dim":       h.styles.Dim.Render,
		"flags":     h.styleFlags,
		"languages": func() string { return strings.Join(lang.Names(), ", ") },
		"trim":      func(s string) string { return strings.TrimRight(s, " \t\n") },
		"rpad": func(s string, n int) string {
			if len(s) >= n {
				return s
			}
			return s + strings.Repeat(" ", n-len(s))
		},
	}
}

// styleFlags colors the flag names of pflag usage output and leaves the
// descriptions and alignment untouched.
func (h *HelpFormatter) styleFlags(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		end := strings.Index(body, "  ")
		if end < 0 {
			continue
		}
		words := strings.Fields(body[:end])
		for j, word := range words {
			if strings.HasPrefix(word, "-") {
				name, comma := strings.CutSuffix(word, ",")
				words[j] = h.styles.Token.Render(name)
				if comma {
					words[j] += ","
				}
			} else {
				words[j] = h.styles.Dim.Render(word)
			}
		}
		lines[i] = indent + strings.Join(words, " ") + body[end:]
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// inherits them in every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	funcs["usage"] = func(c *cobra.Command) (string, error) {
		var sb strings.Builder
		err := usage.Execute(&sb, c)
		return sb.String(), err
	}
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return usage.Execute(c.OutOrStderr(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}
