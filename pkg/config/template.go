package config

import (
	"bytes"
	"fmt"
	"sort"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Languages are the registered language names listed in the template.
	Languages []string

	// Extensions maps extensions to language names for the commented
	// languages section.
	Extensions map[string]string
}

// GenerateTemplate creates a commented configuration file.
// The uncommented values are the defaults, so the file parses to NewConfig.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# syntree configuration
# See: https://github.com/yaklabco/syntree

# Output format: text, json, sexpr or table
format: text

# Colored output: auto, always or never
color: auto

# Log level: debug, info, warn or error
log_level: warn

# Run builder consistency checks
debug: false

# Merge reparsed trees into the previous tree
incremental: true

# Depth at which the tree diff gives up and a full rebuild is used (0 = default)
# depth_limit: 0

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
`)

	if len(opts.Languages) > 0 {
		langs := append([]string(nil), opts.Languages...)
		sort.Strings(langs)
		fmt.Fprintf(&buf, "\n# Extension overrides. Known languages: %v\n", langs)
	} else {
		buf.WriteString("\n# Extension overrides\n")
	}
	buf.WriteString("# languages:\n")

	exts := make([]string, 0, len(opts.Extensions))
	for ext := range opts.Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&buf, "#   %q: %s\n", ext, opts.Extensions[ext])
	}

	return buf.Bytes()
}
