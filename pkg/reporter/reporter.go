// Package reporter writes parse results as text, JSON, s-expressions or a
// statistics table.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/runner"
)

// Reporter formats and writes parse results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of syntax errors reported and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatSexpr:
		return NewSexprReporter(opts), nil
	case config.FormatTable:
		return NewTableReporter(opts), nil
	case config.FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workDir when it lies below it.
func displayPath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// sourceLine returns the 1-based line of text without its line terminator.
func sourceLine(text string, line int) string {
	for i := 1; i < line; i++ {
		next := strings.IndexByte(text, '\n')
		if next < 0 {
			return ""
		}
		text = text[next+1:]
	}
	if end := strings.IndexByte(text, '\n'); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSuffix(text, "\r")
}
