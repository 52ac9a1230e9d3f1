package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/syntree/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	Color config.ColorMode

	// ShowTree dumps the tree of every parsed file. The sexpr format always
	// does.
	ShowTree bool

	// ShowContext includes the source line under each syntax error.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       config.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
	}
}
