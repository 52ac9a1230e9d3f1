// Package runner parses many files concurrently.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/langdetect"
)

// Mode selects which tree the runner builds.
type Mode uint8

const (
	// ModeHeavy builds ast.Node trees.
	ModeHeavy Mode = iota

	// ModeLight builds light trees. Outcomes must be released.
	ModeLight
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// They combine the config ignore list and --ignore.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// IncludeVendored keeps files go-enry classifies as vendored.
	IncludeVendored bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Mode selects heavy or light trees.
	Mode Mode

	// Config is the resolved configuration for this run.
	Config *config.Config

	// Logger receives builder diagnostics. Nil means the builder default.
	Logger *log.Logger
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// detector returns a language detector honouring configured overrides.
func (o Options) detector() langdetect.Detector {
	if o.Config == nil {
		return langdetect.Detector{}
	}
	return langdetect.Detector{Overrides: o.Config.Languages}
}

// BuilderOptions converts the configuration into builder options.
func (o Options) BuilderOptions() []builder.Option {
	var opts []builder.Option
	if o.Config != nil {
		opts = append(opts,
			builder.WithDebug(o.Config.DebugEnabled()),
			builder.WithDepthLimit(o.Config.DepthLimit),
		)
	}
	if o.Logger != nil {
		opts = append(opts, builder.WithLogger(o.Logger))
	}
	return opts
}
