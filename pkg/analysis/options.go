package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by occurrence count, or node count for files.
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortByErrors puts the entries with the most syntax errors first.
	SortByErrors SortField = "errors"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortByErrors:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByType includes the element type histogram.
	IncludeByType bool

	// IncludeByMessage includes the syntax errors grouped by message.
	IncludeByMessage bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// SortBy specifies how to sort every view.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByType:    true,
		IncludeByMessage: true,
		IncludeByFile:    true,
		SortBy:           SortByCount,
		SortDesc:         true,
	}
}
