package analysis

import "time"

// Report contains pre-computed views of a parse run.
// Computed once by Analyze, used by every renderer.
type Report struct {
	// ByType counts tree elements per element type.
	ByType []TypeAnalysis `json:"byType,omitempty"`

	// ByMessage groups syntax errors by message.
	ByMessage []MessageAnalysis `json:"byMessage,omitempty"`

	// ByFile holds one entry per parsed file.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int   `json:"files"`
	FilesParsed     int   `json:"filesParsed"`
	FilesFailed     int   `json:"filesFailed"`
	FilesWithErrors int   `json:"filesWithSyntaxErrors"`
	SyntaxErrors    int   `json:"syntaxErrors"`
	Composites      int   `json:"composites"`
	Leaves          int   `json:"leaves"`
	MaxDepth        int   `json:"maxDepth"`
	DurationUS      int64 `json:"durationUs"`
}

// HasSyntaxErrors returns true if any tree holds error elements.
func (t Totals) HasSyntaxErrors() bool {
	return t.SyntaxErrors > 0
}

// Nodes returns the number of tree elements of the run.
func (t Totals) Nodes() int {
	return t.Composites + t.Leaves
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path         string   `json:"path"`
	Language     string   `json:"language,omitempty"`
	SyntaxErrors int      `json:"syntaxErrors"`
	Composites   int      `json:"composites"`
	Leaves       int      `json:"leaves"`
	Depth        int      `json:"depth"`
	DurationUS   int64    `json:"durationUs"`
	Messages     []string `json:"messages,omitempty"`
}

// Nodes returns the number of tree elements of the file.
func (f FileAnalysis) Nodes() int {
	return f.Composites + f.Leaves
}

// TypeAnalysis counts the elements of one type across the run.
type TypeAnalysis struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Files int    `json:"files"`
}

// MessageAnalysis counts the error elements carrying one message.
type MessageAnalysis struct {
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Files   []string `json:"files,omitempty"`
}
