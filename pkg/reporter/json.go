package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/syntree/pkg/runner"
)

// jsonVersion is the schema version of JSON output.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path         string            `json:"path"`
	Language     string            `json:"language,omitempty"`
	SyntaxErrors []JSONSyntaxError `json:"syntaxErrors"`
	Stats        *JSONTreeStats    `json:"stats,omitempty"`
	Tree         *JSONNode         `json:"tree,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// JSONSyntaxError represents a single error element.
type JSONSyntaxError struct {
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// JSONTreeStats describes the shape of a tree.
type JSONTreeStats struct {
	Composites int   `json:"composites"`
	Leaves     int   `json:"leaves"`
	Depth      int   `json:"depth"`
	DurationUS int64 `json:"durationUs"`
}

// JSONNode is one node of a tree dump.
type JSONNode struct {
	Type     string      `json:"type"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Text     *string     `json:"text,omitempty"`
	Lazy     bool        `json:"lazy,omitempty"`
	Error    string      `json:"error,omitempty"`
	Children []*JSONNode `json:"children,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesParsed     int            `json:"filesParsed"`
	FilesErrored    int            `json:"filesErrored"`
	FilesWithErrors int            `json:"filesWithSyntaxErrors"`
	SyntaxErrors    int            `json:"syntaxErrors"`
	ByLanguage      map[string]int `json:"byLanguage"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.SyntaxErrors, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByLanguage: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesParsed = stats.FilesParsed
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesWithErrors = stats.FilesWithSyntaxErrors
	output.Summary.SyntaxErrors = stats.SyntaxErrors
	for language, count := range stats.ByLanguage {
		output.Summary.ByLanguage[language] = count
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for i := range result.Files {
		output.Files = append(output.Files, r.fileResult(&result.Files[i]))
	}

	return output
}

func (r *JSONReporter) fileResult(file *runner.FileOutcome) JSONFileResult {
	fileResult := JSONFileResult{
		Path:         displayPath(file.Path, r.opts.WorkingDir),
		Language:     file.Language,
		SyntaxErrors: make([]JSONSyntaxError, 0, len(file.SyntaxErrors)),
	}

	if file.Error != nil {
		fileResult.Error = file.Error.Error()
		return fileResult
	}

	for _, syntaxErr := range file.SyntaxErrors {
		fileResult.SyntaxErrors = append(fileResult.SyntaxErrors, JSONSyntaxError(syntaxErr))
	}

	fileResult.Stats = &JSONTreeStats{
		Composites: file.Stats.Composites,
		Leaves:     file.Stats.Leaves,
		Depth:      file.Stats.Depth,
		DurationUS: file.Duration.Microseconds(),
	}

	if r.opts.ShowTree {
		if view := outcomeView(file); view != nil {
			fileResult.Tree = jsonNode(view)
		}
	}

	return fileResult
}

func jsonNode(view *viewNode) *JSONNode {
	node := &JSONNode{
		Type:  view.Type,
		Start: view.Start,
		End:   view.End,
		Lazy:  view.Lazy,
		Error: view.Message,
	}
	if view.Token {
		text := view.Text
		node.Text = &text
	}
	for _, kid := range view.Kids {
		node.Children = append(node.Children, jsonNode(kid))
	}
	return node
}
