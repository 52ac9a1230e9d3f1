package runner

import (
	"sort"
	"time"

	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/builder"
)

// SyntaxError is one error element found in a parsed tree.
type SyntaxError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Composites int
	Leaves     int
	Depth      int
}

// FileOutcome is the result of parsing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Language is the name of the language the file was parsed as.
	Language string

	// Text is the file content.
	Text string

	// Tree is set in ModeHeavy.
	Tree *ast.Node

	// Light is set in ModeLight. Release it when done.
	Light *builder.LightTree

	// SyntaxErrors are the error elements of the tree in text order.
	SyntaxErrors []SyntaxError

	// Stats describes the tree.
	Stats TreeStats

	// Duration is the time spent building the tree.
	Duration time.Duration

	// Error is set if the file could not be parsed at all.
	Error error
}

// Release frees the light tree, if any.
func (o *FileOutcome) Release() {
	if o.Light != nil {
		o.Light.Release()
		o.Light = nil
	}
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesParsed is the number of files that produced a tree.
	FilesParsed int

	// FilesErrored is the number of files that produced no tree.
	FilesErrored int

	// FilesWithSyntaxErrors is the number of trees holding error elements.
	FilesWithSyntaxErrors int

	// SyntaxErrors is the total number of error elements.
	SyntaxErrors int

	// ByLanguage counts parsed files per language.
	ByLanguage map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file could not be parsed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasSyntaxErrors reports whether any tree holds error elements.
func (r *Result) HasSyntaxErrors() bool {
	return r != nil && r.Stats.SyntaxErrors > 0
}

// Release frees every light tree of the run.
func (r *Result) Release() {
	if r == nil {
		return
	}
	for i := range r.Files {
		r.Files[i].Release()
	}
}

func newStats() Stats {
	return Stats{ByLanguage: make(map[string]int)}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesParsed++
	r.Stats.ByLanguage[outcome.Language]++
	if n := len(outcome.SyntaxErrors); n > 0 {
		r.Stats.FilesWithSyntaxErrors++
		r.Stats.SyntaxErrors += n
	}
}

// lineIndex maps offsets to 1-based line and column numbers.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	starts := lineIndex{0}
	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (idx lineIndex) position(offset int) (int, int) {
	line := sort.SearchInts(idx, offset+1) - 1
	return line + 1, offset - idx[line] + 1
}
