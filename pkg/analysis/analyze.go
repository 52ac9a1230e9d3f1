// Package analysis aggregates a parse run into per-type, per-message and
// per-file views.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	typeMap      map[string]*TypeAnalysis
	messageMap   map[string]*MessageAnalysis
	messageFiles map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		typeMap:      make(map[string]*TypeAnalysis),
		messageMap:   make(map[string]*MessageAnalysis),
		messageFiles: make(map[string]map[string]bool),
	}
}

// countTypes adds the element types of one file to the histogram. Each type
// counts the file once.
func (ctx *analysisContext) countTypes(counts map[string]int) {
	for name, n := range counts {
		ta, ok := ctx.typeMap[name]
		if !ok {
			ta = &TypeAnalysis{Type: name}
			ctx.typeMap[name] = ta
		}
		ta.Count += n
		ta.Files++
	}
}

func (ctx *analysisContext) addMessage(path, message string) {
	ma, ok := ctx.messageMap[message]
	if !ok {
		ma = &MessageAnalysis{Message: message}
		ctx.messageMap[message] = ma
		ctx.messageFiles[message] = make(map[string]bool)
	}
	ma.Count++
	ctx.messageFiles[message][path] = true
}

// typeCounts counts the elements of the tree held by file.
func typeCounts(file *runner.FileOutcome) map[string]int {
	counts := make(map[string]int)
	switch {
	case file.Tree != nil:
		//nolint:errcheck // The visitor never fails.
		ast.Walk(file.Tree, func(n *ast.Node) error {
			counts[n.Type.String()]++
			return nil
		})
	case file.Light != nil:
		//nolint:errcheck // A failed lazy expansion only truncates the histogram.
		file.Light.Walk(func(n builder.LightNode, _ int) error {
			counts[n.Type().String()]++
			return nil
		})
	}
	return counts
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the files.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for i := range result.Files {
		file := &result.Files[i]
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesFailed++
			continue
		}
		report.Totals.FilesParsed++

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{
			Path:         displayPath,
			Language:     file.Language,
			SyntaxErrors: len(file.SyntaxErrors),
			Composites:   file.Stats.Composites,
			Leaves:       file.Stats.Leaves,
			Depth:        file.Stats.Depth,
			DurationUS:   file.Duration.Microseconds(),
		}

		totals := &report.Totals
		totals.Composites += fa.Composites
		totals.Leaves += fa.Leaves
		totals.MaxDepth = max(totals.MaxDepth, fa.Depth)
		totals.DurationUS += fa.DurationUS
		if fa.SyntaxErrors > 0 {
			totals.FilesWithErrors++
			totals.SyntaxErrors += fa.SyntaxErrors
		}

		seen := make(map[string]bool)
		for _, syntaxErr := range file.SyntaxErrors {
			ctx.addMessage(displayPath, syntaxErr.Message)
			if !seen[syntaxErr.Message] {
				seen[syntaxErr.Message] = true
				fa.Messages = append(fa.Messages, syntaxErr.Message)
			}
		}

		if opts.IncludeByType {
			ctx.countTypes(typeCounts(file))
		}
		if opts.IncludeByFile {
			report.ByFile = append(report.ByFile, fa)
		}
	}

	if opts.IncludeByType {
		report.ByType = ctx.buildByType(opts)
	}
	if opts.IncludeByMessage {
		report.ByMessage = ctx.buildByMessage(opts)
	}
	sortFileAnalysis(report.ByFile, opts.SortBy, opts.SortDesc)

	return report
}

func (ctx *analysisContext) buildByType(opts Options) []TypeAnalysis {
	result := make([]TypeAnalysis, 0, len(ctx.typeMap))
	for _, ta := range ctx.typeMap {
		result = append(result, *ta)
	}
	slices.SortFunc(result, func(left, right TypeAnalysis) int {
		return compareCounted(left.Type, right.Type, left.Count, right.Count, opts)
	})
	return result
}

func (ctx *analysisContext) buildByMessage(opts Options) []MessageAnalysis {
	result := make([]MessageAnalysis, 0, len(ctx.messageMap))
	for message, ma := range ctx.messageMap {
		for f := range ctx.messageFiles[message] {
			ma.Files = append(ma.Files, f)
		}
		slices.Sort(ma.Files)
		result = append(result, *ma)
	}
	slices.SortFunc(result, func(left, right MessageAnalysis) int {
		return compareCounted(left.Message, right.Message, left.Count, right.Count, opts)
	})
	return result
}

// compareCounted orders named counts. Ties and SortByAlpha fall back to the
// name so the output is stable.
func compareCounted(leftName, rightName string, leftCount, rightCount int, opts Options) int {
	if opts.SortBy == SortByAlpha {
		return cmp.Compare(leftName, rightName)
	}
	result := cmp.Compare(leftCount, rightCount)
	if opts.SortDesc {
		result = -result
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Path, right.Path)
		case SortByErrors:
			result = cmp.Compare(right.SyntaxErrors, left.SyntaxErrors)
			if result == 0 {
				result = cmp.Compare(right.Nodes(), left.Nodes())
			}
		default: // SortByCount
			result = cmp.Compare(left.Nodes(), right.Nodes())
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
