package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/fsutil"
	"github.com/yaklabco/syntree/pkg/syntax"
)

// ErrUnknownLanguage is reported for files no language could be detected for.
var ErrUnknownLanguage = errors.New("unknown language")

// Run discovers files under opts.Paths and parses them concurrently.
// Outcomes come back in path order regardless of completion order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes, err := parseAll(ctx, files, jobs, func(ctx context.Context, path string) FileOutcome {
		return ParseFile(ctx, path, opts)
	})
	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	logging.FromContext(ctx).Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesWithErrors, result.Stats.FilesWithSyntaxErrors,
		logging.FieldErrorNodes, result.Stats.SyntaxErrors,
	)

	return result, nil
}

// parseAll runs parse over files on at most jobs workers. Each worker owns
// one slot, so outcomes need no lock and stay in path order. Slots of files
// skipped after cancellation stay zero.
func parseAll(
	ctx context.Context,
	files []string,
	jobs int,
	parse func(ctx context.Context, path string) FileOutcome,
) ([]FileOutcome, error) {
	outcomes := make([]FileOutcome, len(files))
	if len(files) == 0 {
		return outcomes, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = parse(groupCtx, path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return outcomes, fmt.Errorf("run cancelled: %w", err)
	}
	return outcomes, nil
}

// ParseFile reads, detects and parses one file. Failures are reported in
// the outcome, including builder usage errors raised by a grammar.
func ParseFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Text = string(content)

	language, ok := opts.detector().Detect(path, content)
	if !ok {
		outcome.Error = fmt.Errorf("%s: %w", path, ErrUnknownLanguage)
		return outcome
	}
	outcome.Language = language.Name

	start := time.Now()
	err = guard(func() error {
		return build(&outcome, language.Definition(), opts)
	})
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Release()
		outcome.Error = fmt.Errorf("%s: %w", path, err)
	}
	return outcome
}

// guard turns a builder usage panic into an error. Other panics propagate.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			uerr, ok := r.(*builder.UsageError)
			if !ok {
				panic(r)
			}
			err = uerr
		}
	}()
	return fn()
}

func build(outcome *FileOutcome, def builder.Definition, opts Options) error {
	lines := newLineIndex(outcome.Text)
	addError := func(offset int, message string) {
		line, col := lines.position(offset)
		outcome.SyntaxErrors = append(outcome.SyntaxErrors, SyntaxError{
			Offset: offset, Line: line, Column: col, Message: message,
		})
	}

	if opts.Mode == ModeLight {
		tree, err := builder.ParseLight(def, outcome.Text, opts.BuilderOptions()...)
		if err != nil {
			return err
		}
		outcome.Light = tree
		return tree.Walk(func(n builder.LightNode, depth int) error {
			if !tree.IsLeaf(n) {
				outcome.Stats.Depth = max(outcome.Stats.Depth, depth)
			}
			switch {
			case n.Type() == syntax.Error:
				outcome.Stats.Composites++
				msg, _ := n.ErrorMessage()
				addError(n.StartOffset(), msg)
			case tree.IsLeaf(n):
				outcome.Stats.Leaves++
			default:
				outcome.Stats.Composites++
			}
			return nil
		})
	}

	tree, err := builder.Parse(def, outcome.Text, opts.BuilderOptions()...)
	if err != nil {
		return err
	}
	outcome.Tree = tree
	outcome.SyntaxErrors = collectSyntaxErrors(lines, tree)
	outcome.Stats = Measure(tree)
	return nil
}

// Measure computes the shape of a heavy tree.
func Measure(tree *ast.Node) TreeStats {
	stats := TreeStats{Depth: ast.Depth(tree)}
	_ = ast.Walk(tree, func(n *ast.Node) error {
		if n.IsLeaf() || n.IsCollapsed() {
			stats.Leaves++
		} else {
			stats.Composites++
		}
		return nil
	})
	return stats
}

// SyntaxErrors lists the error elements of tree, which was parsed from
// text, in text order.
func SyntaxErrors(text string, tree *ast.Node) []SyntaxError {
	return collectSyntaxErrors(newLineIndex(text), tree)
}

func collectSyntaxErrors(lines lineIndex, tree *ast.Node) []SyntaxError {
	var out []SyntaxError
	for _, n := range ast.FindAll(tree, (*ast.Node).IsError) {
		offset := n.StartOffset()
		line, col := lines.position(offset)
		out = append(out, SyntaxError{Offset: offset, Line: line, Column: col, Message: n.ErrorMessage()})
	}
	return out
}
