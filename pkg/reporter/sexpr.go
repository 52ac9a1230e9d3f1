package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/syntree/pkg/runner"
)

// SexprReporter writes each tree as one s-expression line under a
// "; path" comment. Heavy trees render through ast.Node.String.
type SexprReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSexprReporter creates a new s-expression reporter.
func NewSexprReporter(opts Options) *SexprReporter {
	return &SexprReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SexprReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for i := range result.Files {
		file := &result.Files[i]
		fmt.Fprintf(r.bw, "; %s\n", displayPath(file.Path, r.opts.WorkingDir))

		switch {
		case file.Error != nil:
			fmt.Fprintf(r.bw, "; error: %v\n", file.Error)
		case file.Tree != nil:
			fmt.Fprintln(r.bw, file.Tree.String())
		case file.Light != nil:
			fmt.Fprintln(r.bw, outcomeView(file).sexpr())
		}
	}

	return result.Stats.SyntaxErrors, nil
}
