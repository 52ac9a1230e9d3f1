package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/lang/expr"
	"github.com/yaklabco/syntree/pkg/reporter"
	"github.com/yaklabco/syntree/pkg/runner"
)

func quiet() builder.Option {
	return builder.WithLogger(log.New(io.Discard))
}

func heavyOutcome(t *testing.T, path, text string) runner.FileOutcome {
	t.Helper()

	tree, err := builder.Parse(expr.Definition(), text, quiet())
	require.NoError(t, err)
	return runner.FileOutcome{
		Path:         path,
		Language:     expr.Name,
		Text:         text,
		Tree:         tree,
		SyntaxErrors: runner.SyntaxErrors(text, tree),
		Stats:        runner.Measure(tree),
		Duration:     time.Millisecond,
	}
}

func failedOutcome(path string) runner.FileOutcome {
	return runner.FileOutcome{Path: path, Error: errors.New("boom")}
}

func newResult(outcomes ...runner.FileOutcome) *runner.Result {
	result := &runner.Result{Files: outcomes, Stats: runner.Stats{ByLanguage: map[string]int{}}}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			result.Stats.FilesErrored++
			continue
		}
		result.Stats.FilesParsed++
		result.Stats.ByLanguage[outcome.Language]++
		if n := len(outcome.SyntaxErrors); n > 0 {
			result.Stats.FilesWithSyntaxErrors++
			result.Stats.SyntaxErrors += n
		}
	}
	return result
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = config.ColorNever

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), count
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  config.OutputFormat
		wantErr bool
	}{
		{name: "text reporter", format: config.FormatText},
		{name: "json reporter", format: config.FormatJSON},
		{name: "sexpr reporter", format: config.FormatSexpr},
		{name: "table reporter", format: config.FormatTable},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: io.Discard, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	result := newResult(
		heavyOutcome(t, "a.calc", "let x = 1;\nx +"),
		heavyOutcome(t, "b.calc", "a"),
		failedOutcome("c.calc"),
	)

	out, count := report(t, reporter.Options{ShowContext: true, ShowSummary: true}, result)
	assert.Equal(t, 1, count)
	assert.Equal(t, "a.calc (expr, 1 syntax error)\n"+
		"  a.calc:2:4  error  expression expected\n"+
		"        x +\n"+
		"           ^\n"+
		"\n"+
		"c.calc: error: boom\n"+
		"1 syntax error in 1 file, 1 file not parsed (2 files parsed)\n", out)
}

func TestTextReporter_ShowTree(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{ShowTree: true, ShowSummary: true}, newResult(heavyOutcome(t, "b.calc", "a")))
	assert.Zero(t, count)
	assert.Equal(t, "b.calc (expr)\n"+
		"FILE [0,1)\n"+
		"  EXPR_STMT [0,1)\n"+
		"    REF [0,1)\n"+
		"      IDENT [0,1) \"a\"\n"+
		"\n"+
		"No syntax errors (1 file parsed)\n", out)
}

func TestTextReporter_NoFiles(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{ShowSummary: true}, &runner.Result{})
	assert.Zero(t, count)
	assert.Equal(t, "No files to parse.\n", out)
}

func TestTextReporter_RelativePaths(t *testing.T) {
	t.Parallel()

	result := newResult(heavyOutcome(t, "/work/src/a.calc", "x +"))
	out, _ := report(t, reporter.Options{WorkingDir: "/work"}, result)
	assert.Contains(t, out, "src/a.calc (expr, 1 syntax error)")
	assert.NotContains(t, out, "/work")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result := newResult(
		heavyOutcome(t, "a.calc", "let x = 1;\nx +"),
		heavyOutcome(t, "b.calc", "a"),
		failedOutcome("c.calc"),
	)

	out, count := report(t, reporter.Options{Format: config.FormatJSON, ShowTree: true}, result)
	assert.Equal(t, 1, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	assert.Equal(t, "1.0.0", output.Version)
	require.Len(t, output.Files, 3)

	assert.Equal(t, []reporter.JSONSyntaxError{{Offset: 14, Line: 2, Column: 4, Message: "expression expected"}},
		output.Files[0].SyntaxErrors)

	clean := output.Files[1]
	assert.Empty(t, clean.SyntaxErrors)
	require.NotNil(t, clean.Stats)
	assert.Equal(t, reporter.JSONTreeStats{Composites: 3, Leaves: 1, Depth: 2, DurationUS: 1000}, *clean.Stats)
	require.NotNil(t, clean.Tree)
	assert.Equal(t, "FILE", clean.Tree.Type)
	leaf := clean.Tree.Children[0].Children[0].Children[0]
	require.NotNil(t, leaf.Text)
	assert.Equal(t, "a", *leaf.Text)

	assert.Equal(t, "boom", output.Files[2].Error)
	assert.Nil(t, output.Files[2].Stats)

	assert.Equal(t, reporter.JSONSummary{
		FilesDiscovered: 3,
		FilesParsed:     2,
		FilesErrored:    1,
		FilesWithErrors: 1,
		SyntaxErrors:    1,
		ByLanguage:      map[string]int{"expr": 2},
	}, output.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: config.FormatJSON, Compact: true}, newResult(heavyOutcome(t, "b.calc", "a")))
	assert.NotContains(t, out, "\n  ")
	assert.NotContains(t, out, `"tree"`)
}

func TestSexprReporter(t *testing.T) {
	t.Parallel()

	ok := heavyOutcome(t, "a.calc", "let x = 1;\nx +")
	out, count := report(t, reporter.Options{Format: config.FormatSexpr}, newResult(ok, failedOutcome("c.calc")))
	assert.Equal(t, 1, count)
	assert.Equal(t, "; a.calc\n"+ok.Tree.String()+"\n; c.calc\n; error: boom\n", out)
}

func TestSexprReporter_LightTreeMatchesHeavyTree(t *testing.T) {
	t.Parallel()

	text := "let f = (a, b) -> a * b; // twice\nf(1, ) +"
	heavy := heavyOutcome(t, "a.calc", text)

	light, err := builder.ParseLight(expr.Definition(), text, quiet())
	require.NoError(t, err)
	defer light.Release()

	out, _ := report(t, reporter.Options{Format: config.FormatSexpr},
		newResult(runner.FileOutcome{Path: "a.calc", Language: expr.Name, Text: text, Light: light}))
	assert.Equal(t, "; a.calc\n"+heavy.Tree.String()+"\n", out)
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	result := newResult(
		heavyOutcome(t, "a.calc", "let x = 1;\nx +"),
		failedOutcome("c.calc"),
	)

	out, count := report(t, reporter.Options{Format: config.FormatTable, ShowSummary: true}, result)
	assert.Equal(t, 1, count)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "a.calc")
	assert.Contains(t, out, "  boom\n")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "  Syntax errors:     1\n")
}
