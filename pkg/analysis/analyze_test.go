package analysis

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lang/expr"
	"github.com/yaklabco/syntree/pkg/runner"
)

// outcome parses text as expr the way the runner does in heavy mode.
func outcome(t *testing.T, path, text string) runner.FileOutcome {
	t.Helper()

	tree, err := builder.Parse(expr.Definition(), text, builder.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	return runner.FileOutcome{
		Path:         path,
		Language:     expr.Name,
		Text:         text,
		Tree:         tree,
		SyntaxErrors: runner.SyntaxErrors(text, tree),
		Stats:        runner.Measure(tree),
		Duration:     2 * time.Millisecond,
	}
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Zero(t, report.Totals)
	assert.Empty(t, report.ByType)
	assert.Empty(t, report.ByMessage)
	assert.Empty(t, report.ByFile)
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	require.NotNil(t, report)
	assert.Zero(t, report.Totals.Files)
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		outcome(t, "/work/a.calc", "a"),
		outcome(t, "/work/b.calc", "let x = 1;\nx +"),
		{Path: "/work/c.calc", Error: errors.New("read failed")},
	}}

	report := Analyze(result, DefaultOptions())

	totals := report.Totals
	assert.Equal(t, 3, totals.Files)
	assert.Equal(t, 2, totals.FilesParsed)
	assert.Equal(t, 1, totals.FilesFailed)
	assert.Equal(t, 1, totals.FilesWithErrors)
	assert.Equal(t, 1, totals.SyntaxErrors)
	assert.True(t, totals.HasSyntaxErrors())
	assert.Equal(t, result.Files[0].Stats.Composites+result.Files[1].Stats.Composites, totals.Composites)
	assert.Equal(t, result.Files[0].Stats.Leaves+result.Files[1].Stats.Leaves, totals.Leaves)
	assert.Equal(t, totals.Composites+totals.Leaves, totals.Nodes())
	assert.Equal(t, int64(4000), totals.DurationUS)
}

func TestAnalyze_GroupsByType(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		outcome(t, "a.calc", "a"),
		outcome(t, "b.calc", "b"),
		outcome(t, "c.calc", "let x = 1;\nx +"),
	}}

	report := Analyze(result, DefaultOptions())

	byType := make(map[string]TypeAnalysis)
	for _, ta := range report.ByType {
		byType[ta.Type] = ta
	}
	assert.Equal(t, TypeAnalysis{Type: "EXPR_FILE", Count: 3, Files: 3}, byType["EXPR_FILE"])
	assert.Equal(t, 1, byType["ERROR_ELEMENT"].Count)
	assert.Equal(t, 1, byType["ERROR_ELEMENT"].Files)

	for i := 1; i < len(report.ByType); i++ {
		assert.GreaterOrEqual(t, report.ByType[i-1].Count, report.ByType[i].Count, "descending by count")
	}
}

func TestAnalyze_GroupsByMessage(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		{Path: "/w/one.calc", SyntaxErrors: []runner.SyntaxError{
			{Message: "expression expected"}, {Message: "expression expected"}, {Message: "';' expected"},
		}},
		{Path: "/w/two.calc", SyntaxErrors: []runner.SyntaxError{{Message: "expression expected"}}},
	}}

	opts := DefaultOptions()
	opts.WorkingDir = "/w"
	report := Analyze(result, opts)

	require.Len(t, report.ByMessage, 2)
	assert.Equal(t, MessageAnalysis{
		Message: "expression expected",
		Count:   3,
		Files:   []string{"one.calc", "two.calc"},
	}, report.ByMessage[0])
	assert.Equal(t, MessageAnalysis{Message: "';' expected", Count: 1, Files: []string{"one.calc"}}, report.ByMessage[1])

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, []string{"expression expected", "';' expected"}, report.ByFile[0].Messages)
}

func TestAnalyze_SortFiles(t *testing.T) {
	t.Parallel()

	files := []runner.FileOutcome{
		{Path: "b.calc", Stats: runner.TreeStats{Composites: 5, Leaves: 5}},
		{Path: "a.calc", Stats: runner.TreeStats{Composites: 1, Leaves: 1}, SyntaxErrors: []runner.SyntaxError{{Message: "x"}}},
		{Path: "c.calc", Stats: runner.TreeStats{Composites: 20, Leaves: 1}},
	}

	tests := []struct {
		name   string
		sortBy SortField
		desc   bool
		want   []string
	}{
		{name: "count descending", sortBy: SortByCount, desc: true, want: []string{"c.calc", "b.calc", "a.calc"}},
		{name: "count ascending", sortBy: SortByCount, desc: false, want: []string{"a.calc", "b.calc", "c.calc"}},
		{name: "alpha", sortBy: SortByAlpha, desc: true, want: []string{"a.calc", "b.calc", "c.calc"}},
		{name: "errors first", sortBy: SortByErrors, desc: true, want: []string{"a.calc", "c.calc", "b.calc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy = tt.sortBy
			opts.SortDesc = tt.desc
			report := Analyze(&runner.Result{Files: files}, opts)

			paths := make([]string, 0, len(report.ByFile))
			for _, fa := range report.ByFile {
				paths = append(paths, fa.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestAnalyze_LightTrees(t *testing.T) {
	t.Parallel()

	tree, err := builder.ParseLight(expr.Definition(), "a", builder.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer tree.Release()

	report := Analyze(&runner.Result{Files: []runner.FileOutcome{{Path: "a.calc", Light: tree}}}, DefaultOptions())

	names := make([]string, 0, len(report.ByType))
	for _, ta := range report.ByType {
		names = append(names, ta.Type)
	}
	assert.ElementsMatch(t, []string{"EXPR_FILE", "EXPR_EXPR_STMT", "EXPR_REF", "EXPR_IDENT"}, names)
}

func TestAnalyze_ExcludedViews(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{outcome(t, "a.calc", "let x = 1;\nx +")}}

	report := Analyze(result, Options{SortBy: SortByCount})

	assert.Empty(t, report.ByType)
	assert.Empty(t, report.ByMessage)
	assert.Empty(t, report.ByFile)
	assert.Equal(t, 1, report.Totals.SyntaxErrors)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	for _, field := range []SortField{SortByCount, SortByAlpha, SortByErrors} {
		assert.True(t, field.IsValid(), field)
	}
	assert.False(t, SortField("severity").IsValid())
}
