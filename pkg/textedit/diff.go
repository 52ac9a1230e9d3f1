package textedit

import (
	"fmt"
	"strings"
)

// LineKind classifies a line of a hunk.
type LineKind int

const (
	// Context is a line both versions share.
	Context LineKind = iota
	// Added is a line only the new version has.
	Added
	// Removed is a line only the old version has.
	Removed
)

// prefix is the unified diff marker for the kind.
func (k LineKind) prefix() byte {
	switch k {
	case Added:
		return '+'
	case Removed:
		return '-'
	default:
		return ' '
	}
}

// Line is one line of a hunk, without its newline.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is a line-level unified diff between two versions of a document.
type Diff struct {
	Path    string
	Hunks   []Hunk
	Added   int
	Removed int
}

// ContextLines is the number of unchanged lines kept around each change.
const ContextLines = 3

// NewDiff compares before and after line by line. It returns nil when the
// two have the same lines.
func NewDiff(path, before, after string) *Diff {
	oldLines, newLines := splitLines(before), splitLines(after)

	ops := diffLines(oldLines, newLines)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case Added:
			diff.Added++
		case Removed:
			diff.Removed++
		}
	}
	return diff
}

// HasChanges reports whether d holds at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders d in unified format with a/ and b/ prefixed headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			sb.WriteByte(line.Kind.prefix())
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitLines splits text on '\n', dropping the empty tail after a final
// newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// diffLines computes an edit script over lines from a longest common
// subsequence table, preferring removals before additions.
func diffLines(oldLines, newLines []string) []Line {
	rows, cols := len(oldLines), len(newLines)

	// lcs[i][j] is the LCS length of oldLines[i:] and newLines[j:].
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, max(rows, cols))
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && oldLines[i] == newLines[j]:
			ops = append(ops, Line{Kind: Context, Text: oldLines[i]})
			i++
			j++
		case i < rows && (j == cols || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, Line{Kind: Removed, Text: oldLines[i]})
			i++
		default:
			ops = append(ops, Line{Kind: Added, Text: newLines[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts ops into hunks. Changes separated by at most twice the
// context share a hunk.
func groupHunks(ops []Line) []Hunk {
	var hunks []Hunk

	for pos := 0; pos < len(ops); {
		first := nextChange(ops, pos)
		if first < 0 {
			break
		}

		last := first
		for {
			next := nextChange(ops, last+1)
			if next < 0 || next-last-1 > 2*ContextLines {
				break
			}
			last = next
		}

		from := max(first-ContextLines, 0)
		to := min(last+1+ContextLines, len(ops))
		hunks = append(hunks, newHunk(ops, from, to))
		pos = to
	}
	return hunks
}

func nextChange(ops []Line, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i].Kind != Context {
			return i
		}
	}
	return -1
}

func newHunk(ops []Line, from, to int) Hunk {
	hunk := Hunk{OldStart: 1, NewStart: 1}
	for _, op := range ops[:from] {
		if op.Kind != Added {
			hunk.OldStart++
		}
		if op.Kind != Removed {
			hunk.NewStart++
		}
	}

	hunk.Lines = ops[from:to]
	for _, op := range hunk.Lines {
		if op.Kind != Added {
			hunk.OldCount++
		}
		if op.Kind != Removed {
			hunk.NewCount++
		}
	}
	// An empty side starts at the line before, as diff(1) prints it.
	if hunk.OldCount == 0 {
		hunk.OldStart--
	}
	if hunk.NewCount == 0 {
		hunk.NewStart--
	}
	return hunk
}
