package textedit_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/textedit"
)

func numbered(from, to int, replace map[int]string) string {
	var sb strings.Builder
	for i := from; i <= to; i++ {
		if text, ok := replace[i]; ok {
			sb.WriteString(text + "\n")
			continue
		}
		fmt.Fprintf(&sb, "l%d\n", i)
	}
	return sb.String()
}

func TestNewDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "single change",
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want:   "--- a/f.md\n+++ b/f.md\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		},
		{
			name:   "new document",
			before: "",
			after:  "x\n",
			want:   "--- a/f.md\n+++ b/f.md\n@@ -0,0 +1,1 @@\n+x\n",
		},
		{
			name:   "emptied document",
			before: "x\ny\n",
			after:  "",
			want:   "--- a/f.md\n+++ b/f.md\n@@ -1,2 +0,0 @@\n-x\n-y\n",
		},
		{
			name:   "distant changes make two hunks",
			before: numbered(1, 20, nil),
			after:  numbered(1, 20, map[int]string{2: "X", 18: "Y"}),
			want: "--- a/f.md\n+++ b/f.md\n" +
				"@@ -1,5 +1,5 @@\n l1\n-l2\n+X\n l3\n l4\n l5\n" +
				"@@ -15,6 +15,6 @@\n l15\n l16\n l17\n-l18\n+Y\n l19\n l20\n",
		},
		{
			name:   "near changes share a hunk",
			before: numbered(1, 8, nil),
			after:  numbered(1, 8, map[int]string{1: "A", 8: "H"}),
			want: "--- a/f.md\n+++ b/f.md\n" +
				"@@ -1,8 +1,8 @@\n-l1\n+A\n l2\n l3\n l4\n l5\n l6\n l7\n-l8\n+H\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			diff := textedit.NewDiff("f.md", testCase.before, testCase.after)
			require.True(t, diff.HasChanges())
			assert.Equal(t, testCase.want, diff.String())
		})
	}
}

func TestNewDiffCounts(t *testing.T) {
	t.Parallel()

	diff := textedit.NewDiff("/abs/f.md", "a\nb\n", "a\nc\nd\n")
	require.NotNil(t, diff)
	assert.Equal(t, 2, diff.Added)
	assert.Equal(t, 1, diff.Removed)
	assert.True(t, strings.HasPrefix(diff.String(), "--- a/abs/f.md\n+++ b/abs/f.md\n"))
}

func TestNewDiffWithoutChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, textedit.NewDiff("f.md", "", ""))
	assert.Nil(t, textedit.NewDiff("f.md", "a\nb\n", "a\nb\n"))
	assert.Nil(t, textedit.NewDiff("f.md", "a", "a\n"), "a final newline is not a line")

	var diff *textedit.Diff
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
}
