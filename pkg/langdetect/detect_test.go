package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/syntree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{name: "markdown extension", path: "README.md", expected: "markdown"},
		{name: "extension is case insensitive", path: "NOTES.MARKDOWN", expected: "markdown"},
		{name: "linguist extension", path: "docs/page.mdwn", expected: "markdown"},
		{name: "expr extension", path: "a/b.calc", expected: "expr"},
		{
			name:     "markdown content",
			path:     "CHANGES",
			content:  "# Changes\n\n- fixed a bug\n- added a flag\n",
			expected: "markdown",
		},
		{
			name:     "expr content",
			path:     "script",
			content:  "// setup\nlet x = 1;\nlet f = (a) -> a * 2;\nf(x)\n",
			expected: "expr",
		},
		{name: "plain text", path: "notes", content: "just some words\n"},
		{name: "binary", path: "blob", content: "\x00\x01\x02# a\n# b\n"},
		{name: "no extension and no content", path: "Makefile"},
		{name: "unrelated extension", path: "main.go", content: "package main\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, ok := langdetect.Detect(tt.path, []byte(tt.content))
			if tt.expected == "" {
				assert.False(t, ok, "detected %q", l.Name)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.expected, l.Name)
		})
	}
}

func TestDetector_OverridesWin(t *testing.T) {
	t.Parallel()

	d := langdetect.Detector{Overrides: map[string]string{
		"md":   "expr",
		".txt": "markdown",
		".xyz": "cobol",
	}}

	l, ok := d.Detect("README.md", nil)
	assert.True(t, ok)
	assert.Equal(t, "expr", l.Name)

	l, ok = d.Detect("notes.TXT", nil)
	assert.True(t, ok)
	assert.Equal(t, "markdown", l.Name)

	_, ok = d.Detect("file.xyz", nil)
	assert.False(t, ok, "unknown override languages are ignored")
}

func TestIsVendored(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsVendored("vendor/github.com/x/y/README.md"))
	assert.True(t, langdetect.IsVendored("node_modules/pkg/readme.md"))
	assert.False(t, langdetect.IsVendored("docs/guide.md"))
}
