package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/syntree/internal/ui/pretty"
)

func TestFormatSyntaxError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t,
		"  a.calc:2:4  error  expression expected\n        x +\n           ^\n",
		styles.FormatSyntaxError("a.calc", 2, 4, "expression expected", "x +"))

	assert.Equal(t,
		"  a.calc:1:1  error  statement expected\n",
		styles.FormatSyntaxError("a.calc", 1, 1, "statement expected", ""))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.md (markdown)", styles.FormatFileHeader("a.md", "markdown", 0))
	assert.Equal(t, "a.calc (expr, 1 syntax error)", styles.FormatFileHeader("a.calc", "expr", 1))
	assert.Equal(t, "a.calc (expr, 2 syntax errors)", styles.FormatFileHeader("a.calc", "expr", 2))
	assert.Equal(t, "notes", styles.FormatFileHeader("notes", "", 0))
}
