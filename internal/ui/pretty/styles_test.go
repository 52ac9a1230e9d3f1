package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/internal/ui/pretty"
	"github.com/yaklabco/syntree/pkg/config"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("test"),
		styles.Error.Render("test"),
		styles.Composite.Render("test"),
		styles.TokenText.Render("test"),
	} {
		assert.Equal(t, "test", rendered, "no-color styles must not add formatting")
	}
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss drops ANSI codes when stdout is not a terminal, so only the
	// text itself is checked.
	assert.Contains(t, styles.ErrorNode.Render("x"), "x")
	assert.Contains(t, styles.Lazy.Render("x"), "x")
	assert.Contains(t, styles.DiffAdd.Render("x"), "x")
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled(config.ColorAlways, &buf))
	assert.False(t, pretty.IsColorEnabled(config.ColorNever, os.Stdout))
	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, &buf), "a buffer is not a terminal")
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode behaves like auto")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, os.Stdout))
}
