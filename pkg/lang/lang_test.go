package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lang"
)

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"expr", "markdown"}, lang.Names())

	all := lang.All()
	require.Len(t, all, 2)
	assert.Equal(t, "expr", all[0].Name)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	l, ok := lang.Lookup("Markdown")
	require.True(t, ok)
	assert.Equal(t, "markdown", l.Definition().Name)

	_, ok = lang.Lookup("cobol")
	assert.False(t, ok)

	assert.Panics(t, func() { lang.MustLookup("cobol") })
}

func TestByExtension(t *testing.T) {
	t.Parallel()

	l, ok := lang.ByExtension("dir/x.CALC")
	require.True(t, ok)
	assert.Equal(t, "expr", l.Name)

	_, ok = lang.ByExtension("noext")
	assert.False(t, ok)

	assert.Equal(t, "markdown", lang.Extensions()[".md"])
}

func TestEveryLanguageParses(t *testing.T) {
	t.Parallel()

	for _, l := range lang.All() {
		t.Run(l.Name, func(t *testing.T) {
			t.Parallel()

			tree, err := builder.Parse(l.Definition(), "x\n")
			require.NoError(t, err)
			assert.Equal(t, "x\n", tree.Text())
		})
	}
}
