package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/config"
)

func TestFromTOML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromTOML([]byte(`
format = "sexpr"
debug = true
depth_limit = 40
ignore = ["vendor/**"]

[languages]
".calc" = "expr"
`))
	require.NoError(t, err)
	assert.Equal(t, config.FormatSexpr, cfg.Format)
	assert.True(t, cfg.DebugEnabled())
	assert.True(t, cfg.IncrementalEnabled())
	assert.Equal(t, 40, cfg.DepthLimit)
	assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)
	assert.Equal(t, map[string]string{".calc": "expr"}, cfg.Languages)

	empty, err := config.FromTOML(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Languages)

	_, err = config.FromTOML([]byte("format = "))
	require.Error(t, err)
}

func TestToTOML(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"build/**"}
	cfg.Languages[".txt"] = "markdown"

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "format = ")

	back, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	var nilCfg *config.Config
	data, err = nilCfg.ToTOML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestToTOMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToTOMLWithHeader("# generated")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# generated\n\n"))

	back, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FormatText, back.Format)
}
