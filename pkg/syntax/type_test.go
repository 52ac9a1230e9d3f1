package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntree/pkg/syntax"
)

var (
	testIdent    = syntax.Register("TEST_IDENT")
	testBound    = syntax.Register("TEST_BOUND", syntax.LeftBound())
	testIndent   = syntax.Register("TEST_INDENT", syntax.ZeroLengthLeaf())
	testChunk    = syntax.Register("TEST_CHUNK", syntax.Lazy())
	testWrapped  = syntax.Register("TEST_WRAPPED", syntax.WrapperOf(testIdent, "it"))
	testWrapped2 = syntax.Register("TEST_WRAPPED2", syntax.WrapperOf(testWrapped, "it"))
)

func TestRegister_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		typ   syntax.ElementType
		flags syntax.Flags
	}{
		{"plain", testIdent, 0},
		{"left bound", testBound, syntax.FlagLeftBound},
		{"zero length leaf", testIndent, syntax.FlagLeaf},
		{"lazy", testChunk, syntax.FlagLazy},
		{"wrapper", testWrapped, syntax.FlagWrapper | syntax.FlagLeaf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.flags, tt.typ.Flags())
		})
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		syntax.Register("TEST_IDENT")
	})
}

func TestElementType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TEST_IDENT", testIdent.String())
	assert.Equal(t, "ERROR_ELEMENT", syntax.Error.String())
	assert.Equal(t, "NONE", syntax.None.String())
	assert.Equal(t, "ElementType(65000)", syntax.ElementType(65000).String())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	got, ok := syntax.Lookup("TEST_BOUND")
	require.True(t, ok)
	assert.Equal(t, testBound, got)

	_, ok = syntax.Lookup("NO_SUCH_TYPE")
	assert.False(t, ok)
}

func TestElementType_Deref(t *testing.T) {
	t.Parallel()

	assert.Equal(t, testIdent, testWrapped.Deref())
	assert.Equal(t, testIdent, testWrapped2.Deref())
	assert.Equal(t, testIdent, testIdent.Deref())

	value, ok := testWrapped.WrapperValue()
	require.True(t, ok)
	assert.Equal(t, "it", value)

	_, ok = testIdent.WrapperValue()
	assert.False(t, ok)
}

func TestElementType_Predicates(t *testing.T) {
	t.Parallel()

	assert.True(t, testBound.IsLeftBound())
	assert.False(t, testIdent.IsLeftBound())
	assert.True(t, testChunk.IsLazy())
	assert.True(t, testWrapped.IsWrapper())
	assert.True(t, testWrapped.Has(syntax.FlagLeaf))
}
