package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopCodec() *FormatCodec {
	return &FormatCodec{
		Deserialize: func(ctx *Context, raw interface{}) (interface{}, error) { return raw, nil },
		Serialize:   func(ctx *Context, value interface{}) (interface{}, error) { return value, nil },
		Validate:    func(ctx *Context, value interface{}) error { return nil },
	}
}

func TestDataTypeRegistry_DefineAndLookup(t *testing.T) {
	r := NewDataTypeRegistry(nil)
	require.NoError(t, r.Define("string", "upc", noopCodec()))

	codec, ok := r.Lookup("string", "upc")
	assert.True(t, ok)
	assert.NotNil(t, codec)
}

func TestDataTypeRegistry_RejectsUnknownPrimitive(t *testing.T) {
	r := NewDataTypeRegistry(nil)
	err := r.Define("widget", "upc", noopCodec())
	assert.ErrorIs(t, err, ErrUnknownPrimitiveType)
}

func TestDataTypeRegistry_RejectsDuplicate(t *testing.T) {
	r := NewDataTypeRegistry(nil)
	require.NoError(t, r.Define("string", "upc", noopCodec()))
	err := r.Define("string", "upc", noopCodec())
	assert.ErrorIs(t, err, ErrDuplicateFormat)
}

func TestDataTypeRegistry_DeregisterWithNil(t *testing.T) {
	r := NewDataTypeRegistry(nil)
	require.NoError(t, r.Define("string", "upc", noopCodec()))
	require.NoError(t, r.Define("string", "upc", nil))

	_, ok := r.Lookup("string", "upc")
	assert.False(t, ok)
}

func TestDataTypeRegistry_WarnsOnceForMissingConstructors(t *testing.T) {
	var warnings int
	r := NewDataTypeRegistry(func(typ, format string) { warnings++ })
	require.NoError(t, r.Define("string", "upc", noopCodec()))

	r.Lookup("string", "upc")
	r.Lookup("string", "upc")
	assert.Equal(t, 1, warnings)
}
