package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRandom_RejectsOutOfRangePossibility(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	result, exc, _ := root.Normalize(map[string]interface{}{"type": "string"}, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	opts := DefaultRandomOptions()
	opts.DefaultPossibility = 1.5
	r := schema.Random(opts)
	assert.True(t, r.Exception.HasException())
}

func TestSchemaRandom_RequiredPropertiesAlwaysPresent(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":   map[string]interface{}{"type": "string"},
			"note": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"id"},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	opts := DefaultRandomOptions()
	opts.DefinedPropertyPossibility = 0
	r := schema.Random(opts)
	require.True(t, r.Valid())
	obj := r.Value.(map[string]interface{})
	assert.Contains(t, obj, "id")
	assert.NotContains(t, obj, "note")
}

func TestSchemaRandom_ArrayHonorsMinItemsAndVariation(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":     "array",
		"items":    map[string]interface{}{"type": "integer"},
		"minItems": 2,
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	opts := DefaultRandomOptions()
	opts.ArrayVariation = 1
	r := schema.Random(opts)
	require.True(t, r.Valid())
	out := r.Value.([]interface{})
	assert.GreaterOrEqual(t, len(out), 2)
}

func TestSchemaRandom_MaxDepthBoundsNestedArrays(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"minItems": 1,
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	opts := DefaultRandomOptions()
	opts.MaxDepth = 1
	opts.ArrayVariation = 1
	r := schema.Random(opts)
	require.True(t, r.Valid())
	out := r.Value.([]interface{})
	require.Len(t, out, 1)
	inner := out[0].([]interface{})
	assert.Empty(t, inner)
}
