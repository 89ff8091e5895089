package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SimpleObjectSchema(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"age":  map[string]interface{}{"type": "integer"},
		},
		"required": []interface{}{"name"},
	}

	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())

	schema, ok := result.(*Schema)
	require.True(t, ok)
	assert.Equal(t, []string{"object"}, schema.Type)
	assert.Contains(t, schema.Properties, "name")
	assert.Contains(t, schema.Properties, "age")
	assert.Equal(t, []string{"name"}, schema.Required)
}

// TestNormalize_SelfReferentialCycle covers the cycle scenario: a schema
// whose "properties.self" map is the very same Go map value as the schema's own
// definition (as would occur once a $ref is resolved back to an ancestor)
// must normalize to the identical *Schema instance, not recurse forever.
func TestNormalize_SelfReferentialCycle(t *testing.T) {
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	}
	def["properties"].(map[string]interface{})["self"] = def

	root := NewRootEnforcer(3, 0, 0)
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())

	schema := result.(*Schema)
	selfSchema := schema.Properties["self"]
	require.NotNil(t, selfSchema)
	assert.Same(t, schema, selfSchema)
}

func TestNormalize_UnknownFormatWarns(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":   "string",
		"format": "totally-made-up-format",
	}
	result, exc, warn := root.Normalize(def, "schema")
	require.False(t, exc.HasException())

	schema := result.(*Schema)
	r := schema.Validate("hello")
	assert.True(t, r.Valid())
	assert.True(t, r.Warning.HasException())
	_ = warn
}

func TestNormalize_CompositeConflictRejected(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"allOf": []interface{}{
			map[string]interface{}{"type": "object"},
		},
		"oneOf": []interface{}{
			map[string]interface{}{"type": "object"},
		},
	}
	_, exc, _ := root.Normalize(def, "schema")
	assert.True(t, exc.HasException())
}
