package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchemaPopulate_ColonStyle covers the colon-style populate() scenario:
// an instance string that is exactly ":userId" is replaced, preserving
// type, by the raw substitution value, while an embedded ":userId" inside
// a longer string is stringified in place.
func TestSchemaPopulate_ColonStyle(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":   map[string]interface{}{"type": "string"},
			"path": map[string]interface{}{"type": "string"},
		},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	instance := map[string]interface{}{
		"id":   ":userId",
		"path": "/users/:userId/profile",
	}

	r := schema.Populate(instance, PopulateOptions{
		Style:  InjectorColon,
		Values: map[string]interface{}{"userId": 42},
	})
	require.True(t, r.Valid())

	obj := r.Value.(map[string]interface{})
	assert.Equal(t, 42, obj["id"])
	assert.Equal(t, "/users/42/profile", obj["path"])
}

func TestSchemaPopulate_HandlebarStyle(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{"type": "string"}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	r := schema.Populate("hello {name}", PopulateOptions{
		Style:  InjectorHandlebar,
		Values: map[string]interface{}{"name": "world"},
	})
	assert.Equal(t, "hello world", r.Value)
}

// TestSchemaPopulate_Defaults covers §4.3.4's default-filling option: a
// property missing from the instance is filled from its schema's Default,
// with TemplateDefaults re-running the injector over the filled-in value,
// and Conditions gating a default behind an "x-condition" extension whose
// named Values entry is absent.
func TestSchemaPopulate_Defaults(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"host":    map[string]interface{}{"type": "string", "default": ":host"},
			"region":  map[string]interface{}{"type": "string", "default": "us-east-1", "x-condition": "enableRegion"},
		},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	opts := NewPopulateOptions(InjectorColon, map[string]interface{}{"host": "example.com"})
	r := schema.Populate(map[string]interface{}{}, opts)
	require.True(t, r.Valid())
	obj := r.Value.(map[string]interface{})
	assert.Equal(t, "example.com", obj["host"])
	assert.NotContains(t, obj, "region")
}

func TestSchemaPopulate_DepthBound(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	instance := []interface{}{":name"}
	opts := PopulateOptions{Style: InjectorColon, Values: map[string]interface{}{"name": "x"}, Depth: 1}
	r := schema.Populate(instance, opts)
	require.True(t, r.Valid())
	out := r.Value.([]interface{})
	assert.Equal(t, ":name", out[0])
}

func TestSchemaPopulate_DoubleHandlebarWholeToken(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{"type": "integer"}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	r := schema.Populate("{{count}}", PopulateOptions{
		Style:  InjectorDoubleHandlebar,
		Values: map[string]interface{}{"count": 7},
	})
	assert.Equal(t, 7, r.Value)
}
