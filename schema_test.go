package enforcer

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate_MinGreaterThanMaxRejected(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":    "number",
		"minimum": json.Number("10"),
		"maximum": json.Number("1"),
	}
	_, exc, _ := root.Normalize(def, "schema")
	assert.True(t, exc.HasException())
}

func TestSchemaValidate_NumericBounds(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":    "integer",
		"minimum": json.Number("1"),
		"maximum": json.Number("10"),
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	assert.True(t, schema.Validate(json.Number("5")).Valid())
	assert.False(t, schema.Validate(json.Number("50")).Valid())
	assert.False(t, schema.Validate(json.Number("0")).Valid())
}

func TestSchemaValidate_RequiredAndAdditionalProperties(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{"type": "string"},
		},
		"required":             []interface{}{"id"},
		"additionalProperties": false,
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	ok := schema.Validate(map[string]interface{}{"id": "abc"})
	assert.True(t, ok.Valid())

	missing := schema.Validate(map[string]interface{}{})
	assert.False(t, missing.Valid())

	extra := schema.Validate(map[string]interface{}{"id": "abc", "extra": 1})
	assert.False(t, extra.Valid())
}

// TestNormalizeObject_WeightOrderingInvariance checks that regardless of
// the order keys appear in the raw map (Go map iteration order is
// randomized), "type" is always resolved before "maximum"/"minimum" so the
// composite/bounds cross-check in Errors always sees a fully-decoded
// sibling set.
func TestNormalizeObject_WeightOrderingInvariance(t *testing.T) {
	for i := 0; i < 5; i++ {
		root := NewRootEnforcer(3, 0, 0)
		def := map[string]interface{}{
			"minimum": json.Number("5"),
			"maximum": json.Number("1"),
			"type":    "number",
		}
		_, exc, _ := root.Normalize(def, "schema")
		assert.True(t, exc.HasException(), "iteration %d", i)
	}
}

func TestSchemaValidate_UniqueItems(t *testing.T) {
	root := NewRootEnforcer(3, 0, 0)
	def := map[string]interface{}{
		"type":        "array",
		"uniqueItems": true,
		"items":       map[string]interface{}{"type": "number"},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)

	unique := schema.Validate([]interface{}{json.Number("1"), json.Number("2")})
	assert.True(t, unique.Valid())

	dup := schema.Validate([]interface{}{json.Number("1"), json.Number("1")})
	assert.False(t, dup.Valid())
}
