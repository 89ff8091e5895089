package enforcer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefParser struct {
	schemas map[string]*Schema
}

func (f *fakeRefParser) Resolve(ref string) (interface{}, error) {
	s, ok := f.schemas[ref]
	if !ok {
		return nil, ErrReferenceResolution
	}
	return s, nil
}

// TestSchemaDiscriminate_V3Mapping covers the v3-discriminator testable
// scenario: an object-shaped discriminator with an explicit mapping
// resolves a "petType":"dog" instance to the mapped component, not a
// component literally named "dog". The RefParser is installed before
// Normalize runs, so the deferred plugin (invariant 4) resolves the
// mapping eagerly — Discriminate never has to consult refParser at all.
func TestSchemaDiscriminate_V3Mapping(t *testing.T) {
	dogSchema := &Schema{Type: []string{"object"}}
	root := NewRootEnforcer(3, 0, 0).WithRefParser(&fakeRefParser{schemas: map[string]*Schema{
		"#/components/schemas/Dog": dogSchema,
	}})
	def := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"petType": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"petType"},
		"discriminator": map[string]interface{}{
			"propertyName": "petType",
			"mapping": map[string]interface{}{
				"dog": "#/components/schemas/Dog",
			},
		},
	}
	result, exc, _ := root.Normalize(def, "schema")
	require.False(t, exc.HasException())
	schema := result.(*Schema)
	require.NotNil(t, schema.Discriminator)
	assert.Equal(t, "petType", schema.Discriminator.PropertyName)
	require.NotNil(t, schema.Discriminator.Resolved)
	assert.Same(t, dogSchema, schema.Discriminator.Resolved["dog"])

	resolved, discExc := schema.Discriminate(map[string]interface{}{"petType": "dog"}, false)
	assert.False(t, discExc.HasException())
	assert.Same(t, dogSchema, resolved)
}

// TestSchemaDiscriminate_Details covers the details=true return shape.
func TestSchemaDiscriminate_Details(t *testing.T) {
	catSchema := &Schema{Type: []string{"object"}}
	s := &Schema{
		Discriminator: &Discriminator{PropertyName: "petType"},
		refParser:     &fakeRefParser{schemas: map[string]*Schema{"cat": catSchema}},
	}
	result, exc := s.Discriminate(map[string]interface{}{"petType": "cat"}, true)
	require.False(t, exc.HasException())
	details, ok := result.(*DiscriminationResult)
	require.True(t, ok)
	assert.Equal(t, "petType", details.Key)
	assert.Equal(t, "cat", details.Name)
	assert.Same(t, catSchema, details.Schema)
}

func TestSchemaDiscriminate_TargetMissing(t *testing.T) {
	s := &Schema{
		Discriminator: &Discriminator{PropertyName: "petType"},
		refParser:     &fakeRefParser{schemas: map[string]*Schema{}},
	}
	_, exc := s.Discriminate(map[string]interface{}{"petType": "cat"}, false)
	assert.True(t, exc.HasException())
}
