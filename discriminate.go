package enforcer

import "fmt"

// DiscriminationResult is Discriminate's details=true return shape (§4.3.6):
// the discriminator property name, the raw value read off it, and the
// resolved target schema.
type DiscriminationResult struct {
	Key    string
	Name   string
	Schema *Schema
}

// Discriminate resolves the concrete subschema a value belongs to under
// s's discriminator, per §4.3.6. The discriminator's value is read from
// value[PropertyName]. Resolution order:
//  1. Discriminator.Resolved, filled in eagerly by the deferred plugin
//     Init enqueues once a RefParser is available (invariant 4);
//  2. Mapping, resolved lazily via s.refParser at call time;
//  3. the raw discriminator value itself, used directly as a component
//     name lookup (the OpenAPI-default behavior when no mapping entry
//     exists).
//
// v2's bare-string discriminator and v3's Discriminator Object are both
// handled since both normalize to the same Discriminator shape in
// Schema.decode. When details is true the return value is a
// *DiscriminationResult instead of a bare *Schema.
func (s *Schema) Discriminate(value interface{}, details bool) (interface{}, *Exception) {
	exc := newException()
	if s == nil || s.Discriminator == nil {
		exc.Add("", "discriminator_target_missing", "schema has no discriminator", nil)
		return nil, exc
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		exc.Add("", "type_mismatch", "discriminated value must be an object", nil)
		return nil, exc
	}

	raw, present := obj[s.Discriminator.PropertyName]
	discValue, _ := raw.(string)
	if !present || discValue == "" {
		exc.Add(s.Discriminator.PropertyName, "missing_required", "Missing required properties: {properties}",
			map[string]any{"properties": s.Discriminator.PropertyName})
		return nil, exc
	}

	s.mu.RLock()
	resolved := s.Discriminator.Resolved
	s.mu.RUnlock()
	if sub, ok := resolved[discValue]; ok {
		return s.discriminationValue(discValue, sub, details), exc
	}

	target := discValue
	if s.Discriminator.Mapping != nil {
		if mapped, ok := s.Discriminator.Mapping[discValue]; ok {
			target = mapped
		}
	}

	if s.refParser == nil {
		exc.Add("", "discriminator_target_missing", "discriminator value {value} has no resolvable schema",
			map[string]any{"value": discValue})
		return nil, exc
	}

	inst, err := s.refParser.Resolve(target)
	if err != nil {
		exc.Add("", "reference_resolution", fmt.Sprintf("failed to resolve discriminator target %q: %v", target, err), nil)
		return nil, exc
	}

	sub, ok := inst.(*Schema)
	if !ok {
		exc.Add("", "discriminator_target_missing", "discriminator value {value} has no resolvable schema",
			map[string]any{"value": discValue})
		return nil, exc
	}

	return s.discriminationValue(discValue, sub, details), exc
}

func (s *Schema) discriminationValue(name string, sub *Schema, details bool) interface{} {
	if !details {
		return sub
	}
	return &DiscriminationResult{Key: s.Discriminator.PropertyName, Name: name, Schema: sub}
}
