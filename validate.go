package enforcer

import (
	"math/big"
	"strconv"
	"strings"
)

// Validate checks value against s and returns the (exception, warning)
// pair as a Result whose Value is the original value, per §4.3.3. The
// exception tree's paths are relative to this call — callers composing
// multiple schemas (composite.go) use validateInto to nest into a shared
// tree instead.
func (s *Schema) Validate(value interface{}) *Result {
	exc := newException()
	warn := newException()
	s.validateInto(&Context{Exception: exc, Warn: warn, Major: s.major, Minor: s.minor, StaticData: &StaticData{DataTypes: s.dataTypes}}, value, exc)
	return newResult(value, exc, warn)
}

// validateInto runs every applicable check against value, recording
// exceptions into target (not necessarily ctx.Exception itself — composite
// branches validate into a scratch Exception to decide pass/fail without
// polluting the caller's tree until a branch is chosen).
func (s *Schema) validateInto(ctx *Context, value interface{}, target *Exception) {
	if s == nil {
		return
	}

	dtype := classify(value)

	if dtype == TypeNull {
		if s.Nullable || s.HasType("null") {
			return
		}
		if len(s.Type) == 0 {
			return
		}
	}

	if len(s.Type) > 0 && !typeMatches(s.Type, dtype, value) && !(dtype == TypeNull && s.Nullable) {
		target.Add("type", "type_mismatch", "Value must be of type {types}", map[string]any{"types": strings.Join(s.Type, ", ")})
		return
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		target.Add("enum", "enum_mismatch", "Value must be one of the allowed values", nil)
	}

	switch dtype {
	case TypeNumber:
		s.validateNumber(ctx, value, target)
	case TypeString:
		s.validateString(ctx, value, target)
	case TypeArray:
		s.validateArray(ctx, value, target)
	case TypeObject:
		s.validateObject(ctx, value, target)
	}

	if len(s.AllOf) > 0 {
		validateAllOf(&Context{Exception: target, Warn: ctx.Warn, Major: ctx.Major, Minor: ctx.Minor, StaticData: ctx.StaticData}, s.AllOf, value)
	}
	if len(s.AnyOf) > 0 {
		validateAnyOf(&Context{Exception: target, Warn: ctx.Warn, Major: ctx.Major, Minor: ctx.Minor, StaticData: ctx.StaticData}, s.AnyOf, value)
	}
	if len(s.OneOf) > 0 {
		validateOneOf(&Context{Exception: target, Warn: ctx.Warn, Major: ctx.Major, Minor: ctx.Minor, StaticData: ctx.StaticData}, s.OneOf, value)
	}
	if s.Not != nil {
		validateNot(&Context{Exception: target, Warn: ctx.Warn, Major: ctx.Major, Minor: ctx.Minor, StaticData: ctx.StaticData}, s.Not, value)
	}

	if s.Format != "" {
		primitive := "string"
		if len(s.Type) > 0 {
			primitive = s.Type[0]
		}
		evaluateFormat(&Context{Exception: target, Warn: ctx.Warn, StaticData: ctx.StaticData}, primitive, s.Format, value)
	}
}

func (s *Schema) validateNumber(_ *Context, value interface{}, target *Exception) {
	r := NewRat(value)
	if r == nil {
		return
	}
	if s.Maximum != nil && r.Cmp(s.Maximum.Rat) > 0 {
		target.Add("maximum", "maximum", "value exceeds maximum {max}", map[string]any{"max": FormatRat(s.Maximum)})
	}
	if s.Minimum != nil && r.Cmp(s.Minimum.Rat) < 0 {
		target.Add("minimum", "minimum", "value is below minimum {min}", map[string]any{"min": FormatRat(s.Minimum)})
	}
	if s.ExclusiveMaximum != nil && r.Cmp(s.ExclusiveMaximum.Rat) >= 0 {
		target.Add("exclusiveMaximum", "maximum", "value must be strictly less than {max}", map[string]any{"max": FormatRat(s.ExclusiveMaximum)})
	}
	if s.ExclusiveMinimum != nil && r.Cmp(s.ExclusiveMinimum.Rat) <= 0 {
		target.Add("exclusiveMinimum", "minimum", "value must be strictly greater than {min}", map[string]any{"min": FormatRat(s.ExclusiveMinimum)})
	}
	if s.MultipleOf != nil && s.MultipleOf.Sign() != 0 {
		quotient := new(big.Rat).Quo(r.Rat, s.MultipleOf.Rat)
		if !quotient.IsInt() {
			target.Add("multipleOf", "multiple_of", "value is not a multiple of {divisor}", map[string]any{"divisor": FormatRat(s.MultipleOf)})
		}
	}
	if s.HasType("integer") && !isWholeNumber(value) {
		target.Add("type", "type_mismatch", "Value must be of type integer", map[string]any{"types": "integer"})
	}
}

func (s *Schema) validateString(_ *Context, value interface{}, target *Exception) {
	str, _ := value.(string)
	length := len([]rune(str))
	if s.MaxLength != nil && length > *s.MaxLength {
		target.Add("maxLength", "max_length", "string length exceeds maxLength {max}", map[string]any{"max": *s.MaxLength})
	}
	if s.MinLength != nil && length < *s.MinLength {
		target.Add("minLength", "min_length", "string length below minLength {min}", map[string]any{"min": *s.MinLength})
	}
	if s.compiled != nil && !s.compiled.MatchString(str) {
		target.Add("pattern", "pattern_mismatch", "string does not match pattern {pattern}", map[string]any{"pattern": s.Pattern})
	}
}

func (s *Schema) validateArray(ctx *Context, value interface{}, target *Exception) {
	arr, _ := value.([]interface{})
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		target.Add("maxItems", "max_items", "array length exceeds maxItems {max}", map[string]any{"max": *s.MaxItems})
	}
	if s.MinItems != nil && len(arr) < *s.MinItems {
		target.Add("minItems", "min_items", "array length below minItems {min}", map[string]any{"min": *s.MinItems})
	}
	if s.UniqueItems && hasDuplicateItems(arr) {
		target.Add("uniqueItems", "unique_items", "array items must be unique", nil)
	}
	if s.Items != nil {
		for i, el := range arr {
			s.Items.validateInto(ctx, el, target.At(strconv.Itoa(i)))
		}
	}
}

func (s *Schema) validateObject(ctx *Context, value interface{}, target *Exception) {
	obj, _ := value.(map[string]interface{})
	if s.MaxProperties != nil && len(obj) > *s.MaxProperties {
		target.Add("maxProperties", "max_properties", "object has more than maxProperties {max}", map[string]any{"max": *s.MaxProperties})
	}
	if s.MinProperties != nil && len(obj) < *s.MinProperties {
		target.Add("minProperties", "min_properties", "object has fewer than minProperties {min}", map[string]any{"min": *s.MinProperties})
	}
	for _, req := range s.Required {
		if _, ok := obj[req]; !ok {
			target.Add("required", "missing_required", "Missing required properties: {properties}", map[string]any{"properties": req})
		}
	}
	for key, child := range s.Properties {
		if raw, ok := obj[key]; ok {
			child.validateInto(ctx, raw, target.At(key))
		}
	}
	for key, raw := range obj {
		if _, declared := s.Properties[key]; declared {
			continue
		}
		switch ap := s.AdditionalProperties.(type) {
		case bool:
			if !ap {
				target.At(key).Add(key, "not_allowed", "Property {key} is not allowed", map[string]any{"key": key})
			}
		case *Schema:
			ap.validateInto(ctx, raw, target.At(key))
		}
	}
}
