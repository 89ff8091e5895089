package enforcer

// SchemaMetaValidator returns the Descriptor that governs Schema Objects
// themselves (§4.5): the weighted property catalog a Schema component's
// Init() runs its own node through before decoding the materialized map
// into typed fields. Weights are load-bearing — "type" must be visited
// before "maximum"/"minimum" so composite/discriminator checks in Errors
// see a fully-typed sibling set, mirroring the object lifecycle of §4.2.1.
//
// Grounded on the property catalog implied by the teacher's keywords.go
// (MinLen/MaxLen/Pattern/Format/Min/Max/ExclusiveMin/ExclusiveMax/
// MultipleOf/...), re-expressed as data instead of functional options.
func SchemaMetaValidator() *Descriptor {
	str := func(w int) *PropertyRule {
		return &PropertyRule{Validator: &Descriptor{Type: Static([]string{"string"})}, Weight: w}
	}
	num := func(w int) *PropertyRule {
		return &PropertyRule{Validator: &Descriptor{Type: Static([]string{"number", "integer"})}, Weight: w}
	}
	boolProp := func(w int) *PropertyRule {
		return &PropertyRule{Validator: &Descriptor{Type: Static([]string{"boolean"})}, Weight: w}
	}
	anyProp := func(w int) *PropertyRule {
		return &PropertyRule{Validator: BoolValidator(true), Weight: w}
	}

	return &Descriptor{
		Type: Static([]string{"object"}),
		Properties: map[string]*PropertyRule{
			// Identity of the node — must resolve first so every later
			// property can branch on declared type.
			"type":   {Validator: &Descriptor{Type: Static([]string{"string", "array"})}, Weight: -10},
			"format": str(-9),

			// Bounds, enum, default/example: resolved early since
			// composite/discriminator checks reference them.
			"maximum":          num(-8),
			"minimum":          num(-8),
			"exclusiveMaximum": {Weight: -8, Validator: BoolValidator(true)},
			"exclusiveMinimum": {Weight: -8, Validator: BoolValidator(true)},
			"multipleOf":       num(-8),
			"maxLength":        num(-8),
			"minLength":        num(-8),
			"pattern":          str(-8),
			"maxItems":         num(-8),
			"minItems":         num(-8),
			"uniqueItems":      boolProp(-8),
			"maxProperties":    num(-8),
			"minProperties":    num(-8),
			"enum":             {Weight: -7, Validator: &Descriptor{Type: Static([]string{"array"})}},
			"default":          anyProp(-6),
			"example":          anyProp(-6),

			"nullable":   boolProp(-5),
			"readOnly":   boolProp(-5),
			"writeOnly":  boolProp(-5),
			"deprecated": boolProp(-5),
			"title":      str(-5),
			"description": str(-5),

			// Composition and structural children.
			"items":                {Validator: Ref("schema")},
			"properties":           {Weight: -5, Validator: &Descriptor{Type: Static([]string{"object"}), AdditionalProperties: Ref("schema")}},
			"additionalProperties": {Weight: -4, Validator: Ref("schema")},
			"allOf":                {Weight: -3, Validator: &Descriptor{Type: Static([]string{"array"}), Items: Ref("schema")}},
			"anyOf":                {Weight: -3, Validator: &Descriptor{Type: Static([]string{"array"}), Items: Ref("schema")}},
			"oneOf":                {Weight: -3, Validator: &Descriptor{Type: Static([]string{"array"}), Items: Ref("schema")}},
			"not":                  {Weight: -3, Validator: Ref("schema")},
			// v2 declares discriminator as a bare string (the required
			// property name); v3 declares it as an object with an
			// optional mapping. Dispatched dynamically on ctx.Major.
			"discriminator": {
				Weight: -2,
				Validator: ValidatorFunc(func(ctx *Context) Validator {
					if ctx.Major < 3 {
						return &Descriptor{Type: Static([]string{"string"})}
					}
					return &Descriptor{
						Type: Static([]string{"object"}),
						Properties: map[string]*PropertyRule{
							"propertyName": {Weight: -10, Validator: &Descriptor{Type: Static([]string{"string"})}},
							"mapping":      {Weight: -9, Validator: &Descriptor{Type: Static([]string{"object"}), AdditionalProperties: &Descriptor{Type: Static([]string{"string"})}}},
						},
					}
				}),
			},

			// Required-list validation happens after every sibling
			// property/type has resolved, hence the positive weight.
			"required": {Weight: 1, Validator: &Descriptor{Type: Static([]string{"array"}), Items: &Descriptor{Type: Static([]string{"string"})}}},
		},
		AdditionalProperties: BoolValidator(true),
		Errors:               schemaCompositeAndDiscriminatorChecks,
	}
}

// schemaCompositeAndDiscriminatorChecks implements the composite-conflict
// and discriminator-consistency cross-field rules of §4.5: a Schema may
// declare at most one of allOf/anyOf/oneOf/not, min must not exceed max
// (minimum/maximum, minLength/maxLength, minItems/maxItems,
// minProperties/maxProperties), and a declared discriminator's propertyName
// must be both required and present in properties, for the v2 string form
// and the v3 object form alike.
func schemaCompositeAndDiscriminatorChecks(ctx *Context, result interface{}) {
	obj, ok := result.(map[string]interface{})
	if !ok {
		return
	}

	composites := 0
	for _, key := range []string{"allOf", "anyOf", "oneOf", "not"} {
		if _, present := obj[key]; present {
			composites++
		}
	}
	if composites > 1 {
		ctx.Exception.Add("", "multiple_composites", "only one of allOf, anyOf, oneOf, not may be declared", nil)
	}

	var discriminatorProperty string
	switch d := obj["discriminator"].(type) {
	case map[string]interface{}:
		discriminatorProperty, _ = d["propertyName"].(string)
	case string:
		discriminatorProperty = d
	}
	if discriminatorProperty != "" {
		required := stringSliceOf(obj["required"])
		_, declared := propertiesOf(obj)[discriminatorProperty]
		if !contains(required, discriminatorProperty) || !declared {
			ctx.Exception.At("discriminator").Add("propertyName", "discriminator_property_not_required",
				"discriminator property {property} must be required and declared",
				map[string]any{"property": discriminatorProperty})
		}
	}

	if minV, maxV, ok := boundsOf(obj); ok {
		if minV.Cmp(maxV.Rat) > 0 {
			ctx.Exception.Add("", "min_gt_max", "minimum {minimum} exceeds maximum {maximum}",
				map[string]any{"minimum": FormatRat(&Rat{minV}), "maximum": FormatRat(maxV)})
		}
	}
	for _, pair := range [][2]string{{"minLength", "maxLength"}, {"minItems", "maxItems"}, {"minProperties", "maxProperties"}} {
		lo, hi := intOf(obj[pair[0]]), intOf(obj[pair[1]])
		if lo != nil && hi != nil && *lo > *hi {
			ctx.Exception.Add("", "min_gt_max", "minimum {minimum} exceeds maximum {maximum}",
				map[string]any{"minimum": *lo, "maximum": *hi})
		}
	}

	if ro, _ := obj["readOnly"].(bool); ro {
		if wo, _ := obj["writeOnly"].(bool); wo {
			ctx.Exception.Add("", "read_write_only_conflict", "readOnly and writeOnly are mutually exclusive", nil)
		}
	}
}

func propertiesOf(obj map[string]interface{}) map[string]interface{} {
	props, _ := obj["properties"].(map[string]interface{})
	if props == nil {
		return map[string]interface{}{}
	}
	return props
}

func stringSliceOf(v interface{}) []string {
	arr, _ := v.([]interface{})
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func boundsOf(obj map[string]interface{}) (*Rat, *Rat, bool) {
	minR := ratOf(obj["minimum"])
	maxR := ratOf(obj["maximum"])
	if minR == nil || maxR == nil {
		return nil, nil, false
	}
	return minR, maxR, true
}

func ratOf(v interface{}) *Rat {
	if v == nil {
		return nil
	}
	return NewRat(v)
}
