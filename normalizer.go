package enforcer

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// extensionKeyPattern matches OpenAPI "x-" vendor extension keys, copied
// verbatim into a normalized object per §4.2.1 step 1.
var extensionKeyPattern = regexp.MustCompile(`^x-.+`)

// Normalize is the single entry point of §4.2: it resolves the effective
// validator, type-checks, guards against cycles, checks enum membership,
// dispatches on definitionType, and finally runs any cross-field Errors
// check, leaving the materialized value in ctx.Result (and returning it).
//
// Normalize itself never recovers panics; runChildValidator wraps every
// recursive step (plain descriptor or component instantiation) in runSafely
// so a panicking callback is recorded as "Unexpected error encountered"
// rather than aborting the walk (§4.2.3, §7).
func Normalize(ctx *Context) interface{} {
	// 1. resolve effective validator
	ctx.Validator = resolveValidator(ctx, ctx.Validator)

	if bv, ok := ctx.Validator.(BoolValidator); ok {
		if bool(bv) {
			ctx.Result = deepCopy(ctx.Definition)
		} else {
			ctx.Exception.Add("", "not_allowed", "Not allowed", nil)
			ctx.Result = nil
		}
		return ctx.Result
	}

	desc, _ := ctx.Validator.(*Descriptor)

	// 2. type check
	if desc != nil && desc.Type.IsSet() && ctx.DefinitionType != TypeUndefined {
		types := desc.Type.Resolve(ctx)
		if len(types) > 0 && !typeMatches(types, ctx.DefinitionType, ctx.Definition) {
			ctx.Exception.Add("type", "type_mismatch", "Value must be of type {types}", map[string]any{"types": strings.Join(types, ", ")})
			return nil
		}
	}

	// 3. cycle guard
	if cached, ok := ctx.Map.Get(ctx.Definition); ok {
		ctx.Result = cached
		return cached
	}

	// 4-7.
	return normalizeBody(ctx, desc)
}

// normalizeBody runs the enum check, the definitionType dispatch, and the
// post-errors callback (§4.2 steps 4-7) — everything Normalize does once the
// type check and cycle guard have passed. It is split out of Normalize so a
// component's Init (schema.go's newSchemaComponent) can re-enter here
// directly: by the time Init runs, the component's own instance has already
// been registered in ctx.Map (for cycle collapse, invariant 1) against the
// very definition Init is about to materialize, so going through Normalize's
// step-3 cache check again would immediately return that not-yet-populated
// instance instead of building it.
func normalizeBody(ctx *Context, desc *Descriptor) interface{} {
	// 4. enum check
	if desc != nil && desc.Enum.IsSet() {
		allowed := desc.Enum.Resolve(ctx)
		if len(allowed) > 0 && !enumContains(allowed, ctx.Definition) {
			ctx.Exception.Add("enum", "enum_mismatch", "Value must be one of the allowed values", nil)
			return nil
		}
	}

	// 5. dispatch on definitionType
	switch ctx.DefinitionType {
	case TypeArray:
		arr, _ := ctx.Definition.([]interface{})
		out := make([]interface{}, 0, len(arr))
		var itemsValidator Validator
		if desc != nil {
			itemsValidator = desc.Items
		}
		for i, el := range arr {
			childCtx := ctx.child(strconv.Itoa(i), el, itemsValidator)
			out = append(out, runChildValidator(childCtx))
		}
		ctx.Result = out
	case TypeObject:
		ctx.Result = normalizeObject(ctx, desc)
	case TypeBoolean, TypeNumber, TypeString, TypeNull:
		ctx.Result = ctx.Definition
	default:
		ctx.Exception.Add("", "unknown_data_type", "Unknown data type", nil)
		ctx.Result = nil
	}

	// 6. post-errors: cross-field checks over the materialized result
	if desc != nil && desc.Errors != nil {
		runSafely(ctx, func() { desc.Errors(ctx, ctx.Result) })
	}

	// 7.
	return ctx.Result
}

// normalizeObject implements §4.2.1's structured-object lifecycle.
func normalizeObject(ctx *Context, desc *Descriptor) interface{} {
	def, ok := ctx.Definition.(map[string]interface{})
	if !ok {
		ctx.Exception.Add("", "type_mismatch", "Value must be an object", nil)
		return nil
	}
	if desc == nil {
		return deepCopy(def)
	}

	result := make(map[string]interface{})

	unknown := make(map[string]bool, len(def))
	for k := range def {
		unknown[k] = true
	}

	// 1. extension keys
	for k, v := range def {
		if extensionKeyPattern.MatchString(k) {
			result[k] = v
			delete(unknown, k)
		}
	}

	// 3. ordered property list
	type orderedProp struct {
		key  string
		rule *PropertyRule
	}
	props := make([]orderedProp, 0, len(desc.Properties))
	for key, rule := range desc.Properties {
		props = append(props, orderedProp{key, rule})
		delete(unknown, key)
	}
	// 4. sort ascending by weight, then lexicographic by key
	sort.Slice(props, func(i, j int) bool {
		if props[i].rule.Weight != props[j].rule.Weight {
			return props[i].rule.Weight < props[j].rule.Weight
		}
		return props[i].key < props[j].key
	})

	var notAllowed []string
	var missingRequired []string

	// 5. evaluate each property in sorted order
	for _, p := range props {
		key, rule := p.key, p.rule

		allowed := true
		if rule.Allowed.IsSet() {
			allowed = rule.Allowed.Resolve(ctx)
		}

		raw, present := def[key]
		if !present && allowed && rule.Default.IsSet() {
			raw = rule.Default.Resolve(ctx)
			present = true
		}

		if present {
			if !allowed {
				notAllowed = append(notAllowed, key)
			} else {
				ignored := false
				if rule.Ignored.IsSet() {
					ignored = rule.Ignored.Resolve(ctx)
				}
				if !ignored {
					childCtx := ctx.child(key, raw, rule.Validator)
					result[key] = runChildValidator(childCtx)
				}
			}
			continue
		}

		if allowed {
			required := false
			if rule.Required.IsSet() {
				required = rule.Required.Resolve(ctx)
			}
			if required && rule.Ignored.IsSet() && rule.Ignored.Resolve(ctx) {
				required = false
			}
			if required {
				missingRequired = append(missingRequired, key)
			}
		}
	}

	// 6. unknown keys dispatch to additionalProperties, then merge into notAllowed
	unknownKeys := make([]string, 0, len(unknown))
	for k := range unknown {
		unknownKeys = append(unknownKeys, k)
	}
	sort.Strings(unknownKeys)
	for _, key := range unknownKeys {
		raw := def[key]
		if desc.AdditionalProperties == nil {
			notAllowed = append(notAllowed, key)
			continue
		}
		switch av := resolveValidator(ctx, desc.AdditionalProperties).(type) {
		case BoolValidator:
			if bool(av) {
				result[key] = raw
			} else {
				notAllowed = append(notAllowed, key)
			}
		default:
			childCtx := ctx.child(key, raw, desc.AdditionalProperties)
			result[key] = runChildValidator(childCtx)
		}
	}

	for _, key := range notAllowed {
		ctx.Exception.At(key).Add(key, "not_allowed", "Property {key} is not allowed", map[string]any{"key": key})
	}
	if len(missingRequired) > 0 {
		sort.Strings(missingRequired)
		ctx.Exception.Add("", "missing_required", "Missing required properties: {properties}", map[string]any{"properties": strings.Join(missingRequired, ", ")})
	}

	return result
}

// runChildValidator implements §4.2.2: the dispatch rule between plain
// descriptors and component instantiation.
func runChildValidator(ctx *Context) interface{} {
	v := resolveValidator(ctx, ctx.Validator)
	ctx.Validator = v

	if v == nil {
		return ctx.Definition
	}

	if ref, ok := v.(*EnforcerRef); ok {
		var result interface{}
		runSafely(ctx, func() { result = instantiateComponent(ctx, ref) })
		return result
	}

	var result interface{}
	runSafely(ctx, func() { result = Normalize(ctx) })
	return result
}

// instantiateComponent handles the three EnforcerRef branches of §4.2.2.
func instantiateComponent(ctx *Context, ref *EnforcerRef) interface{} {
	if ctx.DefinitionType == TypeBoolean {
		cfg := ref.Config
		if cfg == nil {
			cfg = BoolValidator(true)
		}
		ctx.Validator = cfg
		return Normalize(ctx)
	}

	if ctx.DefinitionType != TypeObject {
		ctx.Exception.Add("", "must_be_plain_object", "must be a plain object", nil)
		return nil
	}

	if cached, ok := ctx.Map.Get(ctx.Definition); ok {
		return cached
	}

	ctor, ok := ctx.ComponentCtx[ref.Component]
	if !ok {
		ctx.Exception.Add("", "unknown_component", "unknown component {name}", map[string]any{"name": ref.Component})
		return nil
	}

	instance, err := ctor(ctx, ref)
	if err != nil {
		ctx.Exception.Add("", "unexpected_error", err.Error(), nil)
		return nil
	}
	return instance
}

// runSafely executes fn, recovering any panic into an "unexpected error"
// message at the current path, per §4.2.3 and the Open Question resolved in
// SPEC_FULL.md §12: ctx.DebugPanics lets the panic rethrow after recording.
func runSafely(ctx *Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Exception.Add("", "unexpected_error", "Unexpected error encountered", map[string]any{"error": fmt.Sprint(r)})
			if ctx.DebugPanics {
				panic(r)
			}
		}
	}()
	fn()
}

// typeMatches resolves OpenAPI's {array, object, boolean, integer, number,
// string, file, null} declared type names against a walk-context
// definitionType, treating "integer" as "number with no fractional part"
// and "file" (v2-only) as string-compatible.
func typeMatches(declared []string, dtype DefinitionType, definition interface{}) bool {
	for _, t := range declared {
		switch t {
		case "integer":
			if dtype == TypeNumber && isWholeNumber(definition) {
				return true
			}
		case "number":
			if dtype == TypeNumber {
				return true
			}
		case "string", "file":
			if dtype == TypeString {
				return true
			}
		case "boolean":
			if dtype == TypeBoolean {
				return true
			}
		case "array":
			if dtype == TypeArray {
				return true
			}
		case "object":
			if dtype == TypeObject {
				return true
			}
		case "null":
			if dtype == TypeNull {
				return true
			}
		}
	}
	return false
}

// enumContains reports member-wise equality between definition and any
// allowed enum value (§4.2 step 4).
func enumContains(allowed []interface{}, definition interface{}) bool {
	for _, a := range allowed {
		if reflect.DeepEqual(a, definition) {
			return true
		}
	}
	return false
}

// deepCopy clones a plain tree of maps/slices/scalars, used for the
// BoolValidator(true) free-form case.
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = deepCopy(vv)
		}
		return out
	default:
		return v
	}
}
