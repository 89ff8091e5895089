package enforcer

import (
	"fmt"
	"regexp"
)

var (
	colonInjectorPattern        = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)
	handlebarInjectorPattern    = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	doubleHandlebarPattern      = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)
)

// replaceBraces is the single-pass "{name}" substitution helper shared by
// Message rendering (result.go) and the handlebar populate injector below.
// Unresolved placeholders are left verbatim rather than erroring, since a
// Message's Params map is allowed to be a strict subset of its Text's names.
func replaceBraces(template string, params map[string]any) string {
	return handlebarInjectorPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := params[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

// InjectorStyle selects which populate() substitution syntax to recognize in
// string leaves, per §4.3.4.
type InjectorStyle int

const (
	// InjectorColon recognizes ":name" tokens.
	InjectorColon InjectorStyle = iota
	// InjectorHandlebar recognizes "{name}" tokens.
	InjectorHandlebar
	// InjectorDoubleHandlebar recognizes "{{name}}" tokens.
	InjectorDoubleHandlebar
)

// defaultPopulateDepth is the recursion bound applied whenever
// PopulateOptions.Depth is left at its zero value, per §4.3.4's documented
// default.
const defaultPopulateDepth = 100

// PopulateOptions configures Schema.Populate. The zero value performs only
// injector substitution over the instance as given (no default-filling, no
// condition gating) bounded by defaultPopulateDepth; call NewPopulateOptions
// for the spec's documented defaults (Defaults/TemplateDefaults/Conditions
// all true).
type PopulateOptions struct {
	Style  InjectorStyle
	Values map[string]interface{}

	// Defaults fills in a child schema's Default value for any property
	// present in the schema but missing from the instance.
	Defaults bool
	// TemplateDefaults runs the injector over an injected default the same
	// way it runs over a literal instance string, instead of inserting the
	// default verbatim.
	TemplateDefaults bool
	// Conditions, when true, skips default-injection for a property whose
	// schema carries an "x-condition" vendor extension naming a Values key
	// that is absent or falsy.
	Conditions bool
	// Depth bounds recursion; <= 0 uses defaultPopulateDepth.
	Depth int
}

// NewPopulateOptions returns a PopulateOptions with §4.3.4's documented
// defaults (defaults/templateDefaults/conditions all enabled, depth 100).
func NewPopulateOptions(style InjectorStyle, values map[string]interface{}) PopulateOptions {
	return PopulateOptions{
		Style:            style,
		Values:           values,
		Defaults:         true,
		TemplateDefaults: true,
		Conditions:       true,
		Depth:            defaultPopulateDepth,
	}
}

func (opts PopulateOptions) depth() int {
	if opts.Depth <= 0 {
		return defaultPopulateDepth
	}
	return opts.Depth
}

// conditionHolds reports whether child's default may be injected: true
// unless opts.Conditions is enabled and child declares an "x-condition"
// extension naming a Values entry that is missing or falsy.
func conditionHolds(child *Schema, opts PopulateOptions) bool {
	if !opts.Conditions || child == nil || child.EnforcerData == nil {
		return true
	}
	cond, ok := child.EnforcerData["x-condition"].(string)
	if !ok || cond == "" {
		return true
	}
	v, present := opts.Values[cond]
	return present && truthy(v)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

// populateValue walks value substituting injector tokens found in string
// leaves against opts.Values, recursing into arrays and objects up to
// opts.depth() levels. Non-string scalars are returned unchanged; a string
// that is a single, whole injector token (e.g. exactly ":id" or exactly
// "{id}") is replaced by the raw substituted value (preserving its type)
// rather than being stringified.
func populateValue(value interface{}, opts PopulateOptions, depth int) interface{} {
	if depth <= 0 {
		return value
	}
	switch v := value.(type) {
	case string:
		return populateString(v, opts)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, el := range v {
			out[i] = populateValue(el, opts, depth-1)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, el := range v {
			out[k] = populateValue(el, opts, depth-1)
		}
		return out
	default:
		return v
	}
}

func populateString(s string, opts PopulateOptions) interface{} {
	if !stripInjectors(s, opts.Style) {
		return s
	}
	switch opts.Style {
	case InjectorColon:
		if name, whole := wholeMatch(s, colonInjectorPattern, 1); whole {
			if val, ok := opts.Values[name]; ok {
				return val
			}
			return s
		}
		return colonInjectorPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := match[1:]
			if val, ok := opts.Values[name]; ok {
				return fmt.Sprint(val)
			}
			return match
		})
	case InjectorDoubleHandlebar:
		if name, whole := wholeMatch(s, doubleHandlebarPattern, 2); whole {
			if val, ok := opts.Values[name]; ok {
				return val
			}
			return s
		}
		return doubleHandlebarPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := match[2 : len(match)-2]
			if val, ok := opts.Values[name]; ok {
				return fmt.Sprint(val)
			}
			return match
		})
	default: // InjectorHandlebar
		if name, whole := wholeMatch(s, handlebarInjectorPattern, 1); whole {
			if val, ok := opts.Values[name]; ok {
				return val
			}
			return s
		}
		return replaceBraces(s, opts.Values)
	}
}

// wholeMatch reports whether s is, in its entirety, a single injector token,
// returning the captured name. prefixLen is the number of leading
// delimiter characters (1 for ":"/"{", 2 for "{{").
func wholeMatch(s string, pattern *regexp.Regexp, prefixLen int) (string, bool) {
	loc := pattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return "", false
	}
	submatch := pattern.FindStringSubmatch(s)
	if len(submatch) < 2 {
		return "", false
	}
	_ = prefixLen
	return submatch[1], true
}

// Populate walks instance, substituting injector tokens found in string
// leaves against opts.Values, per §4.3.4. Recursion into arrays/objects is
// driven by the schema tree (s.Items/s.Properties) so only leaves actually
// described by the schema are visited; unknown keys fall back to the
// schema-agnostic populateValue walk. When opts.Defaults is set, any object
// property named by the schema but absent from instance is filled from that
// property's Default, subject to opts.Conditions.
func (s *Schema) Populate(instance interface{}, opts PopulateOptions) *Result {
	exc := newException()
	warn := newException()
	return newResult(s.populateInstance(instance, opts, opts.depth()), exc, warn)
}

func (s *Schema) populateInstance(instance interface{}, opts PopulateOptions, depth int) interface{} {
	if depth <= 0 {
		return instance
	}
	if s == nil {
		return populateValue(instance, opts, depth)
	}
	switch v := instance.(type) {
	case string:
		return populateString(v, opts)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, el := range v {
			out[i] = s.Items.populateInstance(el, opts, depth-1)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, el := range v {
			if child, ok := s.Properties[k]; ok {
				out[k] = child.populateInstance(el, opts, depth-1)
				continue
			}
			if sub, ok := s.AdditionalProperties.(*Schema); ok {
				out[k] = sub.populateInstance(el, opts, depth-1)
				continue
			}
			out[k] = populateValue(el, opts, depth-1)
		}
		if opts.Defaults {
			s.fillDefaults(out, opts, depth)
		}
		return out
	default:
		return v
	}
}

// fillDefaults adds, to out, any schema-declared property missing from the
// instance whose child schema carries a Default, gated by conditionHolds.
// When opts.TemplateDefaults is set the injected default is itself run
// through the injector (so a default like ":env" still templates); otherwise
// it is inserted verbatim.
func (s *Schema) fillDefaults(out map[string]interface{}, opts PopulateOptions, depth int) {
	for key, child := range s.Properties {
		if _, present := out[key]; present {
			continue
		}
		if child == nil || child.Default == nil {
			continue
		}
		if !conditionHolds(child, opts) {
			continue
		}
		if opts.TemplateDefaults {
			out[key] = populateValue(child.Default, opts, depth-1)
		} else {
			out[key] = child.Default
		}
	}
}

// stripInjectors reports whether s contains any token of the given style,
// used by Schema.Populate to decide whether a leaf needs visiting at all.
func stripInjectors(s string, style InjectorStyle) bool {
	switch style {
	case InjectorColon:
		return colonInjectorPattern.MatchString(s)
	case InjectorDoubleHandlebar:
		return doubleHandlebarPattern.MatchString(s)
	default:
		return handlebarInjectorPattern.MatchString(s)
	}
}
