package enforcer

import (
	"regexp"
	"sync"
)

// Discriminator mirrors the OpenAPI Discriminator Object (v3) or the bare
// propertyName string (v2), normalized to a single shape (§4.3.6).
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string

	// Resolved holds Mapping's values already resolved to their materialized
	// Schema instances, filled in by the deferred plugin Init enqueues
	// (invariant 4, §3: "discriminator mapping values are post-processed in
	// the plugins phase to point at resolved Schema instances"). Discriminate
	// falls back to resolving via refParser at call time for any mapping
	// entry this plugin couldn't resolve (no RefParser installed yet, or a
	// bare discriminator value absent from Mapping).
	Resolved map[string]*Schema
}

// Schema is the enforcer tree's Schema component: the materialized,
// typed counterpart of an OpenAPI Schema Object, carrying deserialize,
// serialize, validate, populate, random, discriminate, and formalize
// methods (§4.3). It implements EnforcerComponent so the normalizer can
// instantiate it wherever a validator descriptor names Ref("schema").
type Schema struct {
	mu sync.RWMutex

	raw map[string]interface{}

	Type     []string
	Format   string
	Enum     []interface{}
	Default  interface{}
	Example  interface{}
	Nullable bool

	Discriminator *Discriminator

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	Items      *Schema
	Properties map[string]*Schema

	// AdditionalProperties is either a bool (true=free-form, false=closed)
	// or a *Schema; nil means "unset", which Validate treats as open
	// (undeclared properties are accepted).
	AdditionalProperties interface{}

	Required  []string
	ReadOnly  bool
	WriteOnly bool

	Maximum          *Rat
	Minimum          *Rat
	ExclusiveMaximum *Rat
	ExclusiveMinimum *Rat
	MultipleOf       *Rat

	MaxLength *int
	MinLength *int
	Pattern   string
	compiled  *regexp.Regexp

	MaxItems    *int
	MinItems    *int
	UniqueItems bool

	MaxProperties *int
	MinProperties *int

	Title       string
	Description string
	Deprecated  bool

	// EnforcerData carries the unrecognized "x-" vendor extension keys
	// that survive normalization, keyed exactly as they appeared.
	EnforcerData map[string]interface{}

	major, minor int
	dataTypes    *DataTypeRegistry
	refParser    RefParser
}

// newSchemaComponent is the ComponentConstructor registered under "schema"
// (§4.2.2): it allocates the zero Schema, registers it in the cycle cache
// before recursing into its own children (invariant 1, §3), then runs the
// meta-validator over the node and decodes the materialized map.
func newSchemaComponent(ctx *Context, ref *EnforcerRef) (EnforcerComponent, error) {
	s := &Schema{major: ctx.Major, minor: ctx.Minor}
	if ctx.StaticData != nil {
		s.dataTypes = ctx.StaticData.DataTypes
		s.refParser = ctx.StaticData.RefParser
	}
	ctx.Map.Set(ctx.Definition, s)

	if err := s.Init(ctx, ref); err != nil {
		return nil, err
	}
	return s, nil
}

// Init runs the Schema meta-validator (§4.5) over ctx's own node —
// ref.Config, when supplied, overrides the default descriptor — and decodes
// the resulting map into s's typed fields.
//
// This re-enters through normalizeBody rather than Normalize: newSchemaComponent
// already registered s in ctx.Map against ctx.Definition before calling Init
// (so self-referential children collapse onto s), and Normalize's own cycle
// guard would otherwise find that same entry and hand back the still-empty s
// instead of materializing it.
func (s *Schema) Init(ctx *Context, ref *EnforcerRef) error {
	validator := Validator(SchemaMetaValidator())
	if ref != nil && ref.Config != nil {
		validator = ref.Config
	}
	ctx.Validator = resolveValidator(ctx, validator)
	desc, _ := ctx.Validator.(*Descriptor)

	materialized := normalizeBody(ctx, desc)
	obj, _ := materialized.(map[string]interface{})
	if obj == nil {
		obj = map[string]interface{}{}
	}
	s.decode(obj)
	s.enqueueDiscriminatorResolution(ctx)
	return nil
}

// enqueueDiscriminatorResolution pushes a deferred plugin (§3, invariant 4)
// that resolves every discriminator mapping entry to its materialized Schema
// instance once the whole tree has been built. It is a no-op when there is
// no discriminator mapping, or no RefParser has been installed yet — in the
// latter case Discriminate still resolves lazily at call time.
func (s *Schema) enqueueDiscriminatorResolution(ctx *Context) {
	if s.Discriminator == nil || len(s.Discriminator.Mapping) == 0 {
		return
	}
	if ctx.StaticData == nil || ctx.StaticData.RefParser == nil || ctx.Plugins == nil {
		return
	}
	parser := ctx.StaticData.RefParser
	disc := s.Discriminator
	mapping := disc.Mapping
	ctx.Plugins.Push(func() error {
		resolved := make(map[string]*Schema, len(mapping))
		for key, target := range mapping {
			inst, err := parser.Resolve(target)
			if err != nil {
				continue
			}
			if sub, ok := inst.(*Schema); ok {
				resolved[key] = sub
			}
		}
		s.mu.Lock()
		disc.Resolved = resolved
		s.mu.Unlock()
		return nil
	})
}

func (s *Schema) decode(obj map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = obj

	switch t := obj["type"].(type) {
	case string:
		s.Type = []string{t}
	case []interface{}:
		s.Type = stringSliceOf(t)
	}

	s.Format, _ = obj["format"].(string)
	if arr, ok := obj["enum"].([]interface{}); ok {
		s.Enum = arr
	}
	s.Default = obj["default"]
	s.Example = obj["example"]
	s.Nullable, _ = obj["nullable"].(bool)

	s.Required = stringSliceOf(obj["required"])
	s.ReadOnly, _ = obj["readOnly"].(bool)
	s.WriteOnly, _ = obj["writeOnly"].(bool)
	s.Title, _ = obj["title"].(string)
	s.Description, _ = obj["description"].(string)
	s.Deprecated, _ = obj["deprecated"].(bool)

	s.Maximum = ratOf(obj["maximum"])
	s.Minimum = ratOf(obj["minimum"])
	s.MultipleOf = ratOf(obj["multipleOf"])

	switch v := obj["exclusiveMaximum"].(type) {
	case bool:
		if v {
			s.ExclusiveMaximum = s.Maximum
			s.Maximum = nil
		}
	default:
		s.ExclusiveMaximum = ratOf(v)
	}
	switch v := obj["exclusiveMinimum"].(type) {
	case bool:
		if v {
			s.ExclusiveMinimum = s.Minimum
			s.Minimum = nil
		}
	default:
		s.ExclusiveMinimum = ratOf(v)
	}

	s.MaxLength = intOf(obj["maxLength"])
	s.MinLength = intOf(obj["minLength"])
	if p, ok := obj["pattern"].(string); ok {
		s.Pattern = p
		if p != "" {
			s.compiled, _ = regexp.Compile(p)
		}
	}

	s.MaxItems = intOf(obj["maxItems"])
	s.MinItems = intOf(obj["minItems"])
	s.UniqueItems, _ = obj["uniqueItems"].(bool)

	s.MaxProperties = intOf(obj["maxProperties"])
	s.MinProperties = intOf(obj["minProperties"])

	if it, ok := obj["items"].(*Schema); ok {
		s.Items = it
	}
	if props, ok := obj["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*Schema, len(props))
		for k, v := range props {
			if sub, ok := v.(*Schema); ok {
				s.Properties[k] = sub
			}
		}
	}
	switch ap := obj["additionalProperties"].(type) {
	case bool:
		s.AdditionalProperties = ap
	case *Schema:
		s.AdditionalProperties = ap
	}

	s.AllOf = schemaSliceOf(obj["allOf"])
	s.AnyOf = schemaSliceOf(obj["anyOf"])
	s.OneOf = schemaSliceOf(obj["oneOf"])
	if n, ok := obj["not"].(*Schema); ok {
		s.Not = n
	}

	switch d := obj["discriminator"].(type) {
	case string:
		s.Discriminator = &Discriminator{PropertyName: d}
	case map[string]interface{}:
		disc := &Discriminator{}
		disc.PropertyName, _ = d["propertyName"].(string)
		if m, ok := d["mapping"].(map[string]interface{}); ok {
			disc.Mapping = make(map[string]string, len(m))
			for k, v := range m {
				if sv, ok := v.(string); ok {
					disc.Mapping[k] = sv
				}
			}
		}
		s.Discriminator = disc
	}

	ext := make(map[string]interface{})
	for k, v := range obj {
		if extensionKeyPattern.MatchString(k) {
			ext[k] = v
		}
	}
	if len(ext) > 0 {
		s.EnforcerData = ext
	}
}

func intOf(v interface{}) *int {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func schemaSliceOf(v interface{}) []*Schema {
	arr, _ := v.([]interface{})
	out := make([]*Schema, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(*Schema); ok {
			out = append(out, s)
		}
	}
	return out
}

// HasType reports whether t is among the Schema's declared types, or
// reports true unconditionally when no type was declared (an untyped
// Schema accepts any shape per OpenAPI's Schema Object semantics).
func (s *Schema) HasType(t string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Type) == 0 {
		return true
	}
	for _, declared := range s.Type {
		if declared == t {
			return true
		}
	}
	return false
}
