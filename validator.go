package enforcer

// Validator is any node in a validator descriptor tree: a *Descriptor
// (capability set), a BoolValidator (the literal true/false free-form and
// reject-all cases of §4.2.1), an *EnforcerRef (component instantiation
// marker, §3), or a ValidatorFunc (a callback resolved once per visit,
// §4.2 step 1).
type Validator interface {
	isValidator()
}

// BoolValidator implements the "validator is literally true/false" cases.
type BoolValidator bool

func (BoolValidator) isValidator() {}

// ValidatorFunc is a descriptor field (or whole validator) expressed as a
// callback over the current walk context, per §4.2.3.
type ValidatorFunc func(ctx *Context) Validator

func (ValidatorFunc) isValidator() {}

// EnforcerRef is the late-bound marker described in §3 and §4.2.2: "at this
// point, instantiate component X as a child enforcer". Config, if non-nil,
// overrides the component's own default meta-validator (used for the
// "boolean child continues normalization using the ref's inline config"
// case in §4.2.2).
type EnforcerRef struct {
	Component string
	Config    Validator
}

func (*EnforcerRef) isValidator() {}

// Ref constructs an EnforcerRef for the named component.
func Ref(component string) *EnforcerRef {
	return &EnforcerRef{Component: component}
}

// RefWith constructs an EnforcerRef carrying an inline descriptor override.
func RefWith(component string, config Validator) *EnforcerRef {
	return &EnforcerRef{Component: component, Config: config}
}

// Value is a tagged variant over a descriptor leaf: either a static literal
// or a callback closing over no state but the walk context (§9 "Callback-
// valued descriptors"). The zero Value resolves to the zero T.
type Value[T any] struct {
	static    T
	dynamic   func(ctx *Context) T
	isDynamic bool
	isSet     bool
}

// Static wraps a literal value.
func Static[T any](v T) Value[T] {
	return Value[T]{static: v, isSet: true}
}

// Dynamic wraps a callback.
func Dynamic[T any](fn func(ctx *Context) T) Value[T] {
	return Value[T]{dynamic: fn, isDynamic: true, isSet: true}
}

// Resolve returns the value, invoking the callback if dynamic.
func (v Value[T]) Resolve(ctx *Context) T {
	if v.isDynamic && v.dynamic != nil {
		return v.dynamic(ctx)
	}
	return v.static
}

// IsSet reports whether the leaf was ever assigned a Static or Dynamic value.
func (v Value[T]) IsSet() bool {
	return v.isSet
}

// PropertyRule is one entry in a Descriptor's Properties map: the child
// descriptor plus the per-property modifiers from §4.2.1 step 3-5
// (weight, required, allowed, ignored, default).
type PropertyRule struct {
	Validator Validator
	Weight    int
	Required  Value[bool]
	Allowed   Value[bool]
	Ignored   Value[bool]
	Default   Value[interface{}]
}

// Descriptor is the capability-set node of §3: type, properties, items,
// additionalProperties, enum, errors. The two literal-boolean object modes
// from §4.2.1 are not expressed on a Descriptor (a *Descriptor with neither
// Properties nor AdditionalProperties set is never itself a free-form/reject
// marker — use BoolValidator for that at the point a child validator is
// chosen).
type Descriptor struct {
	Type                 Value[[]string]
	Properties           map[string]*PropertyRule
	Items                Validator
	AdditionalProperties Validator
	Enum                 Value[[]interface{}]
	Errors               func(ctx *Context, result interface{})
}

func (*Descriptor) isValidator() {}

// resolveValidator repeatedly resolves ValidatorFunc callbacks until a
// non-callback validator is reached, per §4.2 step 1 / §4.2.2 "resolve
// callback validator as in step 1".
func resolveValidator(ctx *Context, v Validator) Validator {
	for {
		fn, ok := v.(ValidatorFunc)
		if !ok || fn == nil {
			return v
		}
		v = fn(ctx)
	}
}
