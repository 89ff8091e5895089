package enforcer

import (
	"fmt"
	"sync"
)

// FormatCodec bundles the callbacks a (type, format) pair registers, per
// §4.4. Deserialize/Serialize/Validate are required; Random and Constructors
// are optional, but Constructors being nil triggers the once-per-(type,
// format) warning described there.
type FormatCodec struct {
	Deserialize  func(ctx *Context, raw interface{}) (interface{}, error)
	Serialize    func(ctx *Context, value interface{}) (interface{}, error)
	Validate     func(ctx *Context, value interface{}) error
	Random       func(ctx *Context, possibility float64) (interface{}, error)
	Constructors []string
	IsNumeric    bool
}

type dataTypeKey struct {
	typ    string
	format string
}

// DataTypeRegistry is the per-root mutable registry described in §4.4: a
// {boolean, integer, number, string} x format matrix of codecs. A nil
// FormatCodec passed to Define de-registers the (type, format) pair.
type DataTypeRegistry struct {
	mu      sync.Mutex
	codecs  map[dataTypeKey]*FormatCodec
	warned  map[dataTypeKey]bool
	warnFn  func(typ, format string)
}

var knownPrimitiveTypes = map[string]bool{
	"boolean": true,
	"integer": true,
	"number":  true,
	"string":  true,
}

// NewDataTypeRegistry creates an empty registry. warnFn, if non-nil, is
// invoked the first time a (type, format) pair is used without registered
// Constructors (the "warns once" rule of §4.4); it is the seam
// RootEnforcer's logger hooks into.
func NewDataTypeRegistry(warnFn func(typ, format string)) *DataTypeRegistry {
	return &DataTypeRegistry{
		codecs: make(map[dataTypeKey]*FormatCodec),
		warned: make(map[dataTypeKey]bool),
		warnFn: warnFn,
	}
}

// Define registers or de-registers a (type, format) codec, enforcing §4.4's
// validation rules: type must be one of the four primitives, format must be
// a non-empty string, the pair must not already be registered, and a
// non-nil codec must carry Deserialize/Serialize/Validate.
func (r *DataTypeRegistry) Define(typ, format string, def *FormatCodec) error {
	if !knownPrimitiveTypes[typ] {
		return fmt.Errorf("%w: %q", ErrUnknownPrimitiveType, typ)
	}
	if format == "" {
		return ErrEmptyFormat
	}

	key := dataTypeKey{typ, format}

	r.mu.Lock()
	defer r.mu.Unlock()

	if def == nil {
		delete(r.codecs, key)
		delete(r.warned, key)
		return nil
	}

	if _, exists := r.codecs[key]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateFormat, typ, format)
	}
	if def.Deserialize == nil || def.Serialize == nil || def.Validate == nil {
		return fmt.Errorf("%w: %s/%s", ErrMissingCodec, typ, format)
	}

	r.codecs[key] = def
	return nil
}

// Lookup returns the codec registered for (typ, format), warning once (via
// warnFn) if it was found but has no Constructors entries.
func (r *DataTypeRegistry) Lookup(typ, format string) (*FormatCodec, bool) {
	key := dataTypeKey{typ, format}

	r.mu.Lock()
	codec, ok := r.codecs[key]
	if ok && len(codec.Constructors) == 0 && !r.warned[key] {
		r.warned[key] = true
		warnFn := r.warnFn
		r.mu.Unlock()
		if warnFn != nil {
			warnFn(typ, format)
		}
		return codec, true
	}
	r.mu.Unlock()
	return codec, ok
}

// Formats lists every format string registered for typ.
func (r *DataTypeRegistry) Formats(typ string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for key := range r.codecs {
		if key.typ == typ {
			out = append(out, key.format)
		}
	}
	return out
}
