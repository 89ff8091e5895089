package enforcer

import (
	"math/rand"
	"reflect"
)

// RandomOptions configures Schema.Random per §4.3.5. All three possibility
// fields must lie in [0,1]; Random reports "possibility_out_of_range" and
// returns nil otherwise.
type RandomOptions struct {
	// DefinedPropertyPossibility is the chance an optional declared property
	// is included in a generated object. Default 0.80.
	DefinedPropertyPossibility float64
	// AdditionalPropertiesPossibility is the chance an object whose
	// additionalProperties is true or a Schema gets an extra, undeclared
	// property synthesized onto it. Default 0, since synthesizing
	// a property name out of nothing produces little value without a
	// vocabulary to draw from.
	AdditionalPropertiesPossibility float64
	// DefaultPossibility is the chance a schema carrying a Default uses it
	// verbatim instead of generating a fresh value. Default 0.25.
	DefaultPossibility float64

	// ArrayVariation bounds how many items beyond MinItems an array may
	// generate. Default 4.
	ArrayVariation int
	// NumberVariation bounds the magnitude of generated numeric values:
	// numbers and integers are drawn from [0, NumberVariation). Minimum,
	// Maximum and their exclusive forms are not consulted. Default 1000.
	NumberVariation int
	// MaxDepth bounds recursion into self-referential schemas. Default 10.
	MaxDepth int
	// UniqueItemRetry bounds the number of regeneration attempts used to
	// satisfy UniqueItems before accepting a duplicate. Default 5.
	UniqueItemRetry int
	// Copy, when true, generates from Example/Default by deep-copying
	// instead of returning the same instance, so callers may safely mutate
	// the result. Default false.
	Copy bool

	rng *rand.Rand
}

// DefaultRandomOptions returns §4.3.5's documented defaults.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		DefinedPropertyPossibility:      0.80,
		AdditionalPropertiesPossibility: 0,
		DefaultPossibility:              0.25,
		ArrayVariation:                  4,
		NumberVariation:                 1000,
		MaxDepth:                        10,
		UniqueItemRetry:                 5,
	}
}

func (o RandomOptions) rand() *rand.Rand {
	if o.rng != nil {
		return o.rng
	}
	return rand.New(rand.NewSource(1))
}

func (o RandomOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return 10
	}
	return o.MaxDepth
}

func (o RandomOptions) arrayVariation() int {
	if o.ArrayVariation <= 0 {
		return 4
	}
	return o.ArrayVariation
}

func (o RandomOptions) numberVariation() int {
	if o.NumberVariation <= 0 {
		return 1000
	}
	return o.NumberVariation
}

func (o RandomOptions) uniqueItemRetry() int {
	if o.UniqueItemRetry <= 0 {
		return 5
	}
	return o.UniqueItemRetry
}

// Random generates a value conforming to s, per §4.3.5. Enum and example,
// when present, are used as-is since they are already known-valid; a
// default is used with probability DefaultPossibility.
func (s *Schema) Random(opts RandomOptions) *Result {
	exc := newException()
	warn := newException()
	for _, p := range []float64{opts.DefinedPropertyPossibility, opts.AdditionalPropertiesPossibility, opts.DefaultPossibility} {
		if p < 0 || p > 1 {
			exc.Add("", "possibility_out_of_range", "possibility parameter out of range [0,1]", nil)
			return newResult(nil, exc, warn)
		}
	}
	if opts.rng == nil {
		opts.rng = rand.New(rand.NewSource(1))
	}
	value := s.randomValue(opts, opts.maxDepth())
	if opts.Copy {
		value = deepCopy(value)
	}
	return newResult(value, exc, warn)
}

func (s *Schema) randomValue(opts RandomOptions, depth int) interface{} {
	if s == nil {
		return nil
	}
	if len(s.Enum) > 0 {
		return s.Enum[opts.rand().Intn(len(s.Enum))]
	}
	if s.Default != nil && opts.rand().Float64() < opts.DefaultPossibility {
		return s.Default
	}
	if s.Example != nil {
		return s.Example
	}

	if s.Format != "" && s.dataTypes != nil {
		primitive := "string"
		if len(s.Type) > 0 {
			primitive = s.Type[0]
		}
		if codec, ok := s.dataTypes.Lookup(primitive, s.Format); ok && codec.Random != nil {
			if v, err := codec.Random(&Context{}, opts.DefinedPropertyPossibility); err == nil {
				return v
			}
		}
	}

	t := "object"
	if len(s.Type) > 0 {
		t = s.Type[0]
	}

	switch t {
	case "string":
		return "string"
	case "number":
		return float64(opts.rand().Intn(opts.numberVariation()))
	case "integer":
		return opts.rand().Intn(opts.numberVariation())
	case "boolean":
		return opts.rand().Float64() < 0.5
	case "array":
		if depth <= 0 || s.Items == nil {
			return []interface{}{}
		}
		n := 1
		if s.MinItems != nil {
			n = *s.MinItems
		}
		n += opts.rand().Intn(opts.arrayVariation())
		out := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			item := s.Items.randomValue(opts, depth-1)
			if s.UniqueItems {
				for retry := 0; retry < opts.uniqueItemRetry() && containsValue(out, item); retry++ {
					item = s.Items.randomValue(opts, depth-1)
				}
			}
			out = append(out, item)
		}
		return out
	case "object":
		out := make(map[string]interface{})
		if depth <= 0 {
			return out
		}
		for key, child := range s.Properties {
			if contains(s.Required, key) || opts.rand().Float64() < opts.DefinedPropertyPossibility {
				out[key] = child.randomValue(opts, depth-1)
			}
		}
		if opts.AdditionalPropertiesPossibility > 0 && opts.rand().Float64() < opts.AdditionalPropertiesPossibility {
			if sub, ok := s.AdditionalProperties.(*Schema); ok {
				out["additional"] = sub.randomValue(opts, depth-1)
			} else if ap, ok := s.AdditionalProperties.(bool); ok && ap {
				out["additional"] = "value"
			}
		}
		return out
	default:
		return nil
	}
}

// containsValue reports member-wise equality, used by UniqueItems retry.
func containsValue(haystack []interface{}, needle interface{}) bool {
	for _, v := range haystack {
		if reflect.DeepEqual(v, needle) {
			return true
		}
	}
	return false
}
