package enforcer

import "strconv"

// Deserialize converts a raw, wire-shaped value (as parsed from JSON/YAML)
// into the schema's logical representation, per §4.3.1: string-encoded
// formats (date-time, byte, etc) are handed to the registered codec's
// Deserialize callback; structured values recurse property-by-property and
// item-by-item.
func (s *Schema) Deserialize(raw interface{}) *Result {
	exc := newException()
	warn := newException()
	value := s.deserializeInto(raw, exc, warn)
	return newResult(value, exc, warn)
}

func (s *Schema) deserializeInto(raw interface{}, exc, warn *Exception) interface{} {
	if s == nil || raw == nil {
		return raw
	}

	if s.Format != "" && s.dataTypes != nil {
		primitive := "string"
		if len(s.Type) > 0 {
			primitive = s.Type[0]
		}
		if codec, ok := s.dataTypes.Lookup(primitive, s.Format); ok {
			out, err := codec.Deserialize(&Context{Exception: exc, Warn: warn}, raw)
			if err != nil {
				exc.Add("format", "format_mismatch", err.Error(), map[string]any{"format": s.Format})
				return raw
			}
			return out
		}
	}

	switch dtype := classify(raw); dtype {
	case TypeArray:
		arr, _ := raw.([]interface{})
		out := make([]interface{}, len(arr))
		for i, el := range arr {
			child := exc.At(indexKey(i))
			childWarn := warn.At(indexKey(i))
			out[i] = s.Items.deserializeInto(el, child, childWarn)
		}
		return out
	case TypeObject:
		obj, _ := raw.(map[string]interface{})
		out := make(map[string]interface{}, len(obj))
		for key, v := range obj {
			if child, ok := s.Properties[key]; ok {
				out[key] = child.deserializeInto(v, exc.At(key), warn.At(key))
				continue
			}
			if sub, ok := s.AdditionalProperties.(*Schema); ok {
				out[key] = sub.deserializeInto(v, exc.At(key), warn.At(key))
				continue
			}
			out[key] = v
		}
		return out
	default:
		return raw
	}
}

func indexKey(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
