package enforcer

// Serialize converts a schema's logical-representation value back into its
// wire shape, per §4.3.2 — the inverse of Deserialize. Format codecs run
// their Serialize callback; structured values recurse.
func (s *Schema) Serialize(value interface{}) *Result {
	exc := newException()
	warn := newException()
	out := s.serializeInto(value, exc, warn)
	return newResult(out, exc, warn)
}

func (s *Schema) serializeInto(value interface{}, exc, warn *Exception) interface{} {
	if s == nil || value == nil {
		return value
	}

	if s.Format != "" && s.dataTypes != nil {
		primitive := "string"
		if len(s.Type) > 0 {
			primitive = s.Type[0]
		}
		if codec, ok := s.dataTypes.Lookup(primitive, s.Format); ok {
			out, err := codec.Serialize(&Context{Exception: exc, Warn: warn}, value)
			if err != nil {
				exc.Add("format", "format_mismatch", err.Error(), map[string]any{"format": s.Format})
				return value
			}
			return out
		}
	}

	switch dtype := classify(value); dtype {
	case TypeArray:
		arr, _ := value.([]interface{})
		out := make([]interface{}, len(arr))
		for i, el := range arr {
			key := indexKey(i)
			out[i] = s.Items.serializeInto(el, exc.At(key), warn.At(key))
		}
		return out
	case TypeObject:
		obj, _ := value.(map[string]interface{})
		out := make(map[string]interface{}, len(obj))
		for key, v := range obj {
			if child, ok := s.Properties[key]; ok {
				out[key] = child.serializeInto(v, exc.At(key), warn.At(key))
				continue
			}
			if sub, ok := s.AdditionalProperties.(*Schema); ok {
				out[key] = sub.serializeInto(v, exc.At(key), warn.At(key))
				continue
			}
			out[key] = v
		}
		return out
	default:
		return value
	}
}
