package enforcer

import (
	"math/big"
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// classify identifies the walk-context definitionType for a raw value, per
// the Data Model's {array, object, boolean, number, string, null, undefined}
// set. Integers and floats are both "number" here; Schema.Validate narrows
// "integer" separately when the declared type demands it.
func classify(v interface{}) DefinitionType {
	switch v := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case json.Number:
		return TypeNumber
	case float32, float64:
		return TypeNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case string:
		return TypeString
	case []interface{}:
		return TypeArray
	case map[string]interface{}:
		return TypeObject
	default:
		return TypeUndefined
	}
}

// isWholeNumber reports whether a numeric raw value has no fractional part,
// used to distinguish "integer" from "number" during validation.
func isWholeNumber(v interface{}) bool {
	switch n := v.(type) {
	case json.Number:
		if _, ok := new(big.Int).SetString(string(n), 10); ok {
			return true
		}
		f, ok := new(big.Float).SetString(string(n))
		if !ok {
			return false
		}
		_, acc := f.Int(nil)
		return acc == big.Exact
	case float64:
		_, acc := new(big.Float).SetFloat64(n).Int(nil)
		return acc == big.Exact
	case float32:
		_, acc := new(big.Float).SetFloat64(float64(n)).Int(nil)
		return acc == big.Exact
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		}
	}
	return 0, false
}

// isAbsoluteURI checks if the given URL is absolute.
func isAbsoluteURI(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// resolveRelativeURI resolves a relative URI against a base URI.
func resolveRelativeURI(baseURI, relativeURL string) string {
	if isAbsoluteURI(relativeURL) {
		return relativeURL
	}
	base, err := url.Parse(baseURI)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return relativeURL
	}
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return relativeURL
	}
	return base.ResolveReference(rel).String()
}

// splitRef separates a URI into its base URI and fragment parts.
func splitRef(ref string) (baseURI string, fragment string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return ref, ""
}

// lastPathSegment returns the final "/"-delimited segment of a pointer or
// path-like string, used to pull a component name out of a $ref such as
// "#/components/schemas/Dog" or "#/definitions/Dog".
func lastPathSegment(s string) string {
	return path.Base(strings.TrimSuffix(s, "/"))
}
