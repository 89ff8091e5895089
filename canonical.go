package enforcer

import (
	"github.com/openbindings/openbindings-go/canonicaljson"
)

// CanonicalJSON renders value as RFC 8785 canonical JSON, used by
// formalize() for deterministic, hashable output; hasDuplicateItems applies
// the same encoding for uniqueItems deep-equality (§4.3.3, §8).
func CanonicalJSON(value interface{}) ([]byte, error) {
	return canonicaljson.Marshal(value)
}

// hasDuplicateItems reports whether arr contains two elements whose
// canonical JSON encodings are identical, which is the deep-equality rule
// uniqueItems requires over arbitrary JSON values (objects with reordered
// keys, differently-typed-but-equal numbers, etc).
func hasDuplicateItems(arr []interface{}) bool {
	seen := make(map[string]struct{}, len(arr))
	for _, el := range arr {
		b, err := canonicaljson.Marshal(el)
		if err != nil {
			continue
		}
		key := string(b)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
