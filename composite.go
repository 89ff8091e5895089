package enforcer

import "fmt"

// validateAllOf requires value to satisfy every branch, collecting one
// error per failing branch (§4.3.3, grounded on the teacher's allOf.go).
func validateAllOf(ctx *Context, branches []*Schema, value interface{}) {
	for i, branch := range branches {
		sub := newException()
		branch.validateInto(ctx, value, sub)
		if sub.HasException() {
			ctx.Exception.Add("allOf", "all_of_item_mismatch", fmt.Sprintf("value fails allOf branch %d", i), map[string]any{"index": i})
		}
	}
}

// validateAnyOf requires at least one branch to accept value (grounded on
// anyOf.go).
func validateAnyOf(ctx *Context, branches []*Schema, value interface{}) {
	for _, branch := range branches {
		sub := newException()
		branch.validateInto(ctx, value, sub)
		if !sub.HasException() {
			return
		}
	}
	if len(branches) > 0 {
		ctx.Exception.Add("anyOf", "any_of_no_match", "value matches no anyOf branch", nil)
	}
}

// validateOneOf requires exactly one branch to accept value; two or more
// matches is itself an error (grounded on oneOf.go).
func validateOneOf(ctx *Context, branches []*Schema, value interface{}) {
	var matched []int
	for i, branch := range branches {
		sub := newException()
		branch.validateInto(ctx, value, sub)
		if !sub.HasException() {
			matched = append(matched, i)
		}
	}
	switch {
	case len(matched) == 0 && len(branches) > 0:
		ctx.Exception.Add("oneOf", "one_of_no_match", "value matches no oneOf branch", nil)
	case len(matched) > 1:
		ctx.Exception.Add("oneOf", "one_of_multiple_matches", "value matches more than one oneOf branch", map[string]any{"indexes": matched})
	}
}

// validateNot requires value to fail schema (grounded on not.go).
func validateNot(ctx *Context, schema *Schema, value interface{}) {
	if schema == nil {
		return
	}
	sub := newException()
	schema.validateInto(ctx, value, sub)
	if !sub.HasException() {
		ctx.Exception.Add("not", "not_mismatch", "value must not match schema", nil)
	}
}
