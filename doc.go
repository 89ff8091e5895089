// Package enforcer implements the core of an OpenAPI document enforcement
// engine: a recursive, validator-descriptor-driven normalizer that walks a
// raw OpenAPI v2/v3 definition into a tree of enforcer objects, and a Schema
// subsystem that deserializes, serializes, validates, populates, and
// randomizes values against that tree.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package enforcer
