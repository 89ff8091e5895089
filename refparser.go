package enforcer

import "fmt"

// LocalRefParser is the default, in-document RefParser: it resolves
// "#/components/schemas/Name" (v3) and "#/definitions/Name" (v2) style
// pointers against a flat map of already-materialized Schema instances, as
// built by a caller that has normalized an OpenAPI document's components
// section before calling Schema.Discriminate on its children.
//
// Reference resolution across documents is explicitly out of scope (§1):
// any ref whose base URI resolves to something other than sourceURI is
// rejected rather than fetched, since fetching another file or URL is the
// very capability the spec declines to provide.
type LocalRefParser struct {
	sourceURI  string
	components map[string]*Schema
}

// NewLocalRefParser builds a RefParser scoped to a single already-loaded
// document. sourceURI identifies that document (used only to detect
// cross-document refs); components maps a schema's short name (the last
// path segment of its $ref, e.g. "Dog" out of "#/components/schemas/Dog")
// to its materialized *Schema.
func NewLocalRefParser(sourceURI string, components map[string]*Schema) *LocalRefParser {
	return &LocalRefParser{sourceURI: sourceURI, components: components}
}

// Resolve implements RefParser.
func (p *LocalRefParser) Resolve(ref string) (interface{}, error) {
	baseURI, fragment := splitRef(ref)
	if baseURI != "" {
		resolved := resolveRelativeURI(p.sourceURI, baseURI)
		if isAbsoluteURI(resolved) && resolved != p.sourceURI {
			return nil, fmt.Errorf("%w: cross-document reference %q is out of scope", ErrReferenceResolution, ref)
		}
	}

	name := lastPathSegment(fragment)
	if s, ok := p.components[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrReferenceResolution, ref)
}
