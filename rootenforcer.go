package enforcer

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// RootEnforcer is the entry point described in §6: it owns the
// ComponentRegistry and DataTypeRegistry shared by every walk it starts,
// and is the thing a caller asks to normalize a raw OpenAPI document into
// an enforcer tree. Grounded on the teacher's Compiler (schema cache,
// mutex-protected registries, default-wiring constructor).
type RootEnforcer struct {
	mu sync.RWMutex

	components *ComponentRegistry
	dataTypes  *DataTypeRegistry
	refParser  RefParser

	// DebugPanics, when true, lets a recovered callback panic propagate
	// after being recorded, instead of being fully swallowed (§12 Open
	// Question: panic-during-normalization debug mode).
	DebugPanics bool

	major, minor, patch int

	log *zap.Logger

	stats Stats
}

// Stats summarizes a RootEnforcer's cumulative usage, a supplemented
// operational convenience (§12) beyond the original spec.
type Stats struct {
	Normalizations int
	Exceptions     int
	Warnings       int
}

// NewRootEnforcer constructs a RootEnforcer targeting the given OpenAPI
// major/minor/patch version, wired with the "schema" component and a
// no-op logger by default.
func NewRootEnforcer(major, minor, patch int) *RootEnforcer {
	r := &RootEnforcer{
		components: NewComponentRegistry(),
		major:      major,
		minor:      minor,
		patch:      patch,
		log:        zap.NewNop(),
	}
	r.dataTypes = NewDataTypeRegistry(func(typ, format string) {
		r.log.Warn("data type format has no constructors registered",
			zap.String("type", typ), zap.String("format", format))
	})
	_ = r.components.Register("schema", newSchemaComponent)
	return r
}

// WithLogger installs a structured logger used for the data-type-registry
// missing-constructor warning and any diagnostics emitted while walking.
func (r *RootEnforcer) WithLogger(log *zap.Logger) *RootEnforcer {
	r.mu.Lock()
	r.log = log
	r.mu.Unlock()
	return r
}

// WithRefParser installs the collaborator discriminate() and $ref-bearing
// nodes use to resolve reference strings to already-materialized component
// instances.
func (r *RootEnforcer) WithRefParser(p RefParser) *RootEnforcer {
	r.mu.Lock()
	r.refParser = p
	r.mu.Unlock()
	return r
}

// RegisterComponent adds a named component constructor, extending the set
// the normalizer can instantiate via Ref/RefWith beyond the built-in
// "schema" component.
func (r *RootEnforcer) RegisterComponent(name string, ctor ComponentConstructor) error {
	return r.components.Register(name, ctor)
}

// DefineDataTypeFormat registers a (type, format) codec, per §4.4.
func (r *RootEnforcer) DefineDataTypeFormat(typ, format string, codec *FormatCodec) error {
	return r.dataTypes.Define(typ, format, codec)
}

// ParseJSON decodes raw JSON bytes into the generic interface{} tree the
// normalizer walks, using goccy/go-json for speed and json.Number-preserving
// number decoding (needed for exact integer/number distinction in
// isWholeNumber).
func ParseJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// ParseYAML decodes raw YAML bytes (OpenAPI documents are as commonly
// distributed as YAML as JSON) into the same generic interface{} tree.
func ParseYAML(data []byte) (interface{}, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}

// Normalize materializes definition — the raw root node of an OpenAPI
// document's Schema (or any Ref-rooted subtree) — into its enforcer tree,
// per §4.2/§6. component names the ComponentRegistry entry to instantiate
// at the root ("schema" for a bare Schema Object).
func (r *RootEnforcer) Normalize(definition interface{}, component string) (interface{}, *Exception, *Exception) {
	r.mu.RLock()
	componentCtx := r.components.Snapshot()
	r.mu.RUnlock()

	exc := newException()
	warn := newException()
	root := &Context{
		Definition:     definition,
		DefinitionType: classify(definition),
		Exception:      exc,
		Warn:           warn,
		Validator:      Ref(component),
		Map:            newMaterializedCache(),
		Major:          r.major,
		Minor:          r.minor,
		Patch:          r.patch,
		ComponentCtx:   componentCtx,
		Plugins:        newPluginQueue(),
		StaticData:     &StaticData{DataTypes: r.dataTypes, RefParser: r.refParser},
		DebugPanics:    r.DebugPanics,
	}
	root.Root = root

	result := runChildValidator(root)

	for _, err := range root.Plugins.Drain() {
		exc.Add("", "unexpected_error", err.Error(), nil)
	}

	r.mu.Lock()
	r.stats.Normalizations++
	if exc.HasException() {
		r.stats.Exceptions++
	}
	if warn.HasException() {
		r.stats.Warnings++
	}
	r.mu.Unlock()

	return result, exc, warn
}

// Stats returns a snapshot of this RootEnforcer's cumulative usage.
func (r *RootEnforcer) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
