package enforcer

import "errors"

// === Structural errors (§7: wrong type, missing required, disallowed key...) ===
var (
	// ErrUnknownDataType is returned when a definition's runtime shape matches
	// none of {array, object, boolean, number, string, null}.
	ErrUnknownDataType = errors.New("unknown data type")

	// ErrTypeMismatch is returned when a definition's type does not match the
	// validator descriptor's declared type set.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEnumMismatch is returned when a value is not member-wise equal to any
	// allowed enum value.
	ErrEnumMismatch = errors.New("enum mismatch")

	// ErrNotAllowed is returned for a key present in a definition but not
	// declared in the validator descriptor's properties/additionalProperties.
	ErrNotAllowed = errors.New("not allowed")

	// ErrMissingRequired is returned when a required property is absent.
	ErrMissingRequired = errors.New("missing required")

	// ErrMustBePlainObject is returned when an EnforcerRef is applied to a
	// non-object, non-boolean child.
	ErrMustBePlainObject = errors.New("must be a plain object")

	// ErrDuplicateComponent is returned when a component name is registered
	// twice on the same ComponentRegistry.
	ErrDuplicateComponent = errors.New("duplicate component registration")
)

// === Semantic errors (§7: min > max, conflicting flags, composite conflicts...) ===
var (
	// ErrMultipleComposites is returned when a schema declares more than one
	// of allOf/anyOf/oneOf/not.
	ErrMultipleComposites = errors.New("cannot have multiple composites")

	// ErrMinGreaterThanMax is returned when a min/max pair is inverted.
	ErrMinGreaterThanMax = errors.New("minimum exceeds maximum")

	// ErrReadWriteOnlyConflict is returned when both readOnly and writeOnly
	// are true on the same schema.
	ErrReadWriteOnlyConflict = errors.New("readOnly and writeOnly are mutually exclusive")

	// ErrDiscriminatorPropertyNotRequired is returned when a v3 discriminator's
	// propertyName is not present in both required and properties.
	ErrDiscriminatorPropertyNotRequired = errors.New("discriminator property must be required and declared")

	// ErrDiscriminatorTargetMissing is returned when discriminate() cannot find
	// a schema for the resolved discriminator value.
	ErrDiscriminatorTargetMissing = errors.New("discriminator target not found")

	// ErrOneOfMultipleMatches is returned when more than one oneOf branch validates.
	ErrOneOfMultipleMatches = errors.New("value matches more than one oneOf branch")

	// ErrCompositeNoMatch is returned when anyOf/oneOf finds zero matching branches.
	ErrCompositeNoMatch = errors.New("value matches no branch")

	// ErrAllOfInvalidBranch is returned when one or more allOf branches reject the value.
	ErrAllOfInvalidBranch = errors.New("value fails one or more allOf branches")

	// ErrNotMatched is returned when a value incorrectly validates against a "not" schema.
	ErrNotMatched = errors.New("value must not match schema")
)

// === Resolution errors ===
var (
	// ErrReferenceResolution is returned when a $ref or discriminator mapping
	// target cannot be resolved by the supplied refParser.
	ErrReferenceResolution = errors.New("reference resolution failed")
)

// === Random/possibility parameter errors (§4.3.5) ===
var (
	// ErrPossibilityOutOfRange is returned when a possibility option lies outside [0,1].
	ErrPossibilityOutOfRange = errors.New("possibility parameter out of range [0,1]")

	// ErrNegativeDepth is returned when populate's depth option is negative.
	ErrNegativeDepth = errors.New("depth must be a non-negative integer")
)

// === Data type registry errors (§4.4) ===
var (
	// ErrUnknownPrimitiveType is returned by defineDataTypeFormat for a type
	// outside {boolean, integer, number, string}.
	ErrUnknownPrimitiveType = errors.New("unknown primitive type")

	// ErrEmptyFormat is returned when format is empty or non-string.
	ErrEmptyFormat = errors.New("format must be a non-empty string")

	// ErrDuplicateFormat is returned when (type, format) is already registered.
	ErrDuplicateFormat = errors.New("duplicate (type, format) registration")

	// ErrMissingCodec is returned when a format definition omits a required callback.
	ErrMissingCodec = errors.New("format definition missing required callback")
)

// === Type conversion errors (rat.go, formalize.go) ===
var (
	// ErrUnsupportedRatType is returned when a value cannot become a *big.Rat.
	ErrUnsupportedRatType = errors.New("unsupported type for rat conversion")

	// ErrRatConversion is returned when string-to-rat parsing fails.
	ErrRatConversion = errors.New("rat conversion failed")
)

// === Host error (§7) ===
var (
	// ErrUnexpectedError wraps any panic recovered during a callback invocation.
	ErrUnexpectedError = errors.New("unexpected error encountered")
)
