package enforcer

// evaluateFormat checks a Schema's declared format against the value being
// validated by Schema.Validate, per §4.4/§4.5. It first consults the root's
// DataTypeRegistry (codecs registered via RootEnforcer.DefineDataTypeFormat);
// if nothing is registered there it falls back to the built-in Formats
// annotation validators. An entirely unrecognized format is not an error —
// it is recorded as a warning (the "unknown format" testable scenario) and
// validation otherwise proceeds.
func evaluateFormat(ctx *Context, primitiveType, format string, value interface{}) {
	if format == "" {
		return
	}

	if ctx.StaticData != nil && ctx.StaticData.DataTypes != nil {
		if codec, ok := ctx.StaticData.DataTypes.Lookup(primitiveType, format); ok {
			if err := codec.Validate(ctx, value); err != nil {
				ctx.Exception.Add("format", "format_mismatch", "Value does not match format '{format}'", map[string]interface{}{"format": format})
			}
			return
		}
	}

	if validator, ok := Formats[format]; ok {
		if !validator(value) {
			ctx.Exception.Add("format", "format_mismatch", "Value does not match format '{format}'", map[string]interface{}{"format": format})
		}
		return
	}

	ctx.Warn.Add("format", "unknown_format", "Unknown format '{format}'", map[string]interface{}{"format": format})
}
