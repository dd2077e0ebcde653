package config

import (
	"encoding/json"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// coerceScalar converts one trimmed textual scalar into a typed cty value
// using JSON literal rules. Anything that is not a complete JSON document is
// kept verbatim as a string; the fallback is deliberate so bare tokens and
// placeholders survive a round trip without quoting.
func coerceScalar(raw string) cty.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "null" {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	b := []byte(trimmed)
	if !json.Valid(b) {
		return cty.StringVal(trimmed)
	}
	ty, err := ctyjson.ImpliedType(b)
	if err != nil {
		return cty.StringVal(trimmed)
	}
	v, err := ctyjson.Unmarshal(b, ty)
	if err != nil {
		return cty.StringVal(trimmed)
	}
	return v
}

// Coerce applies the textual scalar coercion rules to a raw string and
// returns the resulting leaf value. It never fails: unparseable input is a
// string. Exposed so callers feeding values from outside the textual format
// (CLI overrides, environment) get identical typing.
func Coerce(raw string) Value {
	return LeafVal(coerceScalar(raw))
}
