package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// RenderOptions control Render and ToBytes.
type RenderOptions struct {
	// Interpolate resolves placeholders before rendering. When false, a
	// tree still containing placeholders renders their literal ${...} text.
	Interpolate bool

	// Order lists top-level section names to emit first, in the given
	// order; remaining top-level sections follow alphabetically.
	Order []string
}

// Render writes a tree in the same grammar Parse accepts: leaf assignments
// first, then one [dotted.section] block per nested tree. Within a section
// keys are alphabetical. Comments and cosmetic whitespace of the original
// input are never reproduced, but parse(Render(t)) equals t for any tree
// Parse or Merge can produce.
//
// Render fails only when interpolation was requested and fails. A tree
// holding a value outside the representable union (unknown or capsule cty
// values, the zero Value) is a caller programming error and panics.
func Render(t Tree, opts RenderOptions) (string, error) {
	if opts.Interpolate {
		var err error
		t, err = Interpolate(t)
		if err != nil {
			return "", err
		}
	}
	var b strings.Builder
	renderTree(&b, t, "", opts.Order)
	return b.String(), nil
}

func renderTree(b *strings.Builder, t Tree, path string, order []string) {
	var leafKeys, sectionKeys []string
	for k, v := range t {
		if v.IsSection() {
			sectionKeys = append(sectionKeys, k)
		} else {
			leafKeys = append(leafKeys, k)
		}
	}
	sort.Strings(leafKeys)
	sort.Strings(sectionKeys)

	if path != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "[%s]\n", path)
	}
	for _, k := range leafKeys {
		fmt.Fprintf(b, "%s = %s\n", k, renderLeaf(t[k].Leaf()))
	}
	for _, k := range orderKeys(sectionKeys, order) {
		renderTree(b, t[k].Section(), joinPath(path, k), nil)
	}
}

// orderKeys returns keys with the explicitly ordered names first (those
// actually present), then the rest alphabetically. keys must be sorted.
func orderKeys(keys, order []string) []string {
	if len(order) == 0 {
		return keys
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	emitted := make(map[string]bool, len(order))
	for _, k := range order {
		if present[k] && !emitted[k] {
			out = append(out, k)
			emitted[k] = true
		}
	}
	for _, k := range keys {
		if !emitted[k] {
			out = append(out, k)
		}
	}
	return out
}

// renderLeaf renders one assignment value. Strings render bare when they
// would coerce back to themselves, otherwise JSON-quoted; everything else
// renders as a JSON literal.
func renderLeaf(v cty.Value) string {
	if !v.IsNull() && v.IsKnown() && v.Type() == cty.String {
		if s := v.AsString(); bareSafe(s) {
			return s
		}
	}
	return renderJSON(v)
}

// bareSafe reports whether a string can render unquoted: it must survive
// line trimming and coerce back to exactly itself.
func bareSafe(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return false
	}
	if strings.ContainsAny(s, "\n\r") {
		return false
	}
	cv := coerceScalar(s)
	return !cv.IsNull() && cv.Type() == cty.String && cv.AsString() == s
}

func renderJSON(v cty.Value) string {
	if v == cty.NilVal {
		panic("config: zero Value is not representable")
	}
	if !v.IsKnown() {
		panic("config: unknown value is not representable")
	}
	if v.IsNull() {
		return "null"
	}
	switch ty := v.Type(); {
	case ty == cty.String:
		return quoteString(v.AsString())
	case ty == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case ty == cty.Number:
		return formatNumber(v)
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var parts []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			parts = append(parts, renderJSON(ev))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ty.IsObjectType() || ty.IsMapType():
		m := v.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, quoteString(k)+": "+renderJSON(m[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		panic(fmt.Sprintf("config: value of type %s is not representable", ty.FriendlyName()))
	}
}

func quoteString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail.
		panic(err)
	}
	return string(b)
}

// formatNumber renders a cty number exactly: integers without a decimal
// point, everything else in the shortest form that re-parses to the same
// value.
func formatNumber(v cty.Value) string {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		return bf.Text('f', -1)
	}
	return bf.Text('g', -1)
}
