package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// DiscardReason classifies why Merge ignored or dropped a value.
type DiscardReason string

const (
	// DiscardFunctionMismatch: both sides held a registry-reference block
	// with different registered names, so the base block was replaced
	// wholesale rather than merged key-wise.
	DiscardFunctionMismatch DiscardReason = "function-mismatch"

	// DiscardShapeConflict: one side held a section and the other a leaf;
	// the override side won.
	DiscardShapeConflict DiscardReason = "shape-conflict"

	// DiscardPlaceholderKept: the base value was an unresolved placeholder,
	// so the supplied override value was ignored.
	DiscardPlaceholderKept DiscardReason = "placeholder-kept"
)

// Diagnostic records one value Merge discarded or ignored, so callers can
// detect silent overrides if they choose to check.
type Diagnostic struct {
	Path   string
	Reason DiscardReason
	Detail string
}

// Merge combines a base tree and an override tree into a new tree; both
// inputs are left untouched and Merge never fails. Per key, recursively:
//
//   - A key present on only one side is copied as-is.
//   - Two sections deep-merge, unless both are registry-reference blocks
//     with different registered names, in which case the override block
//     replaces the base block wholesale. Mixing arguments across different
//     function signatures is unsafe.
//   - An unresolved placeholder in the base is kept even when an override
//     value was supplied: intentional variable wiring beats a literal.
//   - Otherwise the override value wins. Lists are atomic, never merged
//     element-wise.
func Merge(base, override Tree) (Tree, []Diagnostic) {
	m := &merger{}
	out := m.trees(base, override, "")
	return out, m.diags
}

type merger struct {
	diags []Diagnostic
}

func (m *merger) trees(base, override Tree, path string) Tree {
	out := make(Tree, len(base)+len(override))
	for k, bv := range base {
		ov, ok := override[k]
		if !ok {
			out[k] = bv.Copy()
			continue
		}
		out[k] = m.values(bv, ov, joinPath(path, k))
	}
	for k, ov := range override {
		if _, ok := base[k]; ok {
			continue
		}
		out[k] = ov.Copy()
	}
	return out
}

func (m *merger) values(base, override Value, path string) Value {
	switch {
	case base.IsSection() && override.IsSection():
		bt, ot := base.Section(), override.Section()
		bKey, bName, bRef := registryRef(bt)
		oKey, oName, oRef := registryRef(ot)
		if bRef && oRef && (bKey != oKey || bName != oName) {
			m.record(path, DiscardFunctionMismatch,
				fmt.Sprintf("base block %s = %q replaced by %s = %q", bKey, bName, oKey, oName))
			return override.Copy()
		}
		return SectionVal(m.trees(bt, ot, path))
	case override.IsSection():
		m.record(path, DiscardShapeConflict, "override section replaces base value")
		return override.Copy()
	case base.IsSection():
		m.record(path, DiscardShapeConflict, "override value replaces base section")
		return override.Copy()
	default:
		if base.IsPlaceholder() {
			m.record(path, DiscardPlaceholderKept, "base placeholder kept, override value ignored")
			return base
		}
		return override.Copy()
	}
}

func (m *merger) record(path string, reason DiscardReason, detail string) {
	m.diags = append(m.diags, Diagnostic{Path: path, Reason: reason, Detail: detail})
}

// registryRef reports whether t is a registry-reference block: a section
// with a key starting with '@' whose value names a registered function.
// With multiple '@' keys the alphabetically first one identifies the block.
func registryRef(t Tree) (key, name string, ok bool) {
	var refKeys []string
	for k, v := range t {
		if strings.HasPrefix(k, "@") && !v.IsSection() {
			refKeys = append(refKeys, k)
		}
	}
	if len(refKeys) == 0 {
		return "", "", false
	}
	sort.Strings(refKeys)
	key = refKeys[0]
	leaf := t[key].Leaf()
	if !leaf.IsNull() && leaf.Type() == cty.String {
		name = leaf.AsString()
	} else {
		name = renderLeaf(leaf)
	}
	return key, name, true
}
