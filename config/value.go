package config

import (
	"fmt"
	"regexp"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Tree is one nesting level of a configuration: a mapping from key to Value.
// Keys are unique within a tree; ordering is applied at render time, not
// stored here.
type Tree map[string]Value

// Value is a closed union over a scalar/composite leaf (held as a cty.Value)
// and a nested section (held as a Tree). The zero Value is invalid and only
// appears alongside a non-nil error.
type Value struct {
	kind    valueKind
	leaf    cty.Value
	section Tree
}

type valueKind uint8

const (
	kindInvalid valueKind = iota
	kindLeaf
	kindSection
)

// Kind describes the semantic type of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMapping
	KindSection
)

// LeafVal wraps a cty value as a leaf Value.
func LeafVal(v cty.Value) Value {
	return Value{kind: kindLeaf, leaf: v}
}

// SectionVal wraps a tree as a nested-section Value. The tree is aliased,
// not copied; use Tree.Copy first if the caller keeps mutating it.
func SectionVal(t Tree) Value {
	return Value{kind: kindSection, section: t}
}

// IsSection reports whether v holds a nested tree.
func (v Value) IsSection() bool {
	return v.kind == kindSection
}

// Section returns the nested tree. It panics when v is not a section; check
// IsSection first.
func (v Value) Section() Tree {
	if v.kind != kindSection {
		panic("config: Section called on a non-section value")
	}
	return v.section
}

// Leaf returns the underlying cty value. It panics when v is a section.
func (v Value) Leaf() cty.Value {
	if v.kind != kindLeaf {
		panic("config: Leaf called on a non-leaf value")
	}
	return v.leaf
}

// Kind reports the semantic type of v. Numbers split into KindInt and
// KindFloat by exactness.
func (v Value) Kind() Kind {
	switch v.kind {
	case kindSection:
		return KindSection
	case kindLeaf:
		if v.leaf.IsNull() {
			return KindNull
		}
		ty := v.leaf.Type()
		switch {
		case ty == cty.Bool:
			return KindBool
		case ty == cty.Number:
			if v.leaf.AsBigFloat().IsInt() {
				return KindInt
			}
			return KindFloat
		case ty == cty.String:
			return KindString
		case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
			return KindList
		case ty.IsObjectType() || ty.IsMapType():
			return KindMapping
		}
	}
	return KindInvalid
}

// placeholderRE matches a string whose entire content is a ${dotted.path}
// reference.
var placeholderRE = regexp.MustCompile(`^\$\{([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)\}$`)

// PlaceholderPath returns the dotted path of a placeholder value, or false
// when v is anything other than a whole-string ${...} reference.
func (v Value) PlaceholderPath() (string, bool) {
	if v.kind != kindLeaf || v.leaf.IsNull() || v.leaf.Type() != cty.String {
		return "", false
	}
	m := placeholderRE.FindStringSubmatch(v.leaf.AsString())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsPlaceholder reports whether v is an unresolved ${dotted.path} reference.
func (v Value) IsPlaceholder() bool {
	_, ok := v.PlaceholderPath()
	return ok
}

// Equal reports deep equality. Leaves compare with cty's RawEquals, so a
// number keeps its exact value and an int never equals a string.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindSection:
		return v.section.Equal(o.section)
	case kindLeaf:
		return v.leaf.RawEquals(o.leaf)
	}
	return true
}

// Copy returns a deep copy. Leaf cty values are immutable and shared;
// sections are copied recursively.
func (v Value) Copy() Value {
	if v.kind == kindSection {
		return SectionVal(v.section.Copy())
	}
	return v
}

// ctyValue flattens v into a plain cty value, turning sections into object
// values. Used when a resolved section lands inside a composite literal.
func (v Value) ctyValue() cty.Value {
	if v.kind == kindSection {
		return treeToCty(v.section)
	}
	return v.leaf
}

func treeToCty(t Tree) cty.Value {
	if len(t) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(t))
	for k, v := range t {
		attrs[k] = v.ctyValue()
	}
	return cty.ObjectVal(attrs)
}

// Copy returns a deep copy of the tree.
func (t Tree) Copy() Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v.Copy()
	}
	return out
}

// Equal reports deep equality of two trees.
func (t Tree) Equal(o Tree) bool {
	if len(t) != len(o) {
		return false
	}
	for k, v := range t {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// GetPath looks up a value by dotted path, descending through nested
// sections only. It reports false when any segment is missing or an
// intermediate segment is a leaf.
func (t Tree) GetPath(path string) (Value, bool) {
	segs := splitPath(path)
	cur := t
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return Value{}, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		if !v.IsSection() {
			return Value{}, false
		}
		cur = v.Section()
	}
	return Value{}, false
}

// SetPath assigns a value at a dotted path, creating intermediate sections
// as needed. It fails when an intermediate segment already holds a leaf.
func (t Tree) SetPath(path string, v Value) error {
	segs := splitPath(path)
	cur := t
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg]
		if !ok {
			sub := Tree{}
			cur[seg] = SectionVal(sub)
			cur = sub
			continue
		}
		if !next.IsSection() {
			return fmt.Errorf("segment %q is not a section", seg)
		}
		cur = next.Section()
	}
	cur[segs[len(segs)-1]] = v
	return nil
}

// FromGo converts a native Go value into a Value. Maps become sections,
// slices become tuple leaves, and scalars go through gocty's implied-type
// conversion. cty values and Values pass through unchanged.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x.Copy(), nil
	case Tree:
		return SectionVal(x.Copy()), nil
	case cty.Value:
		return LeafVal(x), nil
	case nil:
		return LeafVal(cty.NullVal(cty.DynamicPseudoType)), nil
	case map[string]any:
		t := make(Tree, len(x))
		for k, el := range x {
			ev, err := FromGo(el)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			t[k] = ev
		}
		return SectionVal(t), nil
	case []any:
		if len(x) == 0 {
			return LeafVal(cty.EmptyTupleVal), nil
		}
		vals := make([]cty.Value, 0, len(x))
		for i, el := range x {
			ev, err := FromGo(el)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			vals = append(vals, ev.ctyValue())
		}
		return LeafVal(cty.TupleVal(vals)), nil
	default:
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported value of type %T: %w", v, err)
		}
		cv, err := gocty.ToCtyValue(v, ty)
		if err != nil {
			return Value{}, err
		}
		return LeafVal(cv), nil
	}
}
