package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Interpolate resolves every placeholder in t against t itself and returns a
// new tree; t is never modified. A placeholder may resolve to another
// placeholder, to a whole section, or to a value nested arbitrarily deep
// inside list and mapping literals. Resolution fails with a ReferenceError
// when a path does not exist and with a CycleError when following
// placeholders revisits a path already being resolved.
func Interpolate(t Tree) (Tree, error) {
	in := &interpolator{
		root:     t,
		visiting: make(map[string]bool),
		done:     make(map[string]Value),
	}
	return in.tree(t)
}

// interpolator holds the bookkeeping for one resolution pass: the set of
// paths currently on the stack (cycle detection) and the paths already
// resolved (memoization). Discarded when the pass completes.
type interpolator struct {
	root     Tree
	visiting map[string]bool
	stack    []string
	done     map[string]Value
}

func (in *interpolator) tree(t Tree) (Tree, error) {
	out := make(Tree, len(t))
	for k, v := range t {
		rv, err := in.value(v)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func (in *interpolator) value(v Value) (Value, error) {
	if v.IsSection() {
		sub, err := in.tree(v.Section())
		if err != nil {
			return Value{}, err
		}
		return SectionVal(sub), nil
	}
	if path, ok := v.PlaceholderPath(); ok {
		return in.path(path)
	}
	leaf := v.Leaf()
	if leaf.IsNull() || !isComposite(leaf.Type()) {
		return v, nil
	}
	// Placeholders may hide inside list and mapping literals; rewrite them
	// element-wise.
	rewritten, err := cty.Transform(leaf, func(_ cty.Path, ev cty.Value) (cty.Value, error) {
		if ev.IsNull() || ev.Type() != cty.String {
			return ev, nil
		}
		m := placeholderRE.FindStringSubmatch(ev.AsString())
		if m == nil {
			return ev, nil
		}
		rv, err := in.path(m[1])
		if err != nil {
			return cty.NilVal, err
		}
		return rv.ctyValue(), nil
	})
	if err != nil {
		return Value{}, err
	}
	return LeafVal(rewritten), nil
}

// path resolves one dotted reference against the root tree, memoizing the
// result. The returned value is a deep copy: later mutation of the output
// tree must not reach back into another substitution site.
func (in *interpolator) path(path string) (Value, error) {
	if done, ok := in.done[path]; ok {
		return done.Copy(), nil
	}
	if in.visiting[path] {
		return Value{}, &CycleError{Path: path, Chain: append([]string(nil), in.stack...)}
	}
	raw, ok := in.root.GetPath(path)
	if !ok {
		return Value{}, &ReferenceError{Path: path}
	}
	in.visiting[path] = true
	in.stack = append(in.stack, path)
	resolved, err := in.value(raw)
	in.stack = in.stack[:len(in.stack)-1]
	delete(in.visiting, path)
	if err != nil {
		return Value{}, err
	}
	in.done[path] = resolved
	return resolved.Copy(), nil
}

func isComposite(ty cty.Type) bool {
	return ty.IsTupleType() || ty.IsListType() || ty.IsSetType() ||
		ty.IsObjectType() || ty.IsMapType()
}
