// Package confhcl loads HCL documents into config trees, as an alternative
// front-end to the line-oriented textual format. Blocks become nested
// sections (labels extend the section path), attributes become leaf values,
// and a bare variable reference like `hp.dropout` becomes the placeholder
// string "${hp.dropout}" so the config interpolator can resolve it later.
// Expressions are evaluated statically: no variables, no functions.
package confhcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/confgrid/config"
)

// Parse translates HCL source into a config.Tree. filename is used for
// diagnostics only.
func Parse(filename string, src []byte) (config.Tree, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("confhcl: parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("confhcl: unexpected body type %T", file.Body)
	}
	return translateBody(body)
}

func translateBody(body *hclsyntax.Body) (config.Tree, error) {
	out := config.Tree{}
	for name, attr := range body.Attributes {
		v, err := translateExpr(attr.Expr)
		if err != nil {
			return nil, err
		}
		out[name] = config.LeafVal(v)
	}
	for _, block := range body.Blocks {
		sub, err := translateBody(block.Body)
		if err != nil {
			return nil, err
		}
		path := append([]string{block.Type}, block.Labels...)
		if err := placeSection(out, path, sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// placeSection descends through path creating sections as needed and merges
// sub into the final one, so repeated blocks with the same type and labels
// accumulate the way re-opened sections do in the textual format.
func placeSection(root config.Tree, path []string, sub config.Tree) error {
	cur := root
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg]
		if !ok {
			t := config.Tree{}
			cur[seg] = config.SectionVal(t)
			cur = t
			continue
		}
		if !next.IsSection() {
			return fmt.Errorf("confhcl: block %s collides with attribute %q", strings.Join(path, "."), seg)
		}
		cur = next.Section()
	}
	last := path[len(path)-1]
	existing, ok := cur[last]
	if !ok {
		cur[last] = config.SectionVal(sub)
		return nil
	}
	if !existing.IsSection() {
		return fmt.Errorf("confhcl: block %s collides with attribute %q", strings.Join(path, "."), last)
	}
	target := existing.Section()
	for k, v := range sub {
		target[k] = v
	}
	return nil
}

func translateExpr(expr hclsyntax.Expression) (cty.Value, error) {
	if path, ok := traversalPath(expr); ok {
		return cty.StringVal("${" + path + "}"), nil
	}
	switch e := expr.(type) {
	case *hclsyntax.TupleConsExpr:
		if len(e.Exprs) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, 0, len(e.Exprs))
		for _, el := range e.Exprs {
			v, err := translateExpr(el)
			if err != nil {
				return cty.NilVal, err
			}
			vals = append(vals, v)
		}
		return cty.TupleVal(vals), nil
	case *hclsyntax.ObjectConsExpr:
		if len(e.Items) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(e.Items))
		for _, item := range e.Items {
			key, err := objectKey(item.KeyExpr)
			if err != nil {
				return cty.NilVal, err
			}
			v, err := translateExpr(item.ValueExpr)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = v
		}
		return cty.ObjectVal(attrs), nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("confhcl: evaluate expression at %s: %w", expr.Range().String(), diags)
	}
	return v, nil
}

// traversalPath recognizes the expression shapes that denote a reference to
// another config location: a bare traversal, or a template that consists of
// exactly one traversal interpolation.
func traversalPath(expr hclsyntax.Expression) (string, bool) {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return dottedTraversal(e.Traversal)
	case *hclsyntax.TemplateWrapExpr:
		return traversalPath(e.Wrapped)
	case *hclsyntax.TemplateExpr:
		if len(e.Parts) == 1 {
			return traversalPath(e.Parts[0])
		}
	}
	return "", false
}

func dottedTraversal(tr hcl.Traversal) (string, bool) {
	segs := make([]string, 0, len(tr))
	for _, step := range tr {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			segs = append(segs, s.Name)
		case hcl.TraverseAttr:
			segs = append(segs, s.Name)
		default:
			// Index steps have no dotted-path equivalent.
			return "", false
		}
	}
	return strings.Join(segs, "."), true
}

func objectKey(expr hclsyntax.Expression) (string, error) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("confhcl: evaluate object key at %s: %w", expr.Range().String(), diags)
	}
	if v.IsNull() || v.Type() != cty.String {
		return "", fmt.Errorf("confhcl: object key at %s must be a string", expr.Range().String())
	}
	return v.AsString(), nil
}
