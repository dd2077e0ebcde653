package config

import (
	"sort"
	"strings"
)

// Reference describes one registry-reference block found in a tree: a
// section whose '@'-prefixed key names a registered function and whose
// remaining keys are the arguments for it. The core only recognizes the
// shape; resolving the name against a registry and calling the function is
// the consumer's job.
type Reference struct {
	Path      string // dotted path of the section
	Namespace string // the '@' key without its prefix, e.g. "optimizers"
	Name      string // the registered name
	Args      Tree   // sibling keys, '@' keys excluded; a deep copy
}

// References walks a tree and returns every registry-reference block,
// sorted by path. Nested blocks inside another block's arguments are
// reported too.
func References(t Tree) []Reference {
	var refs []Reference
	collectRefs(t, "", &refs)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs
}

func collectRefs(t Tree, path string, refs *[]Reference) {
	if key, name, ok := registryRef(t); ok {
		args := make(Tree, len(t))
		for k, v := range t {
			if strings.HasPrefix(k, "@") {
				continue
			}
			args[k] = v.Copy()
		}
		*refs = append(*refs, Reference{
			Path:      path,
			Namespace: strings.TrimPrefix(key, "@"),
			Name:      name,
			Args:      args,
		})
	}
	for k, v := range t {
		if v.IsSection() {
			collectRefs(v.Section(), joinPath(path, k), refs)
		}
	}
}
