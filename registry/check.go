package registry

import (
	"fmt"
	"strings"

	"github.com/vk/confgrid/config"
)

// Check verifies that every registry-reference block in a config tree names
// a function present in r. It performs lookups only; nothing is invoked and
// no arguments are inspected. The returned error lists every unknown
// reference, not just the first.
func Check(r *Registry, t config.Tree) error {
	var unknown []string
	for _, ref := range config.References(t) {
		if _, err := r.Lookup([]string{ref.Namespace}, ref.Name); err != nil {
			unknown = append(unknown, fmt.Sprintf("%s (@%s = %q)", ref.Path, ref.Namespace, ref.Name))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("registry: config references unknown functions: %s", strings.Join(unknown, ", "))
	}
	return nil
}
