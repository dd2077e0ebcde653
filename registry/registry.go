// Package registry is a process-scoped store of named functions grouped
// into namespaces, the collaborator that resolves the `@namespace = "name"`
// blocks a config tree carries. The store is owned by the caller and passed
// explicitly wherever resolution happens; there is no package-level global
// and no implicit discovery. Populate it with explicit Register calls during
// process initialization.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound marks lookups for namespaces or names that were never
// registered.
var ErrNotFound = errors.New("not found")

// Registry holds registered functions keyed by namespace and name. Safe for
// concurrent use: registration normally happens during init, lookups any
// time after.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{namespaces: make(map[string]map[string]any)}
}

// Create makes a new namespace and returns a handle for registering and
// looking up functions in it. It fails when the namespace already exists or
// when a segment is empty or contains a dot.
func (r *Registry) Create(namespace ...string) (*Namespace, error) {
	if len(namespace) == 0 {
		return nil, errors.New("registry: namespace must have at least one segment")
	}
	for _, seg := range namespace {
		if seg == "" || strings.Contains(seg, ".") {
			return nil, fmt.Errorf("registry: invalid namespace segment %q", seg)
		}
	}
	key := nsKey(namespace)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.namespaces[key]; ok {
		return nil, fmt.Errorf("registry: namespace %s already exists", key)
	}
	r.namespaces[key] = make(map[string]any)
	return &Namespace{registry: r, key: key}, nil
}

// Exists reports whether a namespace has been created.
func (r *Registry) Exists(namespace ...string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[nsKey(namespace)]
	return ok
}

// Lookup returns the function registered under a namespace and name. The
// returned error wraps ErrNotFound when either is unknown.
func (r *Registry) Lookup(namespace []string, name string) (any, error) {
	key := nsKey(namespace)
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.namespaces[key]
	if !ok {
		return nil, fmt.Errorf("registry: namespace %s: %w", key, ErrNotFound)
	}
	fn, ok := ns[name]
	if !ok {
		return nil, fmt.Errorf("registry: can't find %q in %s (available names: %s): %w",
			name, key, availableNames(ns), ErrNotFound)
	}
	return fn, nil
}

// Namespace is a handle on one namespace of a Registry.
type Namespace struct {
	registry *Registry
	key      string
}

// Register stores a function under a name. Registering the same name twice
// replaces the earlier function, matching last-write-wins for config keys.
func (ns *Namespace) Register(name string, fn any) {
	ns.registry.mu.Lock()
	defer ns.registry.mu.Unlock()
	ns.registry.namespaces[ns.key][name] = fn
}

// Contains reports whether a name is registered in this namespace.
func (ns *Namespace) Contains(name string) bool {
	ns.registry.mu.RLock()
	defer ns.registry.mu.RUnlock()
	_, ok := ns.registry.namespaces[ns.key][name]
	return ok
}

// Get returns the function registered under a name. The error for an
// unknown name lists what is available, to make typos in config files easy
// to spot.
func (ns *Namespace) Get(name string) (any, error) {
	ns.registry.mu.RLock()
	defer ns.registry.mu.RUnlock()
	fn, ok := ns.registry.namespaces[ns.key][name]
	if !ok {
		return nil, fmt.Errorf("registry: can't find %q in %s (available names: %s): %w",
			name, ns.key, availableNames(ns.registry.namespaces[ns.key]), ErrNotFound)
	}
	return fn, nil
}

// All returns a copy of every registered function in this namespace, keyed
// by name.
func (ns *Namespace) All() map[string]any {
	ns.registry.mu.RLock()
	defer ns.registry.mu.RUnlock()
	out := make(map[string]any, len(ns.registry.namespaces[ns.key]))
	for k, v := range ns.registry.namespaces[ns.key] {
		out[k] = v
	}
	return out
}

func nsKey(namespace []string) string {
	return strings.Join(namespace, ".")
}

func availableNames(ns map[string]any) string {
	if len(ns) == 0 {
		return "none"
	}
	names := make([]string, 0, len(ns))
	for n := range ns {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
