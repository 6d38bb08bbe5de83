package deps

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry owns a set of dependencies and answers ordered-closure queries
// over them. It is mutable until [Registry.Close] is called and read-only
// afterwards.
//
// A Registry is built single-threaded at startup. After Close, Summon and
// SummonAll are safe for concurrent use; the internal memoization cache is
// guarded by a mutex.
//
// The zero value is not usable - use [NewRegistry].
type Registry struct {
	items  map[string]*Dependency
	order  []string // admission order, for deterministic close and iteration
	closed bool

	mu   sync.RWMutex
	memo map[string][]*Dependency
}

// NewRegistry creates an empty, open registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]*Dependency),
		memo:  make(map[string][]*Dependency),
	}
}

// Admit registers one or more dependencies under their handles.
// Returns ErrRegistryClosed after Close, or ErrDuplicateHandle if a handle
// was already admitted. On error, dependencies earlier in the argument list
// remain admitted.
func (r *Registry) Admit(ds ...*Dependency) error {
	if r.closed {
		return fmt.Errorf("admit: %w", ErrRegistryClosed)
	}
	for _, d := range ds {
		if _, exists := r.items[d.handle]; exists {
			return fmt.Errorf("admit %q: %w", d.handle, ErrDuplicateHandle)
		}
		r.items[d.handle] = d
		r.order = append(r.order, d.handle)
	}
	return nil
}

// Item returns the dependency admitted under handle, if any.
func (r *Registry) Item(handle string) (*Dependency, bool) {
	d, ok := r.items[handle]
	return d, ok
}

// Items returns all admitted dependencies in admission order.
func (r *Registry) Items() []*Dependency {
	items := make([]*Dependency, len(r.order))
	for i, h := range r.order {
		items[i] = r.items[h]
	}
	return items
}

// Len returns the number of admitted dependencies.
func (r *Registry) Len() int { return len(r.items) }

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool { return r.closed }

// Close resolves every declared handle to its dependency object and freezes
// the registry. For each item the declared handles are resolved in order and
// deduplicated by identity, keeping the first occurrence.
//
// Returns ErrUnknownHandle if a declared handle was never admitted, or
// ErrCyclicDependency if the declared graph contains a cycle. Both are
// startup configuration bugs and leave the registry open.
//
// Calling Close on an already-closed registry is a no-op returning nil.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	for _, h := range r.order {
		item := r.items[h]
		resolved := make([]*Dependency, 0, len(item.declared))
		seen := make(map[*Dependency]struct{}, len(item.declared))
		for _, dh := range item.declared {
			dep, ok := r.items[dh]
			if !ok {
				return fmt.Errorf("close: %q requires %q: %w", item.handle, dh, ErrUnknownHandle)
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			resolved = append(resolved, dep)
		}
		item.deps = resolved
	}
	if handle, ok := r.findCycle(); ok {
		// Undo resolution so a corrected graph can be re-closed.
		for _, item := range r.items {
			item.deps = nil
		}
		return fmt.Errorf("close: %q: %w", handle, ErrCyclicDependency)
	}
	r.closed = true
	return nil
}

// findCycle runs an iterative three-color depth-first search over the
// resolved graph and returns a handle on a cycle, if one exists.
func (r *Registry) findCycle() (string, bool) {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored
	)

	color := make(map[string]int, len(r.items))

	type frame struct {
		node *Dependency
		next int // index of the next dependency to visit
	}

	for _, root := range r.order {
		if color[root] != white {
			continue
		}
		stack := []frame{{node: r.items[root]}}
		color[root] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.node.deps) {
				color[top.node.handle] = black
				stack = stack[:len(stack)-1]
				continue
			}
			dep := top.node.deps[top.next]
			top.next++
			switch color[dep.handle] {
			case white:
				color[dep.handle] = gray
				stack = append(stack, frame{node: dep})
			case gray:
				return dep.handle, true
			}
		}
	}
	return "", false
}

// Summon resolves a comma-delimited list of handles into the ordered,
// deduplicated transitive closure: every requested dependency plus
// everything it transitively requires, each exactly once, with every
// prerequisite strictly before its dependents.
//
// Returns ErrRegistryOpen before Close, or ErrUnknownHandle if a requested
// handle does not exist.
func (r *Registry) Summon(handles string) ([]*Dependency, error) {
	if !r.closed {
		return nil, fmt.Errorf("summon: %w", ErrRegistryOpen)
	}
	parsed := ParseHandles(handles)
	items := make([]*Dependency, 0, len(parsed))
	for _, h := range parsed {
		item, ok := r.items[h]
		if !ok {
			return nil, fmt.Errorf("summon %q: %w", h, ErrUnknownHandle)
		}
		items = append(items, item)
	}
	return r.SummonAll(items)
}

// SummonAll is [Registry.Summon] for dependencies already in hand.
// The requested order is significant: independent subgraphs keep the
// relative order in which they were first requested.
//
// Results are memoized per distinct request signature for the lifetime of
// the registry; the returned slice is a fresh copy the caller may modify.
func (r *Registry) SummonAll(items []*Dependency) ([]*Dependency, error) {
	if !r.closed {
		return nil, fmt.Errorf("summon: %w", ErrRegistryOpen)
	}

	key := summonKey(items)
	r.mu.RLock()
	cached, ok := r.memo[key]
	r.mu.RUnlock()
	if ok {
		return slices.Clone(cached), nil
	}

	// Flatten each item self-first, then reverse so the deepest
	// prerequisites surface first, then keep first occurrences only.
	var flat []*Dependency
	for _, item := range items {
		flat = item.flatten(flat)
	}
	slices.Reverse(flat)

	ordered := make([]*Dependency, 0, len(flat))
	seen := make(map[*Dependency]struct{}, len(flat))
	for _, d := range flat {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		ordered = append(ordered, d)
	}

	r.mu.Lock()
	r.memo[key] = ordered
	r.mu.Unlock()
	return slices.Clone(ordered), nil
}

// summonKey builds the structural cache key for a request: the requested
// handles joined in order. Two requests with the same handles in the same
// order share a cache entry.
func summonKey(items []*Dependency) string {
	handles := make([]string, len(items))
	for i, d := range items {
		handles[i] = d.handle
	}
	return strings.Join(handles, ",")
}
