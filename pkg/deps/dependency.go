package deps

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyHandle is returned by [New] when the handle is empty.
	// Every dependency must have a non-empty, stable name.
	ErrEmptyHandle = errors.New("dependency handle must not be empty")

	// ErrDuplicateHandle is returned by [Registry.Admit] when a dependency
	// with the same handle was already admitted. Handles are unique per
	// registry; re-declaring one is a configuration bug.
	ErrDuplicateHandle = errors.New("duplicate dependency handle")

	// ErrUnknownHandle is returned by [Registry.Close] when a declared
	// dependency handle was never admitted, and by [Registry.Summon] when a
	// requested handle does not exist.
	ErrUnknownHandle = errors.New("unknown dependency handle")

	// ErrRegistryClosed is returned by [Registry.Admit] after
	// [Registry.Close] has been called. All declarations must happen before
	// the registry is frozen.
	ErrRegistryClosed = errors.New("registry is already closed")

	// ErrRegistryOpen is returned by [Registry.Summon] and
	// [Registry.SummonAll] before [Registry.Close] has been called.
	// Closure queries require a frozen, validated graph.
	ErrRegistryOpen = errors.New("registry is not closed yet")

	// ErrCyclicDependency is returned by [Registry.Close] when the declared
	// graph contains a cycle. Cycles are detected eagerly at close time so
	// that traversal never recurses unboundedly.
	ErrCyclicDependency = errors.New("cyclic dependency")
)

// Attrs stores optional string attributes attached to a dependency.
// The resolution engine treats them as opaque; consumers define their own
// key conventions (the web layer uses "url", deployment-profile names and
// the package member keys "libs", "css" and "script").
type Attrs map[string]string

// Dependency is a named node in a dependency graph. It declares the handles
// it depends on at construction time; the actual node references are
// resolved once, when the owning [Registry] closes.
//
// A Dependency has no behavior beyond identity and attribute storage.
// Instances are created with [New] and must not be shared between
// registries.
type Dependency struct {
	handle   string
	declared []string // handles as declared, insertion order, may repeat
	attrs    Attrs
	deps     []*Dependency // resolved by Registry.Close, nil before that
}

// New creates a dependency named handle that declares the given dependency
// handles. The declared handles are kept in order and may contain
// duplicates; they are validated and resolved when the owning registry
// closes, not here. Returns ErrEmptyHandle if handle is empty.
//
// The attrs map is stored as-is and exposed through [Dependency.Attr];
// pass nil if the node carries no attributes.
func New(handle string, depHandles []string, attrs Attrs) (*Dependency, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, ErrEmptyHandle
	}
	return &Dependency{
		handle:   handle,
		declared: append([]string(nil), depHandles...),
		attrs:    attrs,
	}, nil
}

// Handle returns the unique name of the dependency.
func (d *Dependency) Handle() string { return d.handle }

// String returns the handle, making dependencies readable in logs and
// test failures.
func (d *Dependency) String() string { return d.handle }

// Attr returns the value stored under key, or "" if the attribute is not
// set.
func (d *Dependency) Attr(key string) string { return d.attrs[key] }

// DeclaredDeps returns a copy of the dependency handles exactly as
// declared: in order, possibly with duplicates, possibly still unresolved.
func (d *Dependency) DeclaredDeps() []string {
	return append([]string(nil), d.declared...)
}

// Deps returns the resolved direct dependencies. The slice is computed by
// [Registry.Close] (deduplicated, first-seen order) and is nil before the
// registry closes. Callers must not modify it.
func (d *Dependency) Deps() []*Dependency { return d.deps }

// flatten appends d and, recursively, each resolved dependency (self first,
// declaration order) to out. The result may contain duplicates. Only valid
// after the owning registry closed: Close guarantees the graph is acyclic,
// which bounds the recursion.
func (d *Dependency) flatten(out []*Dependency) []*Dependency {
	out = append(out, d)
	for _, dep := range d.deps {
		out = dep.flatten(out)
	}
	return out
}

// ParseHandles splits a comma-delimited handle list into individual
// handles, trimming whitespace and dropping empty entries.
//
//	ParseHandles("jquery, jquery.ui") // ["jquery" "jquery.ui"]
//	ParseHandles("")                  // nil
func ParseHandles(s string) []string {
	if s == "" {
		return nil
	}
	var handles []string
	for _, part := range strings.Split(s, ",") {
		if h := strings.TrimSpace(part); h != "" {
			handles = append(handles, h)
		}
	}
	return handles
}
