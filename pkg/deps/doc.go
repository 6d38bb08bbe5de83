// Package deps implements the dependency declaration and resolution engine
// that powers pagedeps.
//
// # Overview
//
// Web pages are composed from fragments, and each fragment needs scripts and
// stylesheets that must be linked exactly once and in the right order
// (jquery.ui after jquery, base stylesheets before overrides). This package
// solves the general form of that problem: a registry of named nodes, each
// declaring the handles it depends on, that can compute an ordered,
// deduplicated transitive closure for any requested subset.
//
// # Lifecycle
//
// A [Registry] has two phases:
//
//  1. Open: [Registry.Admit] registers [Dependency] nodes. Declarations may
//     arrive in any order - a node can name handles that are only admitted
//     later.
//  2. Closed: [Registry.Close] resolves every declared handle to its node,
//     rejects unknown handles and cycles, and freezes the registry. From
//     this point [Registry.Summon] answers closure queries and further
//     Admit calls fail.
//
// The split matches how web applications work: declarations happen once at
// startup, queries happen on every request. After Close the registry is
// read-only (apart from an internal memoization cache) and safe for
// concurrent use.
//
// # Ordering
//
// Summon flattens each requested node self-first in declaration order,
// concatenates the per-item lists, reverses the whole thing and drops
// duplicates keeping the first occurrence. The reversal surfaces the deepest
// prerequisites first, so every node appears strictly after everything it
// depends on. Nodes with no dependency relationship keep the relative order
// in which they were first requested.
//
//	reg := deps.NewRegistry()
//	jq, _ := deps.New("jquery", nil, nil)
//	ui, _ := deps.New("jquery.ui", deps.ParseHandles("jquery"), nil)
//	_ = reg.Admit(jq, ui)
//	_ = reg.Close()
//	ordered, _ := reg.Summon("jquery.ui") // [jquery jquery.ui]
//
// # Attributes
//
// Nodes carry an optional [Attrs] map of string key-value pairs. The
// resolver never interprets them; consumers such as [web] use documented
// keys ("url", deployment-profile names, package member lists) to attach
// policy on top of the ordering engine.
//
// [web]: github.com/pagedeps/pagedeps/pkg/web
package deps
