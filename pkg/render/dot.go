// Package render exports closed dependency registries as Graphviz DOT and
// SVG, so the declared asset graph can be inspected visually.
//
// Each registry becomes a cluster (scripts, stylesheets, packages), each
// dependency a node, and each resolved dependency an edge from dependent
// to prerequisite. Use [ToDOT] for the DOT text and [RenderSVG] to
// rasterize it with Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/pagedeps/pagedeps/pkg/deps"
)

// Group names one registry for export. The name becomes the cluster label
// and prefixes node IDs so handles may repeat across registries.
type Group struct {
	Name     string
	Registry *deps.Registry
}

// ToDOT renders the groups as a single DOT digraph. Every registry must be
// closed: edges come from the resolved dependency lists, which only exist
// after close. Returns deps.ErrRegistryOpen otherwise.
func ToDOT(groups []Group) (string, error) {
	for _, g := range groups {
		if !g.Registry.Closed() {
			return "", fmt.Errorf("group %q: %w", g.Name, deps.ErrRegistryOpen)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph pagedeps {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for i, g := range groups {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", g.Name)
		for _, item := range g.Registry.Items() {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID(g.Name, item), item.Handle())
		}
		for _, item := range g.Registry.Items() {
			for _, dep := range item.Deps() {
				fmt.Fprintf(&buf, "    %q -> %q;\n", nodeID(g.Name, item), nodeID(g.Name, dep))
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeID(group string, d *deps.Dependency) string {
	return group + "/" + d.Handle()
}

// RenderSVG rasterizes a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
