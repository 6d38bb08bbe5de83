package web

import (
	"fmt"
	"strings"

	"github.com/pagedeps/pagedeps/pkg/deps"
)

// PageDeps accumulates the asset requirements of a single page. One
// instance is created per request by the [Factory] returned from
// [WebDeps.Close], used while the page renders, and discarded.
//
// PageDeps never mutates the registries it queries. It is not safe for
// concurrent use - a request is served by one goroutine at a time, and
// instances are never shared across requests.
type PageDeps struct {
	Lib     *Component
	CSS     *Component
	Script  *ScriptComponent
	Package *PackageComponent
}

func newPageDeps(libs, styles *TagRegistry, packages *deps.Registry) *PageDeps {
	p := &PageDeps{
		Lib:    &Component{reg: libs},
		CSS:    &Component{reg: styles},
		Script: &ScriptComponent{},
	}
	p.Package = &PackageComponent{packages: packages, page: p}
	return p
}

// TopOutput returns the stylesheet link tags, for the <head> element.
func (p *PageDeps) TopOutput() (string, error) {
	return p.CSS.Tags()
}

// BottomOutput returns the script tags followed by the inline script
// block, for the bottom of the <body> element.
func (p *PageDeps) BottomOutput() (string, error) {
	tags, err := p.Lib.Tags()
	if err != nil {
		return "", err
	}
	return tags + "\n" + p.Script.Tags(), nil
}

// HTML returns stylesheet tags, script tags and the inline script block
// joined by newlines. Mostly useful in tests and debugging output.
func (p *PageDeps) HTML() (string, error) {
	top, err := p.CSS.Tags()
	if err != nil {
		return "", err
	}
	libs, err := p.Lib.Tags()
	if err != nil {
		return "", err
	}
	return strings.Join([]string{top, libs, p.Script.Tags()}, "\n"), nil
}

// Component accumulates requirements against one tag registry (scripts or
// stylesheets) and exposes the ordered results for rendering.
type Component struct {
	reg   *TagRegistry
	items []*deps.Dependency
}

// Require appends one or more handles (comma-delimited) to this page's
// requirements. Requiring a handle twice is harmless; duplicates collapse
// during resolution. Returns deps.ErrUnknownHandle for handles that were
// never declared.
func (c *Component) Require(handles string) error {
	for _, h := range deps.ParseHandles(handles) {
		item, ok := c.reg.Item(h)
		if !ok {
			return fmt.Errorf("require %q: %w", h, deps.ErrUnknownHandle)
		}
		c.items = append(c.items, item)
	}
	return nil
}

// Resolved returns the ordered, deduplicated closure of everything
// required so far.
func (c *Component) Resolved() ([]*deps.Dependency, error) {
	return c.reg.SummonAll(c.items)
}

// URLs returns the closure mapped through the registry's URL provider, in
// load order. Recommended for templating languages that build their own
// tags.
func (c *Component) URLs() ([]string, error) {
	return c.reg.URLs(c.items)
}

// Tags returns the closure rendered as newline-joined HTML tags.
func (c *Component) Tags() (string, error) {
	return c.reg.Tags(c.items)
}

// ScriptComponent collects ad hoc inline javascript fragments. Fragments
// are kept in first-added order and deduplicated verbatim.
type ScriptComponent struct {
	fragments []string
}

// Add appends an inline script fragment. Adding the same fragment twice
// has no effect.
func (s *ScriptComponent) Add(script string) {
	for _, f := range s.fragments {
		if f == script {
			return
		}
	}
	s.fragments = append(s.fragments, script)
}

// Tags returns the fragments wrapped in a single <script> element, or a
// lone newline when no fragment was added.
func (s *ScriptComponent) Tags() string {
	if len(s.fragments) == 0 {
		return "\n"
	}
	parts := make([]string, 0, len(s.fragments)+2)
	parts = append(parts, `<script type="text/javascript">`)
	parts = append(parts, s.fragments...)
	parts = append(parts, "</script>\n")
	return strings.Join(parts, "\n")
}

// PackageComponent requires composite bundles: a package pulls in its
// package dependencies first, then its scripts, stylesheets and inline
// script.
type PackageComponent struct {
	packages *deps.Registry
	page     *PageDeps
}

// Require expands one or more package handles (comma-delimited) into the
// page's lib, css and script components. Requiring a package twice is
// harmless. Returns deps.ErrUnknownHandle for undeclared packages.
func (p *PackageComponent) Require(handles string) error {
	for _, h := range deps.ParseHandles(handles) {
		pkg, ok := p.packages.Item(h)
		if !ok {
			return fmt.Errorf("require package %q: %w", h, deps.ErrUnknownHandle)
		}
		// Package dependencies expand first so their assets precede ours
		// in request order. The package registry is closed and acyclic,
		// which bounds the recursion.
		for _, dep := range pkg.Deps() {
			if err := p.Require(dep.Handle()); err != nil {
				return err
			}
		}
		if libs := pkg.Attr(AttrLibs); libs != "" {
			if err := p.page.Lib.Require(libs); err != nil {
				return err
			}
		}
		if css := pkg.Attr(AttrCSS); css != "" {
			if err := p.page.CSS.Require(css); err != nil {
				return err
			}
		}
		if script := pkg.Attr(AttrScript); script != "" {
			p.page.Script.Add(script)
		}
	}
	return nil
}
