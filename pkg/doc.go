// Package pkg provides the core libraries for pagedeps asset dependency
// resolution.
//
// # Overview
//
// pagedeps orders web assets (scripts, stylesheets, packages) so that every
// dependency loads before its dependents, deduplicated across an entire
// page. The pkg directory is organized into four areas:
//
//  1. [deps] - Domain logic (handles, registries, ordering, cycle detection)
//  2. [web] - Web layer (tag rendering, per-request pages, middleware, manifests)
//  3. [render] - Graph export (DOT and SVG via Graphviz)
//  4. [cache] - Rendered-output caches (memory, file, Redis)
//
// # Architecture
//
// The typical data flow through pagedeps:
//
//	Manifest / declaration API
//	         ↓
//	    [web] package (declare libs, stylesheets, packages; close once)
//	         ↓
//	    [deps] package (resolve, order, deduplicate)
//	         ↓
//	    per-request PageDeps → URLs / HTML tag blocks
//
// # Quick Start
//
// Declare assets at startup, then require them per page:
//
//	wd := web.NewWebDeps()
//	_ = wd.Lib("jquery", web.Asset{URL: "/static/jquery.js"})
//	_ = wd.Lib("deform", web.Asset{Deps: "jquery", URL: "/static/deform.js"})
//	factory, err := wd.Close()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page := factory()
//	_ = page.Lib.Require("deform")
//	tags, _ := page.BottomOutput() // jquery before deform
//
// [deps]: https://pkg.go.dev/github.com/pagedeps/pagedeps/pkg/deps
// [web]: https://pkg.go.dev/github.com/pagedeps/pagedeps/pkg/web
// [render]: https://pkg.go.dev/github.com/pagedeps/pagedeps/pkg/render
// [cache]: https://pkg.go.dev/github.com/pagedeps/pagedeps/pkg/cache
package pkg
