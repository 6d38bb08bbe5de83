// Package web binds the dependency resolution engine to web assets:
// javascript libraries, CSS stylesheets and composite packages.
//
// # Overview
//
// There are four moments that should never be confused:
//
//  1. Declaration of every available script and stylesheet (and their
//     order), done once as the server starts, with [WebDeps].
//  2. Per request, creation of a fresh [PageDeps] via the factory returned
//     by [WebDeps.Close].
//  3. Declaration of what the current page needs, via the PageDeps
//     components, from any view or template fragment.
//  4. Output: stylesheet tags for the <head>, script tags for the bottom of
//     the <body>.
//
// # Startup
//
//	wd := web.NewWebDeps()
//	wd.Lib("jquery", web.Asset{URL: "/static/lib/jquery.min.js"})
//	wd.Lib("deform", web.Asset{URL: "/static/lib/deform.js", Deps: "jquery, jquery.ui"})
//	wd.CSS("deform", web.Asset{URL: "/deform/css/form.css"})
//	wd.Package("deform", web.Bundle{Libs: "deform", CSS: "deform"})
//	factory, err := wd.Close()
//
// # Per request
//
//	page := factory()
//	page.Lib.Require("jquery")
//	page.Package.Require("deform")
//	head, _ := page.TopOutput()      // stylesheet link tags
//	body, _ := page.BottomOutput()   // script tags + inline fragments
//
// A handle may be required any number of times; it is rendered once, in
// dependency order. [Middleware] attaches a fresh PageDeps to each HTTP
// request context for handler and template code to pick up with
// [FromRequest].
//
// # Deployment profiles
//
// An [Asset] may carry alternate URLs keyed by profile name (development
// source, CDN, minified copy). [ProfileProvider] selects among them at
// render time, so one declared graph serves every deployment:
//
//	wd := web.NewWebDeps(web.WithURLProvider(web.ProfileProvider("cdn")))
package web
