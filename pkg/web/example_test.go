package web_test

import (
	"fmt"

	"github.com/pagedeps/pagedeps/pkg/web"
)

func ExampleWebDeps() {
	// Startup: declare everything the application might use.
	wd := web.NewWebDeps()
	_ = wd.Lib("jquery", web.Asset{URL: "/static/lib/jquery-1.7.1.min.js"})
	_ = wd.Lib("jquery.ui", web.Asset{URL: "/static/lib/jquery-ui.min.js", Deps: "jquery"})
	factory, _ := wd.Close()

	// Per request: require what the page needs, render once.
	page := factory()
	_ = page.Lib.Require("jquery.ui")
	out, _ := page.Lib.Tags()
	fmt.Println(out)
	// Output:
	// <script type="text/javascript" src="/static/lib/jquery-1.7.1.min.js"></script>
	// <script type="text/javascript" src="/static/lib/jquery-ui.min.js"></script>
}

func ExampleWebDeps_packages() {
	wd := web.NewWebDeps()
	_ = wd.Lib("deform", web.Asset{URL: "/static/lib/deform.js"})
	_ = wd.CSS("deform", web.Asset{URL: "/deform/css/form.css"})
	_ = wd.Package("deform", web.Bundle{Libs: "deform", CSS: "deform"})
	factory, _ := wd.Close()

	page := factory()
	_ = page.Package.Require("deform")
	head, _ := page.TopOutput()
	fmt.Println(head)
	// Output:
	// <link rel="stylesheet" type="text/css" href="/deform/css/form.css" />
}

func ExampleProfileProvider() {
	wd := web.NewWebDeps(web.WithURLProvider(web.ProfileProvider("cdn")))
	_ = wd.Lib("jquery", web.Asset{
		URL:  "/static/lib/jquery.min.js",
		URLs: map[string]string{"cdn": "https://cdn.example.com/jquery.min.js"},
	})
	factory, _ := wd.Close()

	page := factory()
	_ = page.Lib.Require("jquery")
	urls, _ := page.Lib.URLs()
	fmt.Println(urls[0])
	// Output:
	// https://cdn.example.com/jquery.min.js
}
