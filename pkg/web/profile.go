package web

import "github.com/pagedeps/pagedeps/pkg/deps"

// URLProvider selects the URL to render for a dependency. It is called at
// render time, so one declared graph can serve multiple deployment
// profiles (development, CDN, minified) without re-declaring anything.
type URLProvider func(*deps.Dependency) string

// DefaultURLProvider returns the dependency's "url" attribute.
func DefaultURLProvider(d *deps.Dependency) string {
	return d.Attr(AttrURL)
}

// ProfileProvider returns a URLProvider that prefers the URL declared for
// the named deployment profile and falls back to the default "url"
// attribute. Assets commonly declare either a single URL or a handful of
// alternates; the fallback lets both coexist in one registry.
//
//	wd := web.NewWebDeps(web.WithURLProvider(web.ProfileProvider("cdn")))
func ProfileProvider(profile string) URLProvider {
	return func(d *deps.Dependency) string {
		if url := d.Attr(profile); url != "" {
			return url
		}
		return d.Attr(AttrURL)
	}
}
