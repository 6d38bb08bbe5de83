// Package manifest loads web-asset declarations from TOML files.
//
// A manifest replaces hand-written startup code: the file lists every
// script, stylesheet and package with the same vocabulary as the [web]
// declaration API, and [Load] turns it into a ready-to-close
// [web.WebDeps].
//
//	[[lib]]
//	handle = "jquery"
//	url = "/static/lib/jquery-1.7.1.min.js"
//
//	[lib.urls]
//	cdn = "https://cdn.example.com/jquery-1.7.1.min.js"
//
//	[[lib]]
//	handle = "jquery.ui"
//	url = "/static/lib/jquery-ui.min.js"
//	deps = "jquery"
//
//	[[css]]
//	handle = "jquery.ui"
//	url = "/static/css/jquery-ui.css"
//
//	[[package]]
//	handle = "jquery.ui"
//	libs = "jquery.ui"
//	css = "jquery.ui"
//
// Validation is split the same way as in code: duplicate and empty handles
// fail during Load, unresolved references and cycles fail when the caller
// closes the returned WebDeps.
//
// [web]: github.com/pagedeps/pagedeps/pkg/web
package manifest

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pagedeps/pagedeps/pkg/web"
)

// File is the decoded shape of an asset manifest.
type File struct {
	Libs     []AssetDecl   `toml:"lib"`
	Styles   []AssetDecl   `toml:"css"`
	Packages []PackageDecl `toml:"package"`
}

// AssetDecl declares one script or stylesheet.
type AssetDecl struct {
	Handle string            `toml:"handle"`
	Deps   string            `toml:"deps"`
	URL    string            `toml:"url"`
	URLs   map[string]string `toml:"urls"`
}

// PackageDecl declares one composite package.
type PackageDecl struct {
	Handle string `toml:"handle"`
	Deps   string `toml:"deps"`
	Libs   string `toml:"libs"`
	CSS    string `toml:"css"`
	Script string `toml:"script"`
}

// Load reads a TOML manifest and returns a populated, still-open WebDeps.
// The caller closes it (directly or via further declarations first).
func Load(r io.Reader, opts ...web.Option) (*web.WebDeps, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return f.WebDeps(opts...)
}

// LoadFile reads the manifest at path. See [Load].
func LoadFile(path string, opts ...web.Option) (*web.WebDeps, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	wd, err := Load(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wd, nil
}

// WebDeps applies the decoded declarations to a fresh WebDeps.
func (f *File) WebDeps(opts ...web.Option) (*web.WebDeps, error) {
	wd := web.NewWebDeps(opts...)
	for _, l := range f.Libs {
		if err := wd.Lib(l.Handle, web.Asset{Deps: l.Deps, URL: l.URL, URLs: l.URLs}); err != nil {
			return nil, fmt.Errorf("lib %q: %w", l.Handle, err)
		}
	}
	for _, s := range f.Styles {
		if err := wd.CSS(s.Handle, web.Asset{Deps: s.Deps, URL: s.URL, URLs: s.URLs}); err != nil {
			return nil, fmt.Errorf("css %q: %w", s.Handle, err)
		}
	}
	for _, p := range f.Packages {
		if err := wd.Package(p.Handle, web.Bundle{Deps: p.Deps, Libs: p.Libs, CSS: p.CSS, Script: p.Script}); err != nil {
			return nil, fmt.Errorf("package %q: %w", p.Handle, err)
		}
	}
	return wd, nil
}
