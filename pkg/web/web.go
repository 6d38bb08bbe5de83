package web

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pagedeps/pagedeps/pkg/deps"
)

// Documented attribute keys on asset dependencies. Profile URLs are stored
// under the profile name itself; everything else is listed here.
const (
	// AttrURL holds the default URL of a script or stylesheet.
	AttrURL = "url"
	// AttrLibs holds the comma-delimited script handles of a package.
	AttrLibs = "libs"
	// AttrCSS holds the comma-delimited stylesheet handles of a package.
	AttrCSS = "css"
	// AttrScript holds the inline javascript fragment of a package.
	AttrScript = "script"
)

// Tag templates for rendered assets. The %s verb receives the URL chosen
// by the configured URLProvider.
const (
	scriptTagFormat = `<script type="text/javascript" src="%s"></script>`
	cssTagFormat    = `<link rel="stylesheet" type="text/css" href="%s" />`
)

// Asset declares a script or stylesheet: its default URL, optional
// per-profile alternates, and the handles it depends on.
type Asset struct {
	Deps string            // comma-delimited handles this asset requires
	URL  string            // default URL
	URLs map[string]string // profile name → alternate URL
}

func (a Asset) attrs() deps.Attrs {
	attrs := make(deps.Attrs, len(a.URLs)+1)
	if a.URL != "" {
		attrs[AttrURL] = a.URL
	}
	for profile, url := range a.URLs {
		attrs[profile] = url
	}
	return attrs
}

// Bundle declares a package: a named group of scripts, stylesheets, other
// packages and an optional inline script that pages can require in one
// call.
type Bundle struct {
	Deps   string // comma-delimited handles of other packages
	Libs   string // comma-delimited script handles
	CSS    string // comma-delimited stylesheet handles
	Script string // inline javascript fragment
}

func (b Bundle) attrs() deps.Attrs {
	attrs := deps.Attrs{}
	if b.Libs != "" {
		attrs[AttrLibs] = b.Libs
	}
	if b.CSS != "" {
		attrs[AttrCSS] = b.CSS
	}
	if b.Script != "" {
		attrs[AttrScript] = b.Script
	}
	return attrs
}

// Factory creates a fresh per-request [PageDeps]. It is returned by
// [WebDeps.Close] and is safe to call concurrently.
type Factory func() *PageDeps

// Option configures a [WebDeps].
type Option func(*WebDeps)

// WithURLProvider sets the URL selection policy for all registries.
// The default is [DefaultURLProvider].
func WithURLProvider(p URLProvider) Option {
	return func(w *WebDeps) { w.provider = p }
}

// WebDeps is the startup-time declaration surface. Declare every script,
// stylesheet and package the application might use, then call
// [WebDeps.Close] once to freeze the registries and obtain the per-request
// factory.
//
// WebDeps is built single-threaded at startup and must not be mutated once
// requests are being served.
type WebDeps struct {
	provider URLProvider
	libs     *TagRegistry
	styles   *TagRegistry
	packages *deps.Registry
}

// NewWebDeps creates an empty declaration surface.
func NewWebDeps(opts ...Option) *WebDeps {
	w := &WebDeps{provider: DefaultURLProvider}
	for _, opt := range opts {
		opt(w)
	}
	w.libs = newTagRegistry(w.provider, scriptTagFormat)
	w.styles = newTagRegistry(w.provider, cssTagFormat)
	w.packages = deps.NewRegistry()
	return w
}

// Lib declares a javascript library under handle.
func (w *WebDeps) Lib(handle string, a Asset) error {
	return admit(w.libs.Registry, handle, a.Deps, a.attrs())
}

// CSS declares a stylesheet under handle.
func (w *WebDeps) CSS(handle string, a Asset) error {
	return admit(w.styles.Registry, handle, a.Deps, a.attrs())
}

// Package declares a composite bundle under handle. Bundle.Deps names
// other packages; Libs and CSS name entries in the script and stylesheet
// registries, validated when Close is called.
func (w *WebDeps) Package(handle string, b Bundle) error {
	return admit(w.packages, handle, b.Deps, b.attrs())
}

func admit(reg *deps.Registry, handle, depHandles string, attrs deps.Attrs) error {
	d, err := deps.New(handle, deps.ParseHandles(depHandles), attrs)
	if err != nil {
		return err
	}
	return reg.Admit(d)
}

// Close freezes the three registries and returns the per-request factory.
// It validates all declared handles, including package member references
// into the script and stylesheet registries, and detects cycles. Any error
// is a startup configuration bug and should abort initialization.
func (w *WebDeps) Close() (Factory, error) {
	if err := w.libs.Close(); err != nil {
		return nil, fmt.Errorf("libs: %w", err)
	}
	if err := w.styles.Close(); err != nil {
		return nil, fmt.Errorf("css: %w", err)
	}
	if err := w.packages.Close(); err != nil {
		return nil, fmt.Errorf("packages: %w", err)
	}
	if err := w.validatePackageMembers(); err != nil {
		return nil, err
	}
	return func() *PageDeps {
		return newPageDeps(w.libs, w.styles, w.packages)
	}, nil
}

// validatePackageMembers checks that every package's member handles exist
// in their target registries, so that a bad bundle fails at startup rather
// than on the first request that uses it.
func (w *WebDeps) validatePackageMembers() error {
	for _, pkg := range w.packages.Items() {
		for _, h := range deps.ParseHandles(pkg.Attr(AttrLibs)) {
			if _, ok := w.libs.Item(h); !ok {
				return fmt.Errorf("package %q: lib %q: %w", pkg.Handle(), h, deps.ErrUnknownHandle)
			}
		}
		for _, h := range deps.ParseHandles(pkg.Attr(AttrCSS)) {
			if _, ok := w.styles.Item(h); !ok {
				return fmt.Errorf("package %q: css %q: %w", pkg.Handle(), h, deps.ErrUnknownHandle)
			}
		}
	}
	return nil
}

// LibRegistry exposes the script registry (for graph export and tooling).
func (w *WebDeps) LibRegistry() *TagRegistry { return w.libs }

// CSSRegistry exposes the stylesheet registry.
func (w *WebDeps) CSSRegistry() *TagRegistry { return w.styles }

// PackageRegistry exposes the package registry.
func (w *WebDeps) PackageRegistry() *deps.Registry { return w.packages }

// TagRegistry is a dependency registry that additionally renders its
// ordered closures as URL lists and HTML tag blocks. Rendered results are
// memoized per request signature, mirroring the closure memoization in
// [deps.Registry].
type TagRegistry struct {
	*deps.Registry
	provider URLProvider
	format   string

	mu      sync.RWMutex
	urlMemo map[string][]string
	tagMemo map[string]string
}

func newTagRegistry(provider URLProvider, format string) *TagRegistry {
	return &TagRegistry{
		Registry: deps.NewRegistry(),
		provider: provider,
		format:   format,
		urlMemo:  make(map[string][]string),
		tagMemo:  make(map[string]string),
	}
}

// URLs resolves the ordered closure of items and maps each dependency
// through the configured URLProvider.
func (r *TagRegistry) URLs(items []*deps.Dependency) ([]string, error) {
	key := requestKey(items)
	r.mu.RLock()
	cached, ok := r.urlMemo[key]
	r.mu.RUnlock()
	if ok {
		return append([]string(nil), cached...), nil
	}

	ordered, err := r.SummonAll(items)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(ordered))
	for i, d := range ordered {
		urls[i] = r.provider(d)
	}

	r.mu.Lock()
	r.urlMemo[key] = urls
	r.mu.Unlock()
	return append([]string(nil), urls...), nil
}

// Tags renders the ordered closure of items as newline-joined HTML tags.
func (r *TagRegistry) Tags(items []*deps.Dependency) (string, error) {
	key := requestKey(items)
	r.mu.RLock()
	cached, ok := r.tagMemo[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	urls, err := r.URLs(items)
	if err != nil {
		return "", err
	}
	tags := make([]string, len(urls))
	for i, url := range urls {
		tags[i] = fmt.Sprintf(r.format, url)
	}
	out := strings.Join(tags, "\n")

	r.mu.Lock()
	r.tagMemo[key] = out
	r.mu.Unlock()
	return out, nil
}

func requestKey(items []*deps.Dependency) string {
	handles := make([]string, len(items))
	for i, d := range items {
		handles[i] = d.Handle()
	}
	return strings.Join(handles, ",")
}
