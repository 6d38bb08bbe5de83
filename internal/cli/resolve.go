package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagedeps/pagedeps/pkg/web"
	"github.com/pagedeps/pagedeps/pkg/web/manifest"
)

// Handle kinds accepted by --kind.
const (
	kindLib     = "lib"
	kindCSS     = "css"
	kindPackage = "package"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	manifest string // manifest file path
	profile  string // deployment profile for URL selection
	kind     string // handle kind: lib, css or package
	tags     bool   // print HTML tags instead of URLs
}

// newResolveCmd creates the resolve command. It loads the manifest, requires
// the given handles on a fresh page, and prints the ordered URLs (or, with
// --tags, the rendered HTML blocks).
func newResolveCmd() *cobra.Command {
	opts := resolveOpts{kind: kindLib}

	cmd := &cobra.Command{
		Use:   "resolve [handles...]",
		Short: "Resolve handles into ordered URLs or HTML tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateKind(opts.kind); err != nil {
				return err
			}
			return runResolve(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "assets.toml", "manifest file")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "deployment profile for URL selection")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", opts.kind, "handle kind: lib (default), css, package")
	cmd.Flags().BoolVar(&opts.tags, "tags", false, "print HTML tags instead of URLs")

	return cmd
}

// validateKind checks that the kind is lib, css or package.
func validateKind(k string) error {
	if k != kindLib && k != kindCSS && k != kindPackage {
		return fmt.Errorf("invalid kind: %s (must be 'lib', 'css', or 'package')", k)
	}
	return nil
}

// loadManifest loads and closes the manifest at path, honoring the profile.
// It is shared by the resolve, graph and serve commands.
func loadManifest(ctx context.Context, path, profile string) (*web.WebDeps, web.Factory, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var opts []web.Option
	if profile != "" {
		opts = append(opts, web.WithURLProvider(web.ProfileProvider(profile)))
	}
	wd, err := manifest.LoadFile(path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	factory, err := wd.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("close %s: %w", path, err)
	}

	libs := wd.LibRegistry().Len()
	styles := wd.CSSRegistry().Len()
	packages := wd.PackageRegistry().Len()
	prog.done(fmt.Sprintf("Loaded %d libs, %d stylesheets, %d packages", libs, styles, packages))
	return wd, factory, nil
}

// runResolve resolves the handles and prints the result.
func runResolve(ctx context.Context, handles []string, opts *resolveOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Resolving %s handles: %s", opts.kind, strings.Join(handles, ", "))

	_, factory, err := loadManifest(ctx, opts.manifest, opts.profile)
	if err != nil {
		return err
	}

	page := factory()
	joined := strings.Join(handles, ",")
	switch opts.kind {
	case kindLib:
		err = page.Lib.Require(joined)
	case kindCSS:
		err = page.CSS.Require(joined)
	case kindPackage:
		err = page.Package.Require(joined)
	}
	if err != nil {
		return err
	}

	if opts.tags {
		return printTags(page)
	}
	return printURLs(page, opts.kind)
}

// printTags prints the page's stylesheet block followed by the script block,
// in the order they belong on a page.
func printTags(page *web.PageDeps) error {
	top, err := page.TopOutput()
	if err != nil {
		return err
	}
	bottom, err := page.BottomOutput()
	if err != nil {
		return err
	}
	if top != "" {
		fmt.Println(top)
	}
	fmt.Println(bottom)
	return nil
}

// printURLs prints the resolved URLs in load order, one per line.
func printURLs(page *web.PageDeps, kind string) error {
	cssURLs, err := page.CSS.URLs()
	if err != nil {
		return err
	}
	libURLs, err := page.Lib.URLs()
	if err != nil {
		return err
	}

	for _, url := range cssURLs {
		printKeyValue("css", url)
	}
	for _, url := range libURLs {
		printKeyValue("lib", url)
	}
	if kind == kindPackage && len(cssURLs)+len(libURLs) == 0 {
		printDetail("package has no linked assets")
	}
	return nil
}
