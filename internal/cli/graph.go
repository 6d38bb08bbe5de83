package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagedeps/pagedeps/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	manifest string // manifest file path
	output   string // output file path ("" means stdout)
	format   string // output format: dot or svg
}

// newGraphCmd creates the graph command for exporting the declared
// dependency graph. The DOT output groups libs, stylesheets and packages
// into separate clusters; SVG output renders the same graph via Graphviz.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph as DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return runGraph(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "assets.toml", "manifest file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")

	return cmd
}

// runGraph loads the manifest and writes the graph in the requested format.
func runGraph(ctx context.Context, opts *graphOpts) error {
	logger := loggerFromContext(ctx)

	wd, _, err := loadManifest(ctx, opts.manifest, "")
	if err != nil {
		return err
	}

	groups := []render.Group{
		{Name: "libs", Registry: wd.LibRegistry().Registry},
		{Name: "css", Registry: wd.CSSRegistry().Registry},
		{Name: "packages", Registry: wd.PackageRegistry()},
	}
	dot, err := render.ToDOT(groups)
	if err != nil {
		return err
	}

	data := []byte(dot)
	if opts.format == formatSVG {
		logger.Debug("Rendering SVG via graphviz")
		data, err = render.RenderSVG(dot)
		if err != nil {
			return err
		}
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Generated %s", opts.format)
		printFile(opts.output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
