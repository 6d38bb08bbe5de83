package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagedeps/pagedeps/internal/server"
	"github.com/pagedeps/pagedeps/pkg/cache"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	manifest string        // manifest file path
	addr     string        // listen address
	profile  string        // deployment profile for URL selection
	redis    string        // redis address; enables the redis cache
	cacheDir string        // directory for the file cache
	ttl      time.Duration // preview cache TTL
}

// newServeCmd creates the serve command running the asset dev server.
//
// Cache selection: --redis wins, then --cache-dir, then the default file
// cache in the user cache directory.
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080", ttl: server.DefaultCacheTTL}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the asset dev server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "assets.toml", "manifest file")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "deployment profile for URL selection")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for a shared preview cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for a file-based preview cache")
	cmd.Flags().DurationVar(&opts.ttl, "cache-ttl", opts.ttl, "preview cache TTL")

	return cmd
}

// newCache builds the preview cache from the flags. The default is the
// file cache in the user cache directory, the one "pagedeps cache clear"
// manages; an unresolvable cache directory falls back to memory.
func newCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	switch {
	case opts.redis != "":
		return cache.NewRedis(ctx, opts.redis)
	case opts.cacheDir != "":
		return cache.NewFile(opts.cacheDir)
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewMemory(), nil
		}
		return cache.NewFile(dir)
	}
}

// runServe loads the manifest and serves until the context is canceled.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	_, factory, err := loadManifest(ctx, opts.manifest, opts.profile)
	if err != nil {
		return err
	}

	c, err := newCache(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := server.New(server.Config{
		Factory: factory,
		Profile: opts.profile,
		Cache:   c,
		TTL:     opts.ttl,
		Logger:  logger,
	})

	logger.Infof("Serving on %s", opts.addr)
	printInfo("Preview:  %s", StyleHighlight.Render("http://localhost"+opts.addr+"/preview?package=..."))
	printInfo("Resolve:  %s", StyleHighlight.Render("http://localhost"+opts.addr+"/resolve?lib=..."))

	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		logger.Info("Server stopped")
		return nil
	}
	return err
}
