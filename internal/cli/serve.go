package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeml/internal/server"
	"github.com/matzehuels/treeml/pkg/cache"
	"github.com/matzehuels/treeml/pkg/pipeline"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Serve conversions over HTTP.

  POST /v1/dependency     convert dependency sentences in the request body
  POST /v1/constituency   convert bracketed trees in the request body
  GET  /healthz           liveness probe

Results are cached in the local cache directory, or in Redis when --redis is
given so several instances share one cache.`,
		Example: `  treeml serve --addr :9000
  treeml serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.serverRunner(ctx, redisURL, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.serve(ctx, addr, server.New(runner, c.Logger).Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared cache (redis://host:port/db)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serverRunner(ctx context.Context, redisURL string, noCache bool) (*pipeline.Runner, error) {
	if redisURL == "" || noCache {
		return c.newRunner(noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: redisURL})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "url", redactURL(redisURL))
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName), c.Logger), nil
}

// redactURL hides the password of a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func (c *CLI) serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
