package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vankampen/internal/server"
)

// serveCommand creates the serve command, which runs the JSON HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		timeout  time.Duration
		maxBody  int64
		noCache  bool
		cacheURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		Long: `Serve the diagram pipeline over HTTP.

  GET  /healthz
  POST /api/v1/diagrams          {"presentation": "...", "formats": ["dot"]}
  POST /api/v1/diagrams/render   same body, ?format=svg or ?format=png

Set ` + redisURLEnv + ` or --cache-url to share built diagrams between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, cacheURL)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, loggerFromContext(ctx), server.Config{
				Addr:           addr,
				MaxBodyBytes:   maxBody,
				RequestTimeout: timeout,
			})
			err = srv.ListenAndServe(ctx)
			if errors.Is(err, context.Canceled) {
				printInfo("Server stopped")
				return nil
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	fl.DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request generation timeout")
	fl.Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	fl.BoolVar(&noCache, "no-cache", false, "disable the diagram cache")
	fl.StringVar(&cacheURL, "cache-url", os.Getenv(redisURLEnv), "Redis URL for a shared cache")
	return cmd
}
