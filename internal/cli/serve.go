package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/cache"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
	"github.com/bridgegad/bridgegad/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var rateLimit float64
	var noArchive bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Artifacts are cached in Redis when BRIDGEGAD_REDIS_URL is set. Drawings are
recorded in MongoDB when BRIDGEGAD_MONGO_URI is set and in the local SQLite
history otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.RateLimit = rateLimit
			}
			ctx := cmd.Context()

			var keyer cache.Keyer
			if cfg.CachePrefix != "" {
				keyer = cache.NewScopedKeyer(nil, cfg.CachePrefix)
			}
			runner := pipeline.NewRunner(c.serverCache(ctx), keyer, c.Logger)
			if !noArchive && !c.config.Archive.Disabled {
				runner.Archive = c.serverArchive(ctx)
			}
			defer runner.Close()

			srv := server.New(server.Options{
				Runner:         runner,
				Defaults:       c.config.PipelineOptions(),
				RateLimit:      cfg.RateLimit,
				RateBurst:      cfg.RateBurst,
				MaxUploadBytes: cfg.MaxUploadBytes,
				Logger:         c.Logger,
			})
			printInfo("Serving on %s", styleLink.Render("http://"+displayAddr(cfg.Addr)))
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080 or BRIDGEGAD_ADDR)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "requests per second per client, 0 disables limiting")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not record drawings")

	return cmd
}

// serverCache connects to Redis when configured. Any failure falls back to
// no caching so the API still starts.
func (c *CLI) serverCache(ctx context.Context) cache.Cache {
	url := c.config.Server.RedisURL
	if url == "" {
		return cache.NewNullCache()
	}
	s := newSpinnerWithContext(ctx, "Connecting to Redis...")
	s.Start()
	rc, err := cache.NewRedisCache(ctx, url, cache.WithRedisPrefix(appName+":"))
	if err != nil {
		s.StopWithError("Redis unavailable, caching disabled")
		c.Logger.Warn("redis", "err", err)
		return cache.NewNullCache()
	}
	s.StopWithSuccess("Connected to Redis")
	return rc
}

// serverArchive opens MongoDB when configured and the SQLite history
// otherwise. It returns nil when neither can be opened.
func (c *CLI) serverArchive(ctx context.Context) archive.Store {
	if uri := c.config.Server.MongoURI; uri != "" {
		s := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		s.Start()
		store, err := archive.OpenMongo(ctx, archive.MongoConfig{
			URI:      uri,
			Database: c.config.Server.MongoDatabase,
		})
		if err == nil {
			s.StopWithSuccess("Connected to MongoDB")
			return store
		}
		s.StopWithError("MongoDB unavailable, using local history")
		c.Logger.Warn("mongodb", "err", err)
	}
	store, err := c.openHistory()
	if err != nil {
		c.Logger.Warn("drawing history disabled", "err", err)
		return nil
	}
	return store
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
