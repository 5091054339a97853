package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/archonhq/archon/internal/api"
	"github.com/archonhq/archon/pkg/cache"
)

// serveCommand creates the serve command exposing the layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Models are stored in MongoDB when --mongo-uri (or server.mongo_uri in
archon.toml) is set, in process memory otherwise. In-memory storage
loses everything on restart and is meant for local experimentation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, mongoURI, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", c.Config.Server.MongoURI, "MongoDB connection URI (empty: in-memory)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", c.Config.Server.RedisAddr, "Redis address for a shared layout cache (empty: local cache)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the persistent layout cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI, redisAddr string, noCache bool) error {
	var store api.ModelStore
	if mongoURI != "" {
		mongoStore, err := api.NewMongoModelStore(ctx, api.MongoConfig{
			URI:      mongoURI,
			Database: c.Config.Server.MongoDB,
		})
		if err != nil {
			return fmt.Errorf("connect model store: %w", err)
		}
		store = mongoStore
		c.Logger.Info("using MongoDB model storage")
	} else {
		store = api.NewMemoryModelStore()
		c.Logger.Warn("using in-memory model storage, data is lost on restart")
	}
	defer store.Close(context.Background())

	layoutCache := c.newLayoutCache(noCache)
	if redisAddr != "" && !noCache {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect layout cache: %w", err)
		}
		layoutCache = redisCache
		c.Logger.Info("using Redis layout cache", "addr", redisAddr)
	}
	defer layoutCache.Close()

	server := api.NewServer(store, c.Provider,
		api.WithCache(layoutCache, cache.NewDefaultKeyer()),
		api.WithLogger(c.Logger))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
