package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/server"
	"github.com/matzehuels/skilltree/pkg/session"
)

// Session and layout cache backends accepted by serve.
const (
	backendMemory = "memory"
	backendFile   = "file"
	backendRedis  = "redis"
	backendMongo  = "mongo"
	backendNone   = "none"
)

type serveFlags struct {
	addr       string
	store      string
	cache      string
	sessionDir string
	redisAddr  string
	redisDB    int
	mongoURI   string
	mongoDB    string
	sessionTTL time.Duration
	maxBody    int64
	keyPrefix  string
}

func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve layouts, renders and interactive viewport sessions over HTTP.

Sessions are kept in memory by default. Use --store file, redis or mongo to
keep them across restarts or share them between instances.`,
		Example: `  skilltree serve
  skilltree serve --addr :9000 --store redis --redis-addr localhost:6379
  skilltree serve --store mongo --mongo-uri mongodb://localhost:27017 --cache none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&f.store, "store", backendMemory, "session store: memory, file, redis, mongo")
	cmd.Flags().StringVar(&f.cache, "cache", backendFile, "layout cache: file, redis, none")
	completeValues(cmd, "store", backendMemory, backendFile, backendRedis, backendMongo)
	completeValues(cmd, "cache", backendFile, backendRedis, backendNone)
	cmd.Flags().StringVar(&f.sessionDir, "session-dir", "", "directory for --store file (default ~/.config/skilltree/sessions)")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "redis address for --store/--cache redis")
	cmd.Flags().IntVar(&f.redisDB, "redis-db", 0, "redis database for sessions")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongo connection URI for --store mongo")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", session.DefaultMongoDatabase, "mongo database for --store mongo")
	cmd.Flags().DurationVar(&f.sessionTTL, "session-ttl", session.DefaultTTL, "idle time before a session expires")
	cmd.Flags().StringVar(&f.keyPrefix, "key-prefix", "", "prefix for layout cache keys when instances share a cache")
	cmd.Flags().Int64Var(&f.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	logger := loggerFromContext(ctx)

	defaults, err := c.baseOptions()
	if err != nil {
		return err
	}
	defaults.Popups = false

	store, err := newSessionStore(ctx, f)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, session.WithTTL(f.sessionTTL), session.WithLogger(logger))
	defer sessions.Close()

	layoutCache, err := newServeCache(ctx, f)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if f.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, f.keyPrefix)
	}
	runner := pipeline.NewRunner(layoutCache, keyer, logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.NewPrometheus(reg).Install()
	defer observability.Reset()

	srv := server.New(runner, sessions,
		server.WithLogger(logger),
		server.WithDefaults(defaults),
		server.WithGatherer(reg),
		server.WithMaxBodyBytes(f.maxBody),
	)

	printInfo("%s serving on %s", StyleTitle.Render(appName), StyleValue.Render(f.addr))
	printKeyValue("sessions", store.Name())
	printKeyValue("cache", f.cache)
	printKeyValue("metrics", "/metrics")
	return srv.ListenAndServe(ctx, f.addr)
}

func newSessionStore(ctx context.Context, f serveFlags) (session.Store, error) {
	var (
		store session.Store
		err   error
	)
	switch f.store {
	case backendMemory:
		return session.NewMemoryStore(), nil
	case backendFile:
		store, err = session.NewFileStore(f.sessionDir)
	case backendRedis:
		store, err = session.NewRedisStore(ctx, session.RedisConfig{Addr: f.redisAddr, DB: f.redisDB})
	case backendMongo:
		store, err = session.NewMongoStore(ctx, session.MongoConfig{URI: f.mongoURI, Database: f.mongoDB})
	default:
		return nil, fmt.Errorf("unknown session store %q (want memory, file, redis or mongo)", f.store)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newServeCache(ctx context.Context, f serveFlags) (cache.Cache, error) {
	switch f.cache {
	case backendFile:
		return newCache(false)
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, f.redisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case backendNone:
		return cache.NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache %q (want file, redis or none)", f.cache)
}
