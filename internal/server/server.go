// Package server assembles the HTTP process: it builds the module
// context, loads every registered module, mounts their manifests and
// runs gin with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kickoffhub/kickoffhub/internal/api"
	"github.com/kickoffhub/kickoffhub/internal/apierrors"
	"github.com/kickoffhub/kickoffhub/internal/auth"
	"github.com/kickoffhub/kickoffhub/internal/cache"
	"github.com/kickoffhub/kickoffhub/internal/config"
	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/middleware"
	"github.com/kickoffhub/kickoffhub/internal/module"
	"github.com/kickoffhub/kickoffhub/internal/queue"
)

// Server is the assembled HTTP process.
type Server struct {
	cfg       *config.Config
	logger    *log.Logger
	engine    *gin.Engine
	manifests []*module.Manifest
	runner    *TaskRunner
	http      *http.Server
}

// New builds the server: DB, optional Redis, container, modules, routes.
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	redisCache, err := cache.New(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	container := module.NewContainer()
	container.Set(module.KeyLogger, logger)
	container.Set(module.KeyDB, db)
	if redisCache.Enabled() {
		container.Set(module.KeyCache, redisCache)
		broker := queue.NewRedisBroker(redisCache.Client(), cfg.Queue.Name)
		container.Set(module.KeyQueue, queue.NewQueue(broker, logger))
	} else {
		logger.Printf("server: redis not configured, caching and background imports disabled")
	}

	moduleCtx := &module.Context{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Cache:     redisCache,
		JWT:       jwtManager,
		Container: container,
	}

	settings, err := module.LoadSettings(cfg.App.Modules)
	if err != nil {
		return nil, err
	}
	manifests := module.Default.Load(moduleCtx, settings)
	for _, m := range manifests {
		logger.Printf("server: module %s mounted at %s (%d tasks)", m.Name, m.BasePath, len(m.Tasks))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLog(logger))

	mountRoutes(engine, manifests, jwtManager, cfg.RateLimit.RequestsPerHour)

	metrics := database.NewPoolMetrics()
	go metrics.Watch(context.Background(), db.DB, 15*time.Second)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			apierrors.Error(c, apierrors.CodeServiceUnavailable)
			return
		}
		api.SendSuccess(c, gin.H{"status": "ok"})
	})

	return &Server{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		manifests: manifests,
		runner:    NewTaskRunner(logger),
		http: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:      engine,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
	}, nil
}

// mountRoutes attaches every manifest under /api/v1. Routes and
// PublicRoutes share the open group; PrivateRoutes go behind JWT.
func mountRoutes(engine *gin.Engine, manifests []*module.Manifest, jwtManager *auth.JWTManager, requestsPerHour int) {
	root := engine.Group("/api/v1", middleware.RateLimitByIP(requestsPerHour))

	for _, m := range manifests {
		open := root.Group(m.BasePath)
		if m.Routes != nil {
			m.Routes(open)
		}
		if m.PublicRoutes != nil {
			m.PublicRoutes(open)
		}
		if m.PrivateRoutes != nil {
			private := root.Group(m.BasePath, middleware.RequireAuth(jwtManager))
			m.PrivateRoutes(private)
		}
	}
}

// Run serves HTTP until ctx is cancelled, then drains connections within
// the configured shutdown timeout. Module tasks start alongside the
// listener and stop with it.
func (s *Server) Run(ctx context.Context) error {
	for _, m := range s.manifests {
		if err := s.runner.Add(ctx, m.Name, m.Tasks); err != nil {
			return err
		}
	}
	s.runner.Start()
	defer s.runner.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server: listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Printf("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func requestLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Printf("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
