// Package server exposes the solvers over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/gin-gonic/gin"
	"github.com/zeu5/mdp-dp/config"
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/logging"
	"github.com/zeu5/mdp-dp/store"
)

// RunStore persists solve results. *store.Store implements it.
type RunStore interface {
	Save(ctx context.Context, model string, res *dp.Result) (string, error)
	Load(ctx context.Context, id string) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

var _ RunStore = &store.Store{}

type Server struct {
	Port int

	ctx      context.Context
	server   *http.Server
	router   *gin.Engine
	runs     RunStore
	defaults config.RunConfig
	logger   *bolt.Logger
}

type Option func(*Server)

// WithStore enables saving solves and the /runs endpoints.
func WithStore(runs RunStore) Option {
	return func(s *Server) {
		s.runs = runs
	}
}

func WithLogger(logger *bolt.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaults sets the run settings used where a request leaves them out.
func WithDefaults(c config.RunConfig) Option {
	return func(s *Server) {
		s.defaults = c
	}
}

func New(ctx context.Context, port int, opts ...Option) *Server {
	s := &Server{
		Port:     port,
		ctx:      ctx,
		defaults: config.DefaultRunConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Get()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	r.GET("/healthz", s.handleHealth)
	r.GET("/models", s.handleModels)
	r.POST("/solve", s.handleSolve)
	r.POST("/compare", s.handleCompare)
	r.GET("/runs", s.handleListRuns)
	r.GET("/runs/:id", s.handleGetRun)
	s.router = r

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logging.NewEvent(s.logger.Info()).Add(logging.Component("server"), logging.Str("addr", s.server.Addr)).Msg("listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	logging.NewEvent(s.logger.Info()).Add(
		logging.Component("server"),
		logging.Str("method", c.Request.Method),
		logging.Str("path", c.FullPath()),
		func(e *bolt.Event) *bolt.Event { return e.Int("status", c.Writer.Status()) },
		logging.Duration(time.Since(start)),
	).Msg("request")
}
