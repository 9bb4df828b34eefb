package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/config"
	"github.com/ark9164-create/torscrape/internal/domain"
)

// TaskSubmitter enqueues scrape tasks for the worker pool.
type TaskSubmitter interface {
	Submit(task domain.ScrapeTask)
}

// RunStore exposes the persisted run and slot queries the API serves.
type RunStore interface {
	Ping(ctx context.Context) error
	GetRunStatus(ctx context.Context, date string) (*domain.ScrapeStatusResponse, error)
	GetSlots(ctx context.Context, date string) ([]domain.PriceSlot, error)
}

// Pinger covers the cache health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	scraper    TaskSubmitter
	store      RunStore
	cache      Pinger
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, scraper TaskSubmitter, store RunStore, cache Pinger, l *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		scraper: scraper,
		store:   store,
		cache:   cache,
		logger:  l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
