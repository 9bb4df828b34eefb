package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/config"
	"github.com/ark9164-create/torscrape/internal/domain"
	"github.com/ark9164-create/torscrape/internal/monitoring"
)

// SlotRunner performs one scrape of the widget for a date.
type SlotRunner interface {
	Run(ctx context.Context, date string) ([]domain.PriceSlot, error)
}

// RunStore persists run records and their slots.
type RunStore interface {
	SaveRun(ctx context.Context, run *domain.ScrapeRun) error
	SaveSlots(ctx context.Context, runID uuid.UUID, date string, slots []domain.PriceSlot) error
}

// ScrapeCache tracks recently scraped dates and retry counters.
type ScrapeCache interface {
	IsRecentlyScraped(ctx context.Context, date string) (bool, error)
	MarkScraped(ctx context.Context, date string, ttl time.Duration) error
	IncrementRetryCount(ctx context.Context, date string) (int64, error)
}

// Service manages the worker pool for scheduled and API-submitted scrapes.
type Service struct {
	config    *config.Config
	runner    SlotRunner
	cache     ScrapeCache
	store     RunStore
	metrics   *monitoring.Metrics
	logger    *zap.Logger
	taskQueue chan domain.ScrapeTask
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

func NewService(cfg *config.Config, runner SlotRunner, cache ScrapeCache, store RunStore, m *monitoring.Metrics, l *zap.Logger) *Service {
	return &Service{
		config:    cfg,
		runner:    runner,
		cache:     cache,
		store:     store,
		metrics:   m,
		logger:    l,
		taskQueue: make(chan domain.ScrapeTask, cfg.ScrapeWorkers*2),
		stopChan:  make(chan struct{}),
	}
}

func (s *Service) Start() {
	for i := 0; i < s.config.ScrapeWorkers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop signals workers via stopChan and waits for them. taskQueue is left
// open: workers re-queue failed dates for retry, and a send racing the close
// would panic.
func (s *Service) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Service) Submit(task domain.ScrapeTask) {
	select {
	case s.taskQueue <- task:
	case <-s.stopChan:
		s.logger.Warn("shutting down, rejecting task", zap.String("date", task.Date))
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case task := <-s.taskQueue:
			s.processDate(task)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) processDate(task domain.ScrapeTask) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.ScrapeTimeout+10)*time.Second)
	defer cancel()

	if !task.Force {
		isScraped, err := s.cache.IsRecentlyScraped(ctx, task.Date)
		if err != nil {
			s.logger.Error("failed to check redis for scraped status", zap.String("date", task.Date), zap.Error(err))
		}
		if isScraped {
			s.logger.Info("skipping recently scraped date", zap.String("date", task.Date))
			return
		}
	}

	processing := &domain.ScrapeRun{ID: uuid.New(), Date: task.Date, Status: "processing", ScrapedAt: time.Now()}
	if err := s.store.SaveRun(ctx, processing); err != nil {
		s.logger.Error("failed to mark date as processing", zap.String("date", task.Date), zap.Error(err))
	}

	started := time.Now()
	slots, err := s.runner.Run(ctx, task.Date)
	s.metrics.ObserveRunDuration(time.Since(started))

	if err != nil {
		s.handleFailure(ctx, task.Date, err)
		return
	}

	s.metrics.IncRunsTotal("success")

	// SaveRun rewrote processing.ID to the persisted row id if the date
	// had an earlier run, so slots reference the right row.
	run := &domain.ScrapeRun{
		ID:        processing.ID,
		Date:      task.Date,
		Status:    "completed",
		ScrapedAt: time.Now(),
	}
	for _, slot := range slots {
		switch slot.Source {
		case domain.SourceNetworkJSON:
			run.NetworkSlots++
		case domain.SourceDOM:
			run.DOMSlots++
		}
		s.metrics.IncSlotsExtracted(slot.Source)
	}

	if err := s.store.SaveRun(ctx, run); err != nil {
		s.logger.Error("error saving run", zap.String("date", task.Date), zap.Error(err))
		s.metrics.IncErrorsTotal("db_save_failed")
		return
	}
	if err := s.store.SaveSlots(ctx, run.ID, task.Date, slots); err != nil {
		s.logger.Error("error saving slots", zap.String("date", task.Date), zap.Error(err))
		s.metrics.IncErrorsTotal("db_save_failed")
		return
	}

	s.logger.Info("successfully scraped and saved",
		zap.String("date", task.Date), zap.Int("slots", len(slots)))
	ttl := time.Duration(s.config.DeduplicationHours) * time.Hour
	if err := s.cache.MarkScraped(ctx, task.Date, ttl); err != nil {
		s.logger.Warn("failed to mark date as scraped", zap.String("date", task.Date), zap.Error(err))
	}
}

func (s *Service) handleFailure(ctx context.Context, date string, runErr error) {
	s.logger.Warn("failed to scrape", zap.String("date", date), zap.Error(runErr))
	s.metrics.IncRunsTotal("failure")
	s.metrics.IncErrorsTotal("scrape_failed")

	retryCount, err := s.cache.IncrementRetryCount(ctx, date)
	if err != nil {
		s.logger.Error("failed to increment retry count", zap.String("date", date), zap.Error(err))
		return
	}

	if retryCount >= int64(s.config.MaxRetries) {
		s.logger.Error("max retries reached, marking as failed", zap.String("date", date))
		failed := &domain.ScrapeRun{
			ID:         uuid.New(),
			Date:       date,
			Status:     "failed",
			FailReason: runErr.Error(),
			ScrapedAt:  time.Now(),
		}
		if err := s.store.SaveRun(ctx, failed); err != nil {
			s.logger.Error("failed to mark date as failed in db", zap.String("date", date), zap.Error(err))
		}
		return
	}

	s.logger.Info("date will be retried", zap.String("date", date), zap.Int64("attempt", retryCount))
	select {
	case <-s.stopChan:
		s.logger.Warn("shutting down, dropping retry", zap.String("date", date))
	case s.taskQueue <- domain.ScrapeTask{Date: date, Force: true}:
	default:
		s.logger.Warn("task queue full, dropping retry", zap.String("date", date))
	}
}
