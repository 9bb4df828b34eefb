package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/browser"
	"github.com/ark9164-create/torscrape/internal/domain"
	"github.com/ark9164-create/torscrape/internal/extract"
)

// PageCapturer is the browser dependency of a Runner.
type PageCapturer interface {
	CapturePage(ctx context.Context, url string) (*browser.PageCapture, error)
}

// Runner performs a single scrape of the booking widget for one date.
type Runner struct {
	session   PageCapturer
	targetURL string
	logger    *zap.Logger
}

func NewRunner(session PageCapturer, targetURL string, logger *zap.Logger) *Runner {
	return &Runner{
		session:   session,
		targetURL: targetURL,
		logger:    logger,
	}
}

// Run captures the page once and merges both extraction paths: intercepted
// network JSON first, then the rendered DOM. The merged set is deduplicated
// by (time, price) and sorted. Zero matches is a warning, not an error.
func (r *Runner) Run(ctx context.Context, date string) ([]domain.PriceSlot, error) {
	capture, err := r.session.CapturePage(ctx, r.targetURL)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", date, err)
	}

	var slots []domain.PriceSlot
	for _, resp := range capture.Responses {
		found := extract.FromJSON(resp.Body, date)
		if len(found) > 0 {
			r.logger.Debug("extracted slots from network response",
				zap.String("url", resp.URL), zap.Int("count", len(found)))
		}
		slots = append(slots, found...)
	}

	if capture.HTML != "" {
		domSlots, err := extract.FromHTML(capture.HTML, date)
		if err != nil {
			r.logger.Warn("dom extraction failed", zap.Error(err))
		} else {
			slots = append(slots, domSlots...)
		}
	}

	slots = extract.Dedupe(slots)
	if len(slots) == 0 {
		r.logger.Warn("no timeslots matched", zap.String("date", date))
	}
	return slots, nil
}
