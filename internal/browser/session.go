package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/123.0.0.0 Safari/537.36"

// URL fragments that mark a response as coming from the booking backend.
var responseKeywords = []string{"availability", "timeslot", "ticket", "calendar", "book"}

// XPath probes for opening the ticket widget when the page hides it behind
// a call-to-action.
var ctaSelectors = []string{
	`//button[contains(., "Buy Tickets")]`,
	`//a[contains(., "Buy Tickets")]`,
	`//button[contains(., "Check availability")]`,
	`//button[contains(., "Select Date")]`,
	`//button[contains(., "Buy")]`,
	`//a[contains(., "Buy")]`,
}

// CapturedResponse is one intercepted JSON body from the booking backend.
type CapturedResponse struct {
	URL  string
	Body []byte
}

// PageCapture is everything one navigation produced: the rendered document
// and any booking API responses observed along the way.
type PageCapture struct {
	HTML      string
	Responses []CapturedResponse
}

// Session manages headless browser instances for scraping runs.
type Session struct {
	allocPool sync.Pool
	timeout   time.Duration
	settle    time.Duration
	logger    *zap.Logger
}

// NewSession prepares a pool of exec allocators. Contexts are created lazily;
// no browser process starts until the first capture.
func NewSession(headless bool, timeout, settle time.Duration, logger *zap.Logger) *Session {
	s := &Session{
		timeout: timeout,
		settle:  settle,
		logger:  logger,
	}
	s.allocPool.New = func() interface{} {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(1440, 1000),
		)
		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		return allocCtx
	}
	return s
}

// CapturePage navigates to url and returns the rendered HTML plus every
// intercepted booking API response. Navigation errors are downgraded to
// warnings: anti-bot interstitials often break the load event while the
// widget's XHR traffic still goes through, so whatever was captured is
// returned for best-effort extraction.
func (s *Session) CapturePage(ctx context.Context, url string) (*PageCapture, error) {
	allocCtx := s.allocPool.Get().(context.Context)
	defer s.allocPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	taskCtx, cancel = context.WithTimeout(taskCtx, s.timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		pending   = make(map[network.RequestID]string)
		responses []CapturedResponse
		fetchWG   sync.WaitGroup
	)

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			if !strings.Contains(strings.ToLower(e.Response.MimeType), "json") {
				return
			}
			if !bookingEndpoint(e.Response.URL) {
				return
			}
			mu.Lock()
			pending[e.RequestID] = e.Response.URL
			mu.Unlock()
		case *network.EventLoadingFinished:
			mu.Lock()
			respURL, ok := pending[e.RequestID]
			delete(pending, e.RequestID)
			mu.Unlock()
			if !ok {
				return
			}
			reqID := e.RequestID
			fetchWG.Add(1)
			// Body fetches must not run on the event loop goroutine.
			go func() {
				defer fetchWG.Done()
				var body []byte
				err := chromedp.Run(taskCtx, chromedp.ActionFunc(func(c context.Context) error {
					var err error
					body, err = network.GetResponseBody(reqID).Do(c)
					return err
				}))
				if err != nil {
					s.logger.Debug("response body unavailable",
						zap.String("url", respURL), zap.Error(err))
					return
				}
				mu.Lock()
				responses = append(responses, CapturedResponse{URL: respURL, Body: body})
				mu.Unlock()
			}()
		}
	})

	navErr := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
	)
	if navErr != nil {
		s.logger.Warn("navigation did not complete", zap.String("url", url), zap.Error(navErr))
	}

	// Let Cloudflare checks and the widget's async calls settle.
	if err := chromedp.Run(taskCtx, chromedp.Sleep(s.settle)); err != nil {
		s.logger.Warn("settle wait interrupted", zap.Error(err))
	}

	s.clickBookingCTA(taskCtx)

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html)); err != nil {
		s.logger.Warn("could not snapshot rendered page", zap.Error(err))
	}

	fetchWG.Wait()

	mu.Lock()
	defer mu.Unlock()
	if navErr != nil && html == "" && len(responses) == 0 {
		return nil, fmt.Errorf("capture %s: %w", url, navErr)
	}
	return &PageCapture{HTML: html, Responses: responses}, nil
}

// clickBookingCTA tries each call-to-action probe until one click lands.
// Misses are expected; the widget is often already open.
func (s *Session) clickBookingCTA(ctx context.Context) {
	for _, sel := range ctaSelectors {
		clickCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := chromedp.Run(clickCtx,
			chromedp.Click(sel, chromedp.BySearch),
			chromedp.Sleep(2*time.Second),
		)
		cancel()
		if err == nil {
			return
		}
	}
}

func bookingEndpoint(url string) bool {
	lower := strings.ToLower(url)
	for _, kw := range responseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
