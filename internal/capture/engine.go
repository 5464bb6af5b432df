package capture

import (
	"context"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/imageutil"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine orchestrates screenshot captures against an external rendering
// backend. Each Capture call is independent; the engine holds no per-request
// state, so callers may fan out with unbounded concurrency.
type Engine struct {
	backend Backend
	config  config.CaptureConfig
	logger  zerolog.Logger

	retryMu sync.RWMutex
	retry   config.RetryConfig
}

// Capture validates the request, renders the page through the backend with
// retries, and produces an immutable Screenshot record. Backend failures are
// reported as a terminal *errorwrapper.CaptureError after the retry budget is
// exhausted; the engine never panics across this boundary.
func (e *Engine) Capture(ctx context.Context, request models.CaptureRequest) (*models.Screenshot, error) {
	if err := e.validateRequest(request); err != nil {
		return nil, err
	}

	viewport := e.resolveViewport(request)
	browserEngine := e.resolveBrowserEngine(request)
	retry := e.retrySnapshot()

	payload, attempts, err := e.renderWithRetry(ctx, request.URL, viewport, browserEngine, retry)
	if err != nil {
		return nil, errorwrapper.NewCaptureError(request.URL, attempts, err)
	}

	screenshot, err := e.buildScreenshot(request, viewport, browserEngine, payload)
	if err != nil {
		return nil, errorwrapper.NewCaptureError(request.URL, attempts, err)
	}

	e.logger.Debug().
		Str("screenshot_id", screenshot.ID).
		Str("url", screenshot.URL).
		Int("attempts", attempts).
		Msg("Screenshot captured")

	return screenshot, nil
}

// CaptureAll fans out one goroutine per request and settles all of them.
// Every slot in the returned slice carries either a screenshot or the error
// of its request; one failure never aborts the rest.
func (e *Engine) CaptureAll(ctx context.Context, requests []models.CaptureRequest) []models.CaptureResult {
	results := make([]models.CaptureResult, len(requests))

	var wg sync.WaitGroup
	for i, request := range requests {
		wg.Add(1)
		go func(idx int, req models.CaptureRequest) {
			defer wg.Done()
			screenshot, err := e.Capture(ctx, req)
			results[idx] = models.CaptureResult{
				Request:    req,
				Screenshot: screenshot,
				Err:        err,
			}
		}(i, request)
	}
	wg.Wait()

	return results
}

// ConfigureRetry replaces the retry policy at runtime
func (e *Engine) ConfigureRetry(retry config.RetryConfig) {
	e.retryMu.Lock()
	defer e.retryMu.Unlock()

	if retry.BackoffFactor < 1 {
		retry.BackoffFactor = 1
	}
	e.retry = retry

	e.logger.Debug().
		Int("max_retries", retry.MaxRetries).
		Int("retry_delay_ms", retry.RetryDelayMs).
		Msg("Retry policy updated")
}

// Cleanup releases backend resources
func (e *Engine) Cleanup() {
	e.backend.Cleanup()
}

// renderWithRetry calls the backend up to MaxRetries+1 times with a backoff
// delay between attempts. It returns the payload, the number of attempts made
// and the last error when all attempts failed.
func (e *Engine) renderWithRetry(
	ctx context.Context,
	targetURL string,
	viewport models.Viewport,
	browserEngine string,
	retry config.RetryConfig,
) ([]byte, int, error) {
	maxAttempts := retry.MaxRetries + 1
	delay := retry.RetryDelay()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		payload, err := e.backend.Render(ctx, targetURL, viewport, browserEngine)
		if err == nil {
			return payload, attempt, nil
		}
		lastErr = err

		e.logger.Warn().
			Err(err).
			Str("url", targetURL).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Capture backend failed")

		if attempt == maxAttempts {
			break
		}

		if err := e.waitBeforeRetry(ctx, delay, retry.EnableJitter); err != nil {
			return nil, attempt, err
		}

		if retry.BackoffFactor > 1 {
			delay = time.Duration(float64(delay) * retry.BackoffFactor)
		}
	}

	return nil, maxAttempts, lastErr
}

// waitBeforeRetry sleeps for the given delay, honoring context cancellation
func (e *Engine) waitBeforeRetry(ctx context.Context, delay time.Duration, jitter bool) error {
	if delay <= 0 {
		return ctx.Err()
	}

	if jitter {
		// +-20% randomization to avoid lockstep retries
		factor := 0.8 + 0.4*rand.Float64()
		delay = time.Duration(float64(delay) * factor)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// validateRequest rejects malformed capture requests before the backend is invoked
func (e *Engine) validateRequest(request models.CaptureRequest) error {
	trimmedURL := strings.TrimSpace(request.URL)
	if trimmedURL == "" {
		return errorwrapper.NewValidationError("url", request.URL, "URL cannot be empty")
	}

	parsed, err := url.ParseRequestURI(trimmedURL)
	if err != nil {
		return errorwrapper.NewValidationError("url", request.URL, "URL is not well-formed")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errorwrapper.NewValidationError("url", request.URL, "URL scheme must be http or https")
	}

	if parsed.Host == "" {
		return errorwrapper.NewValidationError("url", request.URL, "URL host cannot be empty")
	}

	if request.Viewport != nil {
		if request.Viewport.Width <= 0 || request.Viewport.Height <= 0 {
			return errorwrapper.NewValidationError("viewport", *request.Viewport, "viewport dimensions must be positive")
		}
	}

	return nil
}

// resolveViewport applies configured defaults when the request carries no viewport
func (e *Engine) resolveViewport(request models.CaptureRequest) models.Viewport {
	if request.Viewport != nil {
		viewport := *request.Viewport
		if viewport.DeviceScaleFactor <= 0 {
			viewport.DeviceScaleFactor = e.config.DefaultDeviceScaleFactor
		}
		return viewport
	}

	return models.Viewport{
		Width:             e.config.DefaultViewportWidth,
		Height:            e.config.DefaultViewportHeight,
		DeviceScaleFactor: e.config.DefaultDeviceScaleFactor,
		IsMobile:          e.config.DefaultViewportIsMobile,
	}
}

// resolveBrowserEngine applies the configured default engine name
func (e *Engine) resolveBrowserEngine(request models.CaptureRequest) string {
	if request.BrowserEngine != "" {
		return request.BrowserEngine
	}
	return e.config.DefaultBrowserEngine
}

// retrySnapshot returns the current retry policy
func (e *Engine) retrySnapshot() config.RetryConfig {
	e.retryMu.RLock()
	defer e.retryMu.RUnlock()
	return e.retry
}

// buildScreenshot decodes the backend payload and assembles the immutable record
func (e *Engine) buildScreenshot(
	request models.CaptureRequest,
	viewport models.Viewport,
	browserEngine string,
	payload []byte,
) (*models.Screenshot, error) {
	img, err := imageutil.DecodePNG(payload)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "backend returned undecodable pixel data")
	}

	metadata, err := buildMetadata(img, viewport, e.config.UserAgent)
	if err != nil {
		return nil, err
	}

	name := request.Name
	if name == "" {
		name = request.URL
	}

	return &models.Screenshot{
		ID:            uuid.NewString(),
		Name:          name,
		URL:           request.URL,
		Viewport:      viewport,
		BrowserEngine: browserEngine,
		Timestamp:     time.Now().UnixMilli(),
		PixelData:     imageutil.RawFromRGBA(img),
		Metadata:      metadata,
		Tags:          request.Tags,
	}, nil
}
