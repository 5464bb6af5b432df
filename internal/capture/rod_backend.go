package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// RodBackend drives a pool of headless Chromium instances through go-rod.
type RodBackend struct {
	config      config.CaptureConfig
	logger      zerolog.Logger
	browserPool chan *rod.Browser
	launcher    *launcher.Launcher
	mutex       sync.Mutex
	isRunning   bool
}

// NewRodBackend creates a new rod-based capture backend
func NewRodBackend(cfg config.CaptureConfig, logger zerolog.Logger) *RodBackend {
	return &RodBackend{
		config:      cfg,
		logger:      logger.With().Str("component", "RodBackend").Logger(),
		browserPool: make(chan *rod.Browser, cfg.PoolSize),
		isRunning:   false,
	}
}

// Start launches the browser and fills the pool
func (rb *RodBackend) Start() error {
	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	if rb.isRunning {
		return nil
	}

	// Setup launcher
	launcher := launcher.New()

	if rb.config.ChromePath != "" {
		launcher = launcher.Bin(rb.config.ChromePath)
	}

	if rb.config.UserDataDir != "" {
		launcher = launcher.UserDataDir(rb.config.UserDataDir)
	}

	// Apply browser arguments
	launcher = launcher.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	// Launch browser
	launcherURL, err := launcher.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	rb.launcher = launcher

	// Create browser pool
	for i := 0; i < rb.config.PoolSize; i++ {
		browser := rod.New().ControlURL(launcherURL)
		if err := browser.Connect(); err != nil {
			rb.logger.Error().Err(err).Int("browser_index", i).Msg("Failed to connect browser")
			continue
		}

		rb.browserPool <- browser
		rb.logger.Debug().Int("browser_index", i).Msg("Browser instance created and added to pool")
	}

	rb.isRunning = true
	rb.logger.Info().Int("pool_size", rb.config.PoolSize).Msg("Rod backend started")
	return nil
}

// Cleanup closes all browser instances and the launcher. Safe to call on all
// exit paths, including after failed captures.
func (rb *RodBackend) Cleanup() {
	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	if !rb.isRunning {
		return
	}

	// Close all browsers in pool
	close(rb.browserPool)
	for browser := range rb.browserPool {
		if browser != nil {
			_ = browser.Close()
		}
	}

	// Close launcher
	if rb.launcher != nil {
		rb.launcher.Cleanup()
	}

	rb.isRunning = false
	rb.logger.Info().Msg("Rod backend stopped")
}

// getBrowser gets a browser from the pool
func (rb *RodBackend) getBrowser() (*rod.Browser, error) {
	rb.mutex.Lock()
	running := rb.isRunning
	rb.mutex.Unlock()

	if !running {
		return nil, fmt.Errorf("rod backend not running")
	}

	select {
	case browser, ok := <-rb.browserPool:
		if !ok {
			return nil, fmt.Errorf("rod backend not running")
		}
		return browser, nil
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("timeout waiting for browser from pool")
	}
}

// returnBrowser returns a browser to the pool. The mutex serializes it with
// Cleanup: a browser returned after shutdown is closed instead of being sent
// on the closed pool channel.
func (rb *RodBackend) returnBrowser(browser *rod.Browser) {
	if browser == nil {
		return
	}

	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	if !rb.isRunning {
		_ = browser.Close()
		return
	}

	select {
	case rb.browserPool <- browser:
		// Successfully returned to pool
	default:
		// Pool is full, close the browser
		_ = browser.Close()
	}
}

// Render navigates to a URL and captures the page as a PNG payload
func (rb *RodBackend) Render(ctx context.Context, url string, viewport models.Viewport, browserEngine string) ([]byte, error) {
	browser, err := rb.getBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to get browser: %w", err)
	}
	defer rb.returnBrowser(browser)

	// Create page with timeout
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(rb.config.PageLoadTimeoutSecs)*time.Second)
	defer cancel()

	page, err := browser.Context(timeoutCtx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	// Set viewport
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: viewport.DeviceScaleFactor,
		Mobile:            viewport.IsMobile,
	}); err != nil {
		rb.logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	// Set user agent if configured
	if rb.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: rb.config.UserAgent,
		}); err != nil {
			rb.logger.Warn().Err(err).Msg("Failed to set user agent")
		}
	}

	// Navigate to URL
	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	// Wait for page load
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load timeout for %s: %w", url, err)
	}

	// Additional wait after load if configured
	if rb.config.WaitAfterLoadMs > 0 {
		time.Sleep(time.Duration(rb.config.WaitAfterLoadMs) * time.Millisecond)
	}

	// Capture viewport as PNG
	payload, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot for %s: %w", url, err)
	}

	return payload, nil
}
