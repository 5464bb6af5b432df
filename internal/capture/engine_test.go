package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/imageutil"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend counts invocations and either fails or returns a fixed PNG.
type stubBackend struct {
	calls    atomic.Int64
	failures int64 // fail this many leading calls; -1 means always fail
	payload  []byte
}

func (sb *stubBackend) Render(ctx context.Context, url string, viewport models.Viewport, browserEngine string) ([]byte, error) {
	call := sb.calls.Add(1)
	if sb.failures < 0 || call <= sb.failures {
		return nil, errors.New("render failed")
	}
	return sb.payload, nil
}

func (sb *stubBackend) Cleanup() {}

func solidPNG(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	payload, err := imageutil.EncodePNG(img)
	require.NoError(t, err)
	return payload
}

func newTestEngine(t *testing.T, backend Backend, retry config.RetryConfig) *Engine {
	t.Helper()

	cfg := config.NewDefaultCaptureConfig()
	retry.RetryDelayMs = 0 // keep tests fast
	retry.EnableJitter = false
	cfg.RetryConfig = retry

	engine, err := NewEngineBuilder(zerolog.Nop()).
		WithBackend(backend).
		WithConfig(cfg).
		Build()
	require.NoError(t, err)
	return engine
}

func TestCapture_Success(t *testing.T) {
	backend := &stubBackend{payload: solidPNG(t, 16, 10, color.RGBA{R: 255, A: 255})}
	engine := newTestEngine(t, backend, config.NewDefaultRetryConfig())

	screenshot, err := engine.Capture(context.Background(), models.CaptureRequest{
		URL:  "https://example.com",
		Name: "home",
		Tags: []string{"smoke"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, screenshot.ID)
	assert.Equal(t, "home", screenshot.Name)
	assert.Equal(t, "https://example.com", screenshot.URL)
	assert.Equal(t, config.DefaultCaptureBrowserEngine, screenshot.BrowserEngine)
	assert.Greater(t, screenshot.Timestamp, int64(0))

	// Pixel buffer dimensions always equal metadata dimensions
	assert.Equal(t, models.Dimensions{Width: 16, Height: 10}, screenshot.Metadata.Dimensions)
	assert.Equal(t, 4*16*10, len(screenshot.PixelData))
	assert.Equal(t, int64(len(screenshot.PixelData)), screenshot.Metadata.FileSize)
	assert.NotEmpty(t, screenshot.Metadata.Hash)
	assert.Equal(t, int64(1), backend.calls.Load())
}

func TestCapture_InvalidURLSkipsBackend(t *testing.T) {
	backend := &stubBackend{payload: solidPNG(t, 4, 4, color.RGBA{A: 255})}
	engine := newTestEngine(t, backend, config.NewDefaultRetryConfig())

	cases := []string{"", "   ", "not-a-url", "ftp://example.com", "https://"}
	for _, rawURL := range cases {
		_, err := engine.Capture(context.Background(), models.CaptureRequest{URL: rawURL})
		require.Error(t, err, "url %q", rawURL)

		var validationErr *errorwrapper.ValidationError
		assert.ErrorAs(t, err, &validationErr, "url %q", rawURL)
	}

	assert.Equal(t, int64(0), backend.calls.Load(), "invalid input must never reach the backend")
}

func TestCapture_RetryBound_ZeroRetries(t *testing.T) {
	backend := &stubBackend{failures: -1}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 0})

	_, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.Error(t, err)

	var captureErr *errorwrapper.CaptureError
	require.ErrorAs(t, err, &captureErr)
	assert.Equal(t, 1, captureErr.Attempts)
	assert.Equal(t, int64(1), backend.calls.Load(), "maxRetries=0 means exactly one attempt")
}

func TestCapture_RetryBound_KRetries(t *testing.T) {
	backend := &stubBackend{failures: -1}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 3})

	_, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, int64(4), backend.calls.Load(), "maxRetries=k means at most k+1 attempts")
}

func TestCapture_RecoversWithinRetryBudget(t *testing.T) {
	backend := &stubBackend{failures: 2, payload: solidPNG(t, 4, 4, color.RGBA{G: 255, A: 255})}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 3})

	screenshot, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.NoError(t, err)
	assert.NotNil(t, screenshot)
	assert.Equal(t, int64(3), backend.calls.Load())
}

func TestConfigureRetry_AppliesAtRuntime(t *testing.T) {
	backend := &stubBackend{failures: -1}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 5})

	engine.ConfigureRetry(config.RetryConfig{MaxRetries: 1})

	_, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, int64(2), backend.calls.Load())
}

func TestCapture_CorruptBackendPayload(t *testing.T) {
	backend := &stubBackend{payload: []byte("not a png at all")}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 0})

	_, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.Error(t, err)

	var captureErr *errorwrapper.CaptureError
	assert.ErrorAs(t, err, &captureErr)
}

func TestCaptureAll_SettlesEveryRequest(t *testing.T) {
	backend := &stubBackend{payload: solidPNG(t, 8, 8, color.RGBA{B: 255, A: 255})}
	engine := newTestEngine(t, backend, config.RetryConfig{MaxRetries: 0})

	requests := []models.CaptureRequest{
		{URL: "https://example.com/a"},
		{URL: "not-a-url"},
		{URL: "https://example.com/b"},
	}

	results := engine.CaptureAll(context.Background(), requests)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Screenshot)
	assert.Error(t, results[1].Err, "one failing item must not abort the rest")
	assert.Nil(t, results[1].Screenshot)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, requests[1].URL, results[1].Request.URL)
}

func TestCapture_ViewportDefaultsApplied(t *testing.T) {
	backend := &stubBackend{payload: solidPNG(t, 4, 4, color.RGBA{A: 255})}
	engine := newTestEngine(t, backend, config.NewDefaultRetryConfig())

	screenshot, err := engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCaptureViewportWidth, screenshot.Viewport.Width)
	assert.Equal(t, config.DefaultCaptureViewportHeight, screenshot.Viewport.Height)

	custom := &models.Viewport{Width: 320, Height: 480, IsMobile: true}
	screenshot, err = engine.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com", Viewport: custom})
	require.NoError(t, err)
	assert.Equal(t, 320, screenshot.Viewport.Width)
	assert.True(t, screenshot.Viewport.IsMobile)
	assert.InDelta(t, config.DefaultCaptureDeviceScaleFactor, screenshot.Viewport.DeviceScaleFactor, 1e-9)

	_, err = engine.Capture(context.Background(), models.CaptureRequest{
		URL:      "https://example.com",
		Viewport: &models.Viewport{Width: -1, Height: 10},
	})
	assert.Error(t, err)
}
